package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the service's Prometheus instruments
type Recorder struct {
	registry *prometheus.Registry

	pollCycles       *prometheus.CounterVec
	pollErrors       *prometheus.CounterVec
	pollDuration     *prometheus.HistogramVec
	fallbackServings *prometheus.CounterVec
	providerAttempts *prometheus.CounterVec
	providerErrors   *prometheus.CounterVec
	liveGames        *prometheus.GaugeVec
	wsClients        prometheus.Gauge
	goldmineProps    prometheus.Gauge
	picksGenerated   prometheus.Counter
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		pollCycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "poller_cycles_total",
			Help: "Completed live-poll cycles per sport.",
		}, []string{"sport"}),
		pollErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "poller_errors_total",
			Help: "Failed live-poll cycles per sport.",
		}, []string{"sport"}),
		pollDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poller_cycle_duration_seconds",
			Help:    "Live-poll cycle duration per sport.",
			Buckets: prometheus.DefBuckets,
		}, []string{"sport"}),
		fallbackServings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fallback_servings_total",
			Help: "Times canned fallback data was served instead of live data.",
		}, []string{"sport"}),
		providerAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_attempts_total",
			Help: "Upstream fetch attempts per provider.",
		}, []string{"provider"}),
		providerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_errors_total",
			Help: "Upstream fetch failures per provider.",
		}, []string{"provider"}),
		liveGames: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "live_games",
			Help: "Games currently in progress per sport.",
		}, []string{"sport"}),
		wsClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Connected websocket clients.",
		}),
		goldmineProps: factory.NewGauge(prometheus.GaugeOpts{
			Name: "goldmine_props",
			Help: "Props surfaced by the most recent goldmine scan.",
		}),
		picksGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "picks_generated_total",
			Help: "Picks generated across all slates.",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordPollCycle records one live-poll cycle and its outcome
func (r *Recorder) RecordPollCycle(sport string, duration time.Duration, err error) {
	r.pollCycles.WithLabelValues(sport).Inc()
	r.pollDuration.WithLabelValues(sport).Observe(duration.Seconds())
	if err != nil {
		r.pollErrors.WithLabelValues(sport).Inc()
	}
}

// RecordFallbackServing counts a fallback-data serving
func (r *Recorder) RecordFallbackServing(sport string) {
	r.fallbackServings.WithLabelValues(sport).Inc()
}

// RecordProviderAttempt counts an upstream fetch and its outcome
func (r *Recorder) RecordProviderAttempt(provider string, err error) {
	r.providerAttempts.WithLabelValues(provider).Inc()
	if err != nil {
		r.providerErrors.WithLabelValues(provider).Inc()
	}
}

// SetLiveGames sets the in-progress game count for a sport
func (r *Recorder) SetLiveGames(sport string, count int) {
	r.liveGames.WithLabelValues(sport).Set(float64(count))
}

// WSClientConnected increments the connected-client gauge
func (r *Recorder) WSClientConnected() {
	r.wsClients.Inc()
}

// WSClientDisconnected decrements the connected-client gauge
func (r *Recorder) WSClientDisconnected() {
	r.wsClients.Dec()
}

// SetGoldmineProps records the size of the latest goldmine slate
func (r *Recorder) SetGoldmineProps(count int) {
	r.goldmineProps.Set(float64(count))
}

// AddPicksGenerated counts newly generated picks
func (r *Recorder) AddPicksGenerated(count int) {
	r.picksGenerated.Add(float64(count))
}
