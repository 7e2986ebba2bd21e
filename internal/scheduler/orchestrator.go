package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/restocktime/nfl-ncaa-analytics/internal/metrics"
	"github.com/restocktime/nfl-ncaa-analytics/internal/notify"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

// LivePoller runs one live-scoreboard poll cycle
type LivePoller interface {
	IngestLiveGames(ctx context.Context, sport string, seasonID int) ([]*store.Game, error)
}

// Config holds scheduler configuration
type Config struct {
	LivePollInterval     time.Duration
	MaxRetries           int
	RetryDelay           time.Duration
	MaxConsecutiveErrors int
	ThrottledInterval    time.Duration
	Sports               []string
	SeasonIDs            map[string]int
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		LivePollInterval:     30 * time.Second,
		MaxRetries:           3,
		RetryDelay:           5 * time.Second,
		MaxConsecutiveErrors: 5,
		ThrottledInterval:    5 * time.Minute,
		Sports:               []string{store.SportNFL},
	}
}

// Orchestrator runs the live polling loops, one per sport. Polling stops
// when the context is cancelled, and sustained failures slow the loop
// down and page the notifier instead of hammering the upstream.
type Orchestrator struct {
	poller   LivePoller
	recorder *metrics.Recorder
	notifier notify.Notifier
	config   *Config
	logger   *slog.Logger
}

// NewOrchestrator creates a scheduler orchestrator
func NewOrchestrator(poller LivePoller, recorder *metrics.Recorder, notifier notify.Notifier, config *Config, logger *slog.Logger) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}

	return &Orchestrator{
		poller:   poller,
		recorder: recorder,
		notifier: notifier,
		config:   config,
		logger:   logger.With("component", "orchestrator"),
	}
}

// Start runs a polling loop per configured sport and blocks until the
// context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	o.logger.Info("starting live polling",
		"interval", o.config.LivePollInterval,
		"sports", o.config.Sports)

	done := make(chan struct{})
	for _, sport := range o.config.Sports {
		sport := sport
		go func() {
			defer func() { done <- struct{}{} }()
			o.runLivePolling(ctx, sport)
		}()
	}

	for range o.config.Sports {
		<-done
	}
	o.logger.Info("live polling stopped")
}

func (o *Orchestrator) runLivePolling(ctx context.Context, sport string) {
	logger := o.logger.With("sport", sport)

	consecutiveErrors := 0
	escalated := false

	// Run immediately, then on the ticker.
	o.pollOnce(ctx, sport, logger, &consecutiveErrors, &escalated)

	ticker := time.NewTicker(o.config.LivePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("live polling loop stopped")
			return
		case <-ticker.C:
			o.pollOnce(ctx, sport, logger, &consecutiveErrors, &escalated)

			// Throttle while the upstream stays down, restore the
			// normal cadence once a cycle succeeds.
			if consecutiveErrors >= o.config.MaxConsecutiveErrors {
				ticker.Reset(o.config.ThrottledInterval)
			} else if consecutiveErrors == 0 {
				ticker.Reset(o.config.LivePollInterval)
			}
		}
	}
}

func (o *Orchestrator) pollOnce(ctx context.Context, sport string, logger *slog.Logger, consecutiveErrors *int, escalated *bool) {
	started := time.Now()
	seasonID := o.config.SeasonIDs[sport]

	var err error
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		_, err = o.poller.IngestLiveGames(ctx, sport, seasonID)
		if err == nil {
			break
		}

		logger.Warn("poll attempt failed",
			"attempt", attempt, "max_retries", o.config.MaxRetries, "error", err)

		if attempt < o.config.MaxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.config.RetryDelay):
			}
		}
	}

	o.recorder.RecordPollCycle(sport, time.Since(started), err)

	if err != nil {
		*consecutiveErrors++
		logger.Error("poll cycle failed after retries",
			"consecutive_errors", *consecutiveErrors, "error", err)

		if *consecutiveErrors >= o.config.MaxConsecutiveErrors && !*escalated {
			*escalated = true
			logger.Warn("throttling polling after sustained failures",
				"throttled_interval", o.config.ThrottledInterval)
			if notifyErr := o.notifier.PollFailure(ctx, sport, *consecutiveErrors, err); notifyErr != nil {
				logger.Error("failed to send poll-failure alert", "error", notifyErr)
			}
		}
		return
	}

	if *escalated {
		*escalated = false
		if notifyErr := o.notifier.PollRecovered(ctx, sport); notifyErr != nil {
			logger.Error("failed to send recovery alert", "error", notifyErr)
		}
	}
	*consecutiveErrors = 0
}
