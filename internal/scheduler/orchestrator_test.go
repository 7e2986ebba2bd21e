package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/restocktime/nfl-ncaa-analytics/internal/metrics"
	"github.com/restocktime/nfl-ncaa-analytics/internal/picks"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
)

type fakePoller struct {
	mu    sync.Mutex
	calls int
	errs  []error
}

func (f *fakePoller) IngestLiveGames(ctx context.Context, sport string, seasonID int) ([]*store.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	return nil, err
}

func (f *fakePoller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingNotifier struct {
	mu        sync.Mutex
	failures  int
	recovered int
}

func (r *recordingNotifier) GoldmineAlert(ctx context.Context, props []picks.Prop) error {
	return nil
}

func (r *recordingNotifier) PollFailure(ctx context.Context, sport string, consecutive int, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
	return nil
}

func (r *recordingNotifier) PollRecovered(ctx context.Context, sport string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recovered++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *Config {
	return &Config{
		LivePollInterval:     10 * time.Millisecond,
		MaxRetries:           1,
		RetryDelay:           time.Millisecond,
		MaxConsecutiveErrors: 2,
		ThrottledInterval:    time.Hour,
		Sports:               []string{store.SportNFL},
		SeasonIDs:            map[string]int{store.SportNFL: 1},
	}
}

func TestOrchestratorStopsOnCancel(t *testing.T) {
	poller := &fakePoller{}
	o := NewOrchestrator(poller, metrics.NewRecorder(), nil, testConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Start(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("orchestrator did not stop after cancel")
	}

	assert.Greater(t, poller.callCount(), 1)
}

func TestPollOnceRetriesAndResets(t *testing.T) {
	poller := &fakePoller{errs: []error{errors.New("boom"), nil}}
	cfg := testConfig()
	cfg.MaxRetries = 2
	o := NewOrchestrator(poller, metrics.NewRecorder(), nil, cfg, testLogger())

	consecutive := 3
	escalated := false
	o.pollOnce(context.Background(), store.SportNFL, testLogger(), &consecutive, &escalated)

	// Second attempt succeeded, which clears the error streak.
	assert.Equal(t, 2, poller.callCount())
	assert.Equal(t, 0, consecutive)
}

func TestPollOnceEscalatesOnceThenRecovers(t *testing.T) {
	poller := &fakePoller{errs: []error{
		errors.New("boom"), errors.New("boom"), errors.New("boom"), nil,
	}}
	notifier := &recordingNotifier{}
	o := NewOrchestrator(poller, metrics.NewRecorder(), notifier, testConfig(), testLogger())

	consecutive := 0
	escalated := false
	ctx := context.Background()

	// Three failing cycles: escalation fires once at the threshold.
	for i := 0; i < 3; i++ {
		o.pollOnce(ctx, store.SportNFL, testLogger(), &consecutive, &escalated)
	}
	assert.Equal(t, 3, consecutive)
	assert.Equal(t, 1, notifier.failures)
	assert.True(t, escalated)

	// A successful cycle announces recovery.
	o.pollOnce(ctx, store.SportNFL, testLogger(), &consecutive, &escalated)
	assert.Equal(t, 0, consecutive)
	assert.Equal(t, 1, notifier.recovered)
	assert.False(t, escalated)
}
