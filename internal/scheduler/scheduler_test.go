package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/marquee-led/marquee/internal/errors"
	"github.com/marquee-led/marquee/internal/render"
	"github.com/marquee-led/marquee/internal/scroll"
	"github.com/marquee-led/marquee/internal/settings"
	"github.com/marquee-led/marquee/internal/source"
)

type scriptedSource struct {
	results []source.Result
	calls   int
}

func (s *scriptedSource) Fetch(context.Context) source.Result {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	return s.results[i]
}

func (s *scriptedSource) Name() string { return "scripted" }

type failingSurface struct {
	*render.Framebuffer
}

func (f *failingSurface) Present() error {
	return errors.New("device gone")
}

func newTestScheduler(t *testing.T, src source.Source) (*Scheduler, *clockwork.FakeClock, *scroll.Engine) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := settings.NewStore(nil)
	engine := scroll.NewEngine(store, clock, 32)
	fb := render.NewFramebuffer(32, 8)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := New(src, engine, fb, store, clock, logger, Options{})
	return sched, clock, engine
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, 0},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{8, 256 * time.Second},
		{9, 256 * time.Second},
		{100, 256 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.failures), "failures=%d", tt.failures)
	}
}

func TestRetryStateBoundsFailureCount(t *testing.T) {
	var r RetryState
	now := time.Now()

	for i := 0; i < 20; i++ {
		r.RecordFailure(now)
	}
	assert.Equal(t, 8, r.Failures)
	assert.Equal(t, now.Add(256*time.Second), r.NextAttempt)

	r.Reset()
	assert.Equal(t, 0, r.Failures)
	assert.True(t, r.NextAttempt.IsZero())
}

func TestFirstTickFetchesImmediately(t *testing.T) {
	src := &scriptedSource{results: []source.Result{source.Success("Hello")}}
	sched, _, engine := newTestScheduler(t, src)

	require.NoError(t, sched.Tick(context.Background()))

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "Hello", engine.Text())
}

func TestFetchNotDueUntilIntervalElapses(t *testing.T) {
	src := &scriptedSource{results: []source.Result{source.Success("Hello")}}
	sched, clock, _ := newTestScheduler(t, src)
	ctx := context.Background()

	require.NoError(t, sched.Tick(ctx))
	require.NoError(t, sched.Tick(ctx))
	assert.Equal(t, 1, src.calls)

	clock.Advance(300 * time.Second)
	require.NoError(t, sched.Tick(ctx))
	assert.Equal(t, 2, src.calls)
}

func TestIntervalChangeTakesEffectOnNextDueCheck(t *testing.T) {
	src := &scriptedSource{results: []source.Result{source.Success("Hello")}}
	sched, clock, _ := newTestScheduler(t, src)
	ctx := context.Background()

	require.NoError(t, sched.Tick(ctx))
	sched.store.Set(settings.KeyUpdateInterval, 5.0)

	clock.Advance(5 * time.Second)
	require.NoError(t, sched.Tick(ctx))
	assert.Equal(t, 2, src.calls)
}

func TestFailureKeepsTextAndBacksOff(t *testing.T) {
	src := &scriptedSource{results: []source.Result{
		source.Success("good"),
		source.TransportFailure(errors.New("connection refused")),
		source.Success("better"),
	}}
	sched, clock, engine := newTestScheduler(t, src)
	ctx := context.Background()

	require.NoError(t, sched.Tick(ctx))
	require.Equal(t, "good", engine.Text())

	clock.Advance(300 * time.Second)
	require.NoError(t, sched.Tick(ctx))
	assert.Equal(t, "good", engine.Text(), "failed fetch must not clear the display")
	assert.Equal(t, 1, sched.Snapshot().ConsecutiveFailures)

	// backoff gates the retry: one second is not enough
	clock.Advance(time.Second)
	require.NoError(t, sched.Tick(ctx))
	assert.Equal(t, 2, src.calls)

	clock.Advance(time.Second)
	require.NoError(t, sched.Tick(ctx))
	assert.Equal(t, 3, src.calls)
	assert.Equal(t, "better", engine.Text())
	assert.Equal(t, 0, sched.Snapshot().ConsecutiveFailures)
}

func TestThreeFailuresThenSuccessSetsTextOnce(t *testing.T) {
	boom := errors.New("http 500")
	src := &scriptedSource{results: []source.Result{
		source.TransportFailure(boom),
		source.TransportFailure(boom),
		source.TransportFailure(boom),
		source.Success("recovered"),
	}}
	sched, clock, engine := newTestScheduler(t, src)
	ctx := context.Background()

	require.NoError(t, sched.Tick(ctx))
	for i := 1; i <= 3; i++ {
		clock.Advance(Backoff(i))
		require.NoError(t, sched.Tick(ctx))
	}

	assert.Equal(t, 4, src.calls)
	assert.Equal(t, "recovered", engine.Text())
	assert.Equal(t, 0, sched.Snapshot().ConsecutiveFailures)
}

func TestEmptyResultPreservesTextAndRetryState(t *testing.T) {
	src := &scriptedSource{results: []source.Result{
		source.Success("keep me"),
		source.Empty(),
	}}
	sched, clock, engine := newTestScheduler(t, src)
	ctx := context.Background()

	require.NoError(t, sched.Tick(ctx))
	clock.Advance(300 * time.Second)
	require.NoError(t, sched.Tick(ctx))

	assert.Equal(t, 2, src.calls)
	assert.Equal(t, "keep me", engine.Text())
	assert.Equal(t, 0, sched.Snapshot().ConsecutiveFailures)

	// the empty result still counts as a completed fetch for the due check
	require.NoError(t, sched.Tick(ctx))
	assert.Equal(t, 2, src.calls)
}

func TestEmptyDuringRetryKeepsBackoffCadence(t *testing.T) {
	src := &scriptedSource{results: []source.Result{
		source.TransportFailure(errors.New("http 500")),
		source.Empty(),
	}}
	sched, clock, _ := newTestScheduler(t, src)
	ctx := context.Background()

	require.NoError(t, sched.Tick(ctx))
	clock.Advance(Backoff(1))
	require.NoError(t, sched.Tick(ctx))
	require.Equal(t, 2, src.calls)
	assert.Equal(t, 1, sched.Snapshot().ConsecutiveFailures)

	// empty mid-retry must not turn every tick into a fetch
	for i := 0; i < 10; i++ {
		clock.Advance(50 * time.Millisecond)
		require.NoError(t, sched.Tick(ctx))
	}
	assert.Equal(t, 2, src.calls)

	// the next attempt comes once the re-armed backoff delay elapses
	clock.Advance(Backoff(1))
	require.NoError(t, sched.Tick(ctx))
	assert.Equal(t, 3, src.calls)
}

func TestPresentFailureIsFatal(t *testing.T) {
	src := &scriptedSource{results: []source.Result{source.Success("Hello")}}
	clock := clockwork.NewFakeClock()
	store := settings.NewStore(nil)
	engine := scroll.NewEngine(store, clock, 32)
	surface := &failingSurface{Framebuffer: render.NewFramebuffer(32, 8)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched := New(src, engine, surface, store, clock, logger, Options{})

	err := sched.Tick(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.TypeRender))
}

func TestRunShowsPlaceholderThenStopsOnCancel(t *testing.T) {
	src := &scriptedSource{results: []source.Result{source.Empty()}}
	sched, clock, engine := newTestScheduler(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	// wait until the loop is parked on its ticker
	clock.BlockUntil(1)
	assert.Equal(t, "...", engine.Text())
	assert.Equal(t, 1, src.calls)

	cancel()
	require.NoError(t, <-done)
}

func TestSnapshotReportsLoopState(t *testing.T) {
	src := &scriptedSource{results: []source.Result{
		source.TransportFailure(errors.New("dns failure")),
	}}
	sched, clock, _ := newTestScheduler(t, src)

	require.NoError(t, sched.Tick(context.Background()))

	st := sched.Snapshot()
	assert.Equal(t, "scripted", st.Source)
	assert.Equal(t, "transport_failure", st.LastFetchStatus)
	assert.Equal(t, 1, st.ConsecutiveFailures)
	assert.Equal(t, clock.Now().Add(2*time.Second), st.NextAttemptAt)
}
