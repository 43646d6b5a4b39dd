package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/marquee-led/marquee/internal/correlation"
	apperrors "github.com/marquee-led/marquee/internal/errors"
	"github.com/marquee-led/marquee/internal/metrics"
	"github.com/marquee-led/marquee/internal/render"
	"github.com/marquee-led/marquee/internal/scroll"
	"github.com/marquee-led/marquee/internal/settings"
	"github.com/marquee-led/marquee/internal/source"
)

// Scheduler multiplexes two cadences over a single loop: a fast render tick
// and a slow fetch-due check. A fetch failure never halts rendering; the
// display keeps showing the last good text (or the placeholder before the
// first success) while retries back off.
type Scheduler struct {
	source       source.Source
	engine       *scroll.Engine
	surface      render.Surface
	store        *settings.Store
	clock        clockwork.Clock
	logger       *slog.Logger
	tickInterval time.Duration
	fetchTimeout time.Duration

	mu         sync.Mutex
	retry      RetryState
	lastFetch  time.Time
	lastStatus source.Status
	fetched    bool
}

// Options carries the loop cadence and per-fetch timeout.
type Options struct {
	TickInterval time.Duration
	FetchTimeout time.Duration
}

// New creates a scheduler driving the given source, engine, and surface.
func New(src source.Source, engine *scroll.Engine, surface render.Surface, store *settings.Store, clock clockwork.Clock, logger *slog.Logger, opts Options) *Scheduler {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 50 * time.Millisecond
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &Scheduler{
		source:       src,
		engine:       engine,
		surface:      surface,
		store:        store,
		clock:        clock,
		logger:       logger,
		tickInterval: opts.TickInterval,
		fetchTimeout: opts.FetchTimeout,
	}
}

// Run executes the main loop until ctx is cancelled. The placeholder text is
// shown immediately and an initial fetch is forced before the first tick, so
// a reachable source replaces the placeholder on the very first frame.
//
// A failing surface present is the only fatal condition: everything else is
// absorbed into retry state and logged.
func (s *Scheduler) Run(ctx context.Context) error {
	s.engine.SetText(s.store.Placeholder())
	s.fetch(ctx)

	ticker := s.clock.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler stopping")
			return nil
		case <-ticker.Chan():
			if s.due() {
				s.fetch(ctx)
			}
			if err := s.render(); err != nil {
				return err
			}
		}
	}
}

// Tick runs a single loop iteration. Exposed for tests.
func (s *Scheduler) Tick(ctx context.Context) error {
	if s.due() {
		s.fetch(ctx)
	}
	return s.render()
}

func (s *Scheduler) render() error {
	s.engine.Advance(s.surface)
	if err := s.surface.Present(); err != nil {
		return apperrors.RenderError("presenting frame failed", err)
	}
	metrics.FramesRendered.Inc()
	return nil
}

// due re-reads the update interval on every evaluation so a settings change
// takes effect at the next check, not the next interval boundary.
func (s *Scheduler) due() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.retry.Failures > 0 {
		return !now.Before(s.retry.NextAttempt)
	}
	if !s.fetched {
		return true
	}
	return !now.Before(s.lastFetch.Add(s.store.UpdateInterval()))
}

func (s *Scheduler) fetch(ctx context.Context) {
	ctx = correlation.WithID(ctx, correlation.NewID())
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := s.clock.Now()
	result := s.source.Fetch(ctx)
	elapsed := s.clock.Since(start)

	metrics.FetchesTotal.WithLabelValues(s.source.Name(), result.Status.String()).Inc()
	metrics.FetchDuration.WithLabelValues(s.source.Name()).Observe(elapsed.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.fetched = true
	s.lastStatus = result.Status

	switch result.Status {
	case source.StatusSuccess:
		s.lastFetch = now
		s.retry.Reset()
		metrics.ConsecutiveFailures.Set(0)
		metrics.BackoffSeconds.Set(0)
		s.engine.SetText(result.Text)
		metrics.TextUpdates.Inc()
		s.logger.InfoContext(ctx, "text updated",
			"length", len(result.Text),
			"duration", elapsed,
		)
	case source.StatusEmpty:
		// soft no-op: keep previous text, leave the retry streak alone. The
		// next attempt still re-arms, otherwise a mid-retry empty result
		// would leave NextAttempt in the past and refetch on every tick.
		s.lastFetch = now
		if s.retry.Failures > 0 {
			s.retry.NextAttempt = now.Add(Backoff(s.retry.Failures))
		}
		s.logger.DebugContext(ctx, "fetch returned no text, keeping previous")
	default:
		s.retry.RecordFailure(now)
		delay := Backoff(s.retry.Failures)
		metrics.ConsecutiveFailures.Set(float64(s.retry.Failures))
		metrics.BackoffSeconds.Set(delay.Seconds())
		s.logger.WarnContext(ctx, "fetch failed, backing off",
			"status", result.Status.String(),
			"failures", s.retry.Failures,
			"retry_in", delay,
			"error", result.Err,
		)
	}
}

// Status is a point-in-time view of the loop for the control API.
type Status struct {
	Text                string    `json:"text"`
	Offset              int       `json:"offset"`
	LastFetchStatus     string    `json:"last_fetch_status"`
	LastFetchAt         time.Time `json:"last_fetch_at,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	NextAttemptAt       time.Time `json:"next_attempt_at,omitempty"`
	Source              string    `json:"source"`
}

// Snapshot reports the current loop state.
func (s *Scheduler) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Text:                s.engine.Text(),
		Offset:              s.engine.Offset(),
		ConsecutiveFailures: s.retry.Failures,
		Source:              s.source.Name(),
	}
	if s.fetched {
		st.LastFetchStatus = s.lastStatus.String()
		st.LastFetchAt = s.lastFetch
	}
	if s.retry.Failures > 0 {
		st.NextAttemptAt = s.retry.NextAttempt
	}
	return st
}
