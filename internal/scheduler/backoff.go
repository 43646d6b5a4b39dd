package scheduler

import "time"

const (
	backoffBase     = 2 * time.Second
	backoffMax      = 5 * time.Minute
	maxFailureCount = 8
)

// RetryState tracks the current fetch failure streak and when the next
// attempt is allowed. It resets on any successful fetch and is untouched by
// empty results.
type RetryState struct {
	Failures    int
	NextAttempt time.Time
}

// RecordFailure bumps the failure count (bounded, so long outages do not grow
// the counter without limit) and schedules the next attempt.
func (r *RetryState) RecordFailure(now time.Time) {
	if r.Failures < maxFailureCount {
		r.Failures++
	}
	r.NextAttempt = now.Add(Backoff(r.Failures))
}

// Reset clears the failure streak.
func (r *RetryState) Reset() {
	r.Failures = 0
	r.NextAttempt = time.Time{}
}

// Backoff returns the retry delay for the given consecutive failure count:
// 2s doubled per failure, capped at 5 minutes.
func Backoff(failures int) time.Duration {
	if failures <= 0 {
		return 0
	}
	if failures > maxFailureCount {
		failures = maxFailureCount
	}
	d := backoffBase << (failures - 1)
	if d > backoffMax {
		return backoffMax
	}
	return d
}
