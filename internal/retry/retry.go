// Package retry runs a bounded sequence of attempts on a scheduler, waiting
// between attempts according to a backoff function.
package retry

import (
	"time"

	"github.com/diogo/startychat/internal/models"
)

// Scheduler delays functions. events.Scheduler satisfies it.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// Policy bounds how many times a failing attempt is repeated.
type Policy struct {
	// MaxRetries is the number of attempts made after the first one fails.
	MaxRetries int
	// Backoff returns the wait before retry number attempt (0-based).
	Backoff func(attempt int) time.Duration
	// OnRetry is called before each retry is scheduled.
	OnRetry func(attempt int, err error)
}

// Linear returns a backoff that waits step*(attempt+1).
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return step * time.Duration(attempt+1)
	}
}

// DefaultInitPolicy is the policy used to bind the chat controls once the
// page reports it is ready.
func DefaultInitPolicy() Policy {
	return NewLinearPolicy(models.DefaultInitRetries, models.DefaultInitBackoff)
}

// NewLinearPolicy creates a policy with linear backoff.
func NewLinearPolicy(maxRetries int, step time.Duration) Policy {
	return Policy{
		MaxRetries: maxRetries,
		Backoff:    Linear(step),
	}
}

func (p Policy) delay(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}

// Run calls attempt immediately. When it fails, the next call is scheduled
// on s after the policy's backoff until MaxRetries retries have been made.
// done receives nil on the first success or the last error otherwise.
func Run(s Scheduler, p Policy, attempt func() error, done func(error)) {
	run(s, p, 0, attempt, done)
}

func run(s Scheduler, p Policy, n int, attempt func() error, done func(error)) {
	err := attempt()
	if err == nil || n >= p.MaxRetries {
		if done != nil {
			done(err)
		}
		return
	}

	if p.OnRetry != nil {
		p.OnRetry(n, err)
	}

	s.AfterFunc(p.delay(n), func() {
		run(s, p, n+1, attempt, done)
	})
}
