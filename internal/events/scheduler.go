package events

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs functions on one logical UI thread. Functions passed to
// Post and AfterFunc never run concurrently with each other.
type Scheduler interface {
	// Post queues fn to run on the UI thread.
	Post(fn func())
	// AfterFunc queues fn on the UI thread once d has elapsed.
	AfterFunc(d time.Duration, fn func())
	// Go runs work off the UI thread and posts the continuation it returns.
	Go(work func() func())
}

// Loop is a goroutine-backed Scheduler with an unbounded FIFO queue, so
// posting from the UI thread itself never blocks.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool

	halt     chan struct{}
	haltOnce sync.Once
}

// NewLoop creates a Loop. Call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		halt: make(chan struct{}),
	}
}

// Post implements Scheduler.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Post(fn) })
}

// Go implements Scheduler.
func (l *Loop) Go(work func() func()) {
	go func() {
		l.Post(work())
	}()
}

// Run processes queued functions until ctx is done. Functions still queued
// at that point are discarded.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		l.haltOnce.Do(func() { close(l.halt) })
	}()

	for {
		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			fn := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()

			fn()

			if ctx.Err() != nil {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// Sync posts fn and waits until it has run on the loop. It reports false
// without waiting further once the loop has stopped and fn did not run.
func (l *Loop) Sync(fn func()) bool {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return true
	case <-l.halt:
		// Run finishes a function before it stops, so done is final here.
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}
