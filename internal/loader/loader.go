// Package loader fetches the page components and mounts them into their
// containers, announcing readiness once all of them are in place.
package loader

import (
	"context"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/diogo/startychat/internal/dom"
	apierrors "github.com/diogo/startychat/internal/errors"
	"github.com/diogo/startychat/internal/events"
	"github.com/diogo/startychat/internal/models"
)

// Hook runs once after every component has been mounted.
type Hook func(doc *dom.Document)

// Result is the outcome of loading one component.
type Result struct {
	Fragment models.Fragment
	Loaded   bool
	Err      error
}

// Report summarizes a LoadAll call.
type Report struct {
	Results []Result
	// Ready is true when the readiness event was published.
	Ready bool
}

// Failed returns the names of the components that did not load.
func (r Report) Failed() []string {
	var failed []string
	for _, res := range r.Results {
		if !res.Loaded {
			failed = append(failed, res.Fragment.Name)
		}
	}
	return failed
}

// Loader mounts components into a document.
type Loader struct {
	src    Source
	doc    *dom.Document
	bus    *events.Bus
	logger *zap.Logger
	hooks  []Hook
	now    func() time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithHook adds a post-mount hook.
func WithHook(h Hook) Option {
	return func(l *Loader) {
		l.hooks = append(l.hooks, h)
	}
}

// WithClock sets the time source for readiness timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		l.now = now
	}
}

// New creates a Loader that mounts into doc and announces readiness on bus.
func New(src Source, doc *dom.Document, bus *events.Bus, opts ...Option) *Loader {
	l := &Loader{
		src:    src,
		doc:    doc,
		bus:    bus,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ErrorMarkup is mounted in place of a component that failed to load.
func ErrorMarkup(name string) string {
	return fmt.Sprintf(`<p class="error">Error loading component %s</p>`, html.EscapeString(name))
}

// LoadComponent fetches one component and mounts it. On failure it mounts
// an inline error message instead and returns false.
func (l *Loader) LoadComponent(ctx context.Context, f models.Fragment) bool {
	return l.load(ctx, f).Loaded
}

func (l *Loader) load(ctx context.Context, f models.Fragment) Result {
	markup, err := l.src.Fetch(ctx, f.Name)
	if err == nil {
		err = l.doc.Mount(f.Container, markup)
	}
	if err == nil {
		l.logger.Debug("component mounted", zap.String("name", f.Name), zap.String("container", f.Container))
		return Result{Fragment: f, Loaded: true}
	}

	l.logger.Error("failed to load component", zap.String("name", f.Name), zap.Error(err))
	if mountErr := l.doc.Mount(f.Container, ErrorMarkup(f.Name)); mountErr != nil {
		l.logger.Warn("cannot show component error", zap.String("container", f.Container), zap.Error(mountErr))
	}
	return Result{Fragment: f, Err: err}
}

// LoadAll loads every fragment concurrently. When all of them mount it
// publishes one readiness event and runs the hooks; otherwise it returns a
// PartialLoadError and readiness is never published.
func (l *Loader) LoadAll(ctx context.Context, fragments []models.Fragment) (Report, error) {
	results := make([]Result, len(fragments))

	var g errgroup.Group
	for i, f := range fragments {
		i, f := i, f
		g.Go(func() error {
			results[i] = l.load(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Results: results}
	if failed := report.Failed(); len(failed) > 0 {
		err := apierrors.NewPartialLoadError(failed...)
		l.logger.Error("some components failed to load", zap.Strings("failed", failed))
		return report, err
	}

	names := models.FragmentNames(fragments)
	l.bus.Publish(events.Event{
		Type:      models.EventComponentsLoaded,
		Timestamp: l.now(),
		Payload:   models.ReadinessEvent{Timestamp: l.now(), Components: names},
	})
	report.Ready = true
	l.logger.Info("components loaded", zap.Strings("components", names))

	for _, h := range l.hooks {
		h(l.doc)
	}

	return report, nil
}

// LoadDefault loads the page's standard component set.
func (l *Loader) LoadDefault(ctx context.Context) (Report, error) {
	return l.LoadAll(ctx, models.DefaultFragments())
}
