package render

import (
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/diogo/startychat/internal/models"
)

// rendererKey identifies one renderer configuration. Toggling the page
// theme or resizing the terminal selects another pool.
type rendererKey struct {
	theme     models.Theme
	stylePath string
	width     int
	emoji     bool
	newLines  bool
}

func keyFor(opts Options) rendererKey {
	return rendererKey{
		theme:     opts.Theme,
		stylePath: opts.StylePath,
		width:     opts.Width,
		emoji:     opts.EnableEmoji,
		newLines:  opts.PreserveNewLines,
	}
}

// rendererPools hands out glamour renderers per configuration.
// glamour.TermRenderer is not safe for concurrent Render calls, so each
// caller borrows its own from a sync.Pool.
type rendererPools struct {
	mu    sync.RWMutex
	pools map[rendererKey]*sync.Pool
}

var renderers = newRendererPools()

func newRendererPools() *rendererPools {
	return &rendererPools{pools: make(map[rendererKey]*sync.Pool)}
}

func (p *rendererPools) pool(opts Options) *sync.Pool {
	key := keyFor(opts)

	p.mu.RLock()
	pool, ok := p.pools[key]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok := p.pools[key]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any {
			r, err := newRenderer(opts)
			if err != nil {
				return nil
			}
			return r
		},
	}
	p.pools[key] = pool
	return pool
}

func (p *rendererPools) get(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.pool(opts).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	// New failed; build directly to surface the error.
	return newRenderer(opts)
}

func (p *rendererPools) put(opts Options, r *glamour.TermRenderer) {
	if r != nil {
		p.pool(opts).Put(r)
	}
}

func (p *rendererPools) size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pools)
}

// newRenderer builds a TermRenderer for replies. Tables always wrap so wide
// answers stay inside the chat bubble.
func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	// WithStylePath resolves standard style names before file paths.
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style()),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(true),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}
