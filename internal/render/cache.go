package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// pools hands out glamour renderers per Options value. A TermRenderer must
// not render from two goroutines at once, so each caller borrows its own.
type pools struct {
	mu     sync.Mutex
	byOpts map[Options]*sync.Pool
}

var renderers = &pools{byOpts: make(map[Options]*sync.Pool)}

func (p *pools) pool(opts Options) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sp, ok := p.byOpts[opts]; ok {
		return sp
	}
	sp := &sync.Pool{
		New: func() any {
			r, err := newRenderer(opts)
			if err != nil {
				return nil
			}
			return r
		},
	}
	p.byOpts[opts] = sp
	return sp
}

func (p *pools) borrow(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.pool(opts).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	// the pool drops construction errors; build again to report it
	return newRenderer(opts)
}

func (p *pools) release(opts Options, r *glamour.TermRenderer) {
	if r != nil {
		p.pool(opts).Put(r)
	}
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		styleOption(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache forgets all pooled renderers.
func ClearCache() {
	renderers.mu.Lock()
	renderers.byOpts = make(map[Options]*sync.Pool)
	renderers.mu.Unlock()
}

// CacheSize reports how many distinct Options have a pool.
func CacheSize() int {
	renderers.mu.Lock()
	defer renderers.mu.Unlock()
	return len(renderers.byOpts)
}
