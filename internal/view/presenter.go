// Package view holds console presenters: consumers that subscribe to the
// tick signal through a binding.Selector and re-read their selections when a
// tick lands (or when forced, for on-demand views).
package view

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/l1jgo/entitysync/internal/binding"
)

// Presenter renders one view. Not safe for concurrent use; it belongs to the
// tick loop goroutine.
type Presenter struct {
	name    string
	sel     *binding.Selector
	out     io.Writer
	log     *zap.Logger
	dirty   bool
	tick    binding.Tick
	renders uint64
	last    binding.Result
}

// NewPresenter builds a presenter over src. It starts dirty so the first
// Render draws the initial frame (and, in Always mode, subscribes).
func NewPresenter(name string, src binding.Source, q *binding.Query, freshness binding.Freshness, out io.Writer, log *zap.Logger) *Presenter {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Presenter{
		name:  name,
		out:   out,
		log:   log.With(zap.String("view", name)),
		dirty: true,
	}
	p.sel = binding.NewSelector(src, q,
		binding.WithFreshness(freshness),
		binding.WithOnTick(p.onTick),
		binding.WithLogger(p.log),
	)
	return p
}

// onTick only marks the view; the re-read happens in Render.
func (p *Presenter) onTick(t binding.Tick) {
	p.tick = t
	p.dirty = true
}

func (p *Presenter) Name() string { return p.name }

func (p *Presenter) Freshness() binding.Freshness { return p.sel.Freshness() }

// Dirty reports whether a tick arrived since the last render.
func (p *Presenter) Dirty() bool { return p.dirty }

// Render re-reads the selections and writes one frame. Without force it only
// draws when dirty. Returns whether a frame was written.
func (p *Presenter) Render(force bool) bool {
	if !force && !p.dirty {
		return false
	}
	p.dirty = false
	p.last = p.sel.Select()
	p.renders++

	if p.out != nil {
		fmt.Fprintln(p.out, p.frame())
	}
	p.log.Debug("view rendered",
		zap.Uint64("render", p.renders),
		zap.Uint64("tick", p.tick.Seq),
		zap.Int("bundles", p.last.Total()),
		zap.Bool("forced", force),
	)
	return true
}

// frame formats the last result as "name #tick sel=n[ids] ...".
func (p *Presenter) frame() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d", p.name, p.tick.Seq)
	for _, name := range p.last.Names() {
		bundles := p.last.Get(name)
		fmt.Fprintf(&b, " %s=%d", name, len(bundles))
		if len(bundles) == 0 {
			continue
		}
		b.WriteByte('[')
		for i, bd := range bundles {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", bd.ID)
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Last returns the result drawn by the most recent Render.
func (p *Presenter) Last() binding.Result { return p.last }

func (p *Presenter) Renders() uint64 { return p.renders }

// Stats exposes the selector's cache counters.
func (p *Presenter) Stats() binding.CacheStats { return p.sel.Stats() }

// Close releases the tick subscription. Safe to call more than once.
func (p *Presenter) Close() {
	p.sel.Close()
}
