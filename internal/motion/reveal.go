package motion

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RevealConfig controls a grid reveal.
type RevealConfig struct {
	Grid       Grid
	FadeIn     time.Duration
	MaxDelay   time.Duration
	ColorDelay time.Duration
	// Grayscale starts tiles desaturated and cross-fades them to color once
	// ColorDelay has passed.
	Grayscale bool
	// Threshold is the visible fraction that triggers the reveal.
	Threshold float64
}

// DefaultRevealConfig mirrors the about-section portrait.
func DefaultRevealConfig() RevealConfig {
	return RevealConfig{
		Grid:       DefaultGrid(),
		FadeIn:     time.Second,
		MaxDelay:   1200 * time.Millisecond,
		ColorDelay: 1300 * time.Millisecond,
		Grayscale:  true,
		Threshold:  0.2,
	}
}

// CellFrame is the state of one tile.
type CellFrame struct {
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	Opacity float64 `json:"opacity"`
}

// RevealFrame is the state of the whole grid.
type RevealFrame struct {
	Visible    bool        `json:"visible"`
	ShowColor  bool        `json:"show_color"`
	Saturation float64     `json:"saturation"`
	Cells      []CellFrame `json:"cells"`
}

// RevealPlan is what a browser host needs to run the same reveal with CSS
// transitions: the frozen per-tile delays and the shared timings.
type RevealPlan struct {
	Rows         int     `json:"rows"`
	Cols         int     `json:"cols"`
	FadeInMS     int64   `json:"fade_in_ms"`
	ColorDelayMS int64   `json:"color_delay_ms"`
	Grayscale    bool    `json:"grayscale"`
	Threshold    float64 `json:"threshold"`
	DelaysMS     []int64 `json:"delays_ms"`
}

type tile struct {
	row, col int
	delay    time.Duration
	fade     *gween.Tween
	opacity  float64
	done     bool
}

// RevealOption configures a Reveal.
type RevealOption func(*Reveal)

// WithRand sets the source of tile delays.
func WithRand(r *rand.Rand) RevealOption {
	return func(rv *Reveal) { rv.random = r.Float64 }
}

// Reveal fades a grid of tiles in with staggered delays and then brings the
// color up on all tiles at once.
type Reveal struct {
	cfg    RevealConfig
	random func() float64

	tiles    []tile
	attached bool
	visible  bool
	elapsed  time.Duration

	showColor  bool
	color      *gween.Tween
	saturation float64

	finished bool
	closed   bool
	onColor  []func()
}

// NewReveal builds a reveal whose first frame is deterministic: every tile
// has a zero delay until Attach is called. An invalid grid degrades to the
// default shape.
func NewReveal(cfg RevealConfig, opts ...RevealOption) (*Reveal, error) {
	if cfg.FadeIn < 0 || cfg.MaxDelay < 0 || cfg.ColorDelay < 0 {
		return nil, fmt.Errorf("new reveal: %w", ErrNegativeDuration)
	}
	if !cfg.Grid.Valid() {
		cfg.Grid = DefaultGrid()
	}
	r := &Reveal{cfg: cfg, random: rand.Float64}
	for _, opt := range opts {
		opt(r)
	}

	r.tiles = make([]tile, 0, cfg.Grid.Cells())
	for i := 0; i < cfg.Grid.Cells(); i++ {
		r.tiles = append(r.tiles, tile{
			row:  i / cfg.Grid.Cols,
			col:  i % cfg.Grid.Cols,
			fade: gween.New(0, 1, float32(cfg.FadeIn.Seconds()), ease.OutQuad),
		})
	}
	r.color = gween.New(0, 1, float32(cfg.FadeIn.Seconds()), ease.InOutCubic)
	if !cfg.Grayscale {
		r.saturation = 1
	}
	return r, nil
}

// Attach marks the reveal as bound to a live display and draws the random
// tile delays. Only the first call has any effect, so the delays stay stable
// for the lifetime of the instance.
func (r *Reveal) Attach() {
	if r.attached {
		return
	}
	r.attached = true
	for i := range r.tiles {
		r.tiles[i].delay = time.Duration(r.random() * float64(r.cfg.MaxDelay))
	}
}

// Attached reports whether Attach has run.
func (r *Reveal) Attached() bool { return r.attached }

// Show starts the reveal. Meant to be the visibility gate's callback.
func (r *Reveal) Show() {
	r.visible = true
}

// OnColor registers fn to run once when the color flag flips.
func (r *Reveal) OnColor(fn func()) {
	r.onColor = append(r.onColor, fn)
}

func (r *Reveal) Grid() Grid             { return r.cfg.Grid }
func (r *Reveal) Config() RevealConfig   { return r.cfg }
func (r *Reveal) Finished() bool         { return r.finished }
func (r *Reveal) ShowColor() bool        { return r.showColor }
func (r *Reveal) Elapsed() time.Duration { return r.elapsed }

// Delays returns the per-tile delays in row-major order.
func (r *Reveal) Delays() []time.Duration {
	out := make([]time.Duration, len(r.tiles))
	for i, t := range r.tiles {
		out[i] = t.delay
	}
	return out
}

// Step advances the reveal by dt. Before Show nothing is computed. It returns
// false once every tile is opaque and the color has fully come up, or after
// Close.
func (r *Reveal) Step(dt time.Duration) bool {
	if r.closed || r.finished {
		return false
	}
	if !r.visible {
		return true
	}
	if dt > 0 {
		r.elapsed += dt
	}

	allDone := true
	for i := range r.tiles {
		t := &r.tiles[i]
		local := r.elapsed - t.delay
		switch {
		case local < 0:
			t.opacity = 0
		case r.cfg.FadeIn == 0:
			t.opacity, t.done = 1, true
		default:
			v, done := t.fade.Set(float32(local.Seconds()))
			t.opacity, t.done = float64(v), done
		}
		if !t.done {
			allDone = false
		}
	}

	if r.cfg.Grayscale {
		if !r.showColor && r.elapsed >= r.cfg.ColorDelay {
			r.showColor = true
			for _, fn := range r.onColor {
				fn()
			}
		}
		colorDone := false
		if r.showColor {
			local := r.elapsed - r.cfg.ColorDelay
			if r.cfg.FadeIn == 0 {
				r.saturation, colorDone = 1, true
			} else {
				v, done := r.color.Set(float32(local.Seconds()))
				r.saturation, colorDone = float64(v), done
			}
		}
		allDone = allDone && colorDone
	}

	r.finished = allDone
	return !r.finished
}

// Frame snapshots the current tile state.
func (r *Reveal) Frame() RevealFrame {
	f := RevealFrame{
		Visible:    r.visible,
		ShowColor:  r.showColor,
		Saturation: r.saturation,
		Cells:      make([]CellFrame, len(r.tiles)),
	}
	for i, t := range r.tiles {
		f.Cells[i] = CellFrame{Row: t.row, Col: t.col, Opacity: t.opacity}
	}
	return f
}

// Plan exports the frozen delays for a host that animates on its own.
func (r *Reveal) Plan() RevealPlan {
	p := RevealPlan{
		Rows:         r.cfg.Grid.Rows,
		Cols:         r.cfg.Grid.Cols,
		FadeInMS:     r.cfg.FadeIn.Milliseconds(),
		ColorDelayMS: r.cfg.ColorDelay.Milliseconds(),
		Grayscale:    r.cfg.Grayscale,
		Threshold:    r.cfg.Threshold,
		DelaysMS:     make([]int64, len(r.tiles)),
	}
	for i, t := range r.tiles {
		p.DelaysMS[i] = t.delay.Milliseconds()
	}
	return p
}

// Close tears the reveal down. Safe to call repeatedly.
func (r *Reveal) Close() {
	r.closed = true
	r.onColor = nil
}
