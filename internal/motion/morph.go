package motion

import (
	"fmt"
	"time"
)

// Frame carries the visual parameters of one morph step. Current is the
// outgoing slot, Next the incoming one; the last item lives in Next while it
// fades out.
type Frame struct {
	Phase   Phase  `json:"phase"`
	Cursor  int    `json:"cursor"`
	Current string `json:"current"`
	Next    string `json:"next"`
	Out     Visual `json:"out"`
	In      Visual `json:"in"`
}

// Morph cross-fades an ordered list of items, one pair at a time, and stops
// after the last item. It is not safe for concurrent use; the driver that
// steps it is its only writer.
type Morph struct {
	items  []string
	cfg    MorphConfig
	phase  Phase
	clock  time.Duration
	cursor int
	frame  Frame

	listeners []func(Change)
}

// NewMorph validates the sequence and timing up front so the per-frame loop
// never sees a malformed configuration.
func NewMorph(items []string, cfg MorphConfig) (*Morph, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("new morph: %w", err)
	}
	m := &Morph{
		items: append([]string(nil), items...),
		cfg:   cfg,
		phase: Morphing,
	}
	m.frame = m.morphFrame(0)
	return m, nil
}

// OnChange registers fn to be called on every phase or cursor change.
func (m *Morph) OnChange(fn func(Change)) {
	m.listeners = append(m.listeners, fn)
}

// Phase reports the active phase.
func (m *Morph) Phase() Phase { return m.phase }

// Cursor is the index of the item currently displayed as outgoing.
func (m *Morph) Cursor() int { return m.cursor }

// Clock is the time spent in the active phase.
func (m *Morph) Clock() time.Duration { return m.clock }

// Frame returns the visual parameters computed by the last Step.
func (m *Morph) Frame() Frame { return m.frame }

func (m *Morph) Len() int { return len(m.items) }

func (m *Morph) Stopped() bool { return m.phase == Stopped }

func (m *Morph) lastIndex() int { return len(m.items) - 1 }

func (m *Morph) item(i int) string {
	return m.items[min(max(i, 0), m.lastIndex())]
}

func (m *Morph) morphFrame(f float64) Frame {
	return Frame{
		Phase:   m.phase,
		Cursor:  m.cursor,
		Current: m.item(m.cursor),
		Next:    m.item(m.cursor + 1),
		Out:     Outgoing(f),
		In:      Incoming(f),
	}
}

// Step advances the phase clock by dt and processes the current phase once.
// It returns false once the sequence has stopped.
func (m *Morph) Step(dt time.Duration) bool {
	if m.phase == Stopped {
		return false
	}
	m.clock += clampDelta(dt, m.cfg.MaxDelta)

	switch m.phase {
	case Morphing:
		f := fraction(m.clock, m.cfg.Morph)
		m.frame = m.morphFrame(f)
		if f >= 1 {
			m.enter(Holding)
		}

	case Holding:
		m.frame = m.morphFrame(1)
		if m.clock >= m.cfg.Hold {
			// Decide on the item about to be entered, not the current one, so
			// the last item is never morphed into itself.
			if m.cursor+1 >= m.lastIndex() {
				m.cursor = m.lastIndex()
				m.enter(FinalFade)
			} else {
				m.cursor++
				m.enter(Morphing)
			}
		}

	case FinalFade:
		f := fraction(m.clock, m.cfg.FadeOut)
		last := m.item(m.lastIndex())
		m.frame = Frame{
			Phase:   FinalFade,
			Cursor:  m.cursor,
			Current: last,
			Next:    last,
			Out:     Hidden,
			In:      Visual{Opacity: 1 - f},
		}
		if m.clock >= m.cfg.FadeOut {
			m.enter(Stopped)
		}
	}
	return m.phase != Stopped
}

// Close stops the sequence and drops subscribers. Safe to call repeatedly.
func (m *Morph) Close() {
	m.phase = Stopped
	m.listeners = nil
}

func (m *Morph) enter(p Phase) {
	from := m.phase
	m.phase = p
	m.clock = 0
	for _, fn := range m.listeners {
		fn(Change{From: from, To: p, Cursor: m.cursor})
	}
}

// TraceFrame is a frame stamped with the absolute time it was produced at.
type TraceFrame struct {
	At   time.Duration `json:"-"`
	AtMS int64         `json:"at_ms"`
	Frame
}

// Trace runs a fresh morph with a fixed frame interval until it stops, or
// until maxFrames frames have been produced. It is the deterministic
// counterpart of driving the morph from a live display.
func Trace(items []string, cfg MorphConfig, interval time.Duration, maxFrames int) ([]TraceFrame, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("trace: interval must be positive, got %s", interval)
	}
	m, err := NewMorph(items, cfg)
	if err != nil {
		return nil, err
	}
	var (
		out []TraceFrame
		at  time.Duration
	)
	for i := 0; i < maxFrames; i++ {
		at += interval
		running := m.Step(interval)
		out = append(out, TraceFrame{At: at, AtMS: at.Milliseconds(), Frame: m.Frame()})
		if !running {
			break
		}
	}
	return out, nil
}
