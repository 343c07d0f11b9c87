package motion

import (
	"fmt"
	"time"
)

// TypewriterConfig times the typing loop.
type TypewriterConfig struct {
	TypeSpeed   time.Duration
	DeleteSpeed time.Duration
	Pause       time.Duration
	Cursor      string
	// Threshold is the visible fraction that starts typing.
	Threshold float64
}

func DefaultTypewriterConfig() TypewriterConfig {
	return TypewriterConfig{
		TypeSpeed:   100 * time.Millisecond,
		DeleteSpeed: 50 * time.Millisecond,
		Pause:       2 * time.Second,
		Cursor:      "|",
		Threshold:   0.5,
	}
}

// Typewriter types each phrase, pauses, deletes it and moves on to the next,
// cycling forever.
type Typewriter struct {
	phrases  [][]rune
	cfg      TypewriterConfig
	started  bool
	closed   bool
	loop     int
	shown    int
	deleting bool
	wait     time.Duration
}

func NewTypewriter(phrases []string, cfg TypewriterConfig) (*Typewriter, error) {
	if len(phrases) == 0 {
		return nil, ErrNoItems
	}
	if cfg.TypeSpeed <= 0 || cfg.DeleteSpeed <= 0 || cfg.Pause < 0 {
		return nil, fmt.Errorf("new typewriter: %w: speeds must be positive", ErrNegativeDuration)
	}
	t := &Typewriter{cfg: cfg, wait: cfg.TypeSpeed}
	for _, p := range phrases {
		t.phrases = append(t.phrases, []rune(p))
	}
	return t, nil
}

// Start begins typing. Further calls do nothing.
func (t *Typewriter) Start() { t.started = true }

func (t *Typewriter) Started() bool { return t.started }

// Phrase is the index of the phrase being typed.
func (t *Typewriter) Phrase() int { return t.loop % len(t.phrases) }

// Deleting reports whether the current phrase is being erased.
func (t *Typewriter) Deleting() bool { return t.deleting }

// Text is the portion of the current phrase on screen.
func (t *Typewriter) Text() string {
	return string(t.phrases[t.Phrase()][:t.shown])
}

// Cursor is the caret glyph drawn after Text.
func (t *Typewriter) Cursor() string { return t.cfg.Cursor }

// Step advances the typing clock. It only returns false after Close.
func (t *Typewriter) Step(dt time.Duration) bool {
	if t.closed {
		return false
	}
	if !t.started || dt <= 0 {
		return true
	}
	t.wait -= dt
	for t.wait <= 0 {
		t.act()
	}
	return true
}

func (t *Typewriter) act() {
	full := t.phrases[t.Phrase()]
	if !t.deleting {
		if t.shown < len(full) {
			t.shown++
		}
		if t.shown >= len(full) {
			t.deleting = true
			t.wait += max(t.cfg.Pause, t.cfg.DeleteSpeed)
			return
		}
		t.wait += t.cfg.TypeSpeed
		return
	}
	if t.shown > 0 {
		t.shown--
	}
	if t.shown == 0 {
		t.deleting = false
		t.loop++
		t.wait += t.cfg.TypeSpeed
		return
	}
	t.wait += t.cfg.DeleteSpeed
}

func (t *Typewriter) Close() { t.closed = true }
