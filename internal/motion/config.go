package motion

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoItems          = errors.New("motion: item sequence is empty")
	ErrNegativeDuration = errors.New("motion: negative duration")
	ErrThreshold        = errors.New("motion: visibility threshold must be in (0,1]")
	ErrDriverUsed       = errors.New("motion: driver already started")
)

// DefaultMaxDelta bounds a single frame delta after a long suspension.
const DefaultMaxDelta = 100 * time.Millisecond

// MorphConfig holds the timing of a morph sequence.
type MorphConfig struct {
	Morph   time.Duration
	Hold    time.Duration
	FadeOut time.Duration
	// MaxDelta clamps each step's delta. Zero disables clamping.
	MaxDelta time.Duration
}

// DefaultMorphConfig matches the intro splash: 1.5s morph, 0.5s hold and no
// fade on the final item.
func DefaultMorphConfig() MorphConfig {
	return MorphConfig{
		Morph:    1500 * time.Millisecond,
		Hold:     500 * time.Millisecond,
		FadeOut:  0,
		MaxDelta: DefaultMaxDelta,
	}
}

func (c MorphConfig) validate() error {
	for name, d := range map[string]time.Duration{
		"morph":     c.Morph,
		"hold":      c.Hold,
		"fade out":  c.FadeOut,
		"max delta": c.MaxDelta,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s = %s", ErrNegativeDuration, name, d)
		}
	}
	return nil
}

// clampDelta applies the MaxDelta bound and rejects negative deltas.
func clampDelta(dt, limit time.Duration) time.Duration {
	if dt < 0 {
		return 0
	}
	if limit > 0 && dt > limit {
		return limit
	}
	return dt
}

// fraction returns elapsed/total capped at 1. A zero total is complete.
func fraction(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	f := float64(elapsed) / float64(total)
	if f > 1 {
		return 1
	}
	return f
}
