package motion

import (
	"fmt"
	"image"
	"sync"
)

// Gate is a one-shot visibility latch. It fires its callback the first time
// an observed element is visible by at least the threshold fraction and then
// disconnects for good.
type Gate struct {
	threshold float64
	onVisible func()

	mu        sync.Mutex
	visible   bool
	connected bool
}

// NewGate returns a connected gate. onVisible may be nil.
func NewGate(threshold float64, onVisible func()) (*Gate, error) {
	if !(threshold > 0 && threshold <= 1) {
		return nil, fmt.Errorf("%w: %v", ErrThreshold, threshold)
	}
	return &Gate{threshold: threshold, onVisible: onVisible, connected: true}, nil
}

// Observe records the current visible fraction of the element. It returns
// true only for the observation that opened the latch.
func (g *Gate) Observe(ratio float64) bool {
	g.mu.Lock()
	if !g.connected || ratio <= 0 || ratio < g.threshold {
		g.mu.Unlock()
		return false
	}
	g.visible = true
	g.connected = false
	fn := g.onVisible
	g.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// ObserveRect is Observe for hosts that lay elements out as rectangles.
func (g *Gate) ObserveRect(element, viewport image.Rectangle) bool {
	return g.Observe(IntersectionRatio(element, viewport))
}

// Visible reports whether the latch has fired. It never reverts.
func (g *Gate) Visible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visible
}

// Disconnect stops observing without firing.
func (g *Gate) Disconnect() {
	g.mu.Lock()
	g.connected = false
	g.mu.Unlock()
}

// IntersectionRatio is the fraction of element's area inside viewport.
func IntersectionRatio(element, viewport image.Rectangle) float64 {
	if element.Empty() {
		return 0
	}
	in := element.Intersect(viewport)
	if in.Empty() {
		return 0
	}
	area := func(r image.Rectangle) float64 { return float64(r.Dx() * r.Dy()) }
	return area(in) / area(element)
}
