// Package motion is the phase-driven animation engine behind the portfolio's
// effects.
//
// Every effect is a value with a Step(dt) method that advances it by a
// wall-clock delta and reports whether it is still running. A Driver calls
// Step once per display refresh; a Gate starts an effect the first time its
// host becomes visible. Effects never paint: they expose per-frame visual
// parameters (opacity, blur, saturation, angles) and the host renders them.
//
//   - Morph cross-fades a fixed list of items and stops after the last one.
//   - Reveal fades a grid of image tiles in with random, frozen delays.
//   - Typewriter types and deletes phrases in a loop.
//   - Tilt smooths pointer-driven card rotation with springs.
//   - Orbit places icons on a rotating ring.
//
// None of the effects are safe for concurrent use. The driver goroutine is
// the only writer; hosts read frames from inside the step.
package motion
