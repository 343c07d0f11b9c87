package motion

import (
	"math"
	"time"
)

// NavCompactAfter is the scroll offset past which the navbar shrinks.
const NavCompactAfter = 100

// NavCompact reports whether the navbar should use its compact form.
func NavCompact(scrollY float64) bool { return scrollY > NavCompactAfter }

// Orbit spaces icons evenly on a circle and turns them once per period.
type Orbit struct {
	Radius  float64
	Period  time.Duration
	Delay   time.Duration
	Reverse bool
}

// OrbitPoint is an icon centre relative to the orbit centre, y pointing down.
type OrbitPoint struct {
	X, Y  float64
	Angle float64
}

// Positions places n icons at elapsed time.
func (o Orbit) Positions(n int, elapsed time.Duration) []OrbitPoint {
	if n <= 0 {
		return nil
	}
	turn := 0.0
	if o.Period > 0 {
		t := elapsed + o.Delay
		turn = 360 * math.Mod(float64(t)/float64(o.Period), 1)
	}
	if o.Reverse {
		turn = -turn
	}
	pts := make([]OrbitPoint, n)
	for i := range pts {
		deg := 360/float64(n)*float64(i) + turn
		rad := deg * math.Pi / 180
		pts[i] = OrbitPoint{
			X:     -o.Radius * math.Sin(rad),
			Y:     o.Radius * math.Cos(rad),
			Angle: math.Mod(deg+360, 360),
		}
	}
	return pts
}
