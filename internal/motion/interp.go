package motion

import "math"

const (
	opacityExponent = 0.4
	blurDivisor     = 8.0
	// MaxBlur caps the blur radius so the 1/x curve never reaches infinity.
	MaxBlur = 100.0
)

// Visual is the per-unit output the rendering layer paints.
type Visual struct {
	Opacity float64 `json:"opacity"`
	Blur    float64 `json:"blur"`
}

// Hidden is a fully transparent unit.
var Hidden = Visual{Opacity: 0, Blur: 0}

// Solid is a fully opaque, sharp unit.
var Solid = Visual{Opacity: 1, Blur: 0}

// Outgoing returns the visual parameters of the unit fading out at morph
// fraction f.
func Outgoing(f float64) Visual {
	inv := 1 - clampFraction(f)
	return Visual{
		Opacity: math.Pow(inv, opacityExponent),
		Blur:    blurFor(inv),
	}
}

// Incoming returns the visual parameters of the unit fading in at morph
// fraction f. It does not mirror Outgoing: the incoming side sharpens earlier
// than the outgoing side fades.
func Incoming(f float64) Visual {
	f = clampFraction(f)
	return Visual{
		Opacity: math.Pow(f, opacityExponent),
		Blur:    blurFor(f),
	}
}

func blurFor(x float64) float64 {
	if x <= 0 {
		return MaxBlur
	}
	b := blurDivisor/x - blurDivisor
	if b < 0 {
		return 0
	}
	return math.Min(b, MaxBlur)
}

func clampFraction(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
