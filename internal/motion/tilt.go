package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// TiltConfig describes the drag-card tilt. Pointer offsets beyond Range are
// clamped; the spring is given as stiffness, damping and mass.
type TiltConfig struct {
	Range     float64
	MaxAngle  float64
	MaxGlare  float64
	Stiffness float64
	Damping   float64
	Mass      float64
	FPS       int
}

func DefaultTiltConfig() TiltConfig {
	return TiltConfig{
		Range:     300,
		MaxAngle:  15,
		MaxGlare:  0.2,
		Stiffness: 100,
		Damping:   20,
		Mass:      0.5,
		FPS:       60,
	}
}

type sprung struct {
	pos, vel, target float64
}

func (s *sprung) settled() bool {
	const eps = 1e-3
	return math.Abs(s.pos-s.target) < eps && math.Abs(s.vel) < eps
}

// Tilt follows the pointer across a card with spring-smoothed rotation and
// glare.
type Tilt struct {
	cfg      TiltConfig
	spring   harmonica.Spring
	stepSize time.Duration
	acc      time.Duration
	dragging bool

	rotX, rotY, glare sprung
}

func NewTilt(cfg TiltConfig) *Tilt {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.Range <= 0 {
		cfg.Range = 300
	}
	omega := math.Sqrt(cfg.Stiffness / cfg.Mass)
	zeta := cfg.Damping / (2 * math.Sqrt(cfg.Stiffness*cfg.Mass))
	return &Tilt{
		cfg:      cfg,
		spring:   harmonica.NewSpring(harmonica.FPS(cfg.FPS), omega, zeta),
		stepSize: time.Second / time.Duration(cfg.FPS),
	}
}

// Pointer moves the pointer to (dx, dy) relative to the card centre. Ignored
// while dragging.
func (t *Tilt) Pointer(dx, dy float64) {
	if t.dragging {
		return
	}
	nx := clampUnit(dx / t.cfg.Range)
	ny := clampUnit(dy / t.cfg.Range)
	t.rotX.target = -ny * t.cfg.MaxAngle
	t.rotY.target = nx * t.cfg.MaxAngle
	t.glare.target = math.Abs(nx) * t.cfg.MaxGlare
}

// Leave recentres the card when the pointer exits, unless it is being dragged.
func (t *Tilt) Leave() {
	if !t.dragging {
		t.recentre()
	}
}

func (t *Tilt) BeginDrag() { t.dragging = true }

// EndDrag releases the card and recentres it.
func (t *Tilt) EndDrag() {
	t.dragging = false
	t.recentre()
}

func (t *Tilt) Dragging() bool { return t.dragging }

func (t *Tilt) recentre() {
	t.rotX.target, t.rotY.target, t.glare.target = 0, 0, 0
}

// Step advances the springs in fixed increments. It returns false once every
// spring has come to rest on its target.
func (t *Tilt) Step(dt time.Duration) bool {
	if dt > 0 {
		t.acc += dt
	}
	for t.acc >= t.stepSize {
		t.acc -= t.stepSize
		for _, s := range []*sprung{&t.rotX, &t.rotY, &t.glare} {
			s.pos, s.vel = t.spring.Update(s.pos, s.vel, s.target)
		}
	}
	return !(t.rotX.settled() && t.rotY.settled() && t.glare.settled())
}

// Angles returns the current rotateX, rotateY in degrees and glare opacity.
func (t *Tilt) Angles() (rotX, rotY, glare float64) {
	return t.rotX.pos, t.rotY.pos, math.Max(0, t.glare.pos)
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
