package motion

import (
	"math"
	"testing"
	"time"
)

func TestTypewriterCycle(t *testing.T) {
	cfg := TypewriterConfig{
		TypeSpeed:   100 * time.Millisecond,
		DeleteSpeed: 50 * time.Millisecond,
		Pause:       200 * time.Millisecond,
		Cursor:      "|",
	}
	tw, err := NewTypewriter([]string{"ab", "c"}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	tw.Step(time.Second)
	if tw.Text() != "" {
		t.Fatalf("typed %q before Start", tw.Text())
	}
	tw.Start()

	steps := []struct {
		dt    time.Duration
		want  string
		index int
	}{
		{100 * time.Millisecond, "a", 0},
		{100 * time.Millisecond, "ab", 0},
		{100 * time.Millisecond, "ab", 0},
		{100 * time.Millisecond, "a", 0},
		{50 * time.Millisecond, "", 1},
		{100 * time.Millisecond, "c", 1},
		{200 * time.Millisecond, "", 0},
	}
	for i, s := range steps {
		tw.Step(s.dt)
		if tw.Text() != s.want || tw.Phrase() != s.index {
			t.Fatalf("step %d: text %q phrase %d, want %q phrase %d", i, tw.Text(), tw.Phrase(), s.want, s.index)
		}
	}
	tw.Close()
	if tw.Step(time.Second) {
		t.Error("closed typewriter kept running")
	}
}

func TestTypewriterRejectsBadConfig(t *testing.T) {
	if _, err := NewTypewriter(nil, DefaultTypewriterConfig()); err == nil {
		t.Error("empty phrases accepted")
	}
	cfg := DefaultTypewriterConfig()
	cfg.TypeSpeed = 0
	if _, err := NewTypewriter([]string{"x"}, cfg); err == nil {
		t.Error("zero type speed accepted")
	}
}

func TestTiltFollowsPointerAndRecentres(t *testing.T) {
	tl := NewTilt(DefaultTiltConfig())
	tl.Pointer(1000, -1000)
	tl.Step(3 * time.Second)
	rx, ry, glare := tl.Angles()
	if math.Abs(rx-15) > 0.01 || math.Abs(ry-15) > 0.01 || math.Abs(glare-0.2) > 0.001 {
		t.Errorf("angles = %v, %v, %v; want 15, 15, 0.2", rx, ry, glare)
	}
	if tl.Step(0) {
		t.Error("settled tilt still reports motion")
	}

	tl.BeginDrag()
	tl.Pointer(-300, 300)
	tl.Step(time.Second)
	if _, ry, _ := tl.Angles(); ry < 14 {
		t.Errorf("pointer moved card while dragging: rotY = %v", ry)
	}

	tl.EndDrag()
	tl.Step(3 * time.Second)
	rx, ry, glare = tl.Angles()
	if math.Abs(rx) > 0.01 || math.Abs(ry) > 0.01 || glare > 0.001 {
		t.Errorf("after release angles = %v, %v, %v; want 0", rx, ry, glare)
	}
}

func TestTiltHalfRange(t *testing.T) {
	tl := NewTilt(DefaultTiltConfig())
	tl.Pointer(150, 150)
	tl.Step(3 * time.Second)
	rx, ry, _ := tl.Angles()
	if math.Abs(rx+7.5) > 0.01 || math.Abs(ry-7.5) > 0.01 {
		t.Errorf("angles = %v, %v; want -7.5, 7.5", rx, ry)
	}
	tl.Leave()
	tl.Step(3 * time.Second)
	if rx, _, _ := tl.Angles(); math.Abs(rx) > 0.01 {
		t.Errorf("rotX after leave = %v", rx)
	}
}

func TestOrbitPositions(t *testing.T) {
	o := Orbit{Radius: 10, Period: 20 * time.Second}
	pts := o.Positions(4, 0)
	want := [][2]float64{{0, 10}, {-10, 0}, {0, -10}, {10, 0}}
	for i, p := range pts {
		if math.Abs(p.X-want[i][0]) > 1e-9 || math.Abs(p.Y-want[i][1]) > 1e-9 {
			t.Errorf("icon %d at (%v,%v), want %v", i, p.X, p.Y, want[i])
		}
	}

	half := o.Positions(4, 10*time.Second)
	if math.Abs(half[0].Y+10) > 1e-9 || math.Abs(half[0].Angle-180) > 1e-9 {
		t.Errorf("icon 0 after half period = %+v", half[0])
	}

	o.Reverse = true
	quarter := o.Positions(1, 5*time.Second)
	if math.Abs(quarter[0].X-10) > 1e-9 || math.Abs(quarter[0].Angle-270) > 1e-9 {
		t.Errorf("reversed icon after quarter period = %+v", quarter[0])
	}

	if o.Positions(0, 0) != nil {
		t.Error("zero icons produced points")
	}
}

func TestNavCompact(t *testing.T) {
	if NavCompact(100) || !NavCompact(100.5) || NavCompact(0) {
		t.Error("navbar compacts at the wrong offset")
	}
}
