package motion

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newFakeDriver(maxDelta time.Duration) (*Driver, *fakeTicker, *fakeClock) {
	ft := &fakeTicker{ch: make(chan time.Time)}
	fc := &fakeClock{now: time.Unix(0, 0)}
	d := NewDriver(16*time.Millisecond,
		WithClock(fc.Now),
		WithTicker(func(time.Duration) Ticker { return ft }),
		WithMaxDelta(maxDelta),
	)
	return d, ft, fc
}

func TestDriverPassesWallClockDeltas(t *testing.T) {
	d, ft, fc := newFakeDriver(time.Second)
	got := make(chan time.Duration, 8)
	n := 0
	err := d.Start(context.Background(), func(dt time.Duration) bool {
		got <- dt
		n++
		return n < 3
	})
	if err != nil {
		t.Fatal(err)
	}

	if dt := <-got; dt != 0 {
		t.Errorf("first delta = %v, want 0", dt)
	}
	for _, step := range []time.Duration{16 * time.Millisecond, 40 * time.Millisecond} {
		fc.Advance(step)
		ft.ch <- time.Time{}
		if dt := <-got; dt != step {
			t.Errorf("delta = %v, want %v", dt, step)
		}
	}

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("driver did not stop after step returned false")
	}
	if !ft.stopped.Load() {
		t.Error("ticker not released")
	}
	if d.Frames() != 3 {
		t.Errorf("frames = %d, want 3", d.Frames())
	}
}

func TestDriverClampsLongSuspension(t *testing.T) {
	d, ft, fc := newFakeDriver(100 * time.Millisecond)
	got := make(chan time.Duration, 4)
	if err := d.Start(context.Background(), func(dt time.Duration) bool {
		got <- dt
		return true
	}); err != nil {
		t.Fatal(err)
	}
	<-got
	fc.Advance(30 * time.Second)
	ft.ch <- time.Time{}
	if dt := <-got; dt != 100*time.Millisecond {
		t.Errorf("delta = %v, want clamp to 100ms", dt)
	}
	d.Stop()
}

func TestDriverStopIsIdempotentAndFinal(t *testing.T) {
	d, ft, _ := newFakeDriver(DefaultMaxDelta)
	if err := d.Start(context.Background(), func(time.Duration) bool { return true }); err != nil {
		t.Fatal(err)
	}
	d.Stop()
	d.Stop()
	if !ft.stopped.Load() {
		t.Error("ticker not released on Stop")
	}
	if err := d.Start(context.Background(), func(time.Duration) bool { return true }); !errors.Is(err, ErrDriverUsed) {
		t.Errorf("restart err = %v, want ErrDriverUsed", err)
	}
}

func TestDriverStopBeforeStart(t *testing.T) {
	d, _, _ := newFakeDriver(DefaultMaxDelta)
	d.Stop()
	d.Stop()
	select {
	case <-d.Done():
	default:
		t.Fatal("Done not closed")
	}
	if err := d.Start(context.Background(), func(time.Duration) bool { return true }); !errors.Is(err, ErrDriverUsed) {
		t.Errorf("err = %v, want ErrDriverUsed", err)
	}
}

func TestDriverStopsOnContextCancel(t *testing.T) {
	d, _, _ := newFakeDriver(DefaultMaxDelta)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, func(time.Duration) bool { return true })
	}()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDriverRunsMorphToCompletion(t *testing.T) {
	d, ft, fc := newFakeDriver(DefaultMaxDelta)
	m, err := NewMorph([]string{"A", "B", "C"}, scenarioConfig())
	if err != nil {
		t.Fatal(err)
	}
	stepped := make(chan struct{}, 1)
	if err := d.Start(context.Background(), func(dt time.Duration) bool {
		running := m.Step(dt)
		stepped <- struct{}{}
		return running
	}); err != nil {
		t.Fatal(err)
	}
	<-stepped
	for i := 0; i < 200; i++ {
		select {
		case <-d.Done():
			if !m.Stopped() {
				t.Fatal("driver exited before morph stopped")
			}
			return
		default:
		}
		fc.Advance(50 * time.Millisecond)
		select {
		case ft.ch <- time.Time{}:
			<-stepped
		case <-d.Done():
		}
	}
	t.Fatal("morph did not finish")
}

func TestWhenAttachedSkipsDetachedFrames(t *testing.T) {
	attached := false
	calls := 0
	step := WhenAttached(func() bool { return attached }, func(time.Duration) bool {
		calls++
		return false
	})
	if !step(time.Millisecond) {
		t.Error("detached frame stopped the driver")
	}
	if calls != 0 {
		t.Errorf("inner step ran %d times while detached", calls)
	}
	attached = true
	if step(time.Millisecond) {
		t.Error("inner result not propagated")
	}
	if calls != 1 {
		t.Errorf("inner step ran %d times, want 1", calls)
	}
}
