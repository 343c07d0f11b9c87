package motion

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh at 60Hz.
const DefaultFrameInterval = time.Second / 60

// Ticker is the frame source a Driver waits on.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type wallTicker struct{ t *time.Ticker }

func (w wallTicker) C() <-chan time.Time { return w.t.C }
func (w wallTicker) Stop()               { w.t.Stop() }

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithMaxDelta clamps each delta handed to the step. Zero disables clamping.
func WithMaxDelta(d time.Duration) DriverOption {
	return func(dr *Driver) { dr.maxDelta = d }
}

// WithClock replaces the wall clock used to measure deltas.
func WithClock(now func() time.Time) DriverOption {
	return func(dr *Driver) { dr.now = now }
}

// WithTicker replaces the frame source.
func WithTicker(newTicker func(time.Duration) Ticker) DriverOption {
	return func(dr *Driver) { dr.newTicker = newTicker }
}

// Driver calls a step function once per frame with the wall-clock time since
// the previous frame. A Driver runs at most once; after it stops it cannot be
// restarted.
type Driver struct {
	interval  time.Duration
	maxDelta  time.Duration
	now       func() time.Time
	newTicker func(time.Duration) Ticker

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	frames  uint64
}

// NewDriver returns a driver ticking every interval. A non-positive interval
// falls back to DefaultFrameInterval.
func NewDriver(interval time.Duration, opts ...DriverOption) *Driver {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	d := &Driver{
		interval: interval,
		maxDelta: DefaultMaxDelta,
		now:      time.Now,
		newTicker: func(i time.Duration) Ticker {
			return wallTicker{t: time.NewTicker(i)}
		},
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start runs step on a new goroutine until step returns false, ctx is done or
// Stop is called.
func (d *Driver) Start(ctx context.Context, step func(dt time.Duration) bool) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return ErrDriverUsed
	}
	d.started = true
	ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	go d.loop(ctx, step)
	return nil
}

// Run is the blocking form of Start.
func (d *Driver) Run(ctx context.Context, step func(dt time.Duration) bool) error {
	if err := d.Start(ctx, step); err != nil {
		return err
	}
	<-d.done
	return ctx.Err()
}

// Stop cancels the loop and waits for it to exit. Stopping an idle or already
// stopped driver is a no-op, and a stopped driver stays stopped.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.started {
		d.started = true
		close(d.done)
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-d.done
}

// Done is closed when the loop has exited.
func (d *Driver) Done() <-chan struct{} { return d.done }

// Frames reports how many steps have run.
func (d *Driver) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

func (d *Driver) loop(ctx context.Context, step func(dt time.Duration) bool) {
	ticker := d.newTicker(d.interval)
	defer close(d.done)
	defer ticker.Stop()
	defer d.cancel()

	last := d.now()
	if !d.tick(step, 0) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			now := d.now()
			dt := clampDelta(now.Sub(last), d.maxDelta)
			last = now
			if !d.tick(step, dt) {
				return
			}
		}
	}
}

func (d *Driver) tick(step func(time.Duration) bool, dt time.Duration) bool {
	d.mu.Lock()
	d.frames++
	d.mu.Unlock()
	return step(dt)
}

// WhenAttached wraps step so that frames without a host are skipped. The
// driver keeps running and the step resumes once attached reports true.
func WhenAttached(attached func() bool, step func(time.Duration) bool) func(time.Duration) bool {
	return func(dt time.Duration) bool {
		if !attached() {
			return true
		}
		return step(dt)
	}
}
