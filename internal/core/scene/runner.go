package scene

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/observability/log"
)

// Runner drives a Scene at a fixed tick rate. It is the only goroutine that
// touches the scene while Run is active; transports talk to it through
// SetInput and frame sinks.
type Runner struct {
	scene    *Scene
	interval time.Duration
	logger   log.Log

	mu      sync.Mutex
	input   Input
	latched Input
	sinks   []func(Frame)
	last    Frame
	hasLast bool

	running atomic.Bool
}

func NewRunner(scene *Scene, loop config.Loop, logger log.Log) *Runner {
	if logger == nil {
		logger = log.Provide()
	}
	return &Runner{
		scene:    scene,
		interval: loop.Interval(),
		logger:   logger.With(log.String("component", "runner")),
	}
}

// SetInput replaces the held input. Presses of the mouse, reset and deselect
// are latched until the next tick so short taps are not lost.
func (r *Runner) SetInput(in Input) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.input = in
	r.latched.MousePressed = r.latched.MousePressed || in.MousePressed
	r.latched.Reset = r.latched.Reset || in.Reset
	r.latched.Deselect = r.latched.Deselect || in.Deselect
}

// Input returns the currently held input.
func (r *Runner) Input() Input {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.input
}

// Subscribe registers a sink called with every frame, in the ticking goroutine.
func (r *Runner) Subscribe(sink func(Frame)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sink)
}

// LastFrame returns the latest frame, or false before the first tick.
func (r *Runner) LastFrame() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.hasLast
}

// Tick steps the scene once with the held input. It must not be called
// concurrently with Run.
func (r *Runner) Tick(dt float64) Frame {
	r.mu.Lock()
	in := r.input
	in.MousePressed = in.MousePressed || r.latched.MousePressed
	in.Reset = in.Reset || r.latched.Reset
	in.Deselect = in.Deselect || r.latched.Deselect
	r.latched = Input{}
	r.mu.Unlock()

	frame := r.scene.Step(in, dt)

	r.mu.Lock()
	r.last, r.hasLast = frame, true
	sinks := append([]func(Frame){}, r.sinks...)
	r.mu.Unlock()

	for _, sink := range sinks {
		sink(frame)
	}
	return frame
}

// Run ticks until ctx is cancelled, using the measured wall time as dt.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRunnerAlreadyRunning
	}
	defer r.running.Store(false)

	r.logger.Info("Runner started", log.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Runner stopped", log.Int64("frames", r.scene.FrameCount()))
			return nil
		case now := <-ticker.C:
			dt := now.Sub(prev).Seconds()
			prev = now
			r.Tick(dt)
		}
	}
}

func (r *Runner) Scene() *Scene { return r.scene }
