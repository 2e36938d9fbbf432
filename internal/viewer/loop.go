package viewer

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// FrameFunc draws one frame. dt is the time since the previous frame in seconds.
type FrameFunc func(dt float32)

// Loop calls a frame function repeatedly until stopped. Stopping never
// interrupts a frame in progress; the loop exits before the next one.
type Loop struct {
	frame    FrameFunc
	fpsLimit int
	log      *zap.Logger

	stopped atomic.Bool
	running atomic.Bool
	frames  atomic.Uint64
}

// NewLoop creates a loop. fpsLimit <= 0 runs unthrottled.
func NewLoop(frame FrameFunc, fpsLimit int, log *zap.Logger) *Loop {
	return &Loop{frame: frame, fpsLimit: fpsLimit, log: log}
}

// Run blocks, calling the frame function until Stop is called or ctx is done.
// It must run on the goroutine that owns the scene.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	defer l.running.Store(false)

	var budget time.Duration
	if l.fpsLimit > 0 {
		budget = time.Second / time.Duration(l.fpsLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	l.log.Info("render loop started", zap.Int("fps_limit", l.fpsLimit))

	for !l.stopped.Load() {
		if err := ctx.Err(); err != nil {
			l.log.Info("render loop canceled")
			return err
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		l.frame(float32(dt))
		l.frames.Add(1)

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			l.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if budget > 0 {
			if spent := time.Since(now); spent < budget {
				time.Sleep(budget - spent)
			}
		}
	}

	l.log.Info("render loop stopped", zap.Uint64("frames", l.frames.Load()))
	return nil
}

// Step runs a single frame unless the loop is stopped.
func (l *Loop) Step(dt float32) bool {
	if l.stopped.Load() {
		return false
	}
	l.frame(dt)
	l.frames.Add(1)
	return true
}

// Stop prevents any further frames from being scheduled.
func (l *Loop) Stop() {
	l.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	return l.stopped.Load()
}

// Frames returns the number of frames drawn.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}
