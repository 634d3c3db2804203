// Package firmware provides the cooperative main loop and background
// runner plumbing shared by the controller's I/O daemons.
package firmware

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick period used when Loop.Interval is zero.
const DefaultInterval = 10 * time.Millisecond

// Loop is the cooperative main loop. Controllers run in registration
// order once per tick; there is no preemption, so controllers must not
// block. Controllers that also implement Runnable are started in the
// background alongside the loop.
type Loop struct {
	Interval time.Duration

	controllers []Controller
	runners     []Runnable
	wakeUpCh    chan struct{}
}

// NewLoop creates a Loop with the default tick interval.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// AddController registers controllers, run in order every iteration.
func (l *Loop) AddController(ctls ...Controller) *Loop {
	l.controllers = append(l.controllers, ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds background runners started with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// TriggerNext requests an immediate iteration. Safe to call from any
// goroutine, including transport callbacks.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable. It ticks until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			l.runIteration(ctx, t)
		case <-l.wakeUpCh:
			l.runIteration(ctx, time.Now())
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop with
// signal handling.
func (l *Loop) RunOrFail() {
	if err := NewRunner().HandleSignals().Go(l).Wait(); err != nil {
		glog.Exitf("loop failed: %v", err)
	}
}

func (l *Loop) runIteration(ctx context.Context, t time.Time) {
	iter := &iteration{loop: l, ctx: ctx, time: t}
	for _, ctl := range l.controllers {
		if err := ctl.Control(iter); err != nil {
			glog.Errorf("controller error: %v", err)
		}
	}
}

type iteration struct {
	loop *Loop
	ctx  context.Context
	time time.Time
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }
func (t *iteration) TriggerNext()             { t.loop.TriggerNext() }
