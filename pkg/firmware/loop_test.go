package firmware

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingController struct {
	ticks atomic.Int32
}

func (c *countingController) Control(ControlContext) error {
	c.ticks.Add(1)
	return nil
}

func waitTicks(t *testing.T, c *countingController, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.ticks.Load() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected %d ticks, got %d", want, c.ticks.Load())
}

func TestLoopTicks(t *testing.T) {
	ctl := &countingController{}
	l := NewLoop().AddController(ctl)
	l.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan error, 1)
	go func() {
		doneCh <- l.Run(ctx)
	}()
	waitTicks(t, ctl, 3)
	cancel()
	require.Equal(t, context.Canceled, <-doneCh)
}

func TestLoopTriggerNext(t *testing.T) {
	ctl := &countingController{}
	l := NewLoop().AddController(ctl)
	l.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	l.TriggerNext()
	waitTicks(t, ctl, 1)
	l.TriggerNext()
	waitTicks(t, ctl, 2)
}

func TestLoopControllerError(t *testing.T) {
	// a failing controller must not stop the loop
	failing := ControlFunc(func(ControlContext) error {
		return errors.New("boom")
	})
	ctl := &countingController{}
	l := NewLoop().AddController(failing, ctl)
	l.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)
	waitTicks(t, ctl, 2)
}

func TestLoopControlContext(t *testing.T) {
	var gotCtx context.Context
	var gotTime time.Time
	ctl := ControlFunc(func(cc ControlContext) error {
		gotCtx = cc.Context()
		gotTime = cc.Time()
		return nil
	})
	done := &countingController{}
	l := NewLoop().AddController(ctl, done)
	l.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)
	waitTicks(t, done, 1)
	require.NotNil(t, gotCtx)
	require.False(t, gotTime.IsZero())
}

func TestRunnerWait(t *testing.T) {
	failed := errors.New("failed")
	err := NewRunner().Go(
		RunFunc(func(context.Context) error { return nil }),
		RunFunc(func(context.Context) error { return failed }),
		RunFunc(func(context.Context) error { return context.Canceled }),
	).Wait()
	require.ErrorIs(t, err, failed)
}

func TestRunnerWaitJoins(t *testing.T) {
	err := NewRunner().Go(
		NamedRun("a", RunFunc(func(context.Context) error { return errors.New("a failed") })),
		NamedRun("b", RunFunc(func(context.Context) error { return errors.New("b failed") })),
	).Wait()
	require.Error(t, err)
	require.ErrorContains(t, err, "a failed")
	require.ErrorContains(t, err, "b failed")
}

func TestRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	cancel()
	require.NoError(t, r.Wait())
}

func TestLoopRunsRunnableControllers(t *testing.T) {
	started := make(chan struct{})
	ctl := &runnableController{startedCh: started}
	l := NewLoop().AddController(ctl)
	l.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("background runner not started")
	}
}

type runnableController struct {
	startedCh chan struct{}
}

func (c *runnableController) Control(ControlContext) error { return nil }

func (c *runnableController) Run(ctx context.Context) error {
	close(c.startedCh)
	<-ctx.Done()
	return ctx.Err()
}
