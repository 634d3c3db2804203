package firmware

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error { return f(ctx) }

// Controller is one unit of cooperative work driven by the main loop.
// Control runs once per iteration and must return without blocking.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error { return f(cc) }

// ControlContext provides the context of the current loop iteration.
type ControlContext interface {
	// Context retrieves the context.Context the loop runs under.
	Context() context.Context
	// Time is when the current iteration started.
	Time() time.Time
	// TriggerNext schedules another iteration immediately after the
	// current one instead of waiting for the next tick.
	TriggerNext()
}
