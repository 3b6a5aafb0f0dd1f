package behavior

import "time"

// Action is a user-authored leaf. Its tick function carries the actual
// behavior; an optional reset function clears any internal state.
type Action struct {
	tick  func(ctx *Context) Status
	reset func()
}

// NewAction builds an action leaf. Panics on a nil tick function.
func NewAction(tick func(ctx *Context) Status) *Action {
	return NewActionWithReset(tick, nil)
}

// NewActionWithReset builds an action leaf with a reset hook. Panics on a
// nil tick function.
func NewActionWithReset(tick func(ctx *Context) Status, reset func()) *Action {
	if tick == nil {
		panic("behavior: action requires a tick function")
	}
	return &Action{tick: tick, reset: reset}
}

// Tick implements Node.
func (a *Action) Tick(ctx *Context) Status { return a.tick(ctx) }

// Reset implements Node.
func (a *Action) Reset() {
	if a.reset != nil {
		a.reset()
	}
}

// Condition is a user-authored predicate leaf. True maps to success, false
// to failure; a condition never reports running.
type Condition struct {
	check func(ctx *Context) bool
}

// NewCondition builds a condition leaf. Panics on a nil check function.
func NewCondition(check func(ctx *Context) bool) *Condition {
	if check == nil {
		panic("behavior: condition requires a check function")
	}
	return &Condition{check: check}
}

// Tick implements Node.
func (c *Condition) Tick(ctx *Context) Status {
	if c.check(ctx) {
		return StatusSuccess
	}
	return StatusFailure
}

// Reset implements Node.
func (c *Condition) Reset() {}

// Wait accumulates frame deltas across ticks and succeeds once the
// configured duration has elapsed, resetting its accumulator. A negative
// duration never completes.
type Wait struct {
	duration time.Duration
	elapsed  time.Duration
}

// NewWait builds a wait leaf.
func NewWait(duration time.Duration) *Wait {
	return &Wait{duration: duration}
}

// Tick implements Node.
func (w *Wait) Tick(ctx *Context) Status {
	if w.duration < 0 {
		return StatusRunning
	}
	w.elapsed += ctx.Delta
	if w.elapsed < w.duration {
		return StatusRunning
	}
	w.elapsed = 0
	return StatusSuccess
}

// Reset implements Node.
func (w *Wait) Reset() { w.elapsed = 0 }
