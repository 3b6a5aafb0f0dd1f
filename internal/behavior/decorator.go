package behavior

// Inverter swaps success and failure. Running passes through unchanged.
type Inverter struct {
	child Node
}

// NewInverter wraps child. Panics on a nil child.
func NewInverter(child Node) *Inverter {
	mustChild("inverter", child)
	return &Inverter{child: child}
}

// Tick implements Node.
func (i *Inverter) Tick(ctx *Context) Status {
	switch i.child.Tick(ctx) {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	}
	return StatusRunning
}

// Reset implements Node.
func (i *Inverter) Reset() { i.child.Reset() }

// Succeeder maps any terminal child status to success. Running passes
// through.
type Succeeder struct {
	child Node
}

// NewSucceeder wraps child. Panics on a nil child.
func NewSucceeder(child Node) *Succeeder {
	mustChild("succeeder", child)
	return &Succeeder{child: child}
}

// Tick implements Node.
func (s *Succeeder) Tick(ctx *Context) Status {
	if s.child.Tick(ctx) == StatusRunning {
		return StatusRunning
	}
	return StatusSuccess
}

// Reset implements Node.
func (s *Succeeder) Reset() { s.child.Reset() }

// Failer maps any terminal child status to failure. Running passes through.
type Failer struct {
	child Node
}

// NewFailer wraps child. Panics on a nil child.
func NewFailer(child Node) *Failer {
	mustChild("failer", child)
	return &Failer{child: child}
}

// Tick implements Node.
func (f *Failer) Tick(ctx *Context) Status {
	if f.child.Tick(ctx) == StatusRunning {
		return StatusRunning
	}
	return StatusFailure
}

// Reset implements Node.
func (f *Failer) Reset() { f.child.Reset() }

// Repeater ticks its child once per outer tick and counts completed
// (terminal) child evaluations. It reports running until the child has
// completed the configured number of times, then succeeds and resets its
// counter.
type Repeater struct {
	child Node
	times int
	count int
}

// NewRepeater wraps child, succeeding after times completions. Panics on a
// nil child or a non-positive count.
func NewRepeater(child Node, times int) *Repeater {
	mustChild("repeater", child)
	if times <= 0 {
		panic("behavior: repeater count must be positive")
	}
	return &Repeater{child: child, times: times}
}

// Tick implements Node.
func (r *Repeater) Tick(ctx *Context) Status {
	if r.child.Tick(ctx) == StatusRunning {
		return StatusRunning
	}
	r.count++
	if r.count < r.times {
		return StatusRunning
	}
	r.count = 0
	return StatusSuccess
}

// Reset implements Node.
func (r *Repeater) Reset() {
	r.count = 0
	r.child.Reset()
}

// UntilFail ticks its child once per outer tick and reports running while
// the child keeps returning a non-failure status. The tick on which the
// child fails, UntilFail succeeds.
type UntilFail struct {
	child Node
}

// NewUntilFail wraps child. Panics on a nil child.
func NewUntilFail(child Node) *UntilFail {
	mustChild("until-fail", child)
	return &UntilFail{child: child}
}

// Tick implements Node.
func (u *UntilFail) Tick(ctx *Context) Status {
	if u.child.Tick(ctx) == StatusFailure {
		return StatusSuccess
	}
	return StatusRunning
}

// Reset implements Node.
func (u *UntilFail) Reset() { u.child.Reset() }

func mustChild(kind string, child Node) {
	if child == nil {
		panic("behavior: " + kind + " requires a child")
	}
}
