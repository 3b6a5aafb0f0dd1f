package behavior

// Sequence ticks its children in order from a remembered index, so a child
// returning StatusRunning resumes in place on the next tick. A failing
// child resets the index and fails the sequence; later siblings are not
// ticked that cycle.
type Sequence struct {
	children []Node
	current  int
}

// NewSequence builds a sequence. Panics when called with no children;
// structural misconfiguration fails at construction time, not during ticks.
func NewSequence(children ...Node) *Sequence {
	mustChildren("sequence", children)
	return &Sequence{children: children}
}

// Tick implements Node.
func (s *Sequence) Tick(ctx *Context) Status {
	for s.current < len(s.children) {
		switch s.children[s.current].Tick(ctx) {
		case StatusFailure:
			s.current = 0
			return StatusFailure
		case StatusRunning:
			return StatusRunning
		case StatusSuccess:
			s.current++
		}
	}
	s.current = 0
	return StatusSuccess
}

// Reset implements Node.
func (s *Sequence) Reset() {
	s.current = 0
	for _, c := range s.children {
		c.Reset()
	}
}

// Selector ticks its children in order from a remembered index until one
// succeeds or reports running. All children failing fails the selector.
type Selector struct {
	children []Node
	current  int
}

// NewSelector builds a selector. Panics when called with no children.
func NewSelector(children ...Node) *Selector {
	mustChildren("selector", children)
	return &Selector{children: children}
}

// Tick implements Node.
func (s *Selector) Tick(ctx *Context) Status {
	for s.current < len(s.children) {
		switch s.children[s.current].Tick(ctx) {
		case StatusSuccess:
			s.current = 0
			return StatusSuccess
		case StatusRunning:
			return StatusRunning
		case StatusFailure:
			s.current++
		}
	}
	s.current = 0
	return StatusFailure
}

// Reset implements Node.
func (s *Selector) Reset() {
	s.current = 0
	for _, c := range s.children {
		c.Reset()
	}
}

// ParallelPolicy selects how a Parallel combines child statuses.
type ParallelPolicy uint8

const (
	// RequireAllSuccess fails on any child failure and succeeds only when
	// every child succeeds.
	RequireAllSuccess ParallelPolicy = iota
	// RequireOneSuccess succeeds on any child success and fails only when
	// every child fails.
	RequireOneSuccess
)

// Parallel ticks every child on every call, with no short-circuit and no
// per-child resume state: children that already reached a terminal status
// are re-ticked on the next evaluation.
type Parallel struct {
	children []Node
	policy   ParallelPolicy
}

// NewParallel builds a parallel composite. Panics when called with no
// children.
func NewParallel(policy ParallelPolicy, children ...Node) *Parallel {
	mustChildren("parallel", children)
	return &Parallel{children: children, policy: policy}
}

// Tick implements Node.
func (p *Parallel) Tick(ctx *Context) Status {
	successes := 0
	failures := 0
	for _, c := range p.children {
		switch c.Tick(ctx) {
		case StatusSuccess:
			successes++
		case StatusFailure:
			failures++
		}
	}

	switch p.policy {
	case RequireAllSuccess:
		if failures > 0 {
			return StatusFailure
		}
		if successes == len(p.children) {
			return StatusSuccess
		}
	case RequireOneSuccess:
		if successes > 0 {
			return StatusSuccess
		}
		if failures == len(p.children) {
			return StatusFailure
		}
	}
	return StatusRunning
}

// Reset implements Node.
func (p *Parallel) Reset() {
	for _, c := range p.children {
		c.Reset()
	}
}

func mustChildren(kind string, children []Node) {
	if len(children) == 0 {
		panic("behavior: " + kind + " requires at least one child")
	}
	for _, c := range children {
		if c == nil {
			panic("behavior: " + kind + " child must not be nil")
		}
	}
}
