package behavior

import (
	"testing"
	"time"
)

// stubNode returns a fixed status and counts its ticks.
type stubNode struct {
	status Status
	ticks  int
	resets int
}

func (s *stubNode) Tick(ctx *Context) Status {
	s.ticks++
	return s.status
}

func (s *stubNode) Reset() { s.resets++ }

// scriptNode returns statuses from a script, repeating the last entry.
type scriptNode struct {
	script []Status
	ticks  int
}

func (s *scriptNode) Tick(ctx *Context) Status {
	i := s.ticks
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.ticks++
	return s.script[i]
}

func (s *scriptNode) Reset() {}

func tick(t *testing.T, n Node) Status {
	t.Helper()
	return n.Tick(&Context{Board: NewBlackboard()})
}

func TestSequenceAllSuccess(t *testing.T) {
	a, b := &stubNode{status: StatusSuccess}, &stubNode{status: StatusSuccess}
	seq := NewSequence(a, b)
	if got := tick(t, seq); got != StatusSuccess {
		t.Errorf("got %v, want success", got)
	}
	if a.ticks != 1 || b.ticks != 1 {
		t.Errorf("each child should tick once, got %d/%d", a.ticks, b.ticks)
	}
}

func TestSequenceFailureShortCircuits(t *testing.T) {
	a := &stubNode{status: StatusFailure}
	b := &stubNode{status: StatusSuccess}
	seq := NewSequence(a, b)
	if got := tick(t, seq); got != StatusFailure {
		t.Errorf("got %v, want failure", got)
	}
	if b.ticks != 0 {
		t.Error("later sibling must not tick after a failure")
	}
}

func TestSequenceResumesAtRunningChild(t *testing.T) {
	a := &stubNode{status: StatusSuccess}
	b := &scriptNode{script: []Status{StatusRunning, StatusSuccess}}
	seq := NewSequence(a, b)

	if got := tick(t, seq); got != StatusRunning {
		t.Fatalf("first tick: got %v, want running", got)
	}
	if got := tick(t, seq); got != StatusSuccess {
		t.Fatalf("second tick: got %v, want success", got)
	}
	if a.ticks != 1 {
		t.Errorf("completed sibling re-ticked on resume: %d ticks", a.ticks)
	}
}

func TestSelectorSuccessShortCircuits(t *testing.T) {
	a := &stubNode{status: StatusSuccess}
	b := &stubNode{status: StatusSuccess}
	sel := NewSelector(a, b)
	if got := tick(t, sel); got != StatusSuccess {
		t.Errorf("got %v, want success", got)
	}
	if b.ticks != 0 {
		t.Error("later sibling must not tick after a success")
	}
}

func TestSelectorAllFailure(t *testing.T) {
	sel := NewSelector(&stubNode{status: StatusFailure}, &stubNode{status: StatusFailure})
	if got := tick(t, sel); got != StatusFailure {
		t.Errorf("got %v, want failure", got)
	}
}

func TestSelectorResumesAtRunningChild(t *testing.T) {
	a := &stubNode{status: StatusFailure}
	b := &scriptNode{script: []Status{StatusRunning, StatusFailure}}
	c := &stubNode{status: StatusSuccess}
	sel := NewSelector(a, b, c)

	if got := tick(t, sel); got != StatusRunning {
		t.Fatalf("first tick: got %v, want running", got)
	}
	if got := tick(t, sel); got != StatusSuccess {
		t.Fatalf("second tick: got %v, want success", got)
	}
	if a.ticks != 1 {
		t.Errorf("failed sibling re-ticked on resume: %d ticks", a.ticks)
	}
}

func TestParallelRequireAll(t *testing.T) {
	p := NewParallel(RequireAllSuccess,
		&stubNode{status: StatusSuccess}, &stubNode{status: StatusFailure})
	if got := tick(t, p); got != StatusFailure {
		t.Errorf("got %v, want failure", got)
	}

	p = NewParallel(RequireAllSuccess,
		&stubNode{status: StatusSuccess}, &stubNode{status: StatusSuccess})
	if got := tick(t, p); got != StatusSuccess {
		t.Errorf("got %v, want success", got)
	}
}

func TestParallelRequireOne(t *testing.T) {
	p := NewParallel(RequireOneSuccess,
		&stubNode{status: StatusFailure}, &stubNode{status: StatusSuccess})
	if got := tick(t, p); got != StatusSuccess {
		t.Errorf("got %v, want success", got)
	}

	p = NewParallel(RequireOneSuccess,
		&stubNode{status: StatusFailure}, &stubNode{status: StatusFailure})
	if got := tick(t, p); got != StatusFailure {
		t.Errorf("got %v, want failure", got)
	}
}

func TestParallelTicksEveryChild(t *testing.T) {
	a := &stubNode{status: StatusFailure}
	b := &stubNode{status: StatusRunning}
	p := NewParallel(RequireOneSuccess, a, b)
	tick(t, p)
	tick(t, p)
	if a.ticks != 2 || b.ticks != 2 {
		t.Errorf("parallel must tick every child every call, got %d/%d", a.ticks, b.ticks)
	}
}

func TestInverter(t *testing.T) {
	if got := tick(t, NewInverter(&stubNode{status: StatusSuccess})); got != StatusFailure {
		t.Errorf("inverter(success) = %v, want failure", got)
	}
	if got := tick(t, NewInverter(&stubNode{status: StatusFailure})); got != StatusSuccess {
		t.Errorf("inverter(failure) = %v, want success", got)
	}
	if got := tick(t, NewInverter(&stubNode{status: StatusRunning})); got != StatusRunning {
		t.Errorf("inverter(running) = %v, want running", got)
	}
}

func TestSucceederAndFailer(t *testing.T) {
	if got := tick(t, NewSucceeder(&stubNode{status: StatusFailure})); got != StatusSuccess {
		t.Errorf("succeeder(failure) = %v, want success", got)
	}
	if got := tick(t, NewFailer(&stubNode{status: StatusSuccess})); got != StatusFailure {
		t.Errorf("failer(success) = %v, want failure", got)
	}
	if got := tick(t, NewSucceeder(&stubNode{status: StatusRunning})); got != StatusRunning {
		t.Errorf("succeeder(running) = %v, want running", got)
	}
}

func TestRepeaterCompletions(t *testing.T) {
	child := &stubNode{status: StatusSuccess}
	rep := NewRepeater(child, 3)

	if got := tick(t, rep); got != StatusRunning {
		t.Fatalf("first tick: got %v, want running", got)
	}
	if got := tick(t, rep); got != StatusRunning {
		t.Fatalf("second tick: got %v, want running", got)
	}
	if got := tick(t, rep); got != StatusSuccess {
		t.Fatalf("third tick: got %v, want success", got)
	}
	if child.ticks != 3 {
		t.Errorf("child invoked %d times, want exactly 3", child.ticks)
	}

	// Counter reset: the cycle starts over.
	if got := tick(t, rep); got != StatusRunning {
		t.Errorf("after completion the repeater should start over, got %v", got)
	}
}

func TestRepeaterSkipsRunningTicks(t *testing.T) {
	child := &scriptNode{script: []Status{StatusRunning, StatusSuccess, StatusSuccess}}
	rep := NewRepeater(child, 2)
	if got := tick(t, rep); got != StatusRunning {
		t.Fatalf("running child: got %v, want running", got)
	}
	tick(t, rep) // first completion
	if got := tick(t, rep); got != StatusSuccess {
		t.Errorf("second completion should succeed, got %v", got)
	}
}

func TestUntilFail(t *testing.T) {
	child := &scriptNode{script: []Status{StatusSuccess, StatusRunning, StatusFailure}}
	uf := NewUntilFail(child)
	if got := tick(t, uf); got != StatusRunning {
		t.Errorf("success child: got %v, want running", got)
	}
	if got := tick(t, uf); got != StatusRunning {
		t.Errorf("running child: got %v, want running", got)
	}
	if got := tick(t, uf); got != StatusSuccess {
		t.Errorf("failure child: got %v, want success", got)
	}
}

func TestWait(t *testing.T) {
	w := NewWait(100 * time.Millisecond)
	ctx := &Context{Delta: 50 * time.Millisecond}
	if got := w.Tick(ctx); got != StatusRunning {
		t.Fatalf("first tick: got %v, want running", got)
	}
	if got := w.Tick(ctx); got != StatusSuccess {
		t.Fatalf("second tick: got %v, want success", got)
	}
	// Accumulator reset on completion.
	if got := w.Tick(ctx); got != StatusRunning {
		t.Errorf("after completion: got %v, want running", got)
	}
}

func TestWaitForever(t *testing.T) {
	w := NewWait(-1)
	ctx := &Context{Delta: time.Hour}
	for i := 0; i < 10; i++ {
		if got := w.Tick(ctx); got != StatusRunning {
			t.Fatalf("tick %d: got %v, want running", i, got)
		}
	}
}

func TestResetForwardsRecursively(t *testing.T) {
	leaf := &stubNode{status: StatusSuccess}
	seq := NewSequence(NewInverter(leaf), NewRepeater(leaf, 2))
	seq.Reset()
	if leaf.resets != 2 {
		t.Errorf("reset should reach the leaf through both branches, got %d", leaf.resets)
	}
}

func TestConstructionFailsFast(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}
	assertPanics("inverter nil child", func() { NewInverter(nil) })
	assertPanics("empty sequence", func() { NewSequence() })
	assertPanics("nil sequence child", func() { NewSequence(nil) })
	assertPanics("repeater zero count", func() { NewRepeater(&stubNode{}, 0) })
	assertPanics("nil condition", func() { NewCondition(nil) })
	assertPanics("nil action", func() { NewAction(nil) })
	assertPanics("nil tree root", func() { NewTree(nil, nil) })
}
