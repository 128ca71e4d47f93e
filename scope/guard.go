package scope

import "github.com/jonwraymond/scopekit/unwind"

// Guard binds a zero-argument cleanup action to an exit policy. Guards are
// created through the Scope factories (OnExit, OnSuccess, OnFailure), which
// fire them automatically at teardown, or through the standalone factories
// (Exit, Success, Fail), which the caller fires with a defer.
//
// A guard fires its action at most once: the policy is disarmed strictly
// before the action is invoked, so a failing action cannot re-trigger it.
type Guard struct {
	kind   Kind
	probe  *unwind.Counter
	policy exitPolicy
	action cell[func() error]
}

func newGuard(kind Kind, probe *unwind.Counter, policy exitPolicy, fn func() error) *Guard {
	return &Guard{kind: kind, probe: probe, policy: policy, action: newCell(fn)}
}

// Exit creates a standalone guard that fires whenever Fire is reached,
// unless released first:
//
//	g := scope.Exit(cleanup)
//	defer g.Fire()
func Exit(fn func() error) *Guard {
	return newGuard(KindExit, nil, newAlwaysRunPolicy(), fn)
}

// Success creates a standalone guard that fires only if no new failure has
// been raised on c since the guard was created.
func Success(c *unwind.Counter, fn func() error) *Guard {
	return newGuard(KindSuccess, c, newOnSuccessPolicy(c), fn)
}

// Fail creates a standalone guard that fires only if a new failure has been
// raised on c since the guard was created and is still in flight.
func Fail(c *unwind.Counter, fn func() error) *Guard {
	return newGuard(KindFailure, c, newOnFailurePolicy(c), fn)
}

// OnExit registers a guard that fires on every exit from the scope.
func (s *Scope) OnExit(fn func() error) *Guard {
	g := newGuard(KindExit, s.probe, newAlwaysRunPolicy(), fn)
	s.register(g)
	return g
}

// OnSuccess registers a guard that fires only when the scope exits without
// a new failure unwinding through it.
func (s *Scope) OnSuccess(fn func() error) *Guard {
	g := newGuard(KindSuccess, s.probe, newOnSuccessPolicy(s.probe), fn)
	s.register(g)
	return g
}

// OnFailure registers a guard that fires only when the scope exits while a
// new failure is unwinding through it.
func (s *Scope) OnFailure(fn func() error) *Guard {
	g := newGuard(KindFailure, s.probe, newOnFailurePolicy(s.probe), fn)
	s.register(g)
	return g
}

// Kind reports which exit policy the guard was created with.
func (g *Guard) Kind() Kind {
	return g.kind
}

// Release disarms the guard. Idempotent; a released guard never fires again.
func (g *Guard) Release() {
	g.policy.release()
}

// ShouldExecute reports whether the action would run if the guard fired
// now. Read-only; exposed for introspection.
func (g *Guard) ShouldExecute() bool {
	return g.policy.shouldExecute(g.probe)
}

// Fire consults the policy once and invokes the action at most once,
// returning the action's error. Subsequent calls are no-ops.
func (g *Guard) Fire() error {
	_, err := g.fire()
	return err
}

// fire additionally reports whether the action actually ran.
func (g *Guard) fire() (bool, error) {
	run := g.policy.shouldExecute(g.probe)
	g.policy.release()
	if !run {
		return false, nil
	}
	fn := g.action.get()
	if fn == nil {
		return false, nil
	}
	return true, fn()
}

// MoveTo transfers the guard's policy state and action into dst, which must
// belong to the same scope chain (share the source's failure counter). The
// source ends up released without its action ever firing twice: it is
// disarmed only after the destination holds the action.
func (g *Guard) MoveTo(dst *Scope) *Guard {
	ng := &Guard{kind: g.kind, probe: dst.probe, policy: g.policy}
	ng.action = newCellGuarded(g.action.take(), g)
	dst.register(ng)
	return ng
}
