package scope

import (
	"math"

	"github.com/jonwraymond/scopekit/unwind"
)

// policyKind identifies one of the three exit policies. The set is closed,
// so a tagged value is used instead of an interface.
type policyKind uint8

const (
	policyAlwaysRun policyKind = iota
	policyOnFailure
	policyOnSuccess
)

// exitPolicy decides at teardown time whether a guard's action runs.
//
// alwaysRun carries an armed flag. onFailure and onSuccess carry a baseline
// snapshot of the unwinding counter taken at construction; execution is
// decided by comparing the current count against that baseline, never by
// polling during the scope's lifetime.
type exitPolicy struct {
	kind     policyKind
	armed    bool
	baseline int
}

func newAlwaysRunPolicy() exitPolicy {
	return exitPolicy{kind: policyAlwaysRun, armed: true}
}

func newOnFailurePolicy(probe *unwind.Counter) exitPolicy {
	return exitPolicy{kind: policyOnFailure, baseline: probeCount(probe)}
}

func newOnSuccessPolicy(probe *unwind.Counter) exitPolicy {
	return exitPolicy{kind: policyOnSuccess, baseline: probeCount(probe)}
}

// release transitions the policy to "never execute". The transition is
// one-way: no later counter reading can re-arm it. onFailure moves its
// baseline to an unreachable count, onSuccess to an impossible one.
func (p *exitPolicy) release() {
	switch p.kind {
	case policyAlwaysRun:
		p.armed = false
	case policyOnFailure:
		p.baseline = math.MaxInt
	case policyOnSuccess:
		p.baseline = -1
	}
}

// shouldExecute reports whether the guarded action should run. Pure query.
func (p *exitPolicy) shouldExecute(probe *unwind.Counter) bool {
	switch p.kind {
	case policyAlwaysRun:
		return p.armed
	case policyOnFailure:
		return probeCount(probe) > p.baseline
	case policyOnSuccess:
		return probeCount(probe) == p.baseline
	}
	return false
}

// probeCount reads the counter, treating a nil probe as idle so that plain
// exit guards need not carry one.
func probeCount(c *unwind.Counter) int {
	if c == nil {
		return 0
	}
	return c.Count()
}
