package scope

import "context"

// Kind identifies which exit policy a guard was created with.
type Kind uint8

const (
	// KindExit fires on every scope exit.
	KindExit Kind = iota
	// KindSuccess fires only when the scope exits without a new failure.
	KindSuccess
	// KindFailure fires only when a new failure is unwinding at exit.
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindExit:
		return "exit"
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Observer receives scope lifecycle notifications.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use; distinct
//   scopes on distinct goroutines may share one Observer.
// - Errors: callbacks must be best-effort and must not panic.
type Observer interface {
	// ScopeEnter is called when a scoped block starts executing. The
	// returned context replaces the scope's context, so instrumentation
	// (e.g. a started span) propagates into the block and nested scopes.
	ScopeEnter(ctx context.Context, name string) context.Context

	// GuardFired is called after a guard's action ran, with the action's
	// error. Guards whose policy declined to execute are not reported.
	GuardFired(ctx context.Context, scope string, kind Kind, err error)

	// ScopeExit is called once teardown completed. failed reports whether
	// the block exited with an error or a panic; err is the final result
	// including any guard errors. When the scope is re-panicking, err holds
	// only the guard errors, which would otherwise be lost to the panic.
	ScopeExit(ctx context.Context, name string, failed bool, err error)
}
