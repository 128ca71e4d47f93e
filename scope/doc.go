// Package scope provides deterministic scope-exit guards and unique-ownership
// resource wrappers.
//
// Go has no implicit destructors, so the package centers on an explicit
// scoped block: [Run] executes a function against a [Scope] and guarantees
// that teardown runs on every exit path (normal return, error return, panic)
// exactly once, firing registered guards in reverse registration order.
//
// # Guards
//
// A guard binds a cleanup action to one of three exit policies:
//
//	err := scope.Run(func(s *scope.Scope) error {
//	    s.OnExit(func() error {
//	        return conn.Close() // always runs
//	    })
//	    s.OnFailure(func() error {
//	        return tx.Rollback() // runs only if the block fails
//	    })
//	    s.OnSuccess(func() error {
//	        return tx.Commit() // runs only if the block succeeds
//	    })
//	    return doWork(s.Context())
//	})
//
// A scope fails when its function returns a non-nil error or panics. Guards
// can be disarmed ahead of time with Release; disarming is one-way.
//
// # Unique resources
//
// [Resource] couples a handle with its deleter and invokes the deleter
// exactly once when the owning scope ends, unless released or moved away:
//
//	scope.Run(func(s *scope.Scope) error {
//	    f, err := os.Open(path)
//	    if err != nil {
//	        return err
//	    }
//	    r := scope.NewResource(s, f, func(f *os.File) error {
//	        return f.Close()
//	    })
//	    return consume(r.Get())
//	})
//
// [NewResourceChecked] skips deletion entirely when the handle equals a
// designated invalid sentinel, which suits C-style APIs that signal failure
// through the returned handle.
//
// # Failure visibility
//
// Success and failure policies compare an unwinding counter (see the unwind
// package) against a baseline captured when the guard was created. Nested
// scopes created through [Scope.Run] share their parent's counter, so an
// inner failure that the outer function propagates is visible to the outer
// scope's failure guards, and one the outer function handles is not.
//
// The package is a structural guarantee layer: it performs no I/O and
// reports no errors of its own. Guard and deleter errors surface unchanged
// through the enclosing Run result.
package scope
