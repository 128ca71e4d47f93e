package scope

// Resource owns a handle of type R paired with the deleter that disposes of
// it. The deleter runs exactly once when the owning scope ends, unless the
// resource was released, reset, or moved away first.
//
// Ownership is unique: at most one Resource is armed for a given underlying
// handle at any time, and Move is the only way ownership changes hands.
type Resource[R any] struct {
	res   cell[R]
	del   cell[func(R) error]
	armed bool
}

// NewResource wraps r and registers its teardown with s. The deleter will
// be invoked with the handle's current value at teardown.
func NewResource[R any](s *Scope, r R, del func(R) error) *Resource[R] {
	return newResource(s, newCell(r), del, true)
}

// NewResourceRef wraps a handle owned elsewhere. The wrapper stores a
// reference, never a copy: the deleter always receives the value *r holds
// at deletion time, not the value it held at construction.
func NewResourceRef[R any](s *Scope, r *R, del func(R) error) *Resource[R] {
	return newResource(s, newCellRef(r), del, true)
}

// NewResourceChecked wraps r, starting disarmed when r equals the invalid
// sentinel. A sentinel handle is never deleted:
//
//	fd, _ := unix.Open(path, unix.O_RDONLY, 0)
//	r := scope.NewResourceChecked(s, fd, -1, closeFD)
func NewResourceChecked[R comparable](s *Scope, r, invalid R, del func(R) error) *Resource[R] {
	return newResource(s, newCell(r), del, r != invalid)
}

// Acquire runs acquire and wraps its result. Nothing is adopted when
// acquisition fails, and the acquired handle cannot leak if wrapping itself
// fails partway.
func Acquire[R any](s *Scope, acquire func() (R, error), del func(R) error) (*Resource[R], error) {
	r, err := acquire()
	if err != nil {
		return nil, err
	}
	return newResource(s, newCell(r), del, true), nil
}

func newResource[R any](s *Scope, c cell[R], del func(R) error, armed bool) *Resource[R] {
	res := &Resource[R]{res: c, del: newCell(del)}
	// Half-constructed wrappers must not leak: if attaching teardown to the
	// scope fails, the handle is deleted here instead.
	fallback := Exit(func() error {
		if !armed {
			return nil
		}
		return del(res.res.get())
	})
	defer func() { _ = fallback.Fire() }()
	s.register(newGuard(KindExit, nil, newAlwaysRunPolicy(), res.Reset))
	res.armed = armed
	fallback.Release()
	return res
}

// Get returns the current handle.
func (r *Resource[R]) Get() R {
	return r.res.get()
}

// Deleter returns the stored deleter.
func (r *Resource[R]) Deleter() func(R) error {
	return r.del.get()
}

// Armed reports whether the deleter will run at teardown.
func (r *Resource[R]) Armed() bool {
	return r.armed
}

// Reset invokes the deleter on the current handle if the resource is armed.
// The resource is disarmed strictly before the deleter runs, so a deleter
// that re-enters this wrapper's teardown cannot cause a second delete.
func (r *Resource[R]) Reset() error {
	if !r.armed {
		return nil
	}
	r.armed = false
	del := r.del.get()
	if del == nil {
		return nil
	}
	return del(r.res.get())
}

// ResetTo deletes the current handle (if armed) and adopts v in its place,
// re-arming the resource. The old handle is always deleted before v is
// adopted; if deleting it panics, v is cleaned up with the deleter in
// effect before the call, so the caller-supplied replacement cannot leak.
func (r *Resource[R]) ResetTo(v R) error {
	del := r.del.get()
	rollback := Exit(func() error {
		if del == nil {
			return nil
		}
		return del(v)
	})
	defer func() { _ = rollback.Fire() }()
	err := r.Reset()
	r.res.set(v)
	r.armed = true
	rollback.Release()
	return err
}

// Release disarms the resource without deleting. Cleanup becomes the
// caller's responsibility.
func (r *Resource[R]) Release() {
	r.armed = false
}

// Close is Reset under the io.Closer contract, so a Resource can be handed
// to code that closes things.
func (r *Resource[R]) Close() error {
	return r.Reset()
}

// Move transfers ownership into a resource registered with dst. The source
// is left disarmed and emptied; its already-registered teardown becomes a
// no-op. At no observable point are both instances armed.
func (r *Resource[R]) Move(dst *Scope) *Resource[R] {
	nr := &Resource[R]{res: r.res, del: r.del}
	dst.register(newGuard(KindExit, nil, newAlwaysRunPolicy(), nr.Reset))
	nr.armed, r.armed = r.armed, false
	r.res.take()
	r.del.take()
	return nr
}

// Deref dereferences a pointer-shaped resource. It panics if the stored
// pointer is nil.
func Deref[T any](r *Resource[*T]) T {
	return *r.Get()
}
