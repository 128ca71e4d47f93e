package scope

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/jonwraymond/scopekit/unwind"
)

// Scope is the explicit teardown point for guards and resources. A Scope is
// only valid inside the function Run hands it to; registering anything on
// it after the block ended panics.
//
// Contract:
// - Concurrency: a Scope belongs to the goroutine running its block.
// - Ordering: guards fire in reverse registration order, mirroring
//   reverse-of-construction destructor order.
type Scope struct {
	name         string
	ctx          context.Context
	probe        *unwind.Counter
	observer     Observer
	guards       []*Guard
	panicAsError bool
	ended        bool
}

type scopeOptions struct {
	name         string
	observer     Observer
	panicAsError bool
}

// Option configures a scoped block.
type Option func(*scopeOptions)

// WithName sets the scope name used in observer callbacks.
func WithName(name string) Option {
	return func(o *scopeOptions) {
		o.name = name
	}
}

// WithObserver attaches a lifecycle observer. Nested scopes inherit it.
func WithObserver(obs Observer) Option {
	return func(o *scopeOptions) {
		o.observer = obs
	}
}

// WithPanicAsError converts a panic escaping the block into a *PanicError
// result instead of re-panicking. The panic still counts as a failure for
// guard policies.
func WithPanicAsError() Option {
	return func(o *scopeOptions) {
		o.panicAsError = true
	}
}

// Run executes fn against a fresh scope and returns fn's error joined with
// any guard errors raised during teardown.
func Run(fn func(*Scope) error, opts ...Option) error {
	return RunContext(context.Background(), fn, opts...)
}

// RunContext is Run with an explicit context, made available to the block
// through Scope.Context and passed to observer callbacks.
func RunContext(ctx context.Context, fn func(*Scope) error, opts ...Option) error {
	o := scopeOptions{name: "scope"}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Scope{
		name:         o.name,
		ctx:          ctx,
		probe:        unwind.NewCounter(),
		observer:     o.observer,
		panicAsError: o.panicAsError,
	}
	return s.exec(fn)
}

// Run executes fn against a nested scope sharing this scope's failure
// counter, context, and observer. A failure exiting the nested block and
// propagated by the caller is visible to this scope's failure guards.
func (s *Scope) Run(fn func(*Scope) error, opts ...Option) error {
	o := scopeOptions{name: s.name, observer: s.observer}
	for _, opt := range opts {
		opt(&o)
	}
	child := &Scope{
		name:         o.name,
		ctx:          s.ctx,
		probe:        s.probe,
		observer:     o.observer,
		panicAsError: o.panicAsError,
	}
	return child.exec(fn)
}

// Context returns the context the scope was started with.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Name returns the scope name.
func (s *Scope) Name() string {
	return s.name
}

func (s *Scope) register(g *Guard) {
	if s.ended {
		panic("scope: guard registered after scope ended")
	}
	s.guards = append(s.guards, g)
}

// exec runs fn and performs teardown on every exit path exactly once.
//
// Teardown raises the failure counter before guards are consulted when the
// block is exiting with an error or a panic, and lowers it once the failure
// has been handed off as an inert error value. The raise/lower bracketing
// is what makes an inner failure visible to outer guards: the counter stays
// elevated for exactly as long as the failure is propagating.
func (s *Scope) exec(fn func(*Scope) error) (err error) {
	if s.observer != nil {
		s.ctx = s.observer.ScopeEnter(s.ctx, s.name)
	}
	defer func() {
		r := recover()
		s.ended = true
		failed := err != nil || r != nil
		if failed {
			s.probe.Raise()
			defer s.probe.Lower()
		}
		ferr := s.fire()
		if r != nil && s.panicAsError {
			err = &PanicError{Value: r, Stack: debug.Stack()}
			r = nil
		}
		err = errors.Join(err, ferr)
		if s.observer != nil {
			s.observer.ScopeExit(s.ctx, s.name, failed, err)
		}
		if r != nil {
			panic(r)
		}
	}()
	return fn(s)
}

// fire runs the registered guards in reverse registration order. A guard
// action that panics does not stop the remaining guards: continuation is
// deferred, so earlier-registered guards still fire while the new panic
// unwinds.
func (s *Scope) fire() error {
	return s.fireFrom(len(s.guards) - 1)
}

func (s *Scope) fireFrom(i int) (err error) {
	if i < 0 {
		return nil
	}
	defer func() {
		if rest := s.fireFrom(i - 1); rest != nil {
			err = errors.Join(err, rest)
		}
	}()
	g := s.guards[i]
	fired, ferr := g.fire()
	if fired && s.observer != nil {
		s.observer.GuardFired(s.ctx, s.name, g.kind, ferr)
	}
	return ferr
}
