// Package observe provides observability for scoped teardown blocks.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire a ScopeObserver into scope.Run via
// scope.WithObserver to get a span per scoped block, counters for exits and
// guard firings, and structured lifecycle logs.
package observe
