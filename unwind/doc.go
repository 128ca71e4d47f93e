// Package unwind tracks failures propagating through a chain of scopes.
//
// It provides a single integer probe, Counter, that is raised while a
// failure (a non-nil error or a panic) is unwinding through nested scoped
// blocks and lowered once the failure has been handed off as an inert
// error value. Exit policies compare the current count against a baseline
// captured when a guard was created; the absolute value carries no meaning.
package unwind
