package scope

import "fmt"

// PanicError is returned by Run when WithPanicAsError is set and the block
// panicked. Value is the recovered panic value; Stack is the teardown-time
// stack trace.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("scope: panic in scoped block: %v", e.Value)
}
