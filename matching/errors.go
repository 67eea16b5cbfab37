package matching

import "fmt"

// ContractViolation is what the core panics with when a caller breaks a
// documented precondition of Limit: price out of range, non-positive size,
// an unrecognized side, an empty or oversized trader/symbol identifier, or id-space
// exhaustion. engine.c's equivalent is silent undefined behavior in a
// release build; Go has no separate checked/release mode on this axis, so
// every build gets the typed panic, and callers that want the engine to
// survive a bad order (the Dispatcher, see dispatcher.go) recover it at
// their own boundary instead of inside the core.
type ContractViolation struct {
	Reason string
	Value  any
}

func (e ContractViolation) Error() string {
	return fmt.Sprintf("matching: contract violation: %s (got %v)", e.Reason, e.Value)
}
