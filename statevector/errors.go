package statevector

import "errors"

// Usage errors. None of them are retried or recovered from: a run that hits
// one stops and returns it, wrapped with the offending operation.
var (
	// ErrInvalidQubitIndex is returned when an operation references a qubit
	// outside [0, n).
	ErrInvalidQubitIndex = errors.New("invalid qubit index")
	// ErrNonAdjacentQubits is returned for two-qubit operations whose qubits
	// are not neighbours. Such operations must be routed through SWAPs before
	// they reach the engine.
	ErrNonAdjacentQubits = errors.New("non-adjacent qubits")
	// ErrCapacityExceeded is returned when the qubit count is not positive or
	// exceeds the configured ceiling. It is raised before any allocation.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrNormDrift is returned when norm checking is enabled and the state
	// norm leaves the configured tolerance after a unitary.
	ErrNormDrift = errors.New("norm drift")
	// ErrNoSource is returned when a circuit measures but no random source
	// was supplied.
	ErrNoSource = errors.New("measurement requires a random source")
	// ErrInvalidShots is returned by Sample for a shot count below one.
	ErrInvalidShots = errors.New("invalid shot count")
)
