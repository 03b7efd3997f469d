// Package circuit holds the circuit representation consumed by the
// statevector engine: an ordered list of operations, each naming a gate and
// the one or two qubits it acts on.
package circuit

import (
	"errors"
	"fmt"
	"strings"

	"qtermsim/gate"
)

// ErrMalformed is returned for operations whose qubit list does not fit their gate.
var ErrMalformed = errors.New("malformed operation")

// Operation applies a gate to one qubit (single-qubit gates and
// measurement) or to two qubits (two-qubit gates, first qubit is the control
// for controlled gates).
type Operation struct {
	Gate   gate.Gate
	Qubits []int
}

// Op builds an operation.
func Op(g gate.Gate, qubits ...int) Operation {
	return Operation{Gate: g, Qubits: qubits}
}

// Arity returns the number of qubits the operation references.
func (o Operation) Arity() int { return len(o.Qubits) }

// IsMeasurement reports whether the operation is a measurement.
func (o Operation) IsMeasurement() bool {
	return len(o.Qubits) == 1 && o.Gate == gate.Measure
}

// Validate checks that the qubit list matches the gate's arity and that no
// index is negative. Range and adjacency against a qubit count are checked by
// the engine.
func (o Operation) Validate() error {
	if o.Gate == nil {
		return fmt.Errorf("missing gate: %w", ErrMalformed)
	}
	if len(o.Qubits) != o.Gate.Arity() {
		return fmt.Errorf("%s takes %d qubit(s), got %d: %w", o.Gate, o.Gate.Arity(), len(o.Qubits), ErrMalformed)
	}
	for _, q := range o.Qubits {
		if q < 0 {
			return fmt.Errorf("%s: negative qubit %d: %w", o.Gate, q, ErrMalformed)
		}
	}
	return nil
}

// String formats the operation the way it appears in QASM, without the
// trailing semicolon.
func (o Operation) String() string {
	qs := make([]string, len(o.Qubits))
	for i, q := range o.Qubits {
		qs[i] = fmt.Sprintf("q[%d]", q)
	}
	name := "<nil>"
	if o.Gate != nil {
		name = o.Gate.String()
	}
	return name + " " + strings.Join(qs, ", ")
}

// Circuit is an ordered sequence of operations.
type Circuit struct {
	// NumQubits is the register size. Zero means "infer from the operations".
	NumQubits int
	Ops       []Operation
}

// New returns a circuit holding the given operations.
func New(ops ...Operation) *Circuit {
	return &Circuit{Ops: ops}
}

// Add appends an operation and returns the circuit for chaining.
func (c *Circuit) Add(g gate.Gate, qubits ...int) *Circuit {
	c.Ops = append(c.Ops, Op(g, qubits...))
	return c
}

// Measure appends a measurement of qubit q.
func (c *Circuit) Measure(q int) *Circuit {
	return c.Add(gate.Measure, q)
}

// Extend appends every operation of other.
func (c *Circuit) Extend(other *Circuit) *Circuit {
	c.Ops = append(c.Ops, other.Ops...)
	if other.NumQubits > c.NumQubits && c.NumQubits != 0 {
		c.NumQubits = other.NumQubits
	}
	return c
}

// Len returns the number of operations.
func (c *Circuit) Len() int { return len(c.Ops) }

// InferQubits returns one plus the largest qubit index referenced, or 0 for
// a circuit without operations.
func (c *Circuit) InferQubits() int {
	n := 0
	for _, op := range c.Ops {
		for _, q := range op.Qubits {
			n = max(n, q+1)
		}
	}
	return n
}

// Qubits returns the explicit register size if set, else the inferred one.
func (c *Circuit) Qubits() int {
	if c.NumQubits > 0 {
		return c.NumQubits
	}
	return c.InferQubits()
}

// Measurements returns the number of measurement operations.
func (c *Circuit) Measurements() int {
	n := 0
	for _, op := range c.Ops {
		if op.IsMeasurement() {
			n++
		}
	}
	return n
}

// Validate checks every operation's shape. See Operation.Validate.
func (c *Circuit) Validate() error {
	for i, op := range c.Ops {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{NumQubits: c.NumQubits, Ops: make([]Operation, len(c.Ops))}
	for i, op := range c.Ops {
		out.Ops[i] = Operation{Gate: op.Gate, Qubits: append([]int(nil), op.Qubits...)}
	}
	return out
}

// Prefix returns a circuit sharing the first k operations of c.
func (c *Circuit) Prefix(k int) *Circuit {
	k = min(max(k, 0), len(c.Ops))
	return &Circuit{NumQubits: c.NumQubits, Ops: c.Ops[:k]}
}

// Inverse returns the circuit that undoes c: operations in reverse order,
// each gate replaced by its inverse. Circuits containing measurements have
// no inverse.
func (c *Circuit) Inverse() (*Circuit, error) {
	out := &Circuit{NumQubits: c.NumQubits, Ops: make([]Operation, 0, len(c.Ops))}
	for i := len(c.Ops) - 1; i >= 0; i-- {
		op := c.Ops[i]
		inv, err := gate.Inverse(op.Gate)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		out.Ops = append(out.Ops, Operation{Gate: inv, Qubits: append([]int(nil), op.Qubits...)})
	}
	return out, nil
}
