// Package compiler builds circuits for standard algorithms. Every circuit it
// emits uses only single-qubit operations and two-qubit operations on
// neighbouring qubits, which is all the statevector engine accepts.
package compiler

import (
	"errors"
	"fmt"

	"qtermsim/circuit"
	"qtermsim/gate"
)

// ErrInvalidArgument is returned for impossible builder parameters.
var ErrInvalidArgument = errors.New("invalid argument")

// appendRouted appends g on (a, b), a being g's first qubit. When a and b
// are not neighbours, a is walked next to b with adjacent SWAPs, g is applied
// times times, and the SWAPs are undone.
func appendRouted(c *circuit.Circuit, g gate.Gate, a, b, times int) {
	var swaps [][2]int
	pos := a
	for pos < b-1 {
		swaps = append(swaps, [2]int{pos, pos + 1})
		pos++
	}
	for pos > b+1 {
		swaps = append(swaps, [2]int{pos, pos - 1})
		pos--
	}
	for _, s := range swaps {
		c.Add(gate.SWAP, s[0], s[1])
	}
	for range times {
		c.Add(g, pos, b)
	}
	for i := len(swaps) - 1; i >= 0; i-- {
		c.Add(gate.SWAP, swaps[i][0], swaps[i][1])
	}
}

// Adjacent rewrites c so that every two-qubit operation acts on neighbouring
// qubits, inserting SWAP chains around the ones that do not. The result
// computes the same unitary; c is left untouched.
func Adjacent(c *circuit.Circuit) (*circuit.Circuit, error) {
	out := &circuit.Circuit{NumQubits: c.NumQubits}
	for i, op := range c.Ops {
		if err := op.Validate(); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if op.Arity() != 2 {
			out.Ops = append(out.Ops, circuit.Op(op.Gate, op.Qubits...))
			continue
		}
		a, b := op.Qubits[0], op.Qubits[1]
		if a == b {
			return nil, fmt.Errorf("operation %d (%s): both qubits are %d: %w", i, op, a, ErrInvalidArgument)
		}
		appendRouted(out, op.Gate, a, b, 1)
	}
	return out, nil
}
