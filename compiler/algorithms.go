package compiler

import (
	"fmt"
	"math"

	"qtermsim/circuit"
	"qtermsim/gate"
)

// GHZ returns the circuit preparing (|0…0⟩ + |1…1⟩)/√2 on n qubits.
func GHZ(n int) (*circuit.Circuit, error) {
	if n < 1 {
		return nil, fmt.Errorf("GHZ on %d qubits: %w", n, ErrInvalidArgument)
	}
	c := &circuit.Circuit{NumQubits: n}
	c.Add(gate.H, 0)
	for i := range n - 1 {
		c.Add(gate.CNOT, i, i+1)
	}
	return c, nil
}

// Ising returns a Trotterized evolution under the open-chain transverse
// field Ising Hamiltonian
//
//	H = J Σ Z_i Z_{i+1} + h Σ X_i
//
// for a total time steps·dt. Each step is the symmetric splitting
// e^{-i h dt/2 ΣX} e^{-i J dt ΣZZ} e^{-i h dt/2 ΣX}, with the ZZ term built as
// CNOT · RZ(2 J dt) · CNOT.
func Ising(n, steps int, dt, j, h float64) (*circuit.Circuit, error) {
	if n < 1 || steps < 0 {
		return nil, fmt.Errorf("Ising on %d qubits, %d steps: %w", n, steps, ErrInvalidArgument)
	}
	c := &circuit.Circuit{NumQubits: n}
	halfField := func() {
		for q := range n {
			c.Add(gate.Rx(h*dt), q)
		}
	}
	for range steps {
		halfField()
		for q := range n - 1 {
			c.Add(gate.CNOT, q, q+1)
			c.Add(gate.Rz(2*j*dt), q+1)
			c.Add(gate.CNOT, q, q+1)
		}
		halfField()
	}
	return c, nil
}

// QFT returns the quantum Fourier transform on n qubits,
//
//	|x⟩ ↦ 2^{-n/2} Σ_y e^{2πi·xy/2^n} |y⟩,
//
// with qubit 0 as the most significant bit of x and y. Controlled phases
// between distant qubits and the final bit reversal are expressed with
// adjacent SWAPs.
func QFT(n int) (*circuit.Circuit, error) {
	if n < 1 {
		return nil, fmt.Errorf("QFT on %d qubits: %w", n, ErrInvalidArgument)
	}
	c := &circuit.Circuit{NumQubits: n}
	appendQFT(c, 0, n)
	return c, nil
}

// InverseQFT returns the inverse of QFT(n).
func InverseQFT(n int) (*circuit.Circuit, error) {
	c, err := QFT(n)
	if err != nil {
		return nil, err
	}
	return c.Inverse()
}

// appendQFT appends the QFT on qubits [lo, lo+m).
func appendQFT(c *circuit.Circuit, lo, m int) {
	for j := range m {
		c.Add(gate.H, lo+j)
		for k := j + 1; k < m; k++ {
			angle := 2 * math.Pi / float64(uint64(1)<<(k-j+1))
			appendRouted(c, gate.C(gate.P(angle)), lo+k, lo+j, 1)
		}
	}
	appendReversal(c, lo, m)
}

// appendReversal reverses the order of qubits [lo, lo+m) with an odd-even
// network of adjacent SWAPs.
func appendReversal(c *circuit.Circuit, lo, m int) {
	for i := range m - 1 {
		for j := range m - 1 - i {
			c.Add(gate.SWAP, lo+j, lo+j+1)
		}
	}
}

// PhaseEstimation returns the phase estimation circuit for the single-qubit
// unitary u. Qubits [0, counting) form the counting register and qubit
// counting is the target, which prep (single-qubit gates, applied in order)
// should bring into an eigenstate of u. The counting register is measured
// at the end: reading the outcome bits as a binary number y, qubit 0 first,
// the eigenphase estimate is y / 2^counting of a full turn.
func PhaseEstimation(counting int, u gate.Gate, prep ...gate.Gate) (*circuit.Circuit, error) {
	if counting < 1 {
		return nil, fmt.Errorf("phase estimation with %d counting qubits: %w", counting, ErrInvalidArgument)
	}
	if u == nil || u.Arity() != 1 || u == gate.Measure {
		return nil, fmt.Errorf("phase estimation of %v: need a single-qubit unitary: %w", u, ErrInvalidArgument)
	}
	target := counting
	c := &circuit.Circuit{NumQubits: counting + 1}
	for _, g := range prep {
		if g == nil || g.Arity() != 1 || g == gate.Measure {
			return nil, fmt.Errorf("preparation gate %v: need a single-qubit unitary: %w", g, ErrInvalidArgument)
		}
		c.Add(g, target)
	}
	for k := range counting {
		c.Add(gate.H, k)
	}
	for k := range counting {
		appendRouted(c, gate.C(u), k, target, 1<<(counting-1-k))
	}

	qft := &circuit.Circuit{}
	appendQFT(qft, 0, counting)
	iqft, err := qft.Inverse()
	if err != nil {
		return nil, err
	}
	c.Extend(iqft)

	for k := range counting {
		c.Measure(k)
	}
	return c, nil
}

// PhaseFromBits converts phase estimation outcome bits, most significant
// first, into a fraction of a full turn.
func PhaseFromBits(bits []int) float64 {
	y := 0
	for _, b := range bits {
		y = y<<1 | b
	}
	return float64(y) / float64(uint64(1)<<len(bits))
}
