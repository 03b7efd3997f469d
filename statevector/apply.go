package statevector

import (
	"math"

	"qtermsim/gate"
	"qtermsim/matrix"
)

// projector0 is |0⟩⟨0|, the projector onto outcome 0 of a single qubit.
var projector0 = matrix.Diag(1, 0)

// swapMatrix conjugates two-qubit operators whose qubits arrive high-first.
var swapMatrix, _ = gate.Resolve(gate.SWAP)

// applySingle applies the 2×2 unitary u to qubit q.
func (e *Engine) applySingle(amps []complex128, u matrix.Matrix, q, n int) []complex128 {
	return e.cfg.Embedder.Apply1(amps, u, q, n)
}

// applyAdjacent applies the 4×4 unitary u to (q1, q2), q1 being the first
// factor of u (the control, for controlled gates). The caller guarantees
// |q1−q2| = 1. When q1 > q2 the operator is conjugated by SWAP so that the
// embedding always sees the lower qubit first.
func (e *Engine) applyAdjacent(amps []complex128, u matrix.Matrix, q1, q2, n int) []complex128 {
	if q1 > q2 {
		u = swapMatrix.Mul(u).Mul(swapMatrix)
		q1, q2 = q2, q1
	}
	return e.cfg.Embedder.Apply2(amps, u, q1, n)
}

// measure projects qubit q onto 0 or 1 with the Born probabilities, drawing
// one value from src. It returns the renormalised post-measurement state,
// the outcome and the probability of outcome 0.
func (e *Engine) measure(amps []complex128, q, n int, src Source) ([]complex128, int, float64) {
	state0 := e.cfg.Embedder.Apply1(amps, projector0, q, n)
	norm0 := norm(state0)
	p0 := norm0 * norm0

	if src.Float64() < p0 {
		scale(state0, 1/norm0)
		return state0, 0, p0
	}

	// The complementary branch is what the 0-projector left behind.
	state1 := make([]complex128, len(amps))
	for i := range amps {
		state1[i] = amps[i] - state0[i]
	}
	norm1 := norm(state1)
	if norm1 == 0 {
		// Only reachable through rounding when p0 is within an ulp of 1.
		scale(state0, 1/norm0)
		return state0, 0, p0
	}
	scale(state1, 1/norm1)
	return state1, 1, p0
}

// Prob0 returns the probability that measuring qubit q yields 0, without
// collapsing the state.
func (s *StateVector) Prob0(q int) float64 {
	p := 0.0
	mask := qubitMask(q, s.NumQubits)
	for i, a := range s.Amplitudes {
		if i&mask == 0 {
			p += abs2(a)
		}
	}
	return math.Min(p, 1)
}
