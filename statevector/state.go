// Package statevector is an exact statevector simulator. It applies single-
// and adjacent two-qubit unitaries to a 2^n complex amplitude vector and
// performs projective measurements with an injected random source.
//
// Qubit 0 is the most significant bit of a basis index: on three qubits the
// amplitude at index 6 (binary 110) belongs to q0=1, q1=1, q2=0.
package statevector

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"strconv"
)

// StateVector holds the amplitudes of an n-qubit pure state.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns |0…0⟩ on numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// FromAmplitudes wraps a copy of amps. The length must be a power of two.
func FromAmplitudes(amps []complex128) (*StateVector, error) {
	n := len(amps)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("amplitude count %d is not a power of two", n)
	}
	cp := make([]complex128, n)
	copy(cp, amps)
	return &StateVector{Amplitudes: cp, NumQubits: bits.TrailingZeros(uint(n))}, nil
}

// Clone returns a deep copy.
func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Norm returns the Euclidean norm of the amplitudes.
func (s *StateVector) Norm() float64 {
	return norm(s.Amplitudes)
}

// Probabilities returns |amplitude|² for every basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = abs2(a)
	}
	return probs
}

// QubitProbability is the marginal distribution of a single qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal outcome probabilities of every qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, a := range s.Amplitudes {
		prob := abs2(a)
		for q := range s.NumQubits {
			if i&qubitMask(q, s.NumQubits) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}
	return probs
}

// QSphereState is a basis state with non-negligible weight, as drawn on a q-sphere.
type QSphereState struct {
	BasisState int
	Label      string
	Amplitude  complex128
	Prob       float64
	Phase      float64
	Hamming    int
}

// QSphereStates lists the basis states whose probability exceeds 1e-10.
func (s *StateVector) QSphereStates() []QSphereState {
	states := make([]QSphereState, 0, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		prob := abs2(amp)
		if prob > 1e-10 {
			states = append(states, QSphereState{
				BasisState: i,
				Label:      BasisLabel(i, s.NumQubits),
				Amplitude:  amp,
				Prob:       prob,
				Phase:      cmplx.Phase(amp),
				Hamming:    bits.OnesCount(uint(i)),
			})
		}
	}
	return states
}

// EqualUpToPhase reports whether s and o describe the same physical state:
// equal amplitudes after removing a global phase, within tol per entry.
func (s *StateVector) EqualUpToPhase(o *StateVector, tol float64) bool {
	if len(s.Amplitudes) != len(o.Amplitudes) {
		return false
	}
	// Align phases on the largest amplitude of s.
	ref := 0
	for i, a := range s.Amplitudes {
		if abs2(a) > abs2(s.Amplitudes[ref]) {
			ref = i
		}
	}
	a, b := s.Amplitudes[ref], o.Amplitudes[ref]
	if cmplx.Abs(b) < tol {
		return cmplx.Abs(a) < tol
	}
	phase := a / b
	phase /= complex(cmplx.Abs(phase), 0)
	for i := range s.Amplitudes {
		if cmplx.Abs(s.Amplitudes[i]-phase*o.Amplitudes[i]) > tol {
			return false
		}
	}
	return true
}

// BasisLabel formats basis index i as an n-character bitstring, qubit 0 first.
func BasisLabel(i, n int) string {
	if n == 0 {
		return ""
	}
	s := strconv.FormatUint(uint64(i), 2)
	for len(s) < n {
		s = "0" + s
	}
	return s
}

// qubitMask returns the bit of a basis index that holds qubit q.
func qubitMask(q, n int) int {
	return 1 << (n - 1 - q)
}

func abs2(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}

func norm(amps []complex128) float64 {
	sum := 0.0
	for _, a := range amps {
		sum += abs2(a)
	}
	return math.Sqrt(sum)
}

func scale(amps []complex128, f float64) {
	c := complex(f, 0)
	for i := range amps {
		amps[i] *= c
	}
}
