package statevector

import (
	"fmt"
	"strings"

	"qtermsim/matrix"
)

// Embedder lifts a local operator onto the full n-qubit space and applies
// it. Implementations must not modify amps; they return a new slice.
//
// The engine only calls Apply2 with the lower qubit first, so embedders never
// have to permute qubits.
type Embedder interface {
	// Apply1 applies the 2×2 operator op to qubit q.
	Apply1(amps []complex128, op matrix.Matrix, q, n int) []complex128
	// Apply2 applies the 4×4 operator op to qubits (q, q+1), q being the more
	// significant factor of op.
	Apply2(amps []complex128, op matrix.Matrix, q, n int) []complex128
}

// KronEmbedder builds the full 2^n×2^n operator I(2^q) ⊗ op ⊗ I(2^rest) and
// multiplies it with the state. It costs O(4^n) memory per operation and is
// the reference method the other embedders are checked against.
type KronEmbedder struct{}

// Apply1 implements Embedder.
func (KronEmbedder) Apply1(amps []complex128, op matrix.Matrix, q, n int) []complex128 {
	return kronEmbed(op, q, 1, n).MulVec(amps)
}

// Apply2 implements Embedder.
func (KronEmbedder) Apply2(amps []complex128, op matrix.Matrix, q, n int) []complex128 {
	return kronEmbed(op, q, 2, n).MulVec(amps)
}

// kronEmbed pads op, which acts on width qubits starting at q, with identity
// blocks on the qubits before and after it.
func kronEmbed(op matrix.Matrix, q, width, n int) matrix.Matrix {
	full := op
	if q > 0 {
		full = matrix.Identity(1 << q).Kron(full)
	}
	if rest := n - q - width; rest > 0 {
		full = full.Kron(matrix.Identity(1 << rest))
	}
	return full
}

// IndexEmbedder applies operators by index arithmetic on the amplitude
// vector without materialising the full operator: O(2^n) time and memory.
type IndexEmbedder struct{}

// Apply1 implements Embedder.
func (IndexEmbedder) Apply1(amps []complex128, op matrix.Matrix, q, n int) []complex128 {
	u00, u01, u10, u11 := op.At(0, 0), op.At(0, 1), op.At(1, 0), op.At(1, 1)
	bit := qubitMask(q, n)
	newAmps := make([]complex128, len(amps))
	for i := range amps {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := amps[i], amps[j]
			newAmps[i] = u00*a0 + u01*a1
			newAmps[j] = u10*a0 + u11*a1
		}
	}
	return newAmps
}

// Apply2 implements Embedder.
func (IndexEmbedder) Apply2(amps []complex128, op matrix.Matrix, q, n int) []complex128 {
	hiBit := qubitMask(q, n)
	loBit := qubitMask(q+1, n)
	newAmps := make([]complex128, len(amps))
	var idx [4]int
	var in [4]complex128
	for i := range amps {
		if i&hiBit != 0 || i&loBit != 0 {
			continue
		}
		idx = [4]int{i, i | loBit, i | hiBit, i | hiBit | loBit}
		for k, j := range idx {
			in[k] = amps[j]
		}
		for r, j := range idx {
			var sum complex128
			for c := range 4 {
				sum += op.At(r, c) * in[c]
			}
			newAmps[j] = sum
		}
	}
	return newAmps
}

// ParseEmbedder maps a configuration name to an embedder.
func ParseEmbedder(name string) (Embedder, error) {
	switch strings.ToLower(name) {
	case "", "kron", "kronecker":
		return KronEmbedder{}, nil
	case "index":
		return IndexEmbedder{}, nil
	}
	return nil, fmt.Errorf("unknown embedder %q (want kron or index)", name)
}
