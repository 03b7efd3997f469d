package gate

import (
	"fmt"
	"math"
	"math/cmplx"

	"qtermsim/matrix"
)

var invSqrt2 = complex(1/math.Sqrt2, 0)

var namedMatrices = map[Named]matrix.Matrix{
	I:   matrix.Identity(2),
	X:   matrix.FromRows([][]complex128{{0, 1}, {1, 0}}),
	Y:   matrix.FromRows([][]complex128{{0, -1i}, {1i, 0}}),
	Z:   matrix.Diag(1, -1),
	H:   matrix.FromRows([][]complex128{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}),
	S:   matrix.Diag(1, 1i),
	Sdg: matrix.Diag(1, -1i),
	T:   matrix.Diag(1, cmplx.Exp(complex(0, math.Pi/4))),
	Tdg: matrix.Diag(1, cmplx.Exp(complex(0, -math.Pi/4))),
	CZ:  matrix.Diag(1, 1, 1, -1),
	CNOT: matrix.FromRows([][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}),
	SWAP: matrix.FromRows([][]complex128{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}),
}

// Resolve returns the unitary for g: 2×2 for single-qubit gates, 4×4 for
// two-qubit gates. The returned matrix is freshly allocated.
func Resolve(g Gate) (matrix.Matrix, error) {
	switch g := g.(type) {
	case Named:
		if g == Measure {
			return matrix.Matrix{}, fmt.Errorf("%s: %w", g, ErrNoMatrix)
		}
		m, ok := namedMatrices[g]
		if !ok {
			return matrix.Matrix{}, fmt.Errorf("%s: %w", g, ErrUnknownGate)
		}
		return m.Scale(1), nil
	case Parametrized:
		return resolveParametrized(g)
	case Controlled:
		if g.Inner == nil || g.Inner.Arity() != 1 {
			return matrix.Matrix{}, fmt.Errorf("%s: inner gate must act on one qubit: %w", g, ErrUnknownGate)
		}
		inner, err := Resolve(g.Inner)
		if err != nil {
			return matrix.Matrix{}, fmt.Errorf("%s: %w", g, err)
		}
		m := matrix.Identity(4)
		for i := range 2 {
			for j := range 2 {
				m.Set(2+i, 2+j, inner.At(i, j))
			}
		}
		return m, nil
	}
	return matrix.Matrix{}, fmt.Errorf("%v: %w", g, ErrUnknownGate)
}

func resolveParametrized(g Parametrized) (matrix.Matrix, error) {
	half := g.Angle / 2
	c := complex(math.Cos(half), 0)
	s := complex(math.Sin(half), 0)
	switch g.Kind {
	case RX:
		return matrix.FromRows([][]complex128{{c, -1i * s}, {-1i * s, c}}), nil
	case RY:
		return matrix.FromRows([][]complex128{{c, -s}, {s, c}}), nil
	case RZ:
		return matrix.Diag(cmplx.Exp(complex(0, -half)), cmplx.Exp(complex(0, half))), nil
	case Phase:
		return matrix.Diag(1, cmplx.Exp(complex(0, g.Angle))), nil
	}
	return matrix.Matrix{}, fmt.Errorf("%s: %w", g, ErrUnknownGate)
}

// Inverse returns the identifier whose matrix is the inverse of g's.
func Inverse(g Gate) (Gate, error) {
	switch g := g.(type) {
	case Named:
		switch g {
		case S:
			return Sdg, nil
		case Sdg:
			return S, nil
		case T:
			return Tdg, nil
		case Tdg:
			return T, nil
		case Measure:
			return nil, fmt.Errorf("%s: %w", g, ErrNotInvertible)
		}
		if _, ok := namedMatrices[g]; !ok {
			return nil, fmt.Errorf("%s: %w", g, ErrUnknownGate)
		}
		return g, nil
	case Parametrized:
		if _, ok := kindStrings[g.Kind]; !ok {
			return nil, fmt.Errorf("%s: %w", g, ErrUnknownGate)
		}
		return Parametrized{Kind: g.Kind, Angle: -g.Angle}, nil
	case Controlled:
		if g.Inner == nil || g.Inner.Arity() != 1 {
			return nil, fmt.Errorf("%s: inner gate must act on one qubit: %w", g, ErrUnknownGate)
		}
		inner, err := Inverse(g.Inner)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g, err)
		}
		return Controlled{Inner: inner}, nil
	}
	return nil, fmt.Errorf("%v: %w", g, ErrUnknownGate)
}
