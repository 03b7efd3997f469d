// Package gate is the gate library: a closed set of gate identifiers, their
// unitary matrices and their inverses.
//
// A Gate is one of three variants:
//
//   - Named: a fixed gate such as H, CNOT or the measurement marker.
//   - Parametrized: a rotation or phase gate carrying a real angle.
//   - Controlled: any single-qubit gate wrapped with a control qubit.
//
// The variants are closed: only this package can add implementations of Gate.
package gate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownGate is returned when an identifier has no entry in the library.
	ErrUnknownGate = errors.New("unknown gate")
	// ErrNoMatrix is returned when resolving the measurement marker.
	ErrNoMatrix = errors.New("gate has no matrix")
	// ErrNotInvertible is returned when inverting the measurement marker.
	ErrNotInvertible = errors.New("gate is not invertible")
)

// Gate identifies a gate in the library.
type Gate interface {
	// Arity is the number of qubits the gate acts on.
	Arity() int
	String() string
	isGate()
}

// Named is a fixed, parameter-free gate.
type Named uint8

const (
	I Named = iota + 1
	X
	Y
	Z
	H
	S
	Sdg
	T
	Tdg
	CZ
	CNOT
	SWAP
	// Measure marks a projective measurement in the computational basis.
	Measure
)

var namedStrings = map[Named]string{
	I:       "id",
	X:       "x",
	Y:       "y",
	Z:       "z",
	H:       "h",
	S:       "s",
	Sdg:     "sdg",
	T:       "t",
	Tdg:     "tdg",
	CZ:      "cz",
	CNOT:    "cx",
	SWAP:    "swap",
	Measure: "measure",
}

func (Named) isGate() {}

// Arity implements Gate.
func (g Named) Arity() int {
	switch g {
	case CZ, CNOT, SWAP:
		return 2
	}
	return 1
}

func (g Named) String() string {
	if s, ok := namedStrings[g]; ok {
		return s
	}
	return fmt.Sprintf("named(%d)", uint8(g))
}

// Kind selects the family of a parametrized gate.
type Kind uint8

const (
	RX Kind = iota + 1
	RY
	RZ
	// Phase is diag(1, e^{iθ}).
	Phase
)

var kindStrings = map[Kind]string{
	RX:    "rx",
	RY:    "ry",
	RZ:    "rz",
	Phase: "p",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Parametrized is a single-qubit gate family member selected by an angle.
type Parametrized struct {
	Kind  Kind
	Angle float64
}

func (Parametrized) isGate() {}

// Arity implements Gate.
func (Parametrized) Arity() int { return 1 }

func (g Parametrized) String() string {
	return fmt.Sprintf("%s(%s)", g.Kind, FormatAngle(g.Angle))
}

// Rx returns a rotation of theta about the X axis.
func Rx(theta float64) Parametrized { return Parametrized{Kind: RX, Angle: theta} }

// Ry returns a rotation of theta about the Y axis.
func Ry(theta float64) Parametrized { return Parametrized{Kind: RY, Angle: theta} }

// Rz returns a rotation of theta about the Z axis.
func Rz(theta float64) Parametrized { return Parametrized{Kind: RZ, Angle: theta} }

// P returns the phase gate diag(1, e^{iθ}).
func P(theta float64) Parametrized { return Parametrized{Kind: Phase, Angle: theta} }

// Controlled applies Inner to the second qubit when the first is |1⟩.
type Controlled struct {
	Inner Gate
}

func (Controlled) isGate() {}

// Arity implements Gate.
func (Controlled) Arity() int { return 2 }

func (g Controlled) String() string {
	if g.Inner == nil {
		return "c(nil)"
	}
	return "c" + g.Inner.String()
}

// C wraps a single-qubit gate with a control.
func C(inner Gate) Controlled { return Controlled{Inner: inner} }
