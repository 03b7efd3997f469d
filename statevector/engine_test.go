package statevector

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"qtermsim/circuit"
	"qtermsim/gate"
	"qtermsim/matrix"
)

// randomCircuit builds a measurement-free circuit of depth ops on n qubits
// using every gate family, with two-qubit gates in both qubit orders.
func randomCircuit(rng *rand.Rand, n, ops int) *circuit.Circuit {
	single := []gate.Gate{gate.X, gate.Y, gate.Z, gate.H, gate.S, gate.Sdg, gate.T, gate.Tdg}
	c := &circuit.Circuit{NumQubits: n}
	for range ops {
		q := rng.IntN(n)
		if n > 1 && rng.IntN(3) == 0 {
			other := q + 1
			if q == n-1 || (q > 0 && rng.IntN(2) == 0) {
				other = q - 1
			}
			var g gate.Gate
			switch rng.IntN(4) {
			case 0:
				g = gate.CNOT
			case 1:
				g = gate.CZ
			case 2:
				g = gate.SWAP
			default:
				g = gate.C(gate.Ry(rng.Float64() * 2 * math.Pi))
			}
			c.Add(g, q, other)
			continue
		}
		switch rng.IntN(3) {
		case 0:
			c.Add(single[rng.IntN(len(single))], q)
		case 1:
			c.Add(gate.Parametrized{Kind: gate.Kind(1 + rng.IntN(4)), Angle: rng.Float64() * 2 * math.Pi}, q)
		default:
			c.Add(gate.H, q)
		}
	}
	return c
}

func TestEntanglingState(t *testing.T) {
	Convey("Given the 3-qubit circuit H(0), CNOT(0,1), CNOT(1,2)", t, func() {
		c := circuit.New(
			circuit.Op(gate.H, 0),
			circuit.Op(gate.CNOT, 0, 1),
			circuit.Op(gate.CNOT, 1, 2),
		)

		for _, emb := range []Embedder{KronEmbedder{}, IndexEmbedder{}} {
			res, err := New(WithEmbedder(emb)).Run(c, nil)
			So(err, ShouldBeNil)

			Convey(fmt.Sprintf("With %T, only |000⟩ and |111⟩ carry amplitude 1/√2", emb), func() {
				amps := res.State.Amplitudes
				So(len(amps), ShouldEqual, 8)
				for i, a := range amps {
					if i == 0 || i == 7 {
						So(cmplx.Abs(a), ShouldAlmostEqual, 1/math.Sqrt2, 1e-12)
					} else {
						So(cmplx.Abs(a), ShouldAlmostEqual, 0, 1e-12)
					}
				}
				So(res.Outcomes, ShouldBeEmpty)
			})
		}
	})
}

func TestBitOrdering(t *testing.T) {
	Convey("Qubit 0 is the most significant bit of the basis index", t, func() {
		res, err := New().Run(&circuit.Circuit{NumQubits: 3, Ops: []circuit.Operation{circuit.Op(gate.X, 0)}}, nil)
		So(err, ShouldBeNil)
		So(res.State.Amplitudes[4], ShouldEqual, complex(1, 0))

		res, err = New().Run(&circuit.Circuit{NumQubits: 3, Ops: []circuit.Operation{circuit.Op(gate.X, 2)}}, nil)
		So(err, ShouldBeNil)
		So(res.State.Amplitudes[1], ShouldEqual, complex(1, 0))
		So(BasisLabel(1, 3), ShouldEqual, "001")
	})

	Convey("A two-qubit gate named high-first is conjugated by SWAP", t, func() {
		// X on q1 then CNOT controlled by q1 targeting q0 gives |11⟩.
		c := circuit.New(circuit.Op(gate.X, 1), circuit.Op(gate.CNOT, 1, 0))
		for _, emb := range []Embedder{KronEmbedder{}, IndexEmbedder{}} {
			res, err := New(WithEmbedder(emb)).Run(c, nil)
			So(err, ShouldBeNil)
			So(cmplx.Abs(res.State.Amplitudes[3]-1), ShouldBeLessThan, 1e-12)
		}

		// Controlled-RY(π) from q2 onto q1 on three qubits.
		c = circuit.New(circuit.Op(gate.X, 2), circuit.Op(gate.C(gate.Ry(math.Pi)), 2, 1))
		res, err := New().Run(c, nil)
		So(err, ShouldBeNil)
		So(cmplx.Abs(res.State.Amplitudes[3]), ShouldAlmostEqual, 1, 1e-12)
	})
}

func TestCapacity(t *testing.T) {
	Convey("Given an engine with the default ceiling", t, func() {
		calls := 0
		e := New(WithObserver(func(int, circuit.Operation, *StateVector) { calls++ }))
		c := circuit.New(circuit.Op(gate.H, 0))

		Convey("13 qubits is rejected before anything runs", func() {
			res, err := e.RunN(c, 13, nil)
			So(res, ShouldBeNil)
			So(errors.Is(err, ErrCapacityExceeded), ShouldBeTrue)
			So(calls, ShouldEqual, 0)
		})

		Convey("0 qubits is rejected the same way", func() {
			res, err := e.RunN(c, 0, nil)
			So(res, ShouldBeNil)
			So(errors.Is(err, ErrCapacityExceeded), ShouldBeTrue)
			So(calls, ShouldEqual, 0)
		})

		Convey("An empty circuit implies 0 qubits", func() {
			_, err := e.Run(circuit.New(), nil)
			So(errors.Is(err, ErrCapacityExceeded), ShouldBeTrue)
		})

		Convey("An inferred count above the ceiling is rejected", func() {
			_, err := e.Run(circuit.New(circuit.Op(gate.X, 12)), nil)
			So(errors.Is(err, ErrCapacityExceeded), ShouldBeTrue)
		})

		Convey("The ceiling is configurable", func() {
			_, err := New(WithMaxQubits(2)).RunN(c, 3, nil)
			So(errors.Is(err, ErrCapacityExceeded), ShouldBeTrue)
			_, err = New(WithMaxQubits(2)).RunN(c, 2, nil)
			So(err, ShouldBeNil)
		})
	})
}

func TestUsageErrors(t *testing.T) {
	Convey("Given three qubits", t, func() {
		e := New()

		Convey("A two-qubit operation on (0, 2) is rejected, never reordered", func() {
			res, err := e.RunN(circuit.New(circuit.Op(gate.CNOT, 0, 2)), 3, nil)
			So(res, ShouldBeNil)
			So(errors.Is(err, ErrNonAdjacentQubits), ShouldBeTrue)
		})

		Convey("A two-qubit operation on (1, 1) is rejected", func() {
			_, err := e.RunN(circuit.New(circuit.Op(gate.CZ, 1, 1)), 3, nil)
			So(errors.Is(err, ErrNonAdjacentQubits), ShouldBeTrue)
		})

		Convey("Qubit indices outside [0, n) are rejected", func() {
			_, err := e.RunN(circuit.New(circuit.Op(gate.X, 3)), 3, nil)
			So(errors.Is(err, ErrInvalidQubitIndex), ShouldBeTrue)
			_, err = e.RunN(circuit.New(circuit.Op(gate.X, -1)), 3, nil)
			So(errors.Is(err, ErrInvalidQubitIndex), ShouldBeTrue)
		})

		Convey("Gates missing from the library are rejected", func() {
			_, err := e.RunN(circuit.New(circuit.Op(gate.Named(200), 0)), 3, nil)
			So(errors.Is(err, gate.ErrUnknownGate), ShouldBeTrue)
		})

		Convey("A measuring circuit needs a source", func() {
			_, err := e.RunN(circuit.New(circuit.Op(gate.H, 0)).Measure(0), 3, nil)
			So(errors.Is(err, ErrNoSource), ShouldBeTrue)
		})

		Convey("Norm checking catches a non-unitary resolver", func() {
			leaky := func(g gate.Gate) (matrix.Matrix, error) {
				if g == gate.Y {
					return matrix.Diag(0.5, 0.5), nil
				}
				return gate.Resolve(g)
			}
			c := circuit.New(circuit.Op(gate.H, 0), circuit.Op(gate.Y, 1))

			res, err := New(WithResolver(leaky), WithNormCheck(1e-9)).RunN(c, 3, nil)
			So(res, ShouldBeNil)
			So(errors.Is(err, ErrNormDrift), ShouldBeTrue)

			_, err = New(WithResolver(leaky)).RunN(c, 3, nil)
			So(err, ShouldBeNil)
		})
	})
}

func TestNormPreservation(t *testing.T) {
	Convey("Measurement-free circuits keep ‖ψ‖ within 1e-9 of 1 after every operation", t, func() {
		rng := rand.New(rand.NewPCG(7, 11))
		check := func(emb Embedder, n int) {
			worst := 0.0
			e := New(WithEmbedder(emb), WithObserver(func(_ int, _ circuit.Operation, s *StateVector) {
				worst = math.Max(worst, math.Abs(s.Norm()-1))
			}))
			_, err := e.Run(randomCircuit(rng, n, 3*n+4), nil)
			So(err, ShouldBeNil)
			So(worst, ShouldBeLessThan, 1e-9)
		}

		for n := 1; n <= DefaultMaxQubits; n++ {
			check(IndexEmbedder{}, n)
		}
		for n := 1; n <= 8; n++ {
			check(KronEmbedder{}, n)
		}
		// Each Kronecker-embedded operator is 4^n entries, so the top of the
		// range gets a two-operation circuit.
		for n := 9; n <= DefaultMaxQubits; n++ {
			worst := 0.0
			e := New(WithObserver(func(_ int, _ circuit.Operation, s *StateVector) {
				worst = math.Max(worst, math.Abs(s.Norm()-1))
			}))
			c := circuit.New(circuit.Op(gate.H, 0), circuit.Op(gate.C(gate.Ry(1.1)), n-1, n-2))
			_, err := e.Run(c, nil)
			So(err, ShouldBeNil)
			So(worst, ShouldBeLessThan, 1e-9)
		}
	})
}

func TestEmbeddersAgree(t *testing.T) {
	Convey("The index embedder reproduces the Kronecker reference", t, func() {
		rng := rand.New(rand.NewPCG(3, 5))
		for n := 1; n <= 6; n++ {
			c := randomCircuit(rng, n, 25)
			ref, err := New(WithEmbedder(KronEmbedder{})).Run(c, nil)
			So(err, ShouldBeNil)
			got, err := New(WithEmbedder(IndexEmbedder{})).Run(c, nil)
			So(err, ShouldBeNil)
			for i := range ref.State.Amplitudes {
				So(cmplx.Abs(ref.State.Amplitudes[i]-got.State.Amplitudes[i]), ShouldBeLessThan, 1e-12)
			}
		}
	})
}

func TestMeasurement(t *testing.T) {
	bell := circuit.New(circuit.Op(gate.H, 0), circuit.Op(gate.CNOT, 0, 1)).Measure(0)

	Convey("Given a Bell pair measured on qubit 0", t, func() {
		Convey("A draw below p0 selects 0 and collapses both qubits", func() {
			res, err := New().Run(bell, Fixed(0.3))
			So(err, ShouldBeNil)
			So(res.Bitstring(), ShouldEqual, "0")
			So(cmplx.Abs(res.State.Amplitudes[0]), ShouldAlmostEqual, 1, 1e-12)
			So(res.State.Norm(), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("A draw at or above p0 selects 1 and collapses to |11⟩", func() {
			res, err := New().Run(bell, Fixed(0.7))
			So(err, ShouldBeNil)
			So(res.Outcomes, ShouldResemble, []int{1})
			So(cmplx.Abs(res.State.Amplitudes[3]), ShouldAlmostEqual, 1, 1e-12)
			So(res.State.Norm(), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Later operations act on the collapsed state", func() {
			c := bell.Clone().Measure(1)
			res, err := New().Run(c, Fixed(0.9, 0.0))
			So(err, ShouldBeNil)
			So(res.Bitstring(), ShouldEqual, "11")
		})
	})

	Convey("A deterministic qubit always yields its value", t, func() {
		c := circuit.New(circuit.Op(gate.X, 0)).Measure(0)
		for _, r := range []float64{0, 0.5, 0.999999} {
			res, err := New().Run(c, Fixed(r))
			So(err, ShouldBeNil)
			So(res.Outcomes, ShouldResemble, []int{1})
		}
		res, err := New().Run(circuit.New(circuit.Op(gate.Z, 0)).Measure(0), Fixed(0.999999))
		So(err, ShouldBeNil)
		So(res.Outcomes, ShouldResemble, []int{0})
	})

	Convey("An equal superposition yields 0 about half the time", t, func() {
		c := circuit.New(circuit.Op(gate.H, 0)).Measure(0)
		e := New()
		src := NewSource(2024)
		zeros := 0
		const shots = 10000
		for range shots {
			res, err := e.Run(c, src)
			So(err, ShouldBeNil)
			if res.Outcomes[0] == 0 {
				zeros++
			}
		}
		So(float64(zeros)/shots, ShouldAlmostEqual, 0.5, 0.03)
	})
}

func TestReproducibility(t *testing.T) {
	Convey("Identical circuit and seed reproduce outcomes and state", t, func() {
		c := circuit.New(
			circuit.Op(gate.H, 0), circuit.Op(gate.H, 1), circuit.Op(gate.H, 2),
			circuit.Op(gate.CNOT, 1, 2), circuit.Op(gate.Rx(0.3), 0),
		).Measure(0).Measure(1).Measure(2)

		a, err := New().Run(c, NewSource(99))
		So(err, ShouldBeNil)
		b, err := New().Run(c, NewSource(99))
		So(err, ShouldBeNil)
		So(a.Bitstring(), ShouldEqual, b.Bitstring())
		So(a.State.Amplitudes, ShouldResemble, b.State.Amplitudes)
	})
}
