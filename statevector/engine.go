package statevector

import (
	"fmt"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"

	"qtermsim/circuit"
	"qtermsim/gate"
	"qtermsim/matrix"
)

// DefaultMaxQubits is the default capacity ceiling.
const DefaultMaxQubits = 12

// DefaultTolerance is the default norm tolerance used when norm checking is on.
const DefaultTolerance = 1e-9

// Resolver maps a gate identifier to its unitary.
type Resolver func(gate.Gate) (matrix.Matrix, error)

// Observer is called after every operation with the operation's index and
// the state it left behind. It must not modify the state.
type Observer func(index int, op circuit.Operation, state *StateVector)

// Config controls an Engine.
type Config struct {
	MaxQubits int
	Embedder  Embedder
	Resolve   Resolver
	// CheckNorm fails the run with ErrNormDrift when ‖ψ‖ leaves
	// 1 ± Tolerance after a unitary.
	CheckNorm bool
	Tolerance float64
	Observer  Observer
	Logger    log.FieldLogger
}

// Option configures an Engine.
type Option func(*Config)

// WithMaxQubits sets the capacity ceiling.
func WithMaxQubits(n int) Option { return func(c *Config) { c.MaxQubits = n } }

// WithEmbedder replaces the operator embedding.
func WithEmbedder(e Embedder) Option { return func(c *Config) { c.Embedder = e } }

// WithResolver replaces the gate library lookup.
func WithResolver(r Resolver) Option { return func(c *Config) { c.Resolve = r } }

// WithNormCheck enables norm checking after every unitary.
func WithNormCheck(tol float64) Option {
	return func(c *Config) {
		c.CheckNorm = true
		c.Tolerance = tol
	}
}

// WithObserver installs a per-operation callback.
func WithObserver(o Observer) Option { return func(c *Config) { c.Observer = o } }

// WithLogger sets the logger used for per-operation debug output.
func WithLogger(l log.FieldLogger) Option { return func(c *Config) { c.Logger = l } }

// Engine runs circuits. An Engine holds no per-run state and may be shared by
// concurrent runs; each run owns its own state vector.
type Engine struct {
	cfg Config
}

// New returns an engine using the Kronecker reference embedding, the
// standard gate library and a ceiling of DefaultMaxQubits, as modified by opts.
func New(opts ...Option) *Engine {
	cfg := Config{
		MaxQubits: DefaultMaxQubits,
		Embedder:  KronEmbedder{},
		Resolve:   gate.Resolve,
		Tolerance: DefaultTolerance,
		Logger:    log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Result is the outcome of one run.
type Result struct {
	State *StateVector
	// Outcomes holds one bit per measurement, in circuit order.
	Outcomes []int
}

// Bitstring returns the outcomes as a string of '0' and '1'.
func (r *Result) Bitstring() string {
	var sb strings.Builder
	for _, b := range r.Outcomes {
		sb.WriteByte(byte('0' + b))
	}
	return sb.String()
}

// Run executes c on the qubit count it declares or, failing that, implies.
func (e *Engine) Run(c *circuit.Circuit, src Source) (*Result, error) {
	return e.RunN(c, c.Qubits(), src)
}

// RunN executes c on n qubits starting from |0…0⟩. Operations are applied
// strictly in order; measurements draw one value each from src, which may be
// nil for circuits that do not measure.
func (e *Engine) RunN(c *circuit.Circuit, n int, src Source) (*Result, error) {
	if n <= 0 || n > e.cfg.MaxQubits {
		return nil, fmt.Errorf("%d qubits, ceiling %d: %w", n, e.cfg.MaxQubits, ErrCapacityExceeded)
	}
	if err := e.check(c, n, src); err != nil {
		return nil, err
	}

	state := NewStateVector(n)
	res := &Result{State: state, Outcomes: make([]int, 0, c.Measurements())}

	debug := debugEnabled(e.cfg.Logger)
	for i, op := range c.Ops {
		if op.IsMeasurement() {
			amps, bit, p0 := e.measure(state.Amplitudes, op.Qubits[0], n, src)
			state.Amplitudes = amps
			res.Outcomes = append(res.Outcomes, bit)
			if debug {
				e.cfg.Logger.WithFields(log.Fields{"op": i, "qubit": op.Qubits[0], "p0": p0, "outcome": bit}).Debug("measured")
			}
		} else {
			u, err := e.cfg.Resolve(op.Gate)
			if err != nil {
				return nil, fmt.Errorf("operation %d (%s): %w", i, op, err)
			}
			if op.Arity() == 1 {
				state.Amplitudes = e.applySingle(state.Amplitudes, u, op.Qubits[0], n)
			} else {
				state.Amplitudes = e.applyAdjacent(state.Amplitudes, u, op.Qubits[0], op.Qubits[1], n)
			}
			if debug {
				e.cfg.Logger.WithFields(log.Fields{"op": i, "gate": op.Gate.String(), "qubits": op.Qubits}).Debug("applied")
			}
			if e.cfg.CheckNorm {
				if nrm := state.Norm(); math.Abs(nrm-1) > e.cfg.Tolerance {
					return nil, fmt.Errorf("operation %d (%s): norm %.15g: %w", i, op, nrm, ErrNormDrift)
				}
			}
		}
		if e.cfg.Observer != nil {
			e.cfg.Observer(i, op, state)
		}
	}

	return res, nil
}

// check validates every operation against n before the state is allocated.
func (e *Engine) check(c *circuit.Circuit, n int, src Source) error {
	for i, op := range c.Ops {
		for _, q := range op.Qubits {
			if q < 0 || q >= n {
				return fmt.Errorf("operation %d (%s): qubit %d not in [0, %d): %w", i, op, q, n, ErrInvalidQubitIndex)
			}
		}
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		if op.Arity() == 2 {
			q1, q2 := op.Qubits[0], op.Qubits[1]
			if q1-q2 != 1 && q2-q1 != 1 {
				return fmt.Errorf("operation %d (%s): %w", i, op, ErrNonAdjacentQubits)
			}
		}
		if op.IsMeasurement() && src == nil {
			return fmt.Errorf("operation %d (%s): %w", i, op, ErrNoSource)
		}
	}
	return nil
}

// debugEnabled avoids building log fields per operation when nobody reads them.
func debugEnabled(l log.FieldLogger) bool {
	switch l := l.(type) {
	case nil:
		return false
	case *log.Logger:
		return l.IsLevelEnabled(log.DebugLevel)
	case *log.Entry:
		return l.Logger.IsLevelEnabled(log.DebugLevel)
	}
	return true
}
