package circuit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"qtermsim/gate"
)

// fileOp is the YAML form of an operation, one entry of the ops list:
//
//	ops:
//	  - gate: cx
//	    qubits: [0, 1]
type fileOp struct {
	Gate   string `yaml:"gate"`
	Qubits []int  `yaml:"qubits,flow"`
}

// file is the YAML form of a circuit.
type file struct {
	Qubits int      `yaml:"qubits,omitempty"`
	Ops    []fileOp `yaml:"ops"`
}

// MarshalYAML implements yaml.Marshaler.
func (c *Circuit) MarshalYAML() (any, error) {
	f := file{Qubits: c.NumQubits, Ops: make([]fileOp, len(c.Ops))}
	for i, op := range c.Ops {
		f.Ops[i] = fileOp{Gate: op.Gate.String(), Qubits: op.Qubits}
	}
	return f, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Circuit) UnmarshalYAML(node *yaml.Node) error {
	var f file
	if err := node.Decode(&f); err != nil {
		return err
	}
	out := Circuit{NumQubits: f.Qubits, Ops: make([]Operation, 0, len(f.Ops))}
	for i, fo := range f.Ops {
		g, err := gate.Parse(fo.Gate)
		if err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		op := Op(g, fo.Qubits...)
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		out.Ops = append(out.Ops, op)
	}
	*c = out
	return nil
}

// Load reads a circuit from a file. Files ending in .qasm are parsed as
// OpenQASM 2.0, everything else as YAML.
func Load(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isQASM(path) {
		return ParseQASM(string(data))
	}
	var c Circuit
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// Save writes a circuit to a file, choosing the format from the extension
// like Load.
func Save(path string, c *Circuit) error {
	var data []byte
	if isQASM(path) {
		data = []byte(c.ToQASM())
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func isQASM(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".qasm")
}
