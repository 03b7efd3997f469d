package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qtermsim/gate"
)

// Pre-compiled regexps for QASM parsing.
var (
	qregRegex    = regexp.MustCompile(`^qreg\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	cregRegex    = regexp.MustCompile(`^creg\s+(\w+)\s*\[\s*(\d+)\s*\]$`)
	measureRegex = regexp.MustCompile(`^measure\s+(\w+)\s*\[\s*(\d+)\s*\]\s*->\s*(\w+)\s*\[\s*(\d+)\s*\]$`)
	gateRegex    = regexp.MustCompile(`^(\w+(?:\s*\([^)]*\))?)\s+(.+)$`)
	operandRegex = regexp.MustCompile(`^(\w+)\s*\[\s*(\d+)\s*\]$`)
)

// ToQASM renders the circuit as OpenQASM 2.0. Measurement results are
// written to consecutive classical bits in encounter order, matching the
// order of the engine's outcome string.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.Qubits(), 1)
	numCbits := max(c.Measurements(), 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numCbits)

	cbit := 0
	for _, op := range c.Ops {
		if op.IsMeasurement() {
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", op.Qubits[0], cbit)
			cbit++
			continue
		}
		fmt.Fprintf(&sb, "%s;\n", op)
	}

	return sb.String()
}

// register is a named quantum register mapped onto the global qubit range.
type register struct {
	offset int
	size   int
}

// ParseQASM parses OpenQASM 2.0 text into a circuit. Several quantum
// registers are laid out one after the other in declaration order. Classical
// registers are accepted but their bit indices are ignored: outcomes are
// always reported in encounter order. Barriers are skipped. Any other
// statement the engine cannot execute (reset, if, opaque, gate definitions)
// is an error.
func ParseQASM(qasm string) (*Circuit, error) {
	c := &Circuit{}
	qregs := make(map[string]register)
	cregs := make(map[string]int)

	resolve := func(operand string) (int, error) {
		m := operandRegex.FindStringSubmatch(strings.TrimSpace(operand))
		if m == nil {
			return 0, fmt.Errorf("invalid operand %q", operand)
		}
		reg, ok := qregs[m[1]]
		if !ok {
			return 0, fmt.Errorf("undeclared register %q", m[1])
		}
		idx, _ := strconv.Atoi(m[2])
		if idx >= reg.size {
			return 0, fmt.Errorf("%s[%d] out of range (size %d)", m[1], idx, reg.size)
		}
		return reg.offset + idx, nil
	}

	for lineNo, line := range strings.Split(qasm, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		for stmt := range strings.SplitSeq(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := parseStatement(c, stmt, qregs, cregs, resolve); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
		}
	}

	return c, nil
}

func parseStatement(c *Circuit, stmt string, qregs map[string]register, cregs map[string]int, resolve func(string) (int, error)) error {
	switch {
	case strings.HasPrefix(stmt, "OPENQASM"), strings.HasPrefix(stmt, "include"):
		return nil
	case strings.HasPrefix(stmt, "barrier"):
		return nil
	}

	if m := qregRegex.FindStringSubmatch(stmt); m != nil {
		if _, dup := qregs[m[1]]; dup {
			return fmt.Errorf("register %q declared twice", m[1])
		}
		size, _ := strconv.Atoi(m[2])
		qregs[m[1]] = register{offset: c.NumQubits, size: size}
		c.NumQubits += size
		return nil
	}

	if m := cregRegex.FindStringSubmatch(stmt); m != nil {
		size, _ := strconv.Atoi(m[2])
		cregs[m[1]] = size
		return nil
	}

	// Measurement: "measure q[0] -> c[0]"
	if m := measureRegex.FindStringSubmatch(stmt); m != nil {
		q, err := resolve(m[1] + "[" + m[2] + "]")
		if err != nil {
			return err
		}
		if _, ok := cregs[m[3]]; !ok {
			return fmt.Errorf("undeclared classical register %q", m[3])
		}
		c.Measure(q)
		return nil
	}

	m := gateRegex.FindStringSubmatch(stmt)
	if m == nil {
		return fmt.Errorf("unsupported statement %q", stmt)
	}
	keyword := m[1]
	if i := strings.IndexAny(keyword, "( \t"); i >= 0 {
		keyword = keyword[:i]
	}
	switch strings.ToLower(keyword) {
	case "reset", "if", "opaque", "gate", "measure":
		return fmt.Errorf("unsupported statement %q", stmt)
	}
	g, err := gate.Parse(strings.ReplaceAll(m[1], " ", ""))
	if err != nil {
		return err
	}
	operands := strings.Split(m[2], ",")
	qubits := make([]int, 0, len(operands))
	for _, operand := range operands {
		q, err := resolve(operand)
		if err != nil {
			return err
		}
		qubits = append(qubits, q)
	}
	op := Op(g, qubits...)
	if err := op.Validate(); err != nil {
		return err
	}
	c.Ops = append(c.Ops, op)
	return nil
}
