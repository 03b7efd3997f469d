package gate

import (
	"fmt"
	"regexp"
	"strings"
)

var parametrizedRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + AnglePattern + `)\s*\)$`)

// namedAliases maps textual names to named gates. It covers the QASM
// spellings as well as the long names used in circuit files.
var namedAliases = map[string]Named{
	"id":      I,
	"i":       I,
	"x":       X,
	"y":       Y,
	"z":       Z,
	"h":       H,
	"s":       S,
	"sdg":     Sdg,
	"t":       T,
	"tdg":     Tdg,
	"cz":      CZ,
	"cx":      CNOT,
	"cnot":    CNOT,
	"swap":    SWAP,
	"measure": Measure,
	"m":       Measure,
}

var kindAliases = map[string]Kind{
	"rx": RX,
	"ry": RY,
	"rz": RZ,
	"p":  Phase,
	"u1": Phase,
}

// Parse reads a gate identifier in the form produced by Gate.String, e.g.
// "h", "rx(pi/2)" or "cp(pi/4)". Names are case-insensitive. A "c" prefix
// wraps any single-qubit gate in Controlled, except that "cx" and "cz" parse to
// the named CNOT and CZ, which share the controlled matrices.
func Parse(s string) (Gate, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return nil, fmt.Errorf("empty gate name: %w", ErrUnknownGate)
	}
	if g, ok := namedAliases[name]; ok {
		return g, nil
	}
	if m := parametrizedRegex.FindStringSubmatch(name); m != nil {
		if kind, ok := kindAliases[m[1]]; ok {
			angle, err := ParseAngle(m[2])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s, err)
			}
			return Parametrized{Kind: kind, Angle: angle}, nil
		}
	}
	if rest, ok := strings.CutPrefix(name, "c"); ok && rest != "" {
		inner, err := Parse(rest)
		if err == nil && inner.Arity() == 1 && inner != Measure {
			return Controlled{Inner: inner}, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", s, ErrUnknownGate)
}

// MustParse is like Parse but panics on error. It is intended for literal
// gate names in tests and circuit builders.
func MustParse(s string) Gate {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}
