package display

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"qtermsim/circuit"
	"qtermsim/gate"
	"qtermsim/statevector"
)

func runState(t *testing.T, c *circuit.Circuit, n int) *statevector.StateVector {
	t.Helper()
	res, err := statevector.New().RunN(c, n, statevector.Fixed(0.5))
	if err != nil {
		t.Fatal(err)
	}
	return res.State
}

func TestFormatAmplitude(t *testing.T) {
	tests := []struct {
		a    complex128
		prec int
		want string
	}{
		{complex(0.70710678, 0), 4, "0.7071+0.0000i"},
		{complex(-0.5, 0.25), 2, "-0.50+0.25i"},
		{complex(-1e-9, -1e-9), 4, "0.0000+0.0000i"},
		{complex(0, -1), 1, "0.0-1.0i"},
	}
	for _, tt := range tests {
		if got := FormatAmplitude(tt.a, tt.prec); got != tt.want {
			t.Errorf("FormatAmplitude(%v, %d) = %q, want %q", tt.a, tt.prec, got, tt.want)
		}
	}
}

func TestState(t *testing.T) {
	s := runState(t, circuit.New(circuit.Op(gate.H, 0)), 2)

	got := State(s, StateOptions{IgnoreZeros: true, Precision: 4, Styles: PlainStyles()})
	want := "|00> 0.7071+0.0000i\n|10> 0.7071+0.0000i\n"
	if got != want {
		t.Errorf("State(ignore zeros) =\n%s\nwant\n%s", got, want)
	}

	got = State(s, StateOptions{Precision: 1, Styles: PlainStyles()})
	want = "|00> 0.7+0.0i\n|01> 0.0+0.0i\n|10> 0.7+0.0i\n|11> 0.0+0.0i\n"
	if got != want {
		t.Errorf("State(all) =\n%s\nwant\n%s", got, want)
	}
}

func TestQubitBars(t *testing.T) {
	s := runState(t, circuit.New(circuit.Op(gate.X, 0)), 2)
	got := QubitBars(s, 4, 2, PlainStyles())
	want := "q[0]  ████ P(1)=1.00\nq[1]  ░░░░ P(1)=0.00\n"
	if got != want {
		t.Errorf("QubitBars =\n%s\nwant\n%s", got, want)
	}
}

func TestHistogram(t *testing.T) {
	got := Histogram(statevector.Histogram{"11": 1, "00": 3}, 4, PlainStyles())
	want := "00 ████ 3 (75.0%)\n11 █░░░ 1 (25.0%)\n"
	if got != want {
		t.Errorf("Histogram =\n%s\nwant\n%s", got, want)
	}
	if Histogram(statevector.Histogram{}, 4, PlainStyles()) != "" {
		t.Error("empty histogram should render nothing")
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		g    gate.Gate
		want string
	}{
		{gate.H, "H"},
		{gate.I, "I"},
		{gate.Sdg, "S†"},
		{gate.Tdg, "T†"},
		{gate.Measure, "M"},
		{gate.Rx(1), "RX"},
		{gate.P(1), "P"},
		{gate.C(gate.Ry(0.5)), "RY"},
	}
	for _, tt := range tests {
		if got := Label(tt.g); got != tt.want {
			t.Errorf("Label(%s) = %q, want %q", tt.g, got, tt.want)
		}
	}
}

func TestCompact(t *testing.T) {
	c := circuit.New(circuit.Op(gate.H, 0), circuit.Op(gate.CNOT, 0, 2), circuit.Op(gate.C(gate.Rz(1)), 2, 1))
	got := Compact(c, 3)
	want := "|0>─H──●────\n" +
		"|0>────┼──R─\n" +
		"|0>────⊕──●─\n"
	if got != want {
		t.Errorf("Compact =\n%s\nwant\n%s", got, want)
	}
}

func TestDiagram(t *testing.T) {
	c := circuit.New(circuit.Op(gate.H, 0), circuit.Op(gate.CNOT, 0, 1)).Measure(1)
	out := Diagram(c, 2, DiagramOptions{Styles: PlainStyles(), Highlight: -1})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	// header + 3 lines per qubit + classical wire
	if len(lines) != 1+3*2+1 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}

	_, steps := Steps(c)
	wantW := labelVisualW + steps*cellW
	for _, i := range []int{2, 5, 7} {
		if w := ansi.StringWidth(lines[i]); w != wantW {
			t.Errorf("line %d width %d, want %d: %q", i, w, wantW, lines[i])
		}
	}

	checks := []struct {
		line int
		sub  string
	}{
		{2, "┤  H  ├"},
		{2, "●"},
		{5, "⊕"},
		{5, "┤  M  ├"},
		{7, "╩0"},
		{7, "c1"},
	}
	for _, ck := range checks {
		if !strings.Contains(lines[ck.line], ck.sub) {
			t.Errorf("line %d %q missing %q", ck.line, lines[ck.line], ck.sub)
		}
	}

	highlighted := Diagram(c, 2, DiagramOptions{Styles: PlainStyles(), Highlight: 1})
	if !strings.Contains(highlighted, "╔") || strings.Contains(out, "╔") {
		t.Error("only the highlighted diagram should box the cursor operation")
	}

	narrow := Diagram(c, 2, DiagramOptions{Styles: PlainStyles(), Highlight: -1, Start: 1, Width: labelVisualW + cellW})
	if strings.Contains(narrow, "┤  H  ├") || !strings.Contains(narrow, "⊕") {
		t.Errorf("window starting at step 1 should show only the CNOT:\n%s", narrow)
	}
}

func TestPhases(t *testing.T) {
	// X(1) then H(0), S(0): |01⟩ and |11⟩ with a quarter-turn phase on |11⟩.
	c := circuit.New(circuit.Op(gate.X, 1), circuit.Op(gate.H, 0), circuit.Op(gate.S, 0))
	got := Phases(runState(t, c, 2), 2, PlainStyles())
	want := "w1 |01> p=0.50 φ=+0.0°\nw2 |11> p=0.50 φ=+90.0°\n"
	if got != want {
		t.Errorf("Phases =\n%s\nwant\n%s", got, want)
	}
}
