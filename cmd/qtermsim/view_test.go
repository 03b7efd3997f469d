package main

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"qtermsim/circuit"
	"qtermsim/gate"
	"qtermsim/statevector"
)

func newTestModel(t *testing.T, c *circuit.Circuit, n int) Model {
	t.Helper()
	engine := statevector.New(statevector.WithEmbedder(statevector.IndexEmbedder{}))
	return newModel(c, n, engine, 1, filepath.Join(t.TempDir(), "circuit.qasm"))
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func amplitude(t *testing.T, m Model, i int) complex128 {
	t.Helper()
	if m.runErr != nil {
		t.Fatalf("run error: %v", m.runErr)
	}
	return m.result.State.Amplitudes[i]
}

func TestModelStepping(t *testing.T) {
	m := newTestModel(t, circuit.New().Add(gate.H, 0).Add(gate.CNOT, 0, 1), 2)

	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want all operations applied", m.cursor)
	}
	if math.Abs(real(amplitude(t, m, 3))-1/math.Sqrt2) > 1e-12 {
		t.Errorf("|11> amplitude = %v", amplitude(t, m, 3))
	}

	m = press(t, m, "left")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after left", m.cursor)
	}
	if amplitude(t, m, 3) != 0 || math.Abs(real(amplitude(t, m, 2))-1/math.Sqrt2) > 1e-12 {
		t.Errorf("state after H: %v", m.result.State.Amplitudes)
	}

	m = press(t, m, "g")
	if m.cursor != 0 || amplitude(t, m, 0) != 1 {
		t.Errorf("cursor %d, |00> = %v after g", m.cursor, amplitude(t, m, 0))
	}
	m = press(t, m, "left")
	if m.cursor != 0 {
		t.Errorf("cursor moved below zero")
	}
	m = press(t, m, "G", "right")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestModelMenuInsert(t *testing.T) {
	m := newTestModel(t, &circuit.Circuit{}, 2)

	// Hadamard is the first item of the first category.
	m = press(t, m, "a")
	if m.focus != focusMenu {
		t.Fatalf("focus = %d, want menu", m.focus)
	}
	m = press(t, m, "enter")
	if m.focus != focusCircuit || m.circ.Len() != 1 || m.circ.Ops[0].String() != "h q[0]" {
		t.Fatalf("after insert: focus %d, ops %v", m.focus, m.circ.Ops)
	}

	// CNOT on q[1] targets the qubit above it.
	m = press(t, m, "down", "a", "right", "right", "enter")
	if got := m.circ.Ops[1].String(); got != "cx q[1], q[0]" {
		t.Fatalf("op 1 = %q", got)
	}
	if !strings.Contains(m.qasmEditor.Value(), "cx q[1], q[0];") {
		t.Errorf("editor not synced:\n%s", m.qasmEditor.Value())
	}

	// Rotation needs an angle.
	m = press(t, m, "up", "a", "right", "enter")
	if m.focus != focusInputParam {
		t.Fatalf("focus = %d, want angle input", m.focus)
	}
	m = press(t, m, "p", "i", "x", "enter")
	if m.circ.Len() != 3 {
		t.Fatalf("ops = %v", m.circ.Ops)
	}
	g, ok := m.circ.Ops[2].Gate.(gate.Parametrized)
	if !ok || g.Kind != gate.RX || math.Abs(g.Angle-math.Pi) > 1e-12 {
		t.Errorf("op 2 = %v", m.circ.Ops[2])
	}

	m = press(t, m, "backspace")
	if m.circ.Len() != 2 || m.cursor != 2 {
		t.Errorf("after delete: %d ops, cursor %d", m.circ.Len(), m.cursor)
	}
}

func TestModelBadAngle(t *testing.T) {
	m := newTestModel(t, &circuit.Circuit{}, 1)
	m = press(t, m, "a", "right", "enter", "/", "enter")
	if m.focus != focusInputParam || m.circ.Len() != 0 {
		t.Errorf("focus %d, ops %v", m.focus, m.circ.Ops)
	}
	if m.statusMsg == "" {
		t.Error("no status message for invalid angle")
	}
	m = press(t, m, "esc")
	if m.focus != focusCircuit {
		t.Errorf("focus = %d after esc", m.focus)
	}
}

func TestModelTwoQubitGateNeedsTwoQubits(t *testing.T) {
	m := newTestModel(t, &circuit.Circuit{}, 1)
	m = press(t, m, "a", "right", "right", "enter")
	if m.circ.Len() != 0 || m.statusMsg == "" {
		t.Errorf("ops %v, status %q", m.circ.Ops, m.statusMsg)
	}
}

func TestModelQubitCount(t *testing.T) {
	m := newTestModel(t, circuit.New().Add(gate.X, 1), 2)

	m = press(t, m, "-")
	if m.numQubits != 2 {
		t.Errorf("removed a qubit in use")
	}
	m = press(t, m, "+")
	if m.numQubits != 3 || len(m.result.State.Amplitudes) != 8 {
		t.Fatalf("numQubits = %d", m.numQubits)
	}
	if !strings.Contains(m.qasmEditor.Value(), "qreg q[3];") {
		t.Errorf("register not resized:\n%s", m.qasmEditor.Value())
	}
	m = press(t, m, "-")
	if m.numQubits != 2 {
		t.Errorf("numQubits = %d, want 2", m.numQubits)
	}

	for range 20 {
		m = press(t, m, "+")
	}
	if m.numQubits != statevector.DefaultMaxQubits {
		t.Errorf("numQubits = %d, want ceiling", m.numQubits)
	}
}

func TestModelQASMEditing(t *testing.T) {
	m := newTestModel(t, circuit.New().Add(gate.H, 0), 1)

	m.qasmEditor.SetValue("OPENQASM 2.0;\nqreg q[2];\nx q[0];\ncx q[0], q[1];\n")
	m.parseQASMInput()
	if m.parseErr != "" {
		t.Fatalf("parse error: %s", m.parseErr)
	}
	if m.numQubits != 2 || m.circ.Len() != 2 || m.cursor != 1 {
		t.Fatalf("qubits %d, ops %d, cursor %d", m.numQubits, m.circ.Len(), m.cursor)
	}

	m.qasmEditor.SetValue("OPENQASM 2.0;\nqreg q[2];\nfoo q[0];\n")
	m.parseQASMInput()
	if m.parseErr == "" {
		t.Error("expected parse error")
	}
	if m.circ.Len() != 2 {
		t.Errorf("circuit replaced by invalid QASM")
	}

	m = press(t, m, "tab")
	if m.focus != focusQASM {
		t.Errorf("focus = %d after tab", m.focus)
	}
	m = press(t, m, "q", "tab")
	if m.focus != focusCircuit {
		t.Errorf("focus = %d after second tab", m.focus)
	}
}

func TestModelSave(t *testing.T) {
	m := newTestModel(t, circuit.New().Add(gate.H, 0).Add(gate.CZ, 0, 1), 2)
	m = press(t, m, "ctrl+s")
	if !strings.HasPrefix(m.statusMsg, "Saved") {
		t.Fatalf("status = %q", m.statusMsg)
	}

	c, err := circuit.Load(m.path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 || c.Ops[1].String() != "cz q[0], q[1]" {
		t.Errorf("saved ops = %v", c.Ops)
	}
}

func TestModelReseed(t *testing.T) {
	m := newTestModel(t, circuit.New().Add(gate.H, 0).Measure(0), 1)
	m = press(t, m, "r")
	if m.seed != 2 || !strings.Contains(m.statusMsg, "2") {
		t.Errorf("seed %d, status %q", m.seed, m.statusMsg)
	}
	if len(m.result.Outcomes) != 1 {
		t.Errorf("outcomes = %v", m.result.Outcomes)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, circuit.New().Add(gate.H, 0).Add(gate.CNOT, 0, 1).Measure(1), 2)
	if got := m.View(); got != "Loading..." {
		t.Errorf("view before sizing = %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	view := m.View()
	for _, want := range []string{"Quantum Circuit", "State", "QASM Editor", "Operation 3/3", "Outcomes"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(t, m, "a")
	if !strings.Contains(m.View(), "Add Gate") {
		t.Error("menu overlay not drawn")
	}
}
