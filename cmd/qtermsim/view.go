package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"qtermsim/circuit"
	"qtermsim/display"
	"qtermsim/gate"
	"qtermsim/statevector"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusInputParam
)

// Model is the circuit stepper: it shows the state after the first cursor
// operations and lets the circuit be edited from a gate menu or as QASM.
type Model struct {
	circ        *circuit.Circuit // the circuit is the single source of truth
	numQubits   int
	engine      *statevector.Engine
	seed        uint64
	path        string // file written by ctrl+s
	cursor      int    // number of operations applied
	cursorQubit int    // qubit new gates are placed on
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	statusMsg   string // transient status message (e.g. save confirmation)
	parseErr    string
	styles      display.Styles
	precision   int

	// Menu state
	menuCat    int
	menuItem   int
	paramInput string

	// State after the first cursor operations
	result *statevector.Result
	runErr error
}

func newModel(c *circuit.Circuit, n int, engine *statevector.Engine, seed uint64, path string) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	c = c.Clone()
	c.NumQubits = n

	m := Model{
		circ:       c,
		numQubits:  n,
		engine:     engine,
		seed:       seed,
		path:       path,
		cursor:     c.Len(),
		qasmEditor: ta,
		focus:      focusCircuit,
		styles:     display.DefaultStyles(),
		precision:  4,
	}
	m.syncEditor()
	m.simulate()
	return m
}

// syncEditor rewrites the QASM view from the circuit.
func (m *Model) syncEditor() {
	m.circ.NumQubits = m.numQubits
	qasm := m.circ.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.parseErr = ""
}

// parseQASMInput replaces the circuit when the editor holds valid QASM that
// differs from what was last seen.
func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	m.lastQASM = qasm

	c, err := circuit.ParseQASM(qasm)
	if err != nil {
		m.parseErr = err.Error()
		return
	}
	m.parseErr = ""
	m.circ = c
	m.numQubits = max(c.Qubits(), 1)
	m.cursor = min(m.cursor, c.Len())
	m.cursorQubit = min(m.cursorQubit, m.numQubits-1)
	m.simulate()
}

// simulate runs the first cursor operations from |0…0⟩.
func (m *Model) simulate() {
	m.result, m.runErr = m.engine.RunN(m.circ.Prefix(m.cursor), m.numQubits, statevector.NewSource(m.seed))
}

// insert places g after the applied operations, on the cursor qubit and,
// for two-qubit gates, its neighbour below (above on the last wire).
func (m *Model) insert(g gate.Gate) bool {
	qubits := []int{m.cursorQubit}
	if g.Arity() == 2 {
		if m.numQubits < 2 {
			m.statusMsg = "Two-qubit gates need at least two qubits"
			return false
		}
		other := m.cursorQubit + 1
		if other >= m.numQubits {
			other = m.cursorQubit - 1
		}
		qubits = append(qubits, other)
	}

	ops := make([]circuit.Operation, 0, m.circ.Len()+1)
	ops = append(ops, m.circ.Ops[:m.cursor]...)
	ops = append(ops, circuit.Op(g, qubits...))
	ops = append(ops, m.circ.Ops[m.cursor:]...)
	m.circ.Ops = ops
	m.cursor++

	m.syncEditor()
	m.simulate()
	return true
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmEditor.SetWidth(qasmW)
		ctrlH := 6
		mainH := msg.Height - ctrlH - 4
		m.qasmEditor.SetHeight(max(mainH-4, 4))

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "right", "l":
				if m.cursor < m.circ.Len() {
					m.cursor++
					m.simulate()
				}
			case "left", "h":
				if m.cursor > 0 {
					m.cursor--
					m.simulate()
				}
			case "home", "g":
				m.cursor = 0
				m.simulate()
			case "end", "G":
				m.cursor = m.circ.Len()
				m.simulate()
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.numQubits-1 {
					m.cursorQubit++
				}
			case "r":
				m.seed++
				m.simulate()
				m.statusMsg = fmt.Sprintf("Seed %d", m.seed)
			case "ctrl+s":
				if err := circuit.Save(m.path, m.circ); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved " + m.path
				}
			case "+", "=":
				if m.numQubits >= m.engine.Config().MaxQubits {
					m.statusMsg = fmt.Sprintf("At most %d qubits", m.engine.Config().MaxQubits)
					break
				}
				m.numQubits++
				m.syncEditor()
				m.simulate()
			case "-":
				if m.numQubits <= 1 || m.circ.InferQubits() >= m.numQubits {
					m.statusMsg = fmt.Sprintf("q[%d] is in use", m.numQubits-1)
					break
				}
				m.numQubits--
				m.cursorQubit = min(m.cursorQubit, m.numQubits-1)
				m.syncEditor()
				m.simulate()
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				if m.cursor > 0 {
					m.circ.Ops = append(m.circ.Ops[:m.cursor-1:m.cursor-1], m.circ.Ops[m.cursor:]...)
					m.cursor--
					m.syncEditor()
					m.simulate()
				}
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				cat := gateMenu[m.menuCat]
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				if item.needsParam {
					m.paramInput = ""
					m.focus = focusInputParam
					break
				}
				m.insert(item.build(0))
				m.focus = focusCircuit
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.paramInput = ""
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				angle, err := gate.ParseAngle(m.paramInput)
				if err != nil {
					m.statusMsg = "Invalid angle: use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					break
				}
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.insert(item.build(angle))
				m.paramInput = ""
				m.focus = focusCircuit
			default:
				if len(key) == 1 {
					ch := key[0]
					if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == 'e' || ch == 'E' || ch == '+' ||
						ch == 'p' || ch == 'i' || ch == '*' || ch == '/' {
						m.paramInput += key
					}
				}
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// ──────────────────────────── Panel rendering ────────────────────────────

// clip keeps the first n lines of s.
func clip(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = append(lines[:max(n-1, 0)], dimStyle.Render(fmt.Sprintf("… %d more", len(lines)-n+1)))
	}
	return strings.Join(lines, "\n")
}

// renderCircuitPanel renders the circuit diagram, scrolled to keep the
// last applied operation in view.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	sb.WriteString("\n")

	highlight := m.cursor - 1
	start := 0
	steps, _ := display.Steps(m.circ)
	availWidth := width - 4
	if highlight >= 0 {
		maxSteps := max((availWidth-7)/11, 1)
		start = max(steps[highlight]-maxSteps+1, 0)
	}
	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ from step %d\n", start)
	}
	sb.WriteString(display.Diagram(m.circ, m.numQubits, display.DiagramOptions{
		Styles:    m.styles,
		Highlight: highlight,
		Start:     start,
		Width:     availWidth,
	}))

	fmt.Fprintf(&sb, "\n  Operation %d/%d  Qubit q[%d]  Seed %d", m.cursor, m.circ.Len(), m.cursorQubit, m.seed)
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(clip(sb.String(), height))
}

// renderStatePanel renders the state after the applied operations.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("State"))
	sb.WriteString("\n")
	switch {
	case m.runErr != nil:
		sb.WriteString(errorStyle.Render(m.runErr.Error()))
	case m.result != nil:
		if len(m.result.Outcomes) > 0 {
			fmt.Fprintf(&sb, "Outcomes %s\n", gateStyle.Render(m.result.Bitstring()))
		}
		sb.WriteString(display.QubitBars(m.result.State, 16, m.precision, m.styles))
		sb.WriteString("\n")
		sb.WriteString(display.State(m.result.State, display.StateOptions{IgnoreZeros: true, Precision: m.precision, Styles: m.styles}))
	}

	return stateStyle.Width(width).Height(height).Render(clip(sb.String(), height))
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())
	if m.parseErr != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.parseErr))
	}

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Step:    "))
	sb.WriteString("←→/hl Apply/undo  g/G First/last  ↑↓/jk Qubit  +/- Qubits  r Reseed")
	sb.WriteString("\n")

	sb.WriteString(activeGateStyle.Render("Edit:    "))
	sb.WriteString("a Add gate  Bksp Delete  Tab Switch focus  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	leftWidth := m.width - qasmWidth - 4
	controlsHeight := 4
	mainHeight := max(m.height-controlsHeight-4, 8)
	circuitHeight := max(mainHeight*3/5, 4)
	stateHeight := max(mainHeight-circuitHeight-2, 3)

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCircuitPanel(leftWidth, circuitHeight),
		m.renderStatePanel(leftWidth, stateHeight),
	)
	qasmPanel := m.renderQASMPanel(qasmWidth, mainHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, left, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}

	return frame
}

var viewCmd = &cobra.Command{
	Use:   "view [flags] [circuit_file]",
	Short: "Step through a circuit interactively.",
	Long: `Open an interactive stepper showing the circuit, the state after each
	operation and an editable QASM listing. Without a file an empty circuit
	is opened and ctrl+s writes circuit.qasm.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		c, path := &circuit.Circuit{}, "circuit.qasm"
		if len(args) == 1 {
			path = args[0]
			if c, err = circuit.Load(path); err != nil {
				return err
			}
		}
		n := max(c.Qubits(), getInt(cmd, "qubits"), 1)

		// The TUI owns the terminal; only warnings get through.
		logger := log.New()
		logger.SetLevel(log.WarnLevel)
		engine, err := newEngine(cfg, logger.WithField("run", uuid.New().String()))
		if err != nil {
			return err
		}

		m := newModel(c, n, engine, cfg.Run.Seed, path)
		m.precision = cfg.Display.Precision
		if colorMode(cfg.Display.Color) == "never" {
			m.styles = display.PlainStyles()
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().Uint64("seed", 1, "seed for measurement outcomes")
	viewCmd.Flags().Int("qubits", 2, "minimum number of qubit wires")
	viewCmd.Flags().String("embedder", "index", "operator embedding: kron or index")
	viewCmd.Flags().Int("precision", 4, "digits printed after the decimal point")
	viewCmd.Flags().String("color", "auto", "colour output: auto, always or never")
}
