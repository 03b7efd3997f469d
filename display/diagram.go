package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"qtermsim/circuit"
	"qtermsim/gate"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres s within width visible columns, truncating if needed.
func padCenter(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	total := width - w
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// Label returns the short name drawn inside a gate box.
func Label(g gate.Gate) string {
	switch g := g.(type) {
	case gate.Named:
		switch g {
		case gate.I:
			return "I"
		case gate.Sdg:
			return "S†"
		case gate.Tdg:
			return "T†"
		case gate.Measure:
			return "M"
		}
		return strings.ToUpper(g.String())
	case gate.Parametrized:
		if g.Kind == gate.Phase {
			return "P"
		}
		return strings.ToUpper(g.Kind.String())
	case gate.Controlled:
		return Label(g.Inner)
	}
	return "?"
}

// symbols returns the wire symbols of a two-qubit gate's first and second
// qubit. An empty second symbol means the second qubit gets a gate box.
func symbols(g gate.Gate) (first, second string) {
	switch g {
	case gate.CNOT:
		return "●", "⊕"
	case gate.CZ:
		return "●", "●"
	case gate.SWAP:
		return "×", "×"
	}
	if c, ok := g.(gate.Controlled); ok {
		switch c.Inner {
		case gate.X:
			return "●", "⊕"
		case gate.Z:
			return "●", "●"
		}
	}
	return "●", ""
}

// ──────────────────────────── Cell layout ────────────────────────────

type cellRole uint8

const (
	roleWire cellRole = iota
	roleBox
	roleSymbol
	rolePass
)

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	op           int // index of the occupying operation, -1 if none
	role         cellRole
	text         string // box label or wire symbol
	vertAbove    bool
	vertBelow    bool
	measureBelow bool // a measurement line passes down through this cell
	measured     int  // classical bit written at this step, -1 if none
}

// layout places every operation of c on an n-qubit grid of steps.
type layout struct {
	n     int
	steps int
	cells [][]cellInfo // [step][qubit]
	cbit  []int        // classical bit written at each step, -1 if none
	nbits int
}

func newLayout(c *circuit.Circuit, n int) *layout {
	opSteps, numSteps := c.Moments()
	l := &layout{n: n, steps: numSteps, cells: make([][]cellInfo, numSteps), cbit: make([]int, numSteps)}
	for s := range l.cells {
		l.cells[s] = make([]cellInfo, n)
		for q := range n {
			l.cells[s][q] = cellInfo{op: -1, measured: -1}
		}
		l.cbit[s] = -1
	}

	set := func(s, q int, info cellInfo) {
		if q >= 0 && q < n {
			l.cells[s][q] = info
		}
	}

	for i, op := range c.Ops {
		s := opSteps[i]
		switch {
		case op.IsMeasurement():
			q := op.Qubits[0]
			set(s, q, cellInfo{op: i, role: roleBox, text: "M", measured: l.nbits})
			for below := q + 1; below < n; below++ {
				l.cells[s][below].measureBelow = true
			}
			l.cbit[s] = l.nbits
			l.nbits++

		case op.Arity() == 1:
			set(s, op.Qubits[0], cellInfo{op: i, role: roleBox, text: Label(op.Gate), measured: -1})

		default:
			a, b := op.Qubits[0], op.Qubits[1]
			lo, hi := min(a, b), max(a, b)
			first, second := symbols(op.Gate)
			for q := lo; q <= hi && q < n; q++ {
				info := cellInfo{op: i, role: rolePass, vertAbove: q > lo, vertBelow: q < hi, measured: -1}
				switch q {
				case a:
					info.role, info.text = roleSymbol, first
				case b:
					info.role, info.text = roleSymbol, second
					if second == "" {
						info.role, info.text = roleBox, Label(op.Gate)
					}
				}
				set(s, q, info)
			}
		}
	}
	return l
}

// ──────────────────────────── Cell rendering ────────────────────────────

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW (11) visual characters wide.
func renderCell(info cellInfo, highlight bool, st Styles) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + st.CbitConnector.Render("║") + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	gs := st.Gate
	if highlight {
		gs = st.Cursor
	}

	// ── Highlighted cell ──
	if highlight && info.role != roleWire {
		bdr := st.Cursor
		innerW := cellW - 2
		dl := (innerW - 1) / 2
		dr := innerW - dl - 1
		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")
		switch info.role {
		case roleBox:
			mid = bdr.Render("║") + "─┤" + gs.Render(padCenter(info.text, gateNameW)) + "├─" + bdr.Render("║")
		case roleSymbol:
			mid = bdr.Render("║") + strings.Repeat("─", dl) + gs.Render(info.text) + strings.Repeat("─", dr) + bdr.Render("║")
		case rolePass:
			mid = bdr.Render("║") + strings.Repeat("─", dl) + "┼" + strings.Repeat("─", dr) + bdr.Render("║")
		}
		return
	}

	switch info.role {
	case roleBox:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		halfName := gateNameW / 2
		topEdge := strings.Repeat("─", gateNameW)
		if info.vertAbove {
			topEdge = strings.Repeat("─", halfName) + "┴" + strings.Repeat("─", gateNameW-halfName-1)
		}
		botEdge := strings.Repeat("─", gateNameW)
		if info.vertBelow {
			botEdge = strings.Repeat("─", halfName) + "┬" + strings.Repeat("─", gateNameW-halfName-1)
		}

		top = strings.Repeat(" ", margin) + gs.Render("┌"+topEdge+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gs.Render("┤"+padCenter(info.text, gateNameW)+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gs.Render("└"+botEdge+"┘") + strings.Repeat(" ", rightMargin)
		if info.measured >= 0 && !info.vertBelow {
			bot = strings.Repeat(" ", margin) + gs.Render("└"+strings.Repeat("─", halfName)) + st.CbitConnector.Render("╥") + gs.Render(strings.Repeat("─", gateNameW-halfName-1)+"┘") + strings.Repeat(" ", rightMargin)
		}

	case roleSymbol:
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gs.Render(info.text) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case rolePass:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		if info.measureBelow {
			// No gate here, but a measurement connection passes through vertically
			top = dblVertRow
			mid = strings.Repeat("─", dashL) + st.CbitConnector.Render("╫") + strings.Repeat("─", dashR)
			bot = dblVertRow
			return
		}
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
	}
	return
}

// ──────────────────────────── Diagram ────────────────────────────

// DiagramOptions controls Diagram.
type DiagramOptions struct {
	Styles Styles
	// Highlight is the index of an operation to draw in the cursor style,
	// or -1.
	Highlight int
	// Start is the first step drawn.
	Start int
	// Width limits the drawing to as many steps as fit in Width columns;
	// 0 draws every step.
	Width int
}

// Steps returns the step of every operation of c and the number of steps,
// as Diagram lays them out.
func Steps(c *circuit.Circuit) ([]int, int) { return c.Moments() }

// Diagram draws c on n qubit wires, three text lines per qubit, followed by
// a classical wire when c measures.
func Diagram(c *circuit.Circuit, n int, o DiagramOptions) string {
	st := o.Styles
	l := newLayout(c, n)

	start := max(0, min(o.Start, l.steps-1))
	count := l.steps - start
	if o.Width > 0 {
		count = min(count, max((o.Width-labelVisualW)/cellW, 1))
	}
	count = max(count, 0)

	var sb strings.Builder

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := start; step < start+count; step++ {
		header += st.Dim.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(strings.TrimRight(header, " ") + "\n")

	// Render each qubit as 3 lines
	for qubit := range n {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := st.QubitLabel.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := start; step < start+count; step++ {
			info := l.cells[step][qubit]
			top, mid, bot := renderCell(info, info.op >= 0 && info.op == o.Highlight, st)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(strings.TrimRight(topLine, " ") + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(strings.TrimRight(botLine, " ") + "\n")
	}

	// ── Classical bit wire (single line) ──
	if l.nbits > 0 {
		label := fmt.Sprintf("c%d", l.nbits)
		cbitLine := st.CbitLabel.Render(fmt.Sprintf("%-5s", label)) + st.CbitWire.Render("══")

		for step := start; step < start+count; step++ {
			if bit := l.cbit[step]; bit >= 0 {
				// Show ╩ with the bit index next to it
				bitLabel := fmt.Sprintf("%d", bit)
				dashL := (cellW - 1) / 2
				dashR := max(cellW-dashL-1-len(bitLabel), 0)
				cbitLine += st.CbitWire.Render(strings.Repeat("═", dashL)) +
					st.CbitConnector.Render("╩"+bitLabel) +
					st.CbitWire.Render(strings.Repeat("═", dashR))
			} else {
				cbitLine += st.CbitWire.Render(strings.Repeat("═", cellW))
			}
		}
		sb.WriteString(cbitLine + "\n")
	}

	return sb.String()
}

// Compact draws c with one line per qubit and one three-character column per
// operation, in list order.
func Compact(c *circuit.Circuit, n int) string {
	var sb strings.Builder
	for qb := range n {
		sb.WriteString("|0>")
		for _, op := range c.Ops {
			if op.Arity() == 1 {
				if op.Qubits[0] != qb {
					sb.WriteString("───")
					continue
				}
				sb.WriteString("─" + firstRune(Label(op.Gate)) + "─")
				continue
			}
			a, b := op.Qubits[0], op.Qubits[1]
			lo, hi := min(a, b), max(a, b)
			first, second := symbols(op.Gate)
			switch {
			case qb < lo || qb > hi:
				sb.WriteString("───")
			case qb == a:
				sb.WriteString("─" + first + "─")
			case qb == b && second != "":
				sb.WriteString("─" + second + "─")
			case qb == b:
				sb.WriteString("─" + firstRune(Label(op.Gate)) + "─")
			default:
				sb.WriteString("─┼─")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return "?"
}
