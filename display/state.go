package display

import (
	"cmp"
	"fmt"
	"math"
	"math/cmplx"
	"slices"
	"strings"

	"qtermsim/statevector"
)

// zeroAmplitude is the magnitude at or below which State treats an
// amplitude as zero.
const zeroAmplitude = 1e-14

// StateOptions controls State.
type StateOptions struct {
	IgnoreZeros bool
	Precision   int
	Styles      Styles
}

// FormatAmplitude prints a as "re±imi" with prec digits after the point.
func FormatAmplitude(a complex128, prec int) string {
	re, im := real(a), imag(a)
	// Avoid printing -0.0000.
	if math.Abs(re) < 0.5*math.Pow10(-prec) {
		re = 0
	}
	if math.Abs(im) < 0.5*math.Pow10(-prec) {
		im = 0
	}
	return fmt.Sprintf("%.*f%+.*fi", prec, re, prec, im)
}

// State lists the amplitudes of s, one "|b…b> amplitude" line per basis
// state in index order.
func State(s *statevector.StateVector, o StateOptions) string {
	var sb strings.Builder
	for i, a := range s.Amplitudes {
		if o.IgnoreZeros && cmplx.Abs(a) <= zeroAmplitude {
			continue
		}
		label := "|" + statevector.BasisLabel(i, s.NumQubits) + ">"
		fmt.Fprintf(&sb, "%s %s\n", o.Styles.QubitLabel.Render(label), FormatAmplitude(a, o.Precision))
	}
	return sb.String()
}

// bar draws a horizontal bar of width cells filled to fraction f.
func bar(f float64, width int, st Styles) string {
	filled := int(math.Round(math.Max(0, math.Min(1, f)) * float64(width)))
	return st.Bar.Render(strings.Repeat("█", filled)) + st.Dim.Render(strings.Repeat("░", width-filled))
}

// QubitBars draws P(1) for every qubit of s as a bar of the given width.
func QubitBars(s *statevector.StateVector, width, prec int, st Styles) string {
	var sb strings.Builder
	for q, p := range s.QubitProbabilities() {
		label := st.QubitLabel.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", q)))
		fmt.Fprintf(&sb, "%s %s P(1)=%.*f\n", label, bar(p.Prob1, width, st), prec, p.Prob1)
	}
	return sb.String()
}

// Histogram draws one bar per observed bitstring, scaled to the most
// frequent one.
func Histogram(h statevector.Histogram, width int, st Styles) string {
	bars := h.Sorted()
	if len(bars) == 0 {
		return ""
	}
	peak, labelW := 0, 0
	for _, b := range bars {
		peak = max(peak, b.Count)
		labelW = max(labelW, len(b.Bitstring))
	}
	total := float64(h.Total())

	var sb strings.Builder
	for _, b := range bars {
		label := b.Bitstring
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(&sb, "%s %s %d (%.1f%%)\n",
			st.QubitLabel.Render(fmt.Sprintf("%-*s", labelW, label)),
			bar(float64(b.Count)/float64(peak), width, st),
			b.Count, 100*float64(b.Count)/total)
	}
	return sb.String()
}

// Phases lists the states of s that carry weight, grouped by Hamming weight
// the way a q-sphere stacks them, with probability and phase in degrees.
func Phases(s *statevector.StateVector, prec int, st Styles) string {
	states := s.QSphereStates()
	slices.SortStableFunc(states, func(a, b statevector.QSphereState) int {
		return cmp.Compare(a.Hamming, b.Hamming)
	})

	var sb strings.Builder
	for _, q := range states {
		fmt.Fprintf(&sb, "%s %s p=%.*f φ=%+.1f°\n",
			st.Dim.Render(fmt.Sprintf("w%d", q.Hamming)),
			st.QubitLabel.Render("|"+q.Label+">"),
			prec, q.Prob, q.Phase*180/math.Pi)
	}
	return sb.String()
}
