package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"qtermsim/circuit"
	"qtermsim/compiler"
	"qtermsim/gate"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] ghz|ising|qft|iqft|qpe",
	Short: "Write a standard algorithm circuit to a file.",
	Long: `Build one of the standard circuits and write it as OpenQASM (.qasm) or
	YAML. Every emitted two-qubit gate acts on neighbouring qubits.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := buildParams{
			qubits:   getInt(cmd, "qubits"),
			steps:    getInt(cmd, "steps"),
			dt:       getFloat(cmd, "dt"),
			j:        getFloat(cmd, "j"),
			h:        getFloat(cmd, "h"),
			counting: getInt(cmd, "counting"),
			unitary:  getString(cmd, "unitary"),
			phase:    getFloat(cmd, "phase"),
		}
		c, err := build(args[0], p)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"kind": args[0], "qubits": c.Qubits(), "ops": c.Len()}).Debug("built circuit")

		if out := getString(cmd, "output"); out != "" {
			return circuit.Save(out, c)
		}
		return writeCircuit(cmd.OutOrStdout(), c, getString(cmd, "format"))
	},
}

// buildParams collects the builder flags.
type buildParams struct {
	qubits   int
	steps    int
	dt, j, h float64
	counting int
	unitary  string
	phase    float64
}

// build dispatches to the compiler package.
func build(kind string, p buildParams) (*circuit.Circuit, error) {
	switch strings.ToLower(kind) {
	case "ghz":
		return compiler.GHZ(p.qubits)
	case "ising":
		return compiler.Ising(p.qubits, p.steps, p.dt, p.j, p.h)
	case "qft":
		return compiler.QFT(p.qubits)
	case "iqft":
		return compiler.InverseQFT(p.qubits)
	case "qpe":
		u := gate.Gate(gate.P(2 * math.Pi * p.phase))
		if p.unitary != "" {
			var err error
			if u, err = gate.Parse(p.unitary); err != nil {
				return nil, err
			}
		}
		// |1⟩ is an eigenstate of every diagonal single-qubit gate.
		return compiler.PhaseEstimation(p.counting, u, gate.X)
	}
	return nil, fmt.Errorf("unknown circuit %q (want ghz, ising, qft, iqft or qpe)", kind)
}

// writeCircuit prints c to w as QASM or YAML.
func writeCircuit(w io.Writer, c *circuit.Circuit, format string) error {
	switch format {
	case "qasm":
		_, err := io.WriteString(w, c.ToQASM())
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want qasm or yaml)", format)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().IntP("qubits", "n", 3, "number of qubits (ghz, ising, qft, iqft)")
	buildCmd.Flags().Int("steps", 10, "Trotter steps (ising)")
	buildCmd.Flags().Float64("dt", 0.1, "time step (ising)")
	buildCmd.Flags().Float64("j", 1, "coupling J (ising)")
	buildCmd.Flags().Float64("h", 1, "transverse field h (ising)")
	buildCmd.Flags().Int("counting", 3, "counting qubits (qpe)")
	buildCmd.Flags().String("unitary", "", "single-qubit gate to estimate, e.g. t or p(pi/3) (qpe)")
	buildCmd.Flags().Float64("phase", 0.25, "eigenphase of p(2π·phase) when --unitary is not given (qpe)")
	buildCmd.Flags().StringP("output", "o", "", "output file; the extension picks .qasm or YAML")
	buildCmd.Flags().String("format", "qasm", "format written to standard output: qasm or yaml")
}
