package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"qtermsim/circuit"
	"qtermsim/compiler"
	"qtermsim/config"
	"qtermsim/display"
	"qtermsim/statevector"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] circuit_file",
	Short: "Simulate a circuit and print the final state or a shot histogram.",
	Long: `Simulate a circuit read from a .qasm or YAML file.
	With a single shot the final state vector and measurement outcomes are
	printed; with more shots the outcome bitstrings are counted.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := circuit.Load(args[0])
		if err != nil {
			return err
		}

		opts := runOptions{
			qubits:  getInt(cmd, "qubits"),
			route:   getFlag(cmd, "route"),
			diagram: getFlag(cmd, "diagram"),
			compact: getFlag(cmd, "compact"),
			phases:  getFlag(cmd, "phases"),
			width:   terminalWidth(),
			styles:  display.StylesFor(cmd.OutOrStdout(), colorMode(cfg.Display.Color)),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		logger := log.WithFields(log.Fields{"run": uuid.New().String(), "seed": cfg.Run.Seed, "file": args[0]})
		return simulate(ctx, cmd.OutOrStdout(), c, cfg, opts, logger)
	},
}

// runOptions carries the presentation flags of the run command.
type runOptions struct {
	qubits  int // 0 = declared or inferred
	route   bool
	diagram bool
	compact bool
	phases  bool
	width   int
	styles  display.Styles
}

// simulate runs c according to cfg and writes the report to out.
func simulate(ctx context.Context, out io.Writer, c *circuit.Circuit, cfg *config.Config, opts runOptions, logger log.FieldLogger) error {
	n := c.Qubits()
	if opts.qubits > 0 {
		// Sampled shots read the register size from the circuit.
		c = c.Clone()
		c.NumQubits = opts.qubits
		n = opts.qubits
	}
	if opts.route {
		routed, err := compiler.Adjacent(c)
		if err != nil {
			return err
		}
		logger.WithFields(log.Fields{"before": c.Len(), "after": routed.Len()}).Debug("routed non-adjacent operations")
		c = routed
	}

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	logger.WithFields(log.Fields{"qubits": n, "ops": c.Len(), "shots": cfg.Run.Shots}).Info("simulating")

	st := opts.styles
	if opts.compact {
		fmt.Fprint(out, display.Compact(c, n))
		fmt.Fprintln(out)
	} else if opts.diagram {
		fmt.Fprint(out, display.Diagram(c, n, display.DiagramOptions{Styles: st, Highlight: -1, Width: opts.width}))
		fmt.Fprintln(out)
	}

	if cfg.Run.Shots > 1 {
		hist, err := statevector.Sample(ctx, engine, c, cfg.Run.Shots, cfg.Run.Seed, cfg.Run.Workers)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, st.Title.Render(fmt.Sprintf("%d shots", hist.Total())))
		fmt.Fprint(out, display.Histogram(hist, 30, st))
		return nil
	}

	res, err := engine.RunN(c, n, statevector.NewSource(cfg.Run.Seed))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, st.Title.Render("State"))
	fmt.Fprint(out, display.State(res.State, display.StateOptions{
		IgnoreZeros: cfg.Display.IgnoreZeros,
		Precision:   cfg.Display.Precision,
		Styles:      st,
	}))
	if len(res.Outcomes) > 0 {
		fmt.Fprintf(out, "%s %s\n", st.Title.Render("Outcomes"), res.Bitstring())
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, display.QubitBars(res.State, 20, cfg.Display.Precision, st))
	if opts.phases {
		fmt.Fprintln(out)
		fmt.Fprint(out, display.Phases(res.State, cfg.Display.Precision, st))
	}
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Uint64("seed", 1, "seed for measurement outcomes")
	runCmd.Flags().Int("shots", 1, "number of shots; more than one prints a histogram")
	runCmd.Flags().Int("workers", 0, "goroutines used for shots (0 = GOMAXPROCS)")
	runCmd.Flags().Int("qubits", 0, "number of qubits (default: declared or inferred from the circuit)")
	runCmd.Flags().String("embedder", "kron", "operator embedding: kron or index")
	runCmd.Flags().Bool("check-norm", false, "fail when the state norm drifts after a gate")
	runCmd.Flags().Bool("route", false, "insert SWAPs around non-adjacent two-qubit gates")
	runCmd.Flags().Bool("diagram", false, "draw the circuit before simulating")
	runCmd.Flags().Bool("compact", false, "draw the circuit one line per qubit")
	runCmd.Flags().Bool("phases", false, "list weighted basis states with their phases")
	runCmd.Flags().Bool("all", false, "list zero amplitudes too")
	runCmd.Flags().Int("precision", 4, "digits printed after the decimal point")
	runCmd.Flags().String("color", "auto", "colour output: auto, always or never")
}
