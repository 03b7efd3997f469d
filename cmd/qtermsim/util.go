package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qtermsim/config"
	"qtermsim/statevector"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string, or panic if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected int, or panic if an error arises.
func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected uint64, or panic if an error arises.
func getUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected float64, or panic if an error arises.
func getFloat(cmd *cobra.Command, flag string) float64 {
	r, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// loadConfig reads the --config file, if any, and lets explicitly set
// command-line flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(getString(cmd, "config"))
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Run.Seed = getUint64(cmd, "seed")
	}
	if flags.Lookup("shots") != nil && flags.Changed("shots") {
		cfg.Run.Shots = getInt(cmd, "shots")
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Run.Workers = getInt(cmd, "workers")
	}
	// Without a config file the command's own embedder default applies.
	if flags.Lookup("embedder") != nil && (flags.Changed("embedder") || getString(cmd, "config") == "") {
		cfg.Engine.Embedder = getString(cmd, "embedder")
	}
	if flags.Lookup("check-norm") != nil && flags.Changed("check-norm") {
		cfg.Engine.CheckNorm = getFlag(cmd, "check-norm")
	}
	if flags.Lookup("all") != nil && flags.Changed("all") {
		cfg.Display.IgnoreZeros = !getFlag(cmd, "all")
	}
	if flags.Lookup("precision") != nil && flags.Changed("precision") {
		cfg.Display.Precision = getInt(cmd, "precision")
	}
	if flags.Lookup("color") != nil && flags.Changed("color") {
		cfg.Display.Color = getString(cmd, "color")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine builds an engine from the configuration, logging through logger.
func newEngine(cfg *config.Config, logger log.FieldLogger) (*statevector.Engine, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return statevector.New(append(opts, statevector.WithLogger(logger))...), nil
}

// terminalWidth returns the width of standard output, or 80 when it is not
// a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// colorMode resolves "auto" against whether standard output is a terminal.
func colorMode(mode string) string {
	if mode == "auto" && !term.IsTerminal(int(os.Stdout.Fd())) {
		return "never"
	}
	return mode
}
