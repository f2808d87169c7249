package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is dfsmdbg's only command: there is no subcommand tree, the way
// the teacher pack's thinnest cobra CLIs (see aretw0-trellis's validate
// command) attach one concrete action straight to a command literal rather
// than building out a command hierarchy for a single-purpose tool.
var rootCmd = &cobra.Command{
	Use:   "dfsmdbg",
	Short: "Build a small DFSM from literal patterns and scan stdin against it",
	Long: `dfsmdbg is a thin demo CLI around the dfsm package: it builds a machine
from one or more -match literals, optionally requires end-of-input with
-eof, and then runs FindMany over every line of stdin, printing each match
and, with -debug, a full node dump via Machine.PrintDbg.`,
	RunE:          runScan,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, the entry point main calls.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringArrayP("match", "m", nil, "literal pattern to accept (repeatable)")
	rootCmd.Flags().Bool("eof", false, "require end-of-input immediately after a match")
	rootCmd.Flags().Bool("debug", false, "print the optimized machine's node dump before scanning")
	rootCmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")
}
