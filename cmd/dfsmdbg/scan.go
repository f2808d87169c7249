package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KronsyC/regex-backend/dfsm"
	"github.com/KronsyC/regex-backend/internal/logging"
)

// runScan builds a Machine from the -match flags, optimizes it, and then
// runs FindMany over every line read from stdin, printing each match's span
// and accepted literal.
func runScan(cmd *cobra.Command, args []string) error {
	patterns, err := cmd.Flags().GetStringArray("match")
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		return fmt.Errorf("dfsmdbg: at least one -match literal is required")
	}
	requireEof, err := cmd.Flags().GetBool("eof")
	if err != nil {
		return err
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return err
	}
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}

	log := logging.New(parseLevel(levelName))

	m := dfsm.New[string, byte]()
	for _, lit := range patterns {
		m.Root().MatchSequence([]byte(lit)...)
		if requireEof {
			m.MatchEof()
		}
		m.Accept(lit)
	}
	m.Optimize()
	log.Debug("machine built", "patterns", len(patterns), "nodes", m.Size())

	if debug {
		m.PrintDbg(os.Stderr)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Bytes()
		for res := range m.FindMany(line) {
			fmt.Printf("%d:%d %s\n", res.Begin, res.End, res.Value)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("reading stdin failed", "err", err)
		return err
	}
	return nil
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
