// Command dfsmdbg is a small demonstration CLI for package dfsm: it builds
// a machine from one or more literal patterns given on the command line and
// scans stdin against it, optionally dumping the machine's node graph.
// It is diagnostic/IO glue around the builder engine, not part of it — the
// dfsm package has no CLI or logging of its own; this command is where that
// glue, and the pack's own cobra/slog stack, actually live.
package main

func main() {
	Execute()
}
