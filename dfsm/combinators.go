package dfsm

import "github.com/KronsyC/regex-backend/internal/graph"

// MatchSequence advances the current cursors across keys in order, one
// symbol at a time. Each step uses a discreet transition, so a sequence
// that happens to revisit an existing chain of nodes still gets its own
// independent continuation from that point on.
func (m *Machine[V, T]) MatchSequence(keys ...T) *Machine[V, T] {
	for _, k := range keys {
		m.cursors = dedupInts(m.advanceDiscreet(graph.SymbolKey(k)))
	}
	return m
}

// MatchAnyOf branches the current cursors across every key in keys,
// producing the union of every resulting successor as the new cursor set.
// Passing a single key behaves like a one-symbol MatchSequence.
func (m *Machine[V, T]) MatchAnyOf(keys ...T) *Machine[V, T] {
	all := make([]int, 0, len(keys)*len(m.cursors))
	for _, k := range keys {
		all = append(all, m.advanceDiscreet(graph.SymbolKey(k))...)
	}
	m.cursors = dedupInts(all)
	return m
}

// MatchDefault implements match_default (spec.md §4.10) directly, rather
// than through advanceDiscreet: it allocates one default-target node shared
// by every current cursor, then for each cursor either adopts it (if the
// cursor had no default yet) or applies the conflict policy against the
// cursor's pre-existing default — Skip keeps that existing default as a
// cursor, Overwrite replaces it with the new shared node, and Error
// accumulates a diagnostic and panics once every cursor has been
// considered. The resulting cursor set is the new shared node plus
// whatever pre-existing defaults Skip preserved.
func (m *Machine[V, T]) MatchDefault() *Machine[V, T] {
	shared := m.newNode()
	conflicts := &conflictErrors{op: "match_default"}
	cursorsBefore := dedupInts(append([]int(nil), m.cursors...))

	next := []int{shared}
	for _, c := range cursorsBefore {
		node := m.store.Get(c)
		if node.Default() == 0 {
			node.SetDefault(shared)
			continue
		}
		switch m.onConflict {
		case Skip:
			next = append(next, node.Default())
		case Overwrite:
			node.SetDefault(shared)
		default:
			conflicts.add("cursor %d already has a default transition", c)
		}
	}
	if m.onConflict == Error {
		conflicts.raiseIfAny()
	}
	m.cursors = dedupInts(next)
	return m
}

// MatchEof advances the current cursors across the reserved end-of-input
// transition. Unlike every other combinator, successors here are shared
// rather than cloned: there is no input left past Eof for two branches to
// diverge over.
func (m *Machine[V, T]) MatchEof() *Machine[V, T] {
	m.cursors = dedupInts(m.advanceShared(graph.EofKey[T]()))
	return m
}

// Match splices pattern into the machine once at every current cursor and
// moves the cursor set to pattern's exit points.
func (m *Machine[V, T]) Match(pattern *Regex[T]) *Machine[V, T] {
	m.cursors = m.mergeRegexIntoMachine(pattern)
	return m
}

// MatchMany splices pattern in and wires its own exit points back onto its
// own start, so the resulting cursor set matches one-or-more repetitions
// of pattern.
func (m *Machine[V, T]) MatchMany(pattern *Regex[T]) *Machine[V, T] {
	m.cursors = m.mergeRegexAsCycle(pattern)
	return m
}

// MatchManyOptionally is MatchMany with the pre-splice cursors folded back
// into the result, so zero occurrences of pattern are also accepted.
func (m *Machine[V, T]) MatchManyOptionally(pattern *Regex[T]) *Machine[V, T] {
	before := dedupInts(append([]int(nil), m.cursors...))
	after := m.mergeRegexAsCycle(pattern)
	m.cursors = dedupInts(append(append([]int(nil), before...), after...))
	return m
}

// ExitPoint marks the current cursors of a value-less Regex as matched,
// the way a sub-pattern built for splicing into a host machine records
// "this is a legal place to stop" without itself carrying a payload. It is
// a free function rather than a method because Go methods cannot be
// declared against a type alias instantiated with a fixed type argument
// (Regex[T] fixes Machine's V to struct{}).
func ExitPoint[T comparable](m *Regex[T]) *Regex[T] {
	for _, c := range m.cursors {
		m.fuseExit(c)
	}
	return m
}

// Accept marks the current cursors as accepting, carrying value. backBy
// optionally sets how many trailing input symbols a match ending here
// should give back; it defaults to 0 and only its first element is used.
func (m *Machine[V, T]) Accept(value V, backBy ...uint32) *Machine[V, T] {
	var bb uint32
	if len(backBy) > 0 {
		bb = backBy[0]
	}
	conflicts := &conflictErrors{op: "accept"}
	for _, c := range m.cursors {
		cp := value
		m.fuseValue(c, &cp, bb, conflicts)
	}
	if m.onConflict == Error {
		conflicts.raiseIfAny()
	}
	return m
}
