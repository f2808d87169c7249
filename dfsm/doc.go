// Package dfsm builds and queries deterministic finite state machines
// assembled incrementally from a small combinator vocabulary
// (MatchSequence, MatchAnyOf, MatchDefault, MatchEof, Match,
// MatchMany/MatchManyOptionally, Accept/ExitPoint) rather than compiled
// from a regular-expression grammar or determinized from an NFA.
//
// A Machine tracks a cursor set: the frontier of nodes the next combinator
// call will extend. Building a pattern advances the cursor set; splicing a
// previously-built value-less Regex into a host machine fuses the
// pattern's structure directly onto the host's current cursors, resolving
// any resulting ambiguity according to the machine's ConflictAction
// instead of leaving duplicate, nondeterministic edges behind.
//
// Once built, Optimize canonicalizes the graph (collapsing references to
// empty nodes, deduplicating identical subtrees, pruning unreachable
// nodes, and compacting the arena), and Find/FindMany/Matches run a
// greedy-longest-match scan against it.
package dfsm
