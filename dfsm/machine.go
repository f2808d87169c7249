// Package dfsm incrementally constructs deterministic finite state machines
// over a configurable transition alphabet, optionally associating a user
// value with each accepting state, then queries them with three primitives:
// Matches (full-input), Find (single greedy longest match), and FindMany
// (iterative, non-overlapping matches).
//
// Machine is the builder engine: a node graph kept unambiguous and
// deterministic as sub-patterns are spliced into the current construction
// cursors. The graph container and transition-key map are deliberately
// mechanical (package internal/graph); the engine's weight is in the cursor
// fusion algorithm (cursor.go, merge.go), the canonicalizing optimizer
// (optimize.go), and the runtime scanner (runtime.go).
package dfsm

import "github.com/KronsyC/regex-backend/internal/graph"

// Regex is the value-less flavor of Machine used to build sub-patterns that
// get spliced into another machine via Match/MatchMany/MatchManyOptionally.
// It carries no payload of its own; its accept marker only records that a
// state is an exit point, not what it's worth.
type Regex[T comparable] = Machine[struct{}, T]

// Machine is the builder/query engine for one deterministic finite state
// machine over transition alphabet T, optionally carrying a V payload at
// each accepting state.
type Machine[V any, T comparable] struct {
	store      *graph.Store[V, T]
	cursors    []int
	onConflict ConflictAction
	errorMode  ErrorMode
	utf8       bool
}

// Option configures a Machine at construction time.
type Option[V any, T comparable] func(*Machine[V, T])

// WithCapacityHint preallocates room for approximately n nodes, the way the
// teacher's NewAutomatonV1 takes sizing hints for its packed arrays.
func WithCapacityHint[V any, T comparable](n int) Option[V, T] {
	return func(m *Machine[V, T]) {
		m.store = graph.NewStore[V, T](n)
	}
}

// WithConflictAction sets the initial conflict policy.
func WithConflictAction[V any, T comparable](a ConflictAction) Option[V, T] {
	return func(m *Machine[V, T]) { m.onConflict = a }
}

// WithErrorMode sets how runtime UTF-8 malformation is reported.
func WithErrorMode[V any, T comparable](mode ErrorMode) Option[V, T] {
	return func(m *Machine[V, T]) { m.errorMode = mode }
}

// New builds an empty machine over an arbitrary comparable alphabet T, with
// cursors starting at the root.
func New[V any, T comparable](opts ...Option[V, T]) *Machine[V, T] {
	m := &Machine[V, T]{onConflict: Error, errorMode: ErrorModeReturn}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = graph.NewStore[V, T](2)
	}
	m.cursors = []int{1}
	return m
}

// NewUTF8 builds an empty machine over raw bytes, with the scanner's UTF-8
// validator enabled and with MatchAnyOfRunes/MatchSequenceRunes available
// for composing patterns over Unicode code points (see utf8.go).
func NewUTF8[V any](opts ...Option[V, byte]) *Machine[V, byte] {
	m := New[V, byte](opts...)
	m.utf8 = true
	return m
}

// Root resets the cursor set back to the root, so the next combinator call
// starts a fresh branch of the machine instead of extending wherever
// construction last left off.
func (m *Machine[V, T]) Root() *Machine[V, T] {
	m.cursors = []int{1}
	return m
}

// Conflict sets the policy used to resolve a collision at a shared cursor.
func (m *Machine[V, T]) Conflict(a ConflictAction) *Machine[V, T] {
	m.onConflict = a
	return m
}

// Cursors returns a copy of the current construction cursor set. Exposed
// mainly for tests and diagnostics; ordinary combinators manage cursors
// themselves.
func (m *Machine[V, T]) Cursors() []int {
	out := make([]int, len(m.cursors))
	copy(out, m.cursors)
	return out
}

// Size reports how many nodes the machine currently holds, including any
// structurally-null ones not yet swept by Optimize.
func (m *Machine[V, T]) Size() int {
	return m.store.Size()
}

func (m *Machine[V, T]) newNode() int {
	return m.store.Push(graph.Node[V, T]{})
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func dedupInts(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
