package dfsm

import "github.com/KronsyC/regex-backend/internal/graph"

// advanceDiscreet implements cursor_discreet_transition (spec.md §4.4): it
// ensures every cursor gains a freshly-owned successor under key, even when
// a successor already exists, by partitioning cursors into three disjoint
// cases:
//
//  1. No existing transition and no default: every such cursor shares one
//     freshly-allocated intermediary, allocated once for the whole call.
//  2. An existing concrete transition, no default: a per-cursor clone of
//     the old target, with any self-reference to the old target rewritten
//     to self-refer to the clone instead.
//  3. A default edge present, regardless of whether key is present: if key
//     is already present, fuse against the default target via
//     makeNonambiguousLink (watching the default target) and adopt the
//     resulting replacement as the cursor; otherwise allocate a fresh
//     per-cursor intermediary, point the cursor at it, and defer copying
//     the default target's contents into it to a second pass once every
//     cursor in this call has its own intermediary allocated.
//
// Every successor returned is a node this call allocated (shared, in case
// 1, only among this call's own cursors), except in case 3 when key already
// leads to the default target itself, where that target is returned as is.
func (m *Machine[V, T]) advanceDiscreet(key graph.Key[T]) []int {
	out := make([]int, 0, len(m.cursors))

	var sharedFresh int
	type deferredCopy struct {
		intermediary, defaultTarget int
	}
	var deferred []deferredCopy

	conflicts := &conflictErrors{op: "cursor_discreet_transition"}
	memo := map[[2]int]int{}

	for _, c := range m.cursors {
		node := m.store.Get(c)
		existing := node.Get(key)
		def := node.Default()

		switch {
		case def != 0 && existing != 0:
			watch := map[int]bool{def: true}
			reps := m.makeNonambiguousLink(c, key, def, watch, conflicts, memo)
			next := def
			if len(reps) > 0 {
				next = reps[len(reps)-1]
			}
			out = append(out, next)

		case def != 0:
			intermediary := m.newNode()
			// Re-fetched: newNode may have grown the arena, moving node.
			m.store.Get(c).Set(key, intermediary)
			deferred = append(deferred, deferredCopy{intermediary: intermediary, defaultTarget: def})
			out = append(out, intermediary)

		case existing != 0:
			cloned := m.store.Get(existing).Clone()
			next := m.store.Push(cloned)
			clone := m.store.Get(next)
			for _, s := range snapshotSlots[V, T](clone) {
				if s.target == existing {
					clone.Set(s.key, next)
				}
			}
			m.store.Get(c).Set(key, next)
			out = append(out, next)

		default:
			if sharedFresh == 0 {
				sharedFresh = m.newNode()
			}
			m.store.Get(c).Set(key, sharedFresh)
			out = append(out, sharedFresh)
		}
	}

	for _, d := range deferred {
		m.copyNodeContentsInto(d.intermediary, d.defaultTarget)
	}

	if m.onConflict == Error {
		conflicts.raiseIfAny()
	}
	return out
}

// copyNodeContentsInto copies src's transitions and accept record into dst,
// rewriting any self-reference from src to dst's own index instead — the
// same self-reference rule makeNonambiguousLink's clone step applies, but
// as a flat copy rather than a fusion, since dst starts out structurally
// empty and nothing needs merging against it.
func (m *Machine[V, T]) copyNodeContentsInto(dst, src int) {
	srcNode := m.store.Get(src)
	dstNode := m.store.Get(dst)
	for _, s := range snapshotSlots[V, T](srcNode) {
		target := s.target
		if target == src {
			target = dst
		}
		dstNode.Set(s.key, target)
	}
	if v := srcNode.Value(); v != nil {
		cp := *v
		dstNode.SetAccept(&cp, srcNode.BackBy())
	} else if srcNode.IsAccept() {
		dstNode.MarkExit()
	}
}

// advanceShared is cursor_transition (spec.md §4.3): every cursor with no
// existing child under key shares one freshly-allocated node, allocated
// once for the whole call; every cursor that already has a child under key
// simply adopts that existing child. Used only where the caller guarantees
// no interaction with a pre-existing sub-graph that sharing could corrupt —
// MatchEof, since nothing past end-of-input needs to stay independent.
func (m *Machine[V, T]) advanceShared(key graph.Key[T]) []int {
	out := make([]int, 0, len(m.cursors))
	var sharedFresh int
	for _, c := range m.cursors {
		existing := m.store.Get(c).Get(key)
		if existing == 0 {
			if sharedFresh == 0 {
				sharedFresh = m.newNode()
			}
			m.store.Get(c).Set(key, sharedFresh)
			existing = sharedFresh
		}
		out = append(out, existing)
	}
	return out
}
