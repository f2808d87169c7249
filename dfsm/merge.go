package dfsm

import "github.com/KronsyC/regex-backend/internal/graph"

// rebaseNode adds base to every populated outgoing index on node, in
// place. Used while importing a sub-pattern's nodes into a host machine,
// where every index the sub-pattern knows about needs to land base slots
// further along in the host's arena. Unset slots (index 0) are never
// touched, since 0 means absent rather than "node 0".
func rebaseNode[V any, T comparable](node *graph.Node[V, T], base int) {
	for k, v := range node.AllSlots() {
		node.Set(k, v+base)
	}
}

// importNode copies src's structure — its transitions and its accept
// marker, but never a payload, since a value-less Regex never allocated
// one — into a fresh Node usable by a Machine[V, T]. This is how a
// sub-pattern's nodes cross from Machine[struct{}, T]'s node type into a
// payload-carrying host's node type, a conversion graph.Node.Clone alone
// cannot do because the two node types are different instantiations of
// the same generic type.
func importNode[V any, T comparable](src *graph.Node[struct{}, T]) graph.Node[V, T] {
	var dst graph.Node[V, T]
	for k, v := range src.Transitions() {
		dst.SetTransition(k, v)
	}
	dst.SetDefault(src.Default())
	dst.SetEof(src.Eof())
	if src.IsAccept() {
		dst.MarkExit()
	}
	return dst
}

// consumeRegexExceptRoot clones every node of pattern except its root
// (index 1, which never gets a node of its own in the host — it is fused
// directly into whichever host cursor the pattern is spliced at) into
// host's arena, rebasing every transition it carries by base, and returns
// the rebased index of every imported node that carries an accept marker:
// pattern's own terminal set, exactly as spec.md §4.6's
// consume_regex_except_root returns a terminals list alongside its index
// mappings.
//
// base is computed as host's node count before import, minus one: pattern
// node 2 is the first one actually imported, and it must land at host index
// base+2, which is exactly the index Push hands back when host's arena had
// base+1 nodes beforehand. Node 1 of the pattern is skipped entirely, so
// this identity only needs to hold from node 2 onward.
func consumeRegexExceptRoot[V any, T comparable](host *Machine[V, T], pattern *Regex[T], base int) []int {
	n := pattern.store.Size()
	var terminals []int
	for idx := 2; idx <= n; idx++ {
		src := pattern.store.Get(idx)
		node := importNode[V, T](src)
		rebaseNode(&node, base)
		newIdx := host.store.Push(node)
		if src.IsAccept() {
			terminals = append(terminals, newIdx)
		}
	}
	return terminals
}

// fuseValueAt folds a payload into node's accept record per the machine's
// conflict policy. idx is node's own index, used only for diagnostics.
func (m *Machine[V, T]) fuseValueAt(node *graph.Node[V, T], idx int, value *V, backBy uint32, conflicts *conflictErrors) {
	if node.Value() == nil {
		node.SetAccept(value, backBy)
		return
	}
	switch m.onConflict {
	case Skip:
	case Overwrite:
		node.SetAccept(value, backBy)
	default:
		conflicts.add("node %d already carries an accept value", idx)
	}
}

// fuseValue is fuseValueAt addressed by index, used by Accept where only a
// cursor index is on hand.
func (m *Machine[V, T]) fuseValue(hostIdx int, value *V, backBy uint32, conflicts *conflictErrors) {
	m.fuseValueAt(m.store.Get(hostIdx), hostIdx, value, backBy, conflicts)
}

// fuseExit marks hostIdx as an accept state without attaching a payload,
// used when splicing a value-less pattern's exit point onto a host cursor.
// It never disturbs a payload the host cursor already carries.
func (m *Machine[V, T]) fuseExit(hostIdx int) {
	m.store.Get(hostIdx).MarkExit()
}

// slotEntry is a snapshotted (key, target) pair, used wherever a node's
// slots need to be read once up front before the node being iterated, or a
// node derived from it, gets mutated — ranging over a node's own
// transition map while writing into a *different* node it's driving is
// safe, but the algorithms below sometimes read one node's slots while
// mutating that very map (the self-reference rewrite in
// makeNonambiguousLink), so every recursive or rewriting walk snapshots
// first for clarity.
type slotEntry[T comparable] struct {
	key    graph.Key[T]
	target int
}

func snapshotSlots[V any, T comparable](node *graph.Node[V, T]) []slotEntry[T] {
	var out []slotEntry[T]
	for k, v := range node.AllSlots() {
		out = append(out, slotEntry[T]{key: k, target: v})
	}
	return out
}

// makeNonambiguousLink is make_nonambiguous_link from spec.md §4.5: it adds
// the semantics of to's sub-graph under from.transition(key), without ever
// mutating to or anything to can reach. Where from.transition(key) already
// points somewhere (cur), that existing node is left untouched too — a
// fresh clone n absorbs cur's structure plus to's structure, and only n
// (never cur) is rewired into from. This is what keeps splicing a new
// pattern onto one cursor from retroactively altering an unrelated
// acceptance path that happens to share cur with it.
//
// watch is the set of node indices the caller wants relocated: whenever a
// freshly-created clone n stands in for to or for cur and either is in
// watch, n is reported back as a replacement. memo remembers the clone
// already created for a given (cur, to) pair within this call, so cycles
// in to (e.g. a spliced match_many_optionally loop) terminate instead of
// cloning forever, and so two distinct edges converging on the same pair
// end up sharing one clone instead of two.
func (m *Machine[V, T]) makeNonambiguousLink(fromIdx int, key graph.Key[T], toIdx int, watch map[int]bool, conflicts *conflictErrors, memo map[[2]int]int) []int {
	from := m.store.Get(fromIdx)
	cur := from.Get(key)

	if cur == 0 {
		from.Set(key, toIdx)
		return nil
	}
	if cur == toIdx {
		return nil
	}

	pairKey := [2]int{cur, toIdx}
	if nIdx, ok := memo[pairKey]; ok {
		from.Set(key, nIdx)
		return nil
	}

	clone := m.store.Get(cur).Clone()
	nIdx := m.store.Push(clone)
	memo[pairKey] = nIdx
	n := m.store.Get(nIdx)
	for _, s := range snapshotSlots[V, T](n) {
		if s.target == cur {
			n.Set(s.key, nIdx)
		}
	}

	var replacements []int
	if watch[toIdx] || watch[cur] {
		replacements = append(replacements, nIdx)
	}

	to := m.store.Get(toIdx)
	if to.Value() != nil {
		m.fuseValueAt(n, nIdx, to.Value(), to.BackBy(), conflicts)
	} else if to.IsAccept() {
		n.MarkExit()
	}

	// A self-reference n inherited from cur on a key to does not populate
	// is a cycle on cur's side only: point it back at cur.
	for _, s := range snapshotSlots[V, T](n) {
		if s.target == nIdx && to.Get(s.key) == 0 {
			n.Set(s.key, cur)
		}
	}

	for _, s := range snapshotSlots[V, T](to) {
		// Re-fetched: a recursive call below may have grown the arena.
		n = m.store.Get(nIdx)
		k, ref := s.key, s.target
		nTarget := n.Get(k)

		// Purity rules (spec.md §4.5): a self-referential cycle present on
		// only one side of the fusion must not leak a stray edge into n,
		// and a self-referential cycle present on both sides must stay a
		// cycle rather than being re-explored.
		if nTarget == nIdx && ref == 0 {
			n.Set(k, cur)
			continue
		}
		if ref == toIdx && nTarget == 0 {
			n.Set(k, cur)
			continue
		}
		if ref == toIdx && nTarget == nIdx {
			continue
		}
		if ref == 0 {
			continue
		}

		reps := m.makeNonambiguousLink(nIdx, k, ref, watch, conflicts, memo)
		replacements = append(replacements, reps...)
	}

	m.store.Get(fromIdx).Set(key, nIdx)
	return replacements
}

// spliceRoot fuses pattern's root transitions onto hostCursor via
// makeNonambiguousLink, without ever allocating a host node for the
// pattern's root itself. A pattern-root transition that loops back to the
// root (index 1) resolves to hostCursor directly, preserving the
// self-referential cycle match_many_optionally relies on. Returns every
// replacement makeNonambiguousLink reported.
func (m *Machine[V, T]) spliceRoot(hostCursor int, pattern *Regex[T], base int, watch map[int]bool, conflicts *conflictErrors, memo map[[2]int]int) []int {
	root := pattern.store.Get(1)
	var replacements []int
	for _, s := range snapshotSlots[struct{}, T](root) {
		resolved := s.target + base
		if s.target == 1 {
			resolved = hostCursor
		}
		reps := m.makeNonambiguousLink(hostCursor, s.key, resolved, watch, conflicts, memo)
		replacements = append(replacements, reps...)
	}
	if root.IsAccept() {
		m.fuseExit(hostCursor)
	}
	return replacements
}

// spliceRootOnto calls spliceRoot once per cursor, feeding every
// replacement it discovers back into watch so a later cursor's splice can
// still recognize an already-relocated terminal, and returns the
// deduplicated union of every replacement plus any cursor whose splice hit
// pattern's own root-is-accept case, plus extraTerminals as given
// (mergeRegexIntoMachine and the first splice of mergeRegexAsCycle pass the
// whole imported terminal set, at its imported indices).
func (m *Machine[V, T]) spliceRootOnto(cursors []int, pattern *Regex[T], base int, watch map[int]bool, conflicts *conflictErrors, memo map[[2]int]int, extraTerminals []int) []int {
	var out []int
	rootAccepts := pattern.store.Get(1).IsAccept()
	for _, hc := range cursors {
		reps := m.spliceRoot(hc, pattern, base, watch, conflicts, memo)
		for _, r := range reps {
			watch[r] = true
		}
		out = append(out, reps...)
		if rootAccepts {
			out = append(out, hc)
		}
	}
	out = append(out, extraTerminals...)
	return dedupInts(out)
}

// mergeRegexIntoMachine splices pattern into m at every current cursor,
// per spec.md §4.6: import pattern's non-root nodes once, then fuse
// pattern's root onto each of m's cursors independently via
// makeNonambiguousLink, and return the resulting terminal set (imported
// accept nodes still at their original index, plus every replacement a
// fusion created for one).
func (m *Machine[V, T]) mergeRegexIntoMachine(pattern *Regex[T]) []int {
	conflicts := &conflictErrors{op: "match"}
	base := m.store.Size() - 1
	terminals := consumeRegexExceptRoot(m, pattern, base)
	watch := make(map[int]bool, len(terminals))
	for _, t := range terminals {
		watch[t] = true
	}

	hostCursorsBefore := dedupInts(append([]int(nil), m.cursors...))
	memo := map[[2]int]int{}
	exitCursors := m.spliceRootOnto(hostCursorsBefore, pattern, base, watch, conflicts, memo, terminals)

	if m.onConflict == Error {
		conflicts.raiseIfAny()
	}
	return exitCursors
}

// mergeRegexAsCycle is mergeRegexIntoMachine's repeating form (spec.md
// §4.7): it splices pattern onto the pre-splice cursors as usual, then
// splices the same already-imported root structure onto every resulting
// exit cursor too, wiring pattern's terminals back onto its own start so
// reaching an exit cursor and matching pattern again lands back among the
// same exit cursors instead of importing a second copy of pattern.
func (m *Machine[V, T]) mergeRegexAsCycle(pattern *Regex[T]) []int {
	conflicts := &conflictErrors{op: "match_many"}
	base := m.store.Size() - 1
	terminals := consumeRegexExceptRoot(m, pattern, base)
	watch := make(map[int]bool, len(terminals))
	for _, t := range terminals {
		watch[t] = true
	}

	hostCursorsBefore := dedupInts(append([]int(nil), m.cursors...))
	memo := map[[2]int]int{}
	exitCursors := m.spliceRootOnto(hostCursorsBefore, pattern, base, watch, conflicts, memo, terminals)
	again := m.spliceRootOnto(exitCursors, pattern, base, watch, conflicts, memo, nil)
	exitCursors = dedupInts(append(append([]int(nil), exitCursors...), again...))

	if m.onConflict == Error {
		conflicts.raiseIfAny()
	}
	return exitCursors
}
