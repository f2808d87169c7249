package dfsm

import (
	"reflect"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/KronsyC/regex-backend/internal/graph"
)

// Optimize canonicalizes the machine's graph after construction: it
// collapses references to structurally-empty nodes, deduplicates
// structurally-identical subtrees, prunes nodes no cursor path can reach,
// and finally compacts the arena so node indices run contiguously again.
// The passes run in a fixed order and each depends on the one before it
// having already run, so Optimize always chains all of them rather than
// exposing them individually: deduplication can expose new null-reference
// opportunities, and nullifying orphans can expose new duplicates.
func (m *Machine[V, T]) Optimize() *Machine[V, T] {
	m.nullifyNullrefs()
	m.removeDuplicates()
	m.nullifyNullrefs()
	m.removeDuplicates()
	m.nullifyOrphans()
	m.removeBlanks()
	return m
}

// nullifyNullrefs rewrites every transition that targets a structurally
// null node (no accept value, no outgoing edges) to target nothing (0)
// instead, the same way a reference to an empty continuation is
// indistinguishable from no continuation at all. The root and current
// cursors are never treated as null, so later building at a cursor stays
// reachable.
func (m *Machine[V, T]) nullifyNullrefs() {
	n := m.store.Size()
	isCursor := make([]bool, n+1)
	for _, c := range m.cursors {
		isCursor[c] = true
	}
	isNull := make([]bool, n+1)
	for idx := 2; idx <= n; idx++ {
		isNull[idx] = !isCursor[idx] && m.store.Get(idx).IsNull()
	}
	for idx := 1; idx <= n; idx++ {
		node := m.store.Get(idx)
		for k, v := range node.AllSlots() {
			if v != 0 && isNull[v] && v != idx {
				node.Set(k, 0)
			}
		}
	}
}

// removeDuplicates finds nodes with identical outgoing structure, identical
// accept record, and identical cursor membership, and rewrites every
// reference to the later duplicate so it points at the earliest equivalent
// node instead. Two nodes are only candidates for merging once their own
// children are already identical (possibly already-rewritten) indices, so
// this pass is run bottom-up-by-repetition rather than in one recursive
// sweep: it is re-run by Optimize after nullifyNullrefs may have made
// previously distinct nodes equal.
//
// Nodes are first grouped into cheap structural buckets (same key set,
// same accept/value/back_by shape); V carries no comparable constraint, so
// the buckets cannot hash a node's payload directly — final equivalence
// within a bucket is decided by nodesEquivalent, which falls back to
// reflect.DeepEqual for the payload itself.
func (m *Machine[V, T]) removeDuplicates() {
	n := m.store.Size()
	isCursor := make([]bool, n+1)
	for _, c := range m.cursors {
		isCursor[c] = true
	}

	rewrite := make([]int, n+1)
	for idx := 1; idx <= n; idx++ {
		rewrite[idx] = idx
	}

	buckets := make(map[string][]int, n)
	for idx := 2; idx <= n; idx++ {
		key := m.nodeBucketKey(idx)
		buckets[key] = append(buckets[key], idx)
	}

	for _, group := range buckets {
		var canonical []int
		for _, idx := range group {
			merged := false
			for _, c := range canonical {
				if isCursor[idx] == isCursor[c] && m.nodesEquivalent(idx, c, rewrite) {
					rewrite[idx] = c
					merged = true
					break
				}
			}
			if !merged {
				canonical = append(canonical, idx)
			}
		}
	}

	for idx := 1; idx <= n; idx++ {
		node := m.store.Get(idx)
		for k, v := range node.AllSlots() {
			if v != 0 && rewrite[v] != v {
				node.Set(k, resolveRewrite(rewrite, v))
			}
		}
	}
}

// resolveRewrite follows a rewrite chain to its fixpoint.
func resolveRewrite(rewrite []int, v int) int {
	for rewrite[v] != v {
		v = rewrite[v]
	}
	return v
}

// nodeBucketKey builds a cheap, coarse structural key: whether the node is
// an accept state, whether it carries a payload and its back_by, and the
// sorted set of transition keys it populates. Two nodes sharing a bucket
// are merge *candidates*; nodesEquivalent decides the real question,
// including the self-reference purity rule and the node's actual payload.
func (m *Machine[V, T]) nodeBucketKey(idx int) string {
	node := m.store.Get(idx)
	var b []byte
	appendInt := func(v int) {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	if node.IsAccept() {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}
	if node.Value() != nil {
		b = append(b, 1)
		appendInt(int(node.BackBy()))
	} else {
		b = append(b, 0)
	}
	var keys []int
	for k := range node.AllSlots() {
		keys = append(keys, keyOrdinal(k))
	}
	sort.Ints(keys)
	appendInt(len(keys))
	for _, k := range keys {
		appendInt(k)
	}
	return string(b)
}

// nodesEquivalent decides whether a and b may be merged: same accept
// record (including the payload itself, compared with reflect.DeepEqual
// since V carries no comparable constraint), and the same transition set
// under the purity rule from the fusion algorithm — a transition that
// self-refers on a's own index is equivalent to one self-referring on b's,
// even though a != b numerically; every other target must resolve (through
// rewrite) to the same node on both sides.
func (m *Machine[V, T]) nodesEquivalent(a, b int, rewrite []int) bool {
	na, nb := m.store.Get(a), m.store.Get(b)
	if na.IsAccept() != nb.IsAccept() {
		return false
	}
	va, vb := na.Value(), nb.Value()
	if (va == nil) != (vb == nil) {
		return false
	}
	if va != nil {
		if na.BackBy() != nb.BackBy() {
			return false
		}
		if !reflect.DeepEqual(*va, *vb) {
			return false
		}
	}

	slotsA := map[graph.Key[T]]int{}
	for k, v := range na.AllSlots() {
		slotsA[k] = v
	}
	slotsB := map[graph.Key[T]]int{}
	for k, v := range nb.AllSlots() {
		slotsB[k] = v
	}
	if len(slotsA) != len(slotsB) {
		return false
	}
	for k, rawA := range slotsA {
		rawB, ok := slotsB[k]
		if !ok {
			return false
		}
		aSelf := rawA == a
		bSelf := rawB == b
		if aSelf && bSelf {
			continue
		}
		if aSelf != bSelf {
			return false
		}
		ra, rb := rawA, rawB
		if ra != 0 {
			ra = resolveRewrite(rewrite, ra)
		}
		if rb != 0 {
			rb = resolveRewrite(rewrite, rb)
		}
		if ra != rb {
			return false
		}
	}
	return true
}

func keyOrdinal[T comparable](k graph.Key[T]) int {
	if k.IsDefault() {
		return -2
	}
	if k.IsEof() {
		return -1
	}
	sym, _ := k.Symbol()
	return int(hashAny(sym))
}

// hashAny gives symbols of any comparable type a stable ordinal for
// bucketing by key set; collisions only widen a bucket, they never cause an
// incorrect merge, since nodesEquivalent still checks the real keys.
func hashAny(v any) uint32 {
	s := toComparableString(v)
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func toComparableString(v any) string {
	switch x := v.(type) {
	case byte:
		return string([]byte{x})
	case rune:
		return string([]rune{x})
	case string:
		return x
	case int:
		return string(rune(x))
	default:
		return fmtFallback(v)
	}
}

func fmtFallback(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return ""
}

// nullifyOrphans finds every node unreachable from the root by any path of
// populated transitions, and nullifies it, so removeBlanks can then sweep
// it out of the arena entirely.
func (m *Machine[V, T]) nullifyOrphans() {
	n := m.store.Size()
	reachable := bitset.New(uint(n + 1))
	stack := []int{1}
	reachable.Set(1)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := m.store.Get(idx)
		for _, v := range node.AllSlots() {
			if v != 0 && !reachable.Test(uint(v)) {
				reachable.Set(uint(v))
				stack = append(stack, v)
			}
		}
	}
	for idx := 2; idx <= n; idx++ {
		if !reachable.Test(uint(idx)) {
			m.store.Get(idx).Nullify()
		}
	}
}

// removeBlanks compacts the arena, dropping every structurally-null
// non-cursor non-root node and rewriting every surviving transition to the
// node's new index. A structurally-null node that is still a cursor (the
// fresh intermediary a combinator call leaves behind before the next call
// gives it any structure) must survive regardless, or the cursor set would
// shrink out from under the caller. This is the only pass that changes
// node indices, so it always runs last.
func (m *Machine[V, T]) removeBlanks() {
	n := m.store.Size()
	isCursor := make([]bool, n+1)
	for _, c := range m.cursors {
		isCursor[c] = true
	}
	keep := make([]bool, n+1)
	keep[1] = true
	for idx := 2; idx <= n; idx++ {
		keep[idx] = isCursor[idx] || !m.store.Get(idx).IsNull()
	}

	newIndex := make([]int, n+1)
	compacted := make([]graph.Node[V, T], 0, n)
	nextIdx := 1
	for idx := 1; idx <= n; idx++ {
		if !keep[idx] {
			continue
		}
		newIndex[idx] = nextIdx
		nextIdx++
		compacted = append(compacted, m.store.Get(idx).Clone())
	}

	for i := range compacted {
		node := &compacted[i]
		for k, v := range node.AllSlots() {
			if v != 0 {
				node.Set(k, newIndex[v])
			}
		}
	}

	m.store.Reset(compacted)
	remapped := make([]int, 0, len(m.cursors))
	for _, c := range m.cursors {
		if keep[c] {
			remapped = append(remapped, newIndex[c])
		}
	}
	m.cursors = dedupInts(remapped)
}
