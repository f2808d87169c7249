package dfsm

import (
	"github.com/KronsyC/regex-backend/internal/utf8scan"
)

// MatchAnyOfRunes is MatchAnyOf over Unicode code points instead of raw
// bytes: each rune is decomposed into its UTF-8 byte sequence, and the
// machine branches across every first byte of every rune, continuing
// through each rune's remaining continuation bytes as a plain sequence.
// Meant for byte-alphabet machines built with NewUTF8.
func MatchAnyOfRunes(m *Machine[struct{}, byte], runes ...rune) *Machine[struct{}, byte] {
	return matchAnyOfRunesGeneric(m, runes...)
}

// MatchSequenceRunes is MatchSequence over a string's Unicode code points:
// it decomposes s into UTF-8 bytes and advances across them in order.
func MatchSequenceRunes[V any](m *Machine[V, byte], s string) *Machine[V, byte] {
	for _, r := range s {
		m.MatchSequence(utf8scan.Decompose(r)...)
	}
	return m
}

func matchAnyOfRunesGeneric[V any](m *Machine[V, byte], runes ...rune) *Machine[V, byte] {
	before := dedupInts(append([]int(nil), m.cursors...))
	var after []int
	for _, r := range runes {
		m.cursors = dedupInts(append([]int(nil), before...))
		m.MatchSequence(utf8scan.Decompose(r)...)
		after = append(after, m.cursors...)
	}
	m.cursors = dedupInts(after)
	return m
}

// FindUTF8 is Find for a byte-alphabet machine built with NewUTF8: Find
// itself interleaves UTF-8 validation with the scan (see runtime.go), only
// ever feeding the validator bytes up to wherever the scan actually stops,
// so FindUTF8 just delegates and translates a validation failure carried in
// the result's Err field into a returned error. It is a free function, not
// a method, because Go forbids declaring methods against a generic type
// with one type argument fixed (Machine[V, byte]) and one left open (V).
func FindUTF8[V any](m *Machine[V, byte], input []byte, start int) (MatchResult[V], error) {
	res, ok := m.Find(input, start)
	if res.Err != nil {
		return MatchResult[V]{}, res.Err
	}
	if !ok {
		return MatchResult[V]{}, nil
	}
	return res, nil
}
