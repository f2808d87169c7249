package dfsm

import "github.com/KronsyC/regex-backend/internal/utf8scan"

// MatchResult is one greedy longest match reported by Find or FindMany. Err
// is set only in UTF-8 mode, when the scan hit a malformed byte sequence
// under ErrorModeReturn; a non-nil Err carries no payload, per spec.md §7.
type MatchResult[V any] struct {
	Value V
	Begin int
	End   int
	Err   error
}

// Find walks input from offset start using the default-transition,
// concrete-transition, and (at end of input) eof-transition rules, and
// reports the longest match found starting at or after start. If the walk
// dead-ends (no concrete, default, or eof edge applies) before any accept
// state has ever been reached, the scan does not give up: it resets to the
// root and keeps advancing from the next input position instead, so a
// non-matching prefix doesn't prevent finding a match that starts later.
// Once an accept state has been seen, a subsequent dead end terminates the
// scan with the longest match remembered so far.
//
// In UTF-8 mode (see NewUTF8), each byte is fed to a streaming validator as
// it is consumed; a malformed sequence panics under ErrorModePanic, or
// yields a MatchResult carrying Err and no payload under ErrorModeReturn,
// taking priority over any match that would otherwise have been reported.
//
// ok is false if no accept state was ever reached (or a UTF-8 error fired).
func (m *Machine[V, T]) Find(input []T, start int) (result MatchResult[V], ok bool) {
	cursor := 1
	pos := start
	bestPos := -1
	var bestValue V
	var bestBackBy uint32
	found := false

	var validator utf8scan.Validator
	// validated is the first position not yet fed to validator; a restart
	// after a dead end rewinds pos but must not feed a byte twice.
	validated := start

	for {
		node := m.store.Get(cursor)
		if v := node.Value(); v != nil {
			bestValue = *v
			bestBackBy = node.BackBy()
			bestPos = pos
			found = true
		}

		if pos >= len(input) {
			if eof := node.Eof(); eof != 0 {
				eofNode := m.store.Get(eof)
				if v := eofNode.Value(); v != nil {
					bestValue = *v
					bestBackBy = eofNode.BackBy()
					bestPos = pos
					found = true
				}
			}
			break
		}

		sym := input[pos]
		if m.utf8 && pos == validated {
			validated++
			if b, isByte := any(sym).(byte); isByte {
				if code := validator.Next(b); code != utf8scan.None {
					return m.utf8Failure(code.Message())
				}
			}
		}

		next := node.Transition(sym)
		if next == 0 {
			next = node.Default()
		}
		if next == 0 {
			if found {
				break
			}
			start++
			pos = start
			cursor = 1
			continue
		}
		cursor = next
		pos++
	}

	if m.utf8 {
		if code := validator.Final(); code != utf8scan.None {
			return m.utf8Failure(code.Message())
		}
	}

	if !found {
		return MatchResult[V]{}, false
	}
	end := bestPos - int(bestBackBy)
	if end < start {
		end = start
	}
	return MatchResult[V]{Value: bestValue, Begin: start, End: end}, true
}

// utf8Failure reports a malformed UTF-8 byte sequence per the machine's
// error mode: a fatal panic, or a result carrying the error and no payload.
func (m *Machine[V, T]) utf8Failure(msg string) (MatchResult[V], bool) {
	err := &UTFError{msg: msg}
	if m.errorMode == ErrorModePanic {
		panic(err.Error())
	}
	return MatchResult[V]{Err: err}, false
}

// FindMany returns an iterator over every non-overlapping match in input,
// advancing past each match's end (or by one symbol, to guarantee
// progress, if a match were ever reported with End <= Begin). Stops after
// yielding a result carrying a UTF-8 error, the same as Find reporting one.
func (m *Machine[V, T]) FindMany(input []T) func(yield func(MatchResult[V]) bool) {
	return func(yield func(MatchResult[V]) bool) {
		pos := 0
		for pos <= len(input) {
			res, ok := m.Find(input, pos)
			if !ok {
				if res.Err != nil {
					yield(res)
				}
				return
			}
			if !yield(res) {
				return
			}
			if res.End <= pos {
				pos++
			} else {
				pos = res.End
			}
		}
	}
}

// Matches reports whether the entire input is accepted: a single match
// must span from 0 to len(input) exactly. includeEof also requires the
// final node's eof transition to carry its own accept record rather than
// the final consuming node's; set it false to allow a plain mid-graph
// accept state to satisfy a full match. Matches does not run the UTF-8
// validator, so a malformed byte sequence yields false, not a UTFError.
func (m *Machine[V, T]) Matches(input []T, includeEof bool) bool {
	cursor := 1
	for _, sym := range input {
		node := m.store.Get(cursor)
		next := node.Transition(sym)
		if next == 0 {
			next = node.Default()
		}
		if next == 0 {
			return false
		}
		cursor = next
	}

	node := m.store.Get(cursor)
	if includeEof {
		eof := node.Eof()
		if eof == 0 {
			return false
		}
		return m.store.Get(eof).Value() != nil
	}
	return node.Value() != nil
}
