package dfsm

// Literal builds a value-less Regex over a byte alphabet that matches
// exactly the given sequence, suitable for splicing into a host machine
// with Match.
func Literal(seq ...byte) *Regex[byte] {
	r := New[struct{}, byte]()
	r.MatchSequence(seq...)
	ExitPoint(r)
	return r
}

// AnyOf builds a value-less Regex matching exactly one symbol out of keys.
func AnyOf[T comparable](keys ...T) *Regex[T] {
	r := New[struct{}, T]()
	r.MatchAnyOf(keys...)
	ExitPoint(r)
	return r
}

// Optional builds a value-less Regex matching zero or one occurrence of
// pattern.
func Optional[T comparable](pattern *Regex[T]) *Regex[T] {
	r := New[struct{}, T]()
	r.Match(pattern)
	ExitPoint(r)
	r.Root()
	ExitPoint(r)
	return r
}

// Star builds a value-less Regex matching zero or more occurrences of
// pattern.
func Star[T comparable](pattern *Regex[T]) *Regex[T] {
	r := New[struct{}, T]()
	r.MatchManyOptionally(pattern)
	ExitPoint(r)
	return r
}

// Plus builds a value-less Regex matching one or more occurrences of
// pattern.
func Plus[T comparable](pattern *Regex[T]) *Regex[T] {
	r := New[struct{}, T]()
	r.MatchMany(pattern)
	ExitPoint(r)
	return r
}
