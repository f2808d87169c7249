package dfsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsWithRootCursor(t *testing.T) {
	m := New[int, byte]()
	assert.Equal(t, []int{1}, m.Cursors())
	assert.Equal(t, 1, m.Size())
}

func TestMatchSequenceAcceptsExactString(t *testing.T) {
	m := New[string, byte]()
	m.MatchSequence([]byte("cat")...).Accept("feline")

	res, ok := m.Find([]byte("cat"), 0)
	require.True(t, ok)
	assert.Equal(t, "feline", res.Value)
	assert.Equal(t, 0, res.Begin)
	assert.Equal(t, 3, res.End)
}

func TestMatchSequenceRejectsPrefixOnly(t *testing.T) {
	m := New[string, byte]()
	m.MatchSequence([]byte("cat")...).Accept("feline")

	_, ok := m.Find([]byte("ca"), 0)
	assert.False(t, ok)
}

func TestMatchAnyOfBranches(t *testing.T) {
	m := New[string, byte]()
	m.MatchAnyOf('a', 'b', 'c').Accept("letter")

	for _, in := range []string{"a", "b", "c"} {
		res, ok := m.Find([]byte(in), 0)
		require.True(t, ok, in)
		assert.Equal(t, "letter", res.Value)
	}

	_, ok := m.Find([]byte("d"), 0)
	assert.False(t, ok)
}

func TestMatchDefaultCatchesAnythingElse(t *testing.T) {
	m := New[string, byte]()
	m.MatchAnyOf('x').Accept("specific")
	m.Root().MatchDefault().Accept("fallback")

	res, ok := m.Find([]byte("x"), 0)
	require.True(t, ok)
	assert.Equal(t, "specific", res.Value)

	res, ok = m.Find([]byte("q"), 0)
	require.True(t, ok)
	assert.Equal(t, "fallback", res.Value)
}

func TestMatchEofOnlyAcceptsAtEndOfInput(t *testing.T) {
	m := New[string, byte]()
	m.MatchSequence([]byte("end")...).MatchEof().Accept("terminated")

	ok := m.Matches([]byte("end"), true)
	assert.True(t, ok)

	ok = m.Matches([]byte("ending"), true)
	assert.False(t, ok)
}

func TestMatchSplicesSubPattern(t *testing.T) {
	digit := AnyOf[byte]('0', '1', '2', '3', '4', '5', '6', '7', '8', '9')

	m := New[string, byte]()
	m.Match(digit).Accept("digit")

	for _, d := range []byte("0123456789") {
		res, ok := m.Find([]byte{d}, 0)
		require.True(t, ok)
		assert.Equal(t, "digit", res.Value)
	}
}

func TestMatchManyRequiresAtLeastOne(t *testing.T) {
	digit := AnyOf[byte]('0', '1', '2')
	m := New[string, byte]()
	m.MatchMany(digit).Accept("digits")

	_, ok := m.Find([]byte(""), 0)
	assert.False(t, ok)

	res, ok := m.Find([]byte("012"), 0)
	require.True(t, ok)
	assert.Equal(t, 3, res.End)
	assert.Equal(t, "digits", res.Value)
}

func TestMatchManyOptionallyAllowsZero(t *testing.T) {
	digit := AnyOf[byte]('0', '1', '2')
	m := New[string, byte]()
	m.MatchManyOptionally(digit).Accept("digits")

	res, ok := m.Find([]byte(""), 0)
	require.True(t, ok)
	assert.Equal(t, 0, res.End)
	assert.Equal(t, "digits", res.Value)

	res, ok = m.Find([]byte("0012"), 0)
	require.True(t, ok)
	assert.Equal(t, 4, res.End)
}

func TestFindGreedyLongestMatch(t *testing.T) {
	m := New[string, byte]()
	m.MatchSequence([]byte("a")...).Accept("short")
	m.Root().MatchSequence([]byte("ab")...).Accept("long")

	res, ok := m.Find([]byte("ab"), 0)
	require.True(t, ok)
	assert.Equal(t, "long", res.Value, "longest accepting path must win over a shorter prefix match")
}

func TestFindSkipsNonMatchingPrefix(t *testing.T) {
	m := New[string, byte]()
	m.MatchSequence([]byte("if")...).Accept("if")
	m.Root().MatchSequence([]byte("ifdef")...).Accept("ifdef")

	res, ok := m.Find([]byte("xxifdefyy"), 0)
	require.True(t, ok, "find must skip the non-matching \"xx\" prefix rather than give up")
	assert.Equal(t, "ifdef", res.Value)
	assert.Equal(t, 2, res.Begin)
	assert.Equal(t, 7, res.End)
}

func TestFindManyYieldsNonOverlappingMatches(t *testing.T) {
	m := New[string, byte]()
	m.MatchSequence([]byte("ab")...).Accept("ab")

	var got []string
	for res := range m.FindMany([]byte("abab")) {
		got = append(got, string([]byte("abab")[res.Begin:res.End]))
	}
	assert.Equal(t, []string{"ab", "ab"}, got)
}

func TestAcceptConflictSkipKeepsFirstValue(t *testing.T) {
	m := New[string, byte]().Conflict(Skip)
	m.MatchSequence([]byte("x")...).Accept("first")
	m.Root().MatchSequence([]byte("x")...).Accept("second")

	res, ok := m.Find([]byte("x"), 0)
	require.True(t, ok)
	assert.Equal(t, "first", res.Value)
}

func TestAcceptConflictOverwriteTakesLastValue(t *testing.T) {
	m := New[string, byte]().Conflict(Overwrite)
	m.MatchSequence([]byte("x")...).Accept("first")
	m.Root().MatchSequence([]byte("x")...).Accept("second")

	res, ok := m.Find([]byte("x"), 0)
	require.True(t, ok)
	assert.Equal(t, "second", res.Value)
}

func TestAcceptConflictErrorPanics(t *testing.T) {
	m := New[string, byte]().Conflict(Error)
	m.MatchSequence([]byte("x")...).Accept("first")
	m.Root()

	assert.Panics(t, func() {
		m.MatchSequence([]byte("x")...).Accept("second")
	})
}

func TestOptimizeKeepsMachineSemanticsEquivalent(t *testing.T) {
	m := New[string, byte]()
	m.MatchSequence([]byte("cat")...).Accept("feline")
	m.Root().MatchSequence([]byte("dog")...).Accept("canine")

	sizeBefore := m.Size()
	m.Optimize()

	res, ok := m.Find([]byte("cat"), 0)
	require.True(t, ok)
	assert.Equal(t, "feline", res.Value)

	res, ok = m.Find([]byte("dog"), 0)
	require.True(t, ok)
	assert.Equal(t, "canine", res.Value)

	assert.LessOrEqual(t, m.Size(), sizeBefore)
}

func TestBackByTrimsMatchEnd(t *testing.T) {
	m := New[string, byte]()
	m.MatchSequence([]byte("ab")...).Accept("ab-trimmed", 1)

	res, ok := m.Find([]byte("ab"), 0)
	require.True(t, ok)
	assert.Equal(t, 1, res.End, "back_by must trim the reported match end")
}
