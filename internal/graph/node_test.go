package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeTransitionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		key  byte
		idx  int
	}{
		{name: "fresh key", key: 'a', idx: 2},
		{name: "zero clears", key: 'b', idx: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Node[struct{}, byte]
			n.SetTransition(tt.key, tt.idx)
			assert.Equal(t, tt.idx, n.Transition(tt.key))
		})
	}
}

func TestNodeIsNull(t *testing.T) {
	var n Node[int, byte]
	assert.True(t, n.IsNull(), "fresh node must be null")

	n.SetTransition('x', 2)
	assert.False(t, n.IsNull())

	n.SetTransition('x', 0)
	assert.True(t, n.IsNull())

	n.SetDefault(3)
	assert.False(t, n.IsNull())
	n.SetDefault(0)
	assert.True(t, n.IsNull())

	n.SetEof(4)
	assert.False(t, n.IsNull())
	n.SetEof(0)
	assert.True(t, n.IsNull())

	n.SetAccept(nil, 0)
	assert.False(t, n.IsNull())
}

func TestNodeMarkExitDoesNotAttachValue(t *testing.T) {
	var n Node[int, byte]
	n.MarkExit()
	assert.True(t, n.IsAccept())
	assert.Nil(t, n.Value())
}

func TestNodeNullify(t *testing.T) {
	var n Node[int, byte]
	n.SetTransition('x', 2)
	n.SetDefault(3)
	n.SetEof(4)
	v := 9
	n.SetAccept(&v, 1)

	n.Nullify()
	assert.True(t, n.IsNull())
	assert.Equal(t, 0, n.Transition('x'))
	assert.Equal(t, 0, n.Default())
	assert.Equal(t, 0, n.Eof())
	assert.False(t, n.IsAccept())
	assert.Nil(t, n.Value())
}

func TestNodeCloneIsIndependent(t *testing.T) {
	var n Node[int, byte]
	n.SetTransition('a', 2)
	v := 5
	n.SetAccept(&v, 1)

	clone := n.Clone()
	clone.SetTransition('a', 9)
	*clone.Value() = 100

	require.Equal(t, 2, n.Transition('a'), "mutating the clone must not affect the original")
	assert.Equal(t, 5, *n.Value(), "clone's payload must be a distinct copy")
	assert.Equal(t, 9, clone.Transition('a'))
}

func TestNodeTransitionsIteratesAllConcreteKeys(t *testing.T) {
	var n Node[int, byte]
	n.SetTransition('a', 2)
	n.SetTransition('b', 3)
	n.SetDefault(4)
	n.SetEof(5)

	seen := map[byte]int{}
	for k, v := range n.Transitions() {
		seen[k] = v
	}
	assert.Equal(t, map[byte]int{'a': 2, 'b': 3}, seen, "Default/Eof must not appear among concrete transitions")
}

func TestNodeAllSlotsIncludesDefaultAndEofWhenSet(t *testing.T) {
	var n Node[int, byte]
	n.SetTransition('a', 2)
	n.SetDefault(3)
	n.SetEof(4)

	seen := map[Key[byte]]int{}
	for k, v := range n.AllSlots() {
		seen[k] = v
	}
	assert.Equal(t, 3, len(seen))
	assert.Equal(t, 2, seen[SymbolKey[byte]('a')])
	assert.Equal(t, 3, seen[DefaultKey[byte]()])
	assert.Equal(t, 4, seen[EofKey[byte]()])
}

func TestNodeAllSlotsOmitsUnsetDefaultAndEof(t *testing.T) {
	var n Node[int, byte]
	n.SetTransition('a', 2)

	count := 0
	for range n.AllSlots() {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestNodeAllSlotsWithReservedAlwaysYieldsDefaultAndEof(t *testing.T) {
	var n Node[int, byte]
	n.SetTransition('a', 2)

	seen := map[Key[byte]]int{}
	for k, v := range n.AllSlotsWithReserved() {
		seen[k] = v
	}
	assert.Equal(t, 3, len(seen))
	assert.Equal(t, 0, seen[DefaultKey[byte]()])
	assert.Equal(t, 0, seen[EofKey[byte]()])
}

func TestKeyGetSet(t *testing.T) {
	var n Node[int, byte]
	n.Set(SymbolKey[byte]('z'), 9)
	n.Set(DefaultKey[byte](), 10)
	n.Set(EofKey[byte](), 11)

	assert.Equal(t, 9, n.Get(SymbolKey[byte]('z')))
	assert.Equal(t, 10, n.Get(DefaultKey[byte]()))
	assert.Equal(t, 11, n.Get(EofKey[byte]()))

	sym, ok := SymbolKey[byte]('z').Symbol()
	assert.True(t, ok)
	assert.Equal(t, byte('z'), sym)

	_, ok = DefaultKey[byte]().Symbol()
	assert.False(t, ok)
}
