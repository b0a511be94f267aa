package pcollect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapInsertGet(t *testing.T) {
	m := NewMap[string]()
	m2 := m.Insert(42, "answer")

	_, ok := m.Get(42)
	require.False(t, ok, "original map must not observe a later insert")

	v, ok := m2.Get(42)
	require.True(t, ok)
	require.Equal(t, "answer", v)
	require.Equal(t, 1, m2.Size())
	require.Equal(t, 0, m.Size())
}

func TestMapForkDoesNotAlias(t *testing.T) {
	base := NewMap[int]().Insert(1, 100)
	left := base.Insert(2, 200)
	right := base.Insert(2, 999)

	lv, _ := left.Get(2)
	rv, _ := right.Get(2)
	require.Equal(t, 200, lv)
	require.Equal(t, 999, rv)

	bv, ok := base.Get(2)
	require.False(t, ok, "base must not see either fork's key")
	require.Zero(t, bv)
}

func TestMapOverwriteKeepsSize(t *testing.T) {
	m := NewMap[int]().Insert(7, 1)
	m2 := m.Insert(7, 2)

	require.Equal(t, 1, m2.Size())
	v, ok := m2.Get(7)
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestMapForEachVisitsEveryEntry(t *testing.T) {
	m := NewMap[int]()
	want := map[uint64]int{1: 10, 2: 20, 1000000: 30}
	for k, v := range want {
		m = m.Insert(k, v)
	}

	got := map[uint64]int{}
	m.ForEach(func(k uint64, v int) { got[k] = v })
	require.Equal(t, want, got)
}
