package pcollect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringSetInsertContains(t *testing.T) {
	s := NewStringSet()
	require.False(t, s.Contains("relu"))

	s2 := s.Insert("relu")
	require.True(t, s2.Contains("relu"))
	require.False(t, s.Contains("relu"))
}

func TestStringSetDuplicateInsertIsIdempotent(t *testing.T) {
	s := NewStringSet().Insert("a").Insert("a")
	count := 0
	s.buckets.ForEach(func(_ uint64, bucket []string) { count += len(bucket) })
	require.Equal(t, 1, count)
}

func TestStringSetDistinctValuesCoexist(t *testing.T) {
	s := NewStringSet().Insert("a").Insert("b").Insert("c")
	require.True(t, s.Contains("a"))
	require.True(t, s.Contains("b"))
	require.True(t, s.Contains("c"))
	require.False(t, s.Contains("d"))
}
