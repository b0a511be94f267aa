package pcollect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexListAppendDedups(t *testing.T) {
	l := NewIndexList().Append(3).Append(1).Append(3).Append(2)
	require.Equal(t, 3, l.Len())
	require.Equal(t, []int{3, 1, 2}, l.Slice())
}

func TestIndexListForkIndependence(t *testing.T) {
	base := NewIndexList().Append(0)
	left := base.Append(1)
	right := base.Append(2)

	require.Equal(t, []int{0, 1}, left.Slice())
	require.Equal(t, []int{0, 2}, right.Slice())
	require.Equal(t, []int{0}, base.Slice())
}
