package tshape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolMintingIsMonotonicAndDistinct(t *testing.T) {
	mgr := NewIDManager()
	a := NewSymbol(mgr, SymInt, "a")
	b := NewSymbol(mgr, SymInt, "b")

	require.NotEqual(t, a.ID(), b.ID())
	require.True(t, b.ID() > a.ID())
	require.False(t, a.Equal(b))
	require.True(t, a.Equal(a))
}

func TestSymbolWithSourceDoesNotMutateReceiver(t *testing.T) {
	mgr := NewIDManager()
	a := NewSymbol(mgr, SymFloat, "x")
	require.Nil(t, a.Source())

	loc := SourceLocation{File: "model.py", Line: 10, Column: 4}
	b := a.WithSource(loc)

	require.Nil(t, a.Source())
	require.NotNil(t, b.Source())
	require.Equal(t, loc, *b.Source())
	require.True(t, a.Equal(b), "WithSource must not change identity")
}

func TestShapeSymbolCarriesRank(t *testing.T) {
	mgr := NewIDManager()
	sym := NewShapeSymbol(mgr, "t", NumIntConst(3))
	require.Equal(t, SymShape, sym.Kind())
	rank, ok := sym.Rank().(NumConst)
	require.True(t, ok)
	require.Equal(t, int64(3), rank.Value.Num().Int64())
}

func TestSymbolKindString(t *testing.T) {
	require.Equal(t, "int", SymInt.String())
	require.Equal(t, "shape", SymShape.String())
}
