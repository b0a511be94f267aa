package tshape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuralEqualityIsExactNotSemantic(t *testing.T) {
	mgr := NewIDManager()
	x := NumSymbolRef{Sym: NewSymbol(mgr, SymInt, "x")}
	y := NumSymbolRef{Sym: NewSymbol(mgr, SymInt, "y")}

	xPlusY := NumBinary{Op: OpAdd, Left: x, Right: y}
	yPlusX := NumBinary{Op: OpAdd, Left: y, Right: x}

	require.True(t, IsStructurallyEqual(xPlusY, xPlusY))
	require.False(t, IsStructurallyEqual(xPlusY, yPlusX), "commuted operands must not compare equal")
}

func TestStructuralEqualityRejectsMismatchedKinds(t *testing.T) {
	require.False(t, IsStructurallyEqual(NumIntConst(1), BoolConst{Value: true}))
}

func TestStructuralEqualityOnConstants(t *testing.T) {
	require.True(t, IsStructurallyEqual(NumIntConst(4), NumIntConst(4)))
	require.False(t, IsStructurallyEqual(NumIntConst(4), NumIntConst(5)))
}

func TestFreeSymbolsCollectsEveryReferenceWithDuplicates(t *testing.T) {
	mgr := NewIDManager()
	x := NewSymbol(mgr, SymInt, "x")
	e := NumBinary{
		Op:    OpAdd,
		Left:  NumSymbolRef{Sym: x},
		Right: NumSymbolRef{Sym: x},
	}
	syms := FreeSymbols(e)
	require.Len(t, syms, 2)
	require.True(t, syms[0].Equal(x))
	require.True(t, syms[1].Equal(x))
}

func TestHasSingleVarTrueForOneDistinctSymbol(t *testing.T) {
	mgr := NewIDManager()
	x := NewSymbol(mgr, SymInt, "x")
	e := NumBinary{
		Op:    OpAdd,
		Left:  NumSymbolRef{Sym: x},
		Right: NumIntConst(1),
	}
	sym, ok := HasSingleVar(e)
	require.True(t, ok)
	require.True(t, sym.Equal(x))
}

func TestHasSingleVarFalseForTwoDistinctSymbols(t *testing.T) {
	mgr := NewIDManager()
	x := NewSymbol(mgr, SymInt, "x")
	y := NewSymbol(mgr, SymInt, "y")
	e := NumBinary{
		Op:    OpAdd,
		Left:  NumSymbolRef{Sym: x},
		Right: NumSymbolRef{Sym: y},
	}
	_, ok := HasSingleVar(e)
	require.False(t, ok)
}

func TestHasSingleVarFalseForNoSymbols(t *testing.T) {
	_, ok := HasSingleVar(NumIntConst(1))
	require.False(t, ok)
}
