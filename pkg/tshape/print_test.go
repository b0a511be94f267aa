package tshape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToStringRendersEachClassWithoutColorWhenNotATerminal(t *testing.T) {
	s := freshSet()
	hard := CtrEq{ctrBase{id: 1}, NumIntConst(1), NumIntConst(1)}
	soft := CtrLt{ctrBase{id: 2}, NumIntConst(1), NumIntConst(2)}
	path := CtrFail{ctrBase{id: 3}, "unreachable"}

	s, _ = s.Guarantee(hard)
	s, _ = s.Require(soft)
	s, _ = s.AddIf(path)

	var buf strings.Builder
	out := s.ToString(&buf)

	require.Contains(t, out, "[hard #1]")
	require.Contains(t, out, "[soft #2]")
	require.Contains(t, out, "[path #3]")
	require.NotContains(t, out, "\x1b[", "a non-terminal writer must never receive ANSI escapes")
}

func TestConstraintStringRendersExpressionsReadably(t *testing.T) {
	c := CtrLt{ctrBase{id: 1}, NumIntConst(1), NumIntConst(2)}
	require.Equal(t, "1 < 2", constraintString(c))
}

func TestExprStringRendersNestedArithmetic(t *testing.T) {
	mgr := NewIDManager()
	x := NumSymbolRef{Sym: NewSymbol(mgr, SymInt, "x")}
	e := NumBinary{Op: OpAdd, Left: x, Right: NumIntConst(1)}
	require.Equal(t, "(x + 1)", exprString(e))
}

func TestExprStringRendersShapeSlice(t *testing.T) {
	base := ShapeConst{Dims: []NumExpr{NumIntConst(1), NumIntConst(2), NumIntConst(3)}}
	e := ShapeSlice{Base: base, Start: NumIntConst(0), End: NumIntConst(2)}
	require.Equal(t, "[1, 2, 3][0:2]", exprString(e))
}
