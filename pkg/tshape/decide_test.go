package tshape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func freshSet() ConstraintSet {
	return NewConstraintSet(NewIDManager(), DefaultEngineOptions())
}

func TestDecideImmediateLtOnDisjointConstants(t *testing.T) {
	s := freshSet()
	c := CtrLt{ctrBase{id: 1}, NumIntConst(1), NumIntConst(2)}
	require.Equal(t, TriTrue, DecideImmediate(c, s))

	cFalse := CtrLt{ctrBase{id: 2}, NumIntConst(2), NumIntConst(1)}
	require.Equal(t, TriFalse, DecideImmediate(cFalse, s))
}

func TestDecideImmediateLtUnknownOnOverlappingSymbolRanges(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	c := CtrLt{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(5)}
	require.Equal(t, TriUnknown, DecideImmediate(c, s))
}

func TestDecideImmediateEqMismatchedKindsIsFalse(t *testing.T) {
	s := freshSet()
	c := CtrEq{ctrBase{id: 1}, NumIntConst(1), BoolConst{Value: true}}
	require.Equal(t, TriFalse, DecideImmediate(c, s))
}

func TestDecideImmediateNotEqIsNegationOfEq(t *testing.T) {
	s := freshSet()
	eq := CtrEq{ctrBase{id: 1}, NumIntConst(3), NumIntConst(3)}
	neq := CtrNotEq{ctrBase{id: 2}, NumIntConst(3), NumIntConst(3)}
	require.Equal(t, TriTrue, DecideImmediate(eq, s))
	require.Equal(t, TriFalse, DecideImmediate(neq, s))
}

func TestDecideImmediateAndOrNot(t *testing.T) {
	s := freshSet()
	tru := CtrEq{ctrBase{id: 1}, NumIntConst(1), NumIntConst(1)}
	fls := CtrEq{ctrBase{id: 2}, NumIntConst(1), NumIntConst(2)}

	require.Equal(t, TriFalse, DecideImmediate(CtrAnd{ctrBase{id: 3}, tru, fls}, s))
	require.Equal(t, TriTrue, DecideImmediate(CtrOr{ctrBase{id: 4}, tru, fls}, s))
	require.Equal(t, TriFalse, DecideImmediate(CtrNot{ctrBase{id: 5}, tru}, s))
	require.Equal(t, TriTrue, DecideImmediate(CtrNot{ctrBase{id: 6}, fls}, s))
}

func TestDecideImmediateFailIsAlwaysFalse(t *testing.T) {
	s := freshSet()
	require.Equal(t, TriFalse, DecideImmediate(CtrFail{ctrBase{id: 1}, "unsupported op"}, s))
}

func TestDecideBroadcastableEqualShapesTrue(t *testing.T) {
	s := freshSet()
	a := ShapeConst{Dims: []NumExpr{NumIntConst(3), NumIntConst(4)}}
	b := ShapeConst{Dims: []NumExpr{NumIntConst(3), NumIntConst(4)}}
	c := CtrBroadcastable{ctrBase{id: 1}, a, b}
	require.Equal(t, TriTrue, DecideImmediate(c, s))
}

func TestDecideBroadcastableOnesAndRankMismatchTrue(t *testing.T) {
	s := freshSet()
	a := ShapeConst{Dims: []NumExpr{NumIntConst(1), NumIntConst(5)}}
	b := ShapeConst{Dims: []NumExpr{NumIntConst(7), NumIntConst(5)}}
	c := CtrBroadcastable{ctrBase{id: 1}, a, b}
	require.Equal(t, TriTrue, DecideImmediate(c, s))

	shorter := ShapeConst{Dims: []NumExpr{NumIntConst(5)}}
	c2 := CtrBroadcastable{ctrBase{id: 2}, shorter, b}
	require.Equal(t, TriTrue, DecideImmediate(c2, s))
}

func TestDecideBroadcastableIncompatibleConstantsFalse(t *testing.T) {
	s := freshSet()
	a := ShapeConst{Dims: []NumExpr{NumIntConst(3), NumIntConst(5)}}
	b := ShapeConst{Dims: []NumExpr{NumIntConst(3), NumIntConst(7)}}
	c := CtrBroadcastable{ctrBase{id: 1}, a, b}
	require.Equal(t, TriFalse, DecideImmediate(c, s))
}

func TestDecideBroadcastableUnknownShapeUnknown(t *testing.T) {
	s := freshSet()
	s, sym := s.GenSymIntGte("n", 0)
	_ = sym
	mgr := NewIDManager()
	symbolic := ShapeSymbolRef{Sym: NewShapeSymbol(mgr, "t", NumIntConst(2))}
	b := ShapeConst{Dims: []NumExpr{NumIntConst(3), NumIntConst(5)}}
	c := CtrBroadcastable{ctrBase{id: 1}, symbolic, b}
	require.Equal(t, TriUnknown, DecideImmediate(c, s))
}

func TestDecideForallSmallRangeAllTrue(t *testing.T) {
	s := freshSet()
	mgr := NewIDManager()
	v := NewSymbol(mgr, SymInt, "i")
	body := CtrLe{ctrBase{id: 1}, NumIntConst(0), NumSymbolRef{Sym: v}}
	c := CtrForall{ctrBase{id: 2}, v, NumIntConst(0), NumIntConst(3), body}
	require.Equal(t, TriTrue, DecideImmediate(c, s))
}

func TestDecideForallFindsCounterexample(t *testing.T) {
	s := freshSet()
	mgr := NewIDManager()
	v := NewSymbol(mgr, SymInt, "i")
	body := CtrLt{ctrBase{id: 1}, NumSymbolRef{Sym: v}, NumIntConst(2)}
	c := CtrForall{ctrBase{id: 2}, v, NumIntConst(0), NumIntConst(5), body}
	require.Equal(t, TriFalse, DecideImmediate(c, s))
}

func TestDecideForallUnknownWhenBoundsNotConst(t *testing.T) {
	s := freshSet()
	s, n := s.GenSymIntGte("n", 0)
	mgr := NewIDManager()
	v := NewSymbol(mgr, SymInt, "i")
	body := CtrLe{ctrBase{id: 1}, NumIntConst(0), NumSymbolRef{Sym: v}}
	c := CtrForall{ctrBase{id: 2}, v, NumIntConst(0), NumSymbolRef{Sym: n}, body}
	require.Equal(t, TriUnknown, DecideImmediate(c, s))
}
