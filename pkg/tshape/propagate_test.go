package tshape

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropagateNarrowsUpperBoundOnLe(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	c := CtrLe{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(5)}
	next, _ := s.Guarantee(c)
	r := next.RangeOf(x)
	require.True(t, r.Contains(FromInt(5)))
	require.False(t, r.Contains(FromInt(6)))
}

func TestPropagateNarrowsStrictUpperBoundOnLt(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	c := CtrLt{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(5)}
	next, _ := s.Guarantee(c)
	r := next.RangeOf(x)
	require.True(t, r.Contains(FromInt(4)))
	require.False(t, r.Contains(FromInt(5)))
}

func TestPropagateNarrowsLowerBoundWhenSymbolOnRight(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	c := CtrLe{ctrBase{id: 1}, NumIntConst(7), NumSymbolRef{Sym: x}}
	next, _ := s.Guarantee(c)
	r := next.RangeOf(x)
	require.True(t, r.Contains(FromInt(7)))
	require.False(t, r.Contains(FromInt(6)))
}

func TestPropagatePinsExactValueOnEq(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	c := CtrEq{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(4)}
	next, decision := s.Guarantee(c)
	require.Equal(t, TriUnknown, decision)
	r := next.RangeOf(x)
	require.True(t, r.IsConst())
	require.Equal(t, 0, r.ConstValue().Cmp(FromInt(4)))
}

func TestPropagateDoesNotNarrowOnRequire(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	c := CtrEq{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(4)}
	next, _ := s.Require(c)
	r := next.RangeOf(x)
	require.False(t, r.IsConst(), "a require must never narrow cached ranges")
}

func TestPropagateNarrowsShapeOnEq(t *testing.T) {
	s := freshSet()
	mgr := NewIDManager()
	shapeSym := NewShapeSymbol(mgr, "t", NumIntConst(2))
	concrete := ShapeConst{Dims: []NumExpr{NumIntConst(3), NumIntConst(4)}}
	c := CtrEq{ctrBase{id: 1}, ShapeSymbolRef{Sym: shapeSym}, concrete}
	next, _ := s.Guarantee(c)
	dims, ok := next.GetCachedShape(shapeSym)
	require.True(t, ok)
	require.Len(t, dims, 2)
}

func TestPropagatePinsStringOnEq(t *testing.T) {
	s := freshSet()
	mgr := NewIDManager()
	strSym := NewSymbol(mgr, SymString, "dtype")
	c := CtrEq{ctrBase{id: 1}, StringSymbolRef{Sym: strSym}, StringConst{Value: "float32"}}
	next, _ := s.Guarantee(c)
	v, ok := next.GetCachedString(strSym)
	require.True(t, ok)
	require.Equal(t, "float32", v)
}

func TestPropagateRecordsNonStringOnNotEq(t *testing.T) {
	s := freshSet()
	mgr := NewIDManager()
	strSym := NewSymbol(mgr, SymString, "dtype")
	c := CtrNotEq{ctrBase{id: 1}, StringSymbolRef{Sym: strSym}, StringConst{Value: "int64"}}
	next, _ := s.Guarantee(c)
	require.True(t, next.CheckNonString(strSym, "int64"))
	require.False(t, next.CheckNonString(strSym, "float32"))
}

func TestPropagateRecordsBroadcastableLinkBothWays(t *testing.T) {
	s := freshSet()
	mgr := NewIDManager()
	a := NewShapeSymbol(mgr, "a", NumIntConst(2))
	b := NewShapeSymbol(mgr, "b", NumIntConst(2))
	c := CtrBroadcastable{ctrBase{id: 1}, ShapeSymbolRef{Sym: a}, ShapeSymbolRef{Sym: b}}
	next, _ := s.Guarantee(c)

	require.Equal(t, []int{int(b.ID())}, next.GetBroadcastLinks(a))
	require.Equal(t, []int{int(a.ID())}, next.GetBroadcastLinks(b))
}

func TestPropagateDoesNotOverTightenFloatSymbolOnStrictBound(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymFloatGte("x", big.NewRat(0, 1))
	c := CtrLt{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(3)}
	next, _ := s.Guarantee(c)
	r := next.RangeOf(x)
	require.True(t, r.Contains(FromRat(big.NewRat(29, 10))), "2.9 is still feasible for a float symbol strictly below 3")
}

func TestPropagateStrictBoundStillTightensIntSymbol(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	c := CtrLt{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(3)}
	next, _ := s.Guarantee(c)
	r := next.RangeOf(x)
	require.True(t, r.Contains(FromInt(2)))
	require.False(t, r.Contains(FromInt(3)))
}

func TestPropagateInvalidatesSnapshotOnEmptyRangeNarrowing(t *testing.T) {
	// DecideImmediate judges each conjunct against the pre-propagation env, so
	// it sees Eq(x,5) and Le(x,3) as independently unknown; only the Local
	// Propagator, narrowing x to {5} from the left conjunct before reading
	// the right one, discovers the contradiction.
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	left := CtrEq{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(5)}
	right := CtrLe{ctrBase{id: 2}, NumSymbolRef{Sym: x}, NumIntConst(3)}
	c := CtrAnd{ctrBase{id: 3}, left, right}
	next, decision := s.Guarantee(c)
	require.Equal(t, TriUnknown, decision, "DecideImmediate alone must not see the contradiction")
	require.Equal(t, TriFalse, next.Valid())
}

func TestPropagateInvalidatesSnapshotOnStringExclusionContradiction(t *testing.T) {
	s := freshSet()
	mgr := NewIDManager()
	strSym := NewSymbol(mgr, SymString, "dtype")
	notEq := CtrNotEq{ctrBase{id: 1}, StringSymbolRef{Sym: strSym}, StringConst{Value: "int64"}}
	s, _ = s.Guarantee(notEq)

	pinSame := CtrEq{ctrBase{id: 2}, StringSymbolRef{Sym: strSym}, StringConst{Value: "int64"}}
	next, _ := s.Guarantee(pinSame)
	require.Equal(t, TriFalse, next.Valid())
}

func TestPropagateRecursesThroughAnd(t *testing.T) {
	s := freshSet()
	s, x := s.GenSymIntGte("x", 0)
	s, y := s.GenSymIntGte("y", 0)
	left := CtrLe{ctrBase{id: 1}, NumSymbolRef{Sym: x}, NumIntConst(2)}
	right := CtrLe{ctrBase{id: 2}, NumSymbolRef{Sym: y}, NumIntConst(3)}
	c := CtrAnd{ctrBase{id: 3}, left, right}
	next, _ := s.Guarantee(c)
	require.False(t, next.RangeOf(x).Contains(FromInt(3)))
	require.False(t, next.RangeOf(y).Contains(FromInt(4)))
}
