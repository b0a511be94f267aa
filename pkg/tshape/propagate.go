package tshape

import (
	log "github.com/sirupsen/logrus"

	"github.com/pytea-go/tshape/pkg/tshape/pcollect"
)

// propagate is the Local Propagator: it runs once, immediately after a
// constraint has been decided not definitely false by Guarantee or AddIf,
// and narrows whichever of the range/shape/string caches the constraint's
// shape lets it narrow soundly. It never runs for Require — a soft
// constraint is a hypothesis, not something the snapshot should start
// believing about its own symbols.
func propagate(s ConstraintSet, c Constraint) ConstraintSet {
	switch v := c.(type) {
	case CtrLt:
		return propagateOrder(s, v.Left, v.Right, false)
	case CtrLe:
		return propagateOrder(s, v.Left, v.Right, true)
	case CtrEq:
		return propagateEq(s, v.Left, v.Right)
	case CtrNotEq:
		return propagateNotEq(s, v.Left, v.Right)
	case CtrAnd:
		s = propagate(s, v.Left)
		return propagate(s, v.Right)
	case CtrBroadcastable:
		return propagateBroadcastable(s, v.Left, v.Right)
	default:
		return s
	}
}

// propagateBroadcastable records, for each side that names a shape symbol,
// that it has been asserted broadcastable against the other side's shape
// symbol. This is purely bookkeeping for later queries (e.g. an upward
// diagnostic asking "what else constrains this tensor's shape") — it never
// narrows rangeCache or shapeCache, since broadcastability alone pins down
// neither shape's dims.
func propagateBroadcastable(s ConstraintSet, left, right ShapeExpr) ConstraintSet {
	lsym, lok := shapeSingleVar(left)
	rsym, rok := shapeSingleVar(right)
	if !lok || !rok {
		return s
	}
	next := s
	next.shapeCtrCache = next.shapeCtrCache.Insert(lsym.ID(), appendUniqueInt(next.shapeCtrCache, lsym.ID(), int(rsym.ID())))
	next.shapeCtrCache = next.shapeCtrCache.Insert(rsym.ID(), appendUniqueInt(next.shapeCtrCache, rsym.ID(), int(lsym.ID())))
	log.Tracef("tshape: propagate: record broadcastable link between shapes %s and %s", lsym.Name(), rsym.Name())
	return next
}

func appendUniqueInt(m pcollect.Map[[]int], key uint64, v int) []int {
	existing, _ := m.Get(key)
	for _, x := range existing {
		if x == v {
			return existing
		}
	}
	return append(append([]int{}, existing...), v)
}

// propagateOrder narrows the range of a bare symbol standing alone on
// either side of Left < Right (or <=, when inclusive is set) against a
// constant bound on the other side.
func propagateOrder(s ConstraintSet, left, right NumExpr, inclusive bool) ConstraintSet {
	if ref, ok := left.(NumSymbolRef); ok {
		sym := ref.Sym
		if boundR := EvalRange(right, s); boundR.IsConst() {
			upper := boundR.ConstValue()
			if !inclusive {
				upper = strictUpperBound(upper, sym.Kind())
			}
			return narrowRangeUpper(s, sym, upper, inclusive)
		}
	}
	if ref, ok := right.(NumSymbolRef); ok {
		sym := ref.Sym
		if boundL := EvalRange(left, s); boundL.IsConst() {
			lower := boundL.ConstValue()
			if !inclusive {
				lower = strictLowerBound(lower, sym.Kind())
			}
			return narrowRangeLower(s, sym, lower, inclusive)
		}
	}
	return s
}

// strictUpperBound converts x < bound into the inclusive upper endpoint a
// closed Range can represent: bound-1 for an integer symbol at an integer
// bound, floor(bound) for an integer symbol at a non-integer bound, and
// bound itself for anything else — a float symbol has no exact closed-form
// endpoint for "strictly less than", and widening to inclusive stays sound.
func strictUpperBound(bound ExtNum, kind SymbolKind) ExtNum {
	if kind != SymInt {
		return bound
	}
	if bound.IsInteger() {
		return bound.Sub(FromInt(1))
	}
	return bound.Floor()
}

// strictLowerBound is strictUpperBound's mirror for x > bound.
func strictLowerBound(bound ExtNum, kind SymbolKind) ExtNum {
	if kind != SymInt {
		return bound
	}
	if bound.IsInteger() {
		return bound.Add(FromInt(1))
	}
	return bound.Ceil()
}

func narrowRangeUpper(s ConstraintSet, sym Symbol, upper ExtNum, inclusive bool) ConstraintSet {
	cur := s.RangeOf(sym)
	narrowed := cur.Intersect(Range{NegInfinity, upper, true})
	next := s
	if !narrowed.Valid() {
		next.valid = TriFalse
		log.Debugf("tshape: propagate: narrowing %s upper bound to %s yields an empty range; snapshot now invalid", sym.Name(), upper.String())
		return next
	}
	log.Tracef("tshape: propagate: narrow %s upper bound to %s", sym.Name(), upper.String())
	next.rangeCache = s.rangeCache.Insert(sym.ID(), narrowed)
	return next
}

func narrowRangeLower(s ConstraintSet, sym Symbol, lower ExtNum, inclusive bool) ConstraintSet {
	cur := s.RangeOf(sym)
	narrowed := cur.Intersect(Range{lower, PosInfinity, true})
	next := s
	if !narrowed.Valid() {
		next.valid = TriFalse
		log.Debugf("tshape: propagate: narrowing %s lower bound to %s yields an empty range; snapshot now invalid", sym.Name(), lower.String())
		return next
	}
	log.Tracef("tshape: propagate: narrow %s lower bound to %s", sym.Name(), lower.String())
	next.rangeCache = s.rangeCache.Insert(sym.ID(), narrowed)
	return next
}

func propagateEq(s ConstraintSet, left, right Expr) ConstraintSet {
	switch left.ExprKind() {
	case KindNum:
		return propagateNumEq(s, left.(NumExpr), right.(NumExpr))
	case KindShapeExpr:
		return propagateShapeEq(s, left.(ShapeExpr), right.(ShapeExpr))
	case KindStringExpr:
		return propagateStringEq(s, left.(StringExpr), right.(StringExpr))
	default:
		return s
	}
}

func propagateNumEq(s ConstraintSet, left, right NumExpr) ConstraintSet {
	if ref, ok := left.(NumSymbolRef); ok {
		if r := EvalRange(right, s); r.IsConst() {
			return narrowRangeExact(s, ref.Sym, r)
		}
	}
	if ref, ok := right.(NumSymbolRef); ok {
		sym := ref.Sym
		if r := EvalRange(left, s); r.IsConst() {
			return narrowRangeExact(s, sym, r)
		}
	}
	return s
}

func narrowRangeExact(s ConstraintSet, sym Symbol, r Range) ConstraintSet {
	cur := s.RangeOf(sym)
	narrowed := cur.Intersect(r)
	next := s
	if !narrowed.Valid() {
		next.valid = TriFalse
		log.Debugf("tshape: propagate: pinning %s to %s contradicts its current range; snapshot now invalid", sym.Name(), r.String())
		return next
	}
	log.Tracef("tshape: propagate: pin %s to %s", sym.Name(), narrowed.String())
	next.rangeCache = s.rangeCache.Insert(sym.ID(), narrowed)
	return next
}

func propagateShapeEq(s ConstraintSet, left, right ShapeExpr) ConstraintSet {
	if sym, ok := shapeSingleVar(left); ok {
		if dims, ok := shapeDims(right); ok {
			return narrowShape(s, sym, dims)
		}
	}
	if sym, ok := shapeSingleVar(right); ok {
		if dims, ok := shapeDims(left); ok {
			return narrowShape(s, sym, dims)
		}
	}
	return s
}

func shapeSingleVar(e ShapeExpr) (Symbol, bool) {
	if sv, ok := e.(ShapeSymbolRef); ok {
		return sv.Sym, true
	}
	return Symbol{}, false
}

func narrowShape(s ConstraintSet, sym Symbol, dims []NumExpr) ConstraintSet {
	log.Tracef("tshape: propagate: narrow shape %s to %d dims", sym.Name(), len(dims))
	next := s
	next.shapeCache = s.shapeCache.Insert(sym.ID(), dims)
	return next
}

func propagateStringEq(s ConstraintSet, left, right StringExpr) ConstraintSet {
	if sym, ok := stringSingleVar(left); ok {
		if sc, ok := right.(StringConst); ok {
			return narrowString(s, sym, sc.Value)
		}
	}
	if sym, ok := stringSingleVar(right); ok {
		if sc, ok := left.(StringConst); ok {
			return narrowString(s, sym, sc.Value)
		}
	}
	return s
}

func stringSingleVar(e StringExpr) (Symbol, bool) {
	if sv, ok := e.(StringSymbolRef); ok {
		return sv.Sym, true
	}
	return Symbol{}, false
}

func narrowString(s ConstraintSet, sym Symbol, v string) ConstraintSet {
	if s.CheckNonString(sym, v) {
		next := s
		next.valid = TriFalse
		log.Debugf("tshape: propagate: pinning string %s to %q contradicts a recorded exclusion; snapshot now invalid", sym.Name(), v)
		return next
	}
	log.Tracef("tshape: propagate: pin string %s to %q", sym.Name(), v)
	next := s
	next.stringCache = s.stringCache.Insert(sym.ID(), v)
	return next
}

func propagateNotEq(s ConstraintSet, left, right Expr) ConstraintSet {
	if left.ExprKind() != KindStringExpr {
		return s
	}
	if sym, ok := stringSingleVar(left.(StringExpr)); ok {
		if sc, ok := right.(StringConst); ok {
			return addNonString(s, sym, sc.Value)
		}
	}
	if sym, ok := stringSingleVar(right.(StringExpr)); ok {
		if sc, ok := left.(StringConst); ok {
			return addNonString(s, sym, sc.Value)
		}
	}
	return s
}

func addNonString(s ConstraintSet, sym Symbol, v string) ConstraintSet {
	set, _ := s.nonStringCache.Get(sym.ID())
	log.Tracef("tshape: propagate: record %s != %q", sym.Name(), v)
	next := s
	next.nonStringCache = s.nonStringCache.Insert(sym.ID(), set.Insert(v))
	return next
}
