package tshape

import (
	log "github.com/sirupsen/logrus"

	"github.com/pytea-go/tshape/pkg/util"
)

// EngineOptions carries the module-wide switches that the Python-IR
// interpreter layer is expected to configure once, at construction, rather
// than the engine reaching for a hidden global.
type EngineOptions struct {
	// ImmediateCheckEnabled gates whether require/guarantee/addIf run the
	// Immediate Decision Procedure at all. It defaults to enabled; an
	// interpreter under heavy load can disable it to trade soundness-aware
	// short-circuiting for raw installation speed.
	ImmediateCheckEnabled bool
}

// DefaultEngineOptions returns the engine's default configuration:
// immediate checking on.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{ImmediateCheckEnabled: true}
}

// DecideImmediate is the structural decision procedure: given a constraint
// and the current ranges of its free symbols, it returns TriTrue or
// TriFalse only when the constraint's truth value is evident without
// calling out to an external solver, and TriUnknown otherwise. It never
// second-guesses an Unknown by trying harder — that is the SMT pipeline's
// job, not this one's.
func DecideImmediate(c Constraint, env RangeEnv) Tri {
	switch v := c.(type) {
	case CtrExpBool:
		return decideBoolExpr(v.Expr, env)
	case CtrEq:
		return decideEq(v.Left, v.Right, env)
	case CtrNotEq:
		return negateTri(decideEq(v.Left, v.Right, env))
	case CtrLt:
		return EvalRange(v.Left, env).Lt(EvalRange(v.Right, env))
	case CtrLe:
		return EvalRange(v.Left, env).Le(EvalRange(v.Right, env))
	case CtrAnd:
		return decideAnd(DecideImmediate(v.Left, env), DecideImmediate(v.Right, env))
	case CtrOr:
		return decideOr(DecideImmediate(v.Left, env), DecideImmediate(v.Right, env))
	case CtrNot:
		return negateTri(DecideImmediate(v.Inner, env))
	case CtrBroadcastable:
		return decideBroadcastable(v.Left, v.Right, env)
	case CtrForall:
		return decideForall(v, env)
	case CtrFail:
		return TriFalse
	default:
		log.Tracef("tshape: decide: no immediate rule for %T", c)
		return TriUnknown
	}
}

func decideBoolExpr(e BoolExpr, env RangeEnv) Tri {
	switch v := e.(type) {
	case BoolConst:
		if v.Value {
			return TriTrue
		}
		return TriFalse
	case BoolFromNum:
		r := EvalRange(v.Arg, env)
		zero := FromConst(FromInt(0))
		switch r.Eq(zero) {
		case TriTrue:
			return TriFalse
		default:
			if r.NotEq(zero) == TriTrue {
				return TriTrue
			}
			return TriUnknown
		}
	default:
		return TriUnknown
	}
}

func negateTri(t Tri) Tri {
	switch t {
	case TriTrue:
		return TriFalse
	case TriFalse:
		return TriTrue
	default:
		return TriUnknown
	}
}

func decideAnd(l, r Tri) Tri {
	if l == TriFalse || r == TriFalse {
		return TriFalse
	}
	if l == TriTrue && r == TriTrue {
		return TriTrue
	}
	return TriUnknown
}

func decideOr(l, r Tri) Tri {
	if l == TriTrue || r == TriTrue {
		return TriTrue
	}
	if l == TriFalse && r == TriFalse {
		return TriFalse
	}
	return TriUnknown
}

// decideEq decides Left == Right across any combination of expression
// kinds. Mismatched kinds are always false; matching kinds fall through to
// structural equality first (cheap, exact) and then, for Num expressions,
// to range disjointness (sound, but only ever proves falsity or a
// singleton-range equality), and for two constant shapes to a rank check
// followed by the same range comparison dim by dim. Bool and String
// expressions that are not structurally equal stay unknown.
func decideEq(l, r Expr, env RangeEnv) Tri {
	if l.ExprKind() != r.ExprKind() {
		return TriFalse
	}
	if IsStructurallyEqual(l, r) {
		return TriTrue
	}
	switch l.ExprKind() {
	case KindNum:
		return EvalRange(l.(NumExpr), env).Eq(EvalRange(r.(NumExpr), env))
	case KindShapeExpr:
		return decideShapeEq(l.(ShapeExpr), r.(ShapeExpr), env)
	default:
		return TriUnknown
	}
}

func decideShapeEq(l, r ShapeExpr, env RangeEnv) Tri {
	ldims, lok := shapeDims(l)
	rdims, rok := shapeDims(r)
	if !lok || !rok {
		return TriUnknown
	}
	if len(ldims) != len(rdims) {
		return TriFalse
	}
	overall := TriTrue
	for i := range ldims {
		switch EvalRange(ldims[i], env).Eq(EvalRange(rdims[i], env)) {
		case TriFalse:
			return TriFalse
		case TriUnknown:
			overall = TriUnknown
		}
	}
	return overall
}

func decideForall(c CtrForall, env RangeEnv) Tri {
	loR := EvalRange(c.Lo, env)
	hiR := EvalRange(c.Hi, env)
	if !loR.IsConst() || !hiR.IsConst() {
		return TriUnknown
	}
	lo := loR.ConstValue()
	hi := hiR.ConstValue()
	if !lo.IsFinite() || !hi.IsFinite() || !lo.IsInteger() || !hi.IsInteger() {
		return TriUnknown
	}
	loI := lo.Rat().Num().Int64()
	hiI := hi.Rat().Num().Int64()
	const maxUnroll = 64
	if hiI-loI+1 > maxUnroll {
		return TriUnknown
	}
	stats := util.NewPerfStats()
	sawUnknown := false
	for i := loI; i <= hiI; i++ {
		switch DecideImmediate(c.Body, boundVarEnv{env, c.Var, FromConst(FromInt(i))}) {
		case TriFalse:
			stats.Log("tshape: forall unroll (false)")
			return TriFalse
		case TriUnknown:
			sawUnknown = true
		}
	}
	stats.Log("tshape: forall unroll")
	if sawUnknown {
		return TriUnknown
	}
	return TriTrue
}

// boundVarEnv overrides a single symbol's range within an otherwise
// delegating RangeEnv, used to unroll a bounded forall over small ranges.
type boundVarEnv struct {
	base  RangeEnv
	sym   Symbol
	value Range
}

func (e boundVarEnv) RangeOf(s Symbol) Range {
	if s.Equal(e.sym) {
		return e.value
	}
	return e.base.RangeOf(s)
}

// decideBroadcastable decides shape broadcastability by right-aligning the
// two shapes' dims and checking each overlapping pair: equal, or either
// side exactly 1, decides the pair true; two resolvable, unequal,
// neither-1 constants decide the pair (and hence the whole constraint)
// false; anything else leaves the pair — and so the whole decision —
// unknown, unless some other pair has already proven it false.
func decideBroadcastable(l, r ShapeExpr, env RangeEnv) Tri {
	if shapeEqual(l, r) {
		return TriTrue
	}
	ldims, lok := shapeDims(l)
	rdims, rok := shapeDims(r)
	if !lok || !rok {
		return TriUnknown
	}
	if len(ldims) == 0 || len(rdims) == 0 {
		return TriTrue
	}
	n := len(ldims)
	if len(rdims) > n {
		n = len(rdims)
	}
	overall := TriTrue
	for i := 0; i < n; i++ {
		lr := dimRangeFromEnd(ldims, i, env)
		rr := dimRangeFromEnd(rdims, i, env)
		switch decideDimPair(lr, rr) {
		case TriFalse:
			return TriFalse
		case TriUnknown:
			overall = TriUnknown
		}
	}
	return overall
}

func dimRangeFromEnd(dims []NumExpr, fromEnd int, env RangeEnv) Range {
	idx := len(dims) - 1 - fromEnd
	if idx < 0 {
		return FromConst(FromInt(1))
	}
	return EvalRange(dims[idx], env)
}

func decideDimPair(l, r Range) Tri {
	one := FromConst(FromInt(1))
	if l.Eq(r) == TriTrue {
		return TriTrue
	}
	if l.Eq(one) == TriTrue || r.Eq(one) == TriTrue {
		return TriTrue
	}
	if l.IsConst() && r.IsConst() && l.Eq(r) == TriFalse && l.Eq(one) == TriFalse && r.Eq(one) == TriFalse {
		return TriFalse
	}
	return TriUnknown
}
