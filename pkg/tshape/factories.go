package tshape

import "fmt"

// CompareOp selects which of the two numeric orderings genNumCompare
// builds.
type CompareOp int

const (
	CmpLt CompareOp = iota
	CmpLe
)

// GenFromBool wraps a bare boolean expression as a constraint.
func GenFromBool(mgr *IDManager, e BoolExpr) Constraint {
	return CtrExpBool{ctrBase{id: mgr.NextConstraintID()}, e}
}

// GenEquality builds an equality constraint between two expressions. It
// rejects, with a UsageError, any attempt to compare expressions of
// different kinds — a mismatch the caller should never produce, since an
// Eq between a Num and a Shape can never be anything but a bug upstream.
func GenEquality(mgr *IDManager, l, r Expr) (Constraint, error) {
	if l.ExprKind() != r.ExprKind() {
		return nil, usageErrorf("genEquality", "mismatched expression kinds: %s vs %s", l.ExprKind(), r.ExprKind())
	}
	return CtrEq{ctrBase{id: mgr.NextConstraintID()}, l, r}, nil
}

// GenNotEquality builds a disequality constraint, subject to the same kind
// restriction as GenEquality.
func GenNotEquality(mgr *IDManager, l, r Expr) (Constraint, error) {
	if l.ExprKind() != r.ExprKind() {
		return nil, usageErrorf("genNotEquality", "mismatched expression kinds: %s vs %s", l.ExprKind(), r.ExprKind())
	}
	return CtrNotEq{ctrBase{id: mgr.NextConstraintID()}, l, r}, nil
}

// GenNumCompare builds a Lt or Le constraint between two Num expressions.
func GenNumCompare(mgr *IDManager, op CompareOp, l, r NumExpr) Constraint {
	id := mgr.NextConstraintID()
	if op == CmpLe {
		return CtrLe{ctrBase{id: id}, l, r}
	}
	return CtrLt{ctrBase{id: id}, l, r}
}

// GenAnd builds a conjunction of two constraints.
func GenAnd(mgr *IDManager, l, r Constraint) Constraint {
	return CtrAnd{ctrBase{id: mgr.NextConstraintID()}, l, r}
}

// GenOr builds a disjunction of two constraints.
func GenOr(mgr *IDManager, l, r Constraint) Constraint {
	return CtrOr{ctrBase{id: mgr.NextConstraintID()}, l, r}
}

// GenNot builds the negation of a constraint.
func GenNot(mgr *IDManager, inner Constraint) Constraint {
	return CtrNot{ctrBase{id: mgr.NextConstraintID()}, inner}
}

// GenBroad builds a broadcastability constraint between two shapes.
func GenBroad(mgr *IDManager, l, r ShapeExpr) Constraint {
	return CtrBroadcastable{ctrBase{id: mgr.NextConstraintID()}, l, r}
}

// GenForall builds a bounded universal quantifier over an integer range.
func GenForall(mgr *IDManager, v Symbol, lo, hi NumExpr, body Constraint) Constraint {
	return CtrForall{ctrBase{id: mgr.NextConstraintID()}, v, lo, hi, body}
}

// GenFail builds an unconditionally false constraint carrying reason.
func GenFail(mgr *IDManager, reason string) Constraint {
	return CtrFail{ctrBase{id: mgr.NextConstraintID()}, reason}
}

func shapeSymbolName(base string, dim int) string {
	return fmt.Sprintf("%s.dim%d", base, dim)
}
