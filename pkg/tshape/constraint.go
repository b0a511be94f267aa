package tshape

// Constraint is the closed set of proposition nodes a ConstraintSet can
// hold: an explicit boolean expression, a comparison between two
// expressions, a logical connective over other constraints, a shape
// broadcastability check, a bounded universal quantifier, or an
// unconditional failure marker.
type Constraint interface {
	// CtrID returns the identifier minted for this constraint by the Gen*
	// factory that built it; installing it into a pool does not change it.
	CtrID() uint64
	ctrNode()
}

type ctrBase struct {
	id     uint64
	source *SourceLocation
}

func (c ctrBase) CtrID() uint64 { return c.id }

// CtrExpBool wraps a bare boolean expression as a constraint, the base case
// that lets a plain symbol or literal stand on its own as a proposition.
type CtrExpBool struct {
	ctrBase
	Expr BoolExpr
}

func (CtrExpBool) ctrNode() {}

// CtrEq asserts Left == Right. Left and Right need not share an ExprKind;
// if they don't, the constraint is always false.
type CtrEq struct {
	ctrBase
	Left, Right Expr
}

func (CtrEq) ctrNode() {}

// CtrNotEq asserts Left != Right.
type CtrNotEq struct {
	ctrBase
	Left, Right Expr
}

func (CtrNotEq) ctrNode() {}

// CtrLt asserts Left < Right over Num expressions.
type CtrLt struct {
	ctrBase
	Left, Right NumExpr
}

func (CtrLt) ctrNode() {}

// CtrLe asserts Left <= Right over Num expressions.
type CtrLe struct {
	ctrBase
	Left, Right NumExpr
}

func (CtrLe) ctrNode() {}

// CtrAnd asserts both Left and Right.
type CtrAnd struct {
	ctrBase
	Left, Right Constraint
}

func (CtrAnd) ctrNode() {}

// CtrOr asserts at least one of Left, Right.
type CtrOr struct {
	ctrBase
	Left, Right Constraint
}

func (CtrOr) ctrNode() {}

// CtrNot asserts the negation of Inner.
type CtrNot struct {
	ctrBase
	Inner Constraint
}

func (CtrNot) ctrNode() {}

// CtrBroadcastable asserts that Left and Right are broadcastable against
// each other under NumPy/PyTorch rules.
type CtrBroadcastable struct {
	ctrBase
	Left, Right ShapeExpr
}

func (CtrBroadcastable) ctrNode() {}

// CtrForall asserts that Body holds for every integer value of Var in
// [Lo, Hi]. Var is bound only within Body.
type CtrForall struct {
	ctrBase
	Var    Symbol
	Lo, Hi NumExpr
	Body   Constraint
}

func (CtrForall) ctrNode() {}

// CtrFail is an unconditionally false constraint carrying a human-readable
// reason, used where the interpreter has already determined a path is
// infeasible (e.g. a shape error it want recorded rather than raised).
type CtrFail struct {
	ctrBase
	Reason string
}

func (CtrFail) ctrNode() {}

// ctrSource extracts the source location recorded against c, if any.
func ctrSource(c Constraint) *SourceLocation {
	switch v := c.(type) {
	case CtrExpBool:
		return v.source
	case CtrEq:
		return v.source
	case CtrNotEq:
		return v.source
	case CtrLt:
		return v.source
	case CtrLe:
		return v.source
	case CtrAnd:
		return v.source
	case CtrOr:
		return v.source
	case CtrNot:
		return v.source
	case CtrBroadcastable:
		return v.source
	case CtrForall:
		return v.source
	case CtrFail:
		return v.source
	default:
		return nil
	}
}

// withID returns a copy of c with its id set. Nothing in this package calls
// it: every Gen* factory mints the id up front, and addToPool installs
// constraints with the id they already carry.
func withID(c Constraint, id uint64) Constraint {
	switch v := c.(type) {
	case CtrExpBool:
		v.id = id
		return v
	case CtrEq:
		v.id = id
		return v
	case CtrNotEq:
		v.id = id
		return v
	case CtrLt:
		v.id = id
		return v
	case CtrLe:
		v.id = id
		return v
	case CtrAnd:
		v.id = id
		return v
	case CtrOr:
		v.id = id
		return v
	case CtrNot:
		v.id = id
		return v
	case CtrBroadcastable:
		v.id = id
		return v
	case CtrForall:
		v.id = id
		return v
	case CtrFail:
		v.id = id
		return v
	default:
		return c
	}
}
