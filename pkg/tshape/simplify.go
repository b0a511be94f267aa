package tshape

import "math/big"

// Simplify applies a fixed set of peephole rewrites to e: constant folding,
// dropping of additive/multiplicative neutral elements, collapsing a
// multiplication by zero, projecting a constant index out of a concrete
// shape (dim/set/slice), folding numel/rank of a concrete shape, folding a
// constant bool-to-int cast, concatenating concrete shapes, folding string
// concat/slice over literals, and replacing a Num symbol reference with its
// constant value when env reports the symbol's range has narrowed to a
// singleton. It never reorders operands
// and never tries a rewrite not in this fixed list — the Immediate Decision
// Procedure, not the simplifier, is where range-based reasoning belongs.
func Simplify(e Expr, env RangeEnv) Expr {
	switch v := e.(type) {
	case NumExpr:
		return simplifyNum(v, env)
	case BoolExpr:
		return v
	case ShapeExpr:
		return simplifyShape(v, env)
	case StringExpr:
		return simplifyString(v)
	default:
		return e
	}
}

func simplifyNum(e NumExpr, env RangeEnv) NumExpr {
	switch v := e.(type) {
	case NumConst:
		return v
	case NumSymbolRef:
		if env != nil {
			if r := env.RangeOf(v.Sym); r.IsConst() {
				if c := r.ConstValue(); c.IsFinite() {
					return NumConst{Value: c.Rat(), IsInt: c.IsInteger()}
				}
			}
		}
		return v
	case NumUnary:
		arg := simplifyNum(v.Arg, env)
		if c, ok := arg.(NumConst); ok {
			return foldUnary(v.Op, c)
		}
		return NumUnary{Op: v.Op, Arg: arg}
	case NumBinary:
		l := simplifyNum(v.Left, env)
		r := simplifyNum(v.Right, env)
		if folded, ok := foldBinaryConstants(v.Op, l, r); ok {
			return folded
		}
		if simplified, ok := simplifyBinaryIdentity(v.Op, l, r); ok {
			return simplified
		}
		return NumBinary{Op: v.Op, Left: l, Right: r}
	case NumMax:
		args := make([]NumExpr, len(v.Args))
		for i, a := range v.Args {
			args[i] = simplifyNum(a, env)
		}
		return NumMax{Args: args}
	case NumMin:
		args := make([]NumExpr, len(v.Args))
		for i, a := range v.Args {
			args[i] = simplifyNum(a, env)
		}
		return NumMin{Args: args}
	case NumDim:
		shape := simplifyShape(v.Shape, env)
		idx := simplifyNum(v.Index, env)
		if sc, ok := shape.(ShapeConst); ok {
			if ic, ok := idx.(NumConst); ok && ic.Value.IsInt() {
				pos := int(ic.Value.Num().Int64())
				if pos < 0 {
					pos += len(sc.Dims)
				}
				if pos >= 0 && pos < len(sc.Dims) {
					return sc.Dims[pos]
				}
			}
		}
		return NumDim{Shape: shape, Index: idx}
	case NumNumel:
		shape := simplifyShape(v.Shape, env)
		if sc, ok := shape.(ShapeConst); ok && allConst(sc.Dims) {
			acc := big.NewRat(1, 1)
			for _, d := range sc.Dims {
				acc.Mul(acc, d.(NumConst).Value)
			}
			return NumConst{Value: acc, IsInt: true}
		}
		return NumNumel{Shape: shape}
	case NumRank:
		shape := simplifyShape(v.Shape, env)
		if sc, ok := shape.(ShapeConst); ok {
			return NumIntConst(int64(len(sc.Dims)))
		}
		return NumRank{Shape: shape}
	case NumFromBool:
		if bc, ok := v.Arg.(BoolConst); ok {
			if bc.Value {
				return NumIntConst(1)
			}
			return NumIntConst(0)
		}
		return v
	default:
		return e
	}
}

// SimplifyConstraint applies Simplify to every expression a constraint
// carries, recursing through the logical connectives and the bounded
// quantifier, without touching the constraint's own id or source.
func SimplifyConstraint(c Constraint, env RangeEnv) Constraint {
	switch v := c.(type) {
	case CtrExpBool:
		v.Expr = Simplify(v.Expr, env).(BoolExpr)
		return v
	case CtrEq:
		v.Left = Simplify(v.Left, env)
		v.Right = Simplify(v.Right, env)
		return v
	case CtrNotEq:
		v.Left = Simplify(v.Left, env)
		v.Right = Simplify(v.Right, env)
		return v
	case CtrLt:
		v.Left = Simplify(v.Left, env).(NumExpr)
		v.Right = Simplify(v.Right, env).(NumExpr)
		return v
	case CtrLe:
		v.Left = Simplify(v.Left, env).(NumExpr)
		v.Right = Simplify(v.Right, env).(NumExpr)
		return v
	case CtrAnd:
		v.Left = SimplifyConstraint(v.Left, env)
		v.Right = SimplifyConstraint(v.Right, env)
		return v
	case CtrOr:
		v.Left = SimplifyConstraint(v.Left, env)
		v.Right = SimplifyConstraint(v.Right, env)
		return v
	case CtrNot:
		v.Inner = SimplifyConstraint(v.Inner, env)
		return v
	case CtrBroadcastable:
		v.Left = Simplify(v.Left, env).(ShapeExpr)
		v.Right = Simplify(v.Right, env).(ShapeExpr)
		return v
	case CtrForall:
		v.Lo = Simplify(v.Lo, env).(NumExpr)
		v.Hi = Simplify(v.Hi, env).(NumExpr)
		v.Body = SimplifyConstraint(v.Body, env)
		return v
	default:
		return c
	}
}

func allConst(dims []NumExpr) bool {
	for _, d := range dims {
		if _, ok := d.(NumConst); !ok {
			return false
		}
	}
	return true
}

func foldUnary(op NumUnaryOp, c NumConst) NumConst {
	var out big.Rat
	switch op {
	case OpNeg:
		out.Neg(c.Value)
		return NumConst{Value: &out, IsInt: c.IsInt}
	case OpAbs:
		out.Abs(c.Value)
		return NumConst{Value: &out, IsInt: c.IsInt}
	case OpFloor:
		v := FromRat(c.Value).Floor()
		return NumConst{Value: v.Rat(), IsInt: true}
	case OpCeil:
		v := FromRat(c.Value).Ceil()
		return NumConst{Value: v.Rat(), IsInt: true}
	default:
		return c
	}
}

func foldBinaryConstants(op NumBinaryOp, l, r NumExpr) (NumConst, bool) {
	lc, lok := l.(NumConst)
	rc, rok := r.(NumConst)
	if !lok || !rok {
		return NumConst{}, false
	}
	lv, rv := FromRat(lc.Value), FromRat(rc.Value)
	isInt := lc.IsInt && rc.IsInt
	switch op {
	case OpAdd:
		return NumConst{Value: lv.Add(rv).Rat(), IsInt: isInt}, true
	case OpSub:
		return NumConst{Value: lv.Sub(rv).Rat(), IsInt: isInt}, true
	case OpMul:
		return NumConst{Value: lv.Mul(rv).Rat(), IsInt: isInt}, true
	case OpTrueDiv:
		if rc.Value.Sign() == 0 {
			return NumConst{}, false
		}
		return NumConst{Value: lv.Div(rv).Rat(), IsInt: false}, true
	case OpFloorDiv:
		if rc.Value.Sign() == 0 {
			return NumConst{}, false
		}
		return NumConst{Value: lv.Div(rv).Floor().Rat(), IsInt: true}, true
	case OpMod:
		if rc.Value.Sign() <= 0 || !rc.Value.IsInt() {
			return NumConst{}, false
		}
		q := lv.Div(rv).Floor()
		rem := lv.Sub(q.Mul(rv))
		return NumConst{Value: rem.Rat(), IsInt: true}, true
	default:
		return NumConst{}, false
	}
}

func simplifyBinaryIdentity(op NumBinaryOp, l, r NumExpr) (NumExpr, bool) {
	zero := big.NewRat(0, 1)
	one := big.NewRat(1, 1)
	switch op {
	case OpAdd:
		if isNumConstValue(l, zero) {
			return r, true
		}
		if isNumConstValue(r, zero) {
			return l, true
		}
	case OpSub:
		if isNumConstValue(r, zero) {
			return l, true
		}
	case OpMul:
		if isNumConstValue(l, one) {
			return r, true
		}
		if isNumConstValue(r, one) {
			return l, true
		}
		if isNumConstValue(l, zero) {
			return l, true
		}
		if isNumConstValue(r, zero) {
			return r, true
		}
	case OpTrueDiv, OpFloorDiv:
		if isNumConstValue(r, one) {
			return l, true
		}
	}
	return nil, false
}

func isNumConstValue(e NumExpr, v *big.Rat) bool {
	c, ok := e.(NumConst)
	return ok && c.Value.Cmp(v) == 0
}

func simplifyShape(e ShapeExpr, env RangeEnv) ShapeExpr {
	switch v := e.(type) {
	case ShapeConst:
		dims := make([]NumExpr, len(v.Dims))
		for i, d := range v.Dims {
			dims[i] = simplifyNum(d, env)
		}
		return ShapeConst{Dims: dims}
	case ShapeSymbolRef:
		return v
	case ShapeSet:
		base := simplifyShape(v.Base, env)
		axis := simplifyNum(v.Axis, env)
		newDim := simplifyNum(v.NewDim, env)
		if sc, ok := base.(ShapeConst); ok {
			if ac, ok := axis.(NumConst); ok && ac.Value.IsInt() {
				pos := int(ac.Value.Num().Int64())
				if pos < 0 {
					pos += len(sc.Dims)
				}
				if pos >= 0 && pos < len(sc.Dims) {
					dims := append([]NumExpr{}, sc.Dims...)
					dims[pos] = newDim
					return ShapeConst{Dims: dims}
				}
			}
		}
		return ShapeSet{Base: base, Axis: axis, NewDim: newDim}
	case ShapeSlice:
		base := simplifyShape(v.Base, env)
		start := simplifyNum(v.Start, env)
		end := simplifyNum(v.End, env)
		if sc, ok := base.(ShapeConst); ok {
			sv, sok := start.(NumConst)
			ev, eok := end.(NumConst)
			if sok && eok && sv.Value.IsInt() && ev.Value.IsInt() {
				lo := clampIndex(int(sv.Value.Num().Int64()), len(sc.Dims))
				hi := clampIndex(int(ev.Value.Num().Int64()), len(sc.Dims))
				if lo <= hi {
					return ShapeConst{Dims: append([]NumExpr{}, sc.Dims[lo:hi]...)}
				}
				return ShapeConst{Dims: nil}
			}
		}
		return ShapeSlice{Base: base, Start: start, End: end}
	case ShapeConcat:
		left := simplifyShape(v.Left, env)
		right := simplifyShape(v.Right, env)
		if lc, ok := left.(ShapeConst); ok {
			if rc, ok := right.(ShapeConst); ok {
				return ShapeConst{Dims: append(append([]NumExpr{}, lc.Dims...), rc.Dims...)}
			}
		}
		return ShapeConcat{Left: left, Right: right}
	case ShapeBroadcast:
		return ShapeBroadcast{Left: simplifyShape(v.Left, env), Right: simplifyShape(v.Right, env)}
	default:
		return e
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func simplifyString(e StringExpr) StringExpr {
	switch v := e.(type) {
	case StringConst:
		return v
	case StringSymbolRef:
		return v
	case StringConcat:
		left := simplifyString(v.Left)
		right := simplifyString(v.Right)
		if lc, ok := left.(StringConst); ok {
			if rc, ok := right.(StringConst); ok {
				return StringConst{Value: lc.Value + rc.Value}
			}
		}
		return StringConcat{Left: left, Right: right}
	case StringSlice:
		base := simplifyString(v.Base)
		start := simplifyNum(v.Start, nil)
		end := simplifyNum(v.End, nil)
		if bc, ok := base.(StringConst); ok {
			sv, sok := start.(NumConst)
			ev, eok := end.(NumConst)
			if sok && eok && sv.Value.IsInt() && ev.Value.IsInt() {
				lo := clampIndex(int(sv.Value.Num().Int64()), len(bc.Value))
				hi := clampIndex(int(ev.Value.Num().Int64()), len(bc.Value))
				if lo <= hi {
					return StringConst{Value: bc.Value[lo:hi]}
				}
				return StringConst{Value: ""}
			}
		}
		return StringSlice{Base: base, Start: start, End: end}
	default:
		return e
	}
}
