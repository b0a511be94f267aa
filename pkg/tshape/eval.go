package tshape

// RangeEnv supplies the current range of a symbol during structural
// evaluation of a Num expression. A ConstraintSet implements this directly
// against its own rangeCache.
type RangeEnv interface {
	RangeOf(sym Symbol) Range
}

// EvalRange computes a sound over-approximation of the set of values e can
// take, given the ranges RangeEnv reports for its free symbols. It is a
// bottom-up structural evaluation, not a solver: anything it cannot pin
// down collapses to Top().
func EvalRange(e NumExpr, env RangeEnv) Range {
	switch v := e.(type) {
	case NumConst:
		return FromConst(FromRat(v.Value))
	case NumSymbolRef:
		return env.RangeOf(v.Sym)
	case NumUnary:
		arg := EvalRange(v.Arg, env)
		switch v.Op {
		case OpNeg:
			return arg.Neg()
		case OpCeil:
			return arg.Ceil()
		case OpFloor:
			return arg.Floor()
		case OpAbs:
			return arg.Abs()
		default:
			return Top()
		}
	case NumBinary:
		l := EvalRange(v.Left, env)
		r := EvalRange(v.Right, env)
		switch v.Op {
		case OpAdd:
			return l.Add(r)
		case OpSub:
			return l.Sub(r)
		case OpMul:
			return l.Mul(r)
		case OpTrueDiv:
			return l.TrueDiv(r)
		case OpFloorDiv:
			return l.FloorDiv(r)
		case OpMod:
			return l.Mod(r)
		default:
			return Top()
		}
	case NumMax:
		if len(v.Args) == 0 {
			return Top()
		}
		acc := EvalRange(v.Args[0], env)
		for _, a := range v.Args[1:] {
			acc = acc.Max(EvalRange(a, env))
		}
		return acc
	case NumMin:
		if len(v.Args) == 0 {
			return Top()
		}
		acc := EvalRange(v.Args[0], env)
		for _, a := range v.Args[1:] {
			acc = acc.Min(EvalRange(a, env))
		}
		return acc
	case NumDim:
		dims, ok := shapeDims(v.Shape)
		idx := EvalRange(v.Index, env)
		if !ok || !idx.IsConst() {
			return Top()
		}
		i := idx.ConstValue()
		if !i.IsFinite() || !i.IsInteger() {
			return Top()
		}
		pos := int(i.Rat().Num().Int64())
		if pos < 0 {
			pos += len(dims)
		}
		if pos < 0 || pos >= len(dims) {
			return Bottom()
		}
		return EvalRange(dims[pos], env)
	case NumNumel:
		dims, ok := shapeDims(v.Shape)
		if !ok {
			return Top()
		}
		acc := FromConst(FromInt(1))
		for _, d := range dims {
			acc = acc.Mul(EvalRange(d, env))
		}
		return acc
	case NumRank:
		dims, ok := shapeDims(v.Shape)
		if !ok {
			return Top()
		}
		return FromConst(FromInt(int64(len(dims))))
	case NumFromBool:
		if bc, ok := v.Arg.(BoolConst); ok {
			if bc.Value {
				return FromConst(FromInt(1))
			}
			return FromConst(FromInt(0))
		}
		return NewRange(FromInt(0), FromInt(1))
	default:
		return Top()
	}
}

// shapeDims returns the concrete dim expressions of a shape expression,
// when its rank is statically known. Only ShapeConst has a directly known
// rank; every other shape node is treated as unknown here, which callers
// must handle by falling back to Top()/Unknown rather than guessing.
func shapeDims(e ShapeExpr) ([]NumExpr, bool) {
	switch v := e.(type) {
	case ShapeConst:
		return v.Dims, true
	default:
		return nil, false
	}
}
