package tshape

// IsStructurallyEqual reports whether a and b are the exact same expression
// tree, node for node. It deliberately does not normalize, reorder
// commutative operands, or reason about semantic equivalence — two
// expressions that denote the same value but are built differently (x+y vs
// y+x, or a doubly-negated symbol vs the symbol itself) compare unequal.
// This under-approximation is intentional: the decision procedure that
// relies on it is only ever asked to confirm obviously-true or obviously-
// false cases, never to substitute for a general equivalence checker.
func IsStructurallyEqual(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ExprKind() != b.ExprKind() {
		return false
	}
	switch a.ExprKind() {
	case KindNum:
		return numEqual(a.(NumExpr), b.(NumExpr))
	case KindBool:
		return boolEqual(a.(BoolExpr), b.(BoolExpr))
	case KindShapeExpr:
		return shapeEqual(a.(ShapeExpr), b.(ShapeExpr))
	case KindStringExpr:
		return stringEqual(a.(StringExpr), b.(StringExpr))
	default:
		return false
	}
}

func numEqual(a, b NumExpr) bool {
	switch av := a.(type) {
	case NumConst:
		bv, ok := b.(NumConst)
		return ok && av.Value.Cmp(bv.Value) == 0
	case NumSymbolRef:
		bv, ok := b.(NumSymbolRef)
		return ok && av.Sym.Equal(bv.Sym)
	case NumUnary:
		bv, ok := b.(NumUnary)
		return ok && av.Op == bv.Op && numEqual(av.Arg, bv.Arg)
	case NumBinary:
		bv, ok := b.(NumBinary)
		return ok && av.Op == bv.Op && numEqual(av.Left, bv.Left) && numEqual(av.Right, bv.Right)
	case NumMax:
		bv, ok := b.(NumMax)
		return ok && numExprSliceEqual(av.Args, bv.Args)
	case NumMin:
		bv, ok := b.(NumMin)
		return ok && numExprSliceEqual(av.Args, bv.Args)
	case NumDim:
		bv, ok := b.(NumDim)
		return ok && shapeEqual(av.Shape, bv.Shape) && numEqual(av.Index, bv.Index)
	case NumNumel:
		bv, ok := b.(NumNumel)
		return ok && shapeEqual(av.Shape, bv.Shape)
	case NumRank:
		bv, ok := b.(NumRank)
		return ok && shapeEqual(av.Shape, bv.Shape)
	case NumFromBool:
		bv, ok := b.(NumFromBool)
		return ok && boolEqual(av.Arg, bv.Arg)
	default:
		return false
	}
}

func numExprSliceEqual(a, b []NumExpr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !numEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func boolEqual(a, b BoolExpr) bool {
	switch av := a.(type) {
	case BoolConst:
		bv, ok := b.(BoolConst)
		return ok && av.Value == bv.Value
	case BoolSymbolRef:
		bv, ok := b.(BoolSymbolRef)
		return ok && av.Sym.Equal(bv.Sym)
	case BoolFromNum:
		bv, ok := b.(BoolFromNum)
		return ok && numEqual(av.Arg, bv.Arg)
	default:
		return false
	}
}

func shapeEqual(a, b ShapeExpr) bool {
	switch av := a.(type) {
	case ShapeConst:
		bv, ok := b.(ShapeConst)
		return ok && numExprSliceEqual(av.Dims, bv.Dims)
	case ShapeSymbolRef:
		bv, ok := b.(ShapeSymbolRef)
		return ok && av.Sym.Equal(bv.Sym)
	case ShapeSet:
		bv, ok := b.(ShapeSet)
		return ok && shapeEqual(av.Base, bv.Base) && numEqual(av.Axis, bv.Axis) && numEqual(av.NewDim, bv.NewDim)
	case ShapeSlice:
		bv, ok := b.(ShapeSlice)
		return ok && shapeEqual(av.Base, bv.Base) && numEqual(av.Start, bv.Start) && numEqual(av.End, bv.End)
	case ShapeConcat:
		bv, ok := b.(ShapeConcat)
		return ok && shapeEqual(av.Left, bv.Left) && shapeEqual(av.Right, bv.Right)
	case ShapeBroadcast:
		bv, ok := b.(ShapeBroadcast)
		return ok && shapeEqual(av.Left, bv.Left) && shapeEqual(av.Right, bv.Right)
	default:
		return false
	}
}

func stringEqual(a, b StringExpr) bool {
	switch av := a.(type) {
	case StringConst:
		bv, ok := b.(StringConst)
		return ok && av.Value == bv.Value
	case StringSymbolRef:
		bv, ok := b.(StringSymbolRef)
		return ok && av.Sym.Equal(bv.Sym)
	case StringConcat:
		bv, ok := b.(StringConcat)
		return ok && stringEqual(av.Left, bv.Left) && stringEqual(av.Right, bv.Right)
	case StringSlice:
		bv, ok := b.(StringSlice)
		return ok && stringEqual(av.Base, bv.Base) && numEqual(av.Start, bv.Start) && numEqual(av.End, bv.End)
	default:
		return false
	}
}

// FreeSymbols collects every symbol referenced anywhere within e, in
// traversal order, without deduplication.
func FreeSymbols(e Expr) []Symbol {
	var out []Symbol
	collectSymbols(e, &out)
	return out
}

func collectSymbols(e Expr, out *[]Symbol) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case NumConst:
	case NumSymbolRef:
		*out = append(*out, v.Sym)
	case NumUnary:
		collectSymbols(v.Arg, out)
	case NumBinary:
		collectSymbols(v.Left, out)
		collectSymbols(v.Right, out)
	case NumMax:
		for _, a := range v.Args {
			collectSymbols(a, out)
		}
	case NumMin:
		for _, a := range v.Args {
			collectSymbols(a, out)
		}
	case NumDim:
		collectSymbols(v.Shape, out)
		collectSymbols(v.Index, out)
	case NumNumel:
		collectSymbols(v.Shape, out)
	case NumRank:
		collectSymbols(v.Shape, out)
	case NumFromBool:
		collectSymbols(v.Arg, out)
	case BoolConst:
	case BoolSymbolRef:
		*out = append(*out, v.Sym)
	case BoolFromNum:
		collectSymbols(v.Arg, out)
	case ShapeConst:
		for _, d := range v.Dims {
			collectSymbols(d, out)
		}
	case ShapeSymbolRef:
		*out = append(*out, v.Sym)
	case ShapeSet:
		collectSymbols(v.Base, out)
		collectSymbols(v.Axis, out)
		collectSymbols(v.NewDim, out)
	case ShapeSlice:
		collectSymbols(v.Base, out)
		collectSymbols(v.Start, out)
		collectSymbols(v.End, out)
	case ShapeConcat:
		collectSymbols(v.Left, out)
		collectSymbols(v.Right, out)
	case ShapeBroadcast:
		collectSymbols(v.Left, out)
		collectSymbols(v.Right, out)
	case StringConst:
	case StringSymbolRef:
		*out = append(*out, v.Sym)
	case StringConcat:
		collectSymbols(v.Left, out)
		collectSymbols(v.Right, out)
	case StringSlice:
		collectSymbols(v.Base, out)
		collectSymbols(v.Start, out)
		collectSymbols(v.End, out)
	}
}

// HasSingleVar reports whether e references exactly one distinct symbol,
// returning that symbol. The symbol may occur inside a larger expression
// (x+1 qualifies), so a true result alone does not make e a bare symbol.
func HasSingleVar(e Expr) (Symbol, bool) {
	syms := FreeSymbols(e)
	if len(syms) == 0 {
		return Symbol{}, false
	}
	first := syms[0]
	for _, s := range syms[1:] {
		if !s.Equal(first) {
			return Symbol{}, false
		}
	}
	return first, true
}
