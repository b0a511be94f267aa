package tshape

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	ansiReset   = "\x1b[0m"
	ansiMagenta = "\x1b[35m"
	ansiYellow  = "\x1b[33m"
)

// printOptions controls toString's output. color is only ever true when the
// destination has already been confirmed to be a terminal.
type printOptions struct {
	color bool
}

// isTerminalWriter reports whether w is a file descriptor connected to a
// terminal, the same check the teacher's CLI layer uses before emitting
// ANSI escapes.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ToString renders a constraint set's installed constraints as a flat
// listing, one line per constraint, colored by class when w is a terminal:
// hard constraints in magenta, path constraints in yellow, soft
// constraints uncolored.
func (s ConstraintSet) ToString(w io.Writer) string {
	opts := printOptions{color: isTerminalWriter(w)}
	var b strings.Builder
	s.hardIdx.ForEach(func(idx int) {
		writeClassLine(&b, s, idx, "hard", ansiMagenta, opts)
	})
	s.softIdx.ForEach(func(idx int) {
		writeClassLine(&b, s, idx, "soft", "", opts)
	})
	s.pathIdx.ForEach(func(idx int) {
		writeClassLine(&b, s, idx, "path", ansiYellow, opts)
	})
	return b.String()
}

func writeClassLine(b *strings.Builder, s ConstraintSet, idx int, class, color string, opts printOptions) {
	c, ok := s.pool.Get(idx)
	if !ok {
		return
	}
	line := fmt.Sprintf("[%s #%d] %s", class, c.CtrID(), constraintString(c))
	if opts.color && color != "" {
		b.WriteString(color)
		b.WriteString(line)
		b.WriteString(ansiReset)
	} else {
		b.WriteString(line)
	}
	b.WriteByte('\n')
}

func constraintString(c Constraint) string {
	switch v := c.(type) {
	case CtrExpBool:
		return exprString(v.Expr)
	case CtrEq:
		return exprString(v.Left) + " == " + exprString(v.Right)
	case CtrNotEq:
		return exprString(v.Left) + " != " + exprString(v.Right)
	case CtrLt:
		return exprString(v.Left) + " < " + exprString(v.Right)
	case CtrLe:
		return exprString(v.Left) + " <= " + exprString(v.Right)
	case CtrAnd:
		return "(" + constraintString(v.Left) + " and " + constraintString(v.Right) + ")"
	case CtrOr:
		return "(" + constraintString(v.Left) + " or " + constraintString(v.Right) + ")"
	case CtrNot:
		return "not (" + constraintString(v.Inner) + ")"
	case CtrBroadcastable:
		return "broadcastable(" + exprString(v.Left) + ", " + exprString(v.Right) + ")"
	case CtrForall:
		return "forall " + v.Var.Name() + " in [" + exprString(v.Lo) + ", " + exprString(v.Hi) + "]: " + constraintString(v.Body)
	case CtrFail:
		return "fail(" + v.Reason + ")"
	default:
		return fmt.Sprintf("<%T>", c)
	}
}

func exprString(e Expr) string {
	switch v := e.(type) {
	case NumConst:
		return v.Value.RatString()
	case NumSymbolRef:
		return v.Sym.Name()
	case NumUnary:
		return numUnaryOpString(v.Op) + "(" + exprString(v.Arg) + ")"
	case NumBinary:
		return "(" + exprString(v.Left) + " " + numBinaryOpString(v.Op) + " " + exprString(v.Right) + ")"
	case NumMax:
		return "max(" + exprList(v.Args) + ")"
	case NumMin:
		return "min(" + exprList(v.Args) + ")"
	case NumDim:
		return "dim(" + exprString(v.Shape) + ", " + exprString(v.Index) + ")"
	case NumNumel:
		return "numel(" + exprString(v.Shape) + ")"
	case NumRank:
		return "rank(" + exprString(v.Shape) + ")"
	case NumFromBool:
		return "int(" + exprString(v.Arg) + ")"
	case BoolConst:
		return strconv.FormatBool(v.Value)
	case BoolSymbolRef:
		return v.Sym.Name()
	case BoolFromNum:
		return "bool(" + exprString(v.Arg) + ")"
	case ShapeConst:
		return "[" + exprList(v.Dims) + "]"
	case ShapeSymbolRef:
		return v.Sym.Name()
	case ShapeSet:
		return "set(" + exprString(v.Base) + ", " + exprString(v.Axis) + ", " + exprString(v.NewDim) + ")"
	case ShapeSlice:
		return exprString(v.Base) + "[" + exprString(v.Start) + ":" + exprString(v.End) + "]"
	case ShapeConcat:
		return exprString(v.Left) + " ++ " + exprString(v.Right)
	case ShapeBroadcast:
		return "broadcast(" + exprString(v.Left) + ", " + exprString(v.Right) + ")"
	case StringConst:
		return strconv.Quote(v.Value)
	case StringSymbolRef:
		return v.Sym.Name()
	case StringConcat:
		return exprString(v.Left) + " + " + exprString(v.Right)
	case StringSlice:
		return exprString(v.Base) + "[" + exprString(v.Start) + ":" + exprString(v.End) + "]"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func exprList(args []NumExpr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = exprString(a)
	}
	return strings.Join(parts, ", ")
}

func numUnaryOpString(op NumUnaryOp) string {
	switch op {
	case OpNeg:
		return "neg"
	case OpCeil:
		return "ceil"
	case OpFloor:
		return "floor"
	case OpAbs:
		return "abs"
	default:
		return "?"
	}
}

func numBinaryOpString(op NumBinaryOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpTrueDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	default:
		return "?"
	}
}
