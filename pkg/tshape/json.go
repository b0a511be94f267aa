package tshape

import (
	"github.com/segmentio/encoding/json"
)

// ctrBundle is the downward JSON shape handed to the external SMT backend:
// every installed constraint once, plus which of the three classes each
// pool index belongs to.
type ctrBundle struct {
	CtrPool []json.RawMessage `json:"ctrPool"`
	HardCtr []int             `json:"hardCtr"`
	SoftCtr []int             `json:"softCtr"`
	PathCtr []int             `json:"pathCtr"`
}

// GetConstraintJSON renders the whole snapshot as the downward bundle
// described in the external interfaces section: one encoded constraint per
// pool slot, and three index lists saying which slots are hard, soft, and
// path. Encoding failures can only come from a node this package itself
// constructed, so a failure here is a bug in constraintJSON/exprJSON, not a
// caller error.
func (s ConstraintSet) GetConstraintJSON() ([]byte, error) {
	pool := s.pool.Slice()
	raw := make([]json.RawMessage, len(pool))
	for i, c := range pool {
		encoded, err := json.Marshal(constraintJSON(SimplifyConstraint(c, s)))
		if err != nil {
			return nil, err
		}
		raw[i] = encoded
	}
	bundle := ctrBundle{
		CtrPool: raw,
		HardCtr: s.HardIndices(),
		SoftCtr: s.SoftIndices(),
		PathCtr: s.PathIndices(),
	}
	return json.Marshal(bundle)
}

func sourceJSON(loc *SourceLocation) interface{} {
	if loc == nil {
		return nil
	}
	return map[string]interface{}{
		"file":   loc.File,
		"line":   loc.Line,
		"column": loc.Column,
	}
}

func constraintJSON(c Constraint) map[string]interface{} {
	base := map[string]interface{}{
		"id":     c.CtrID(),
		"source": sourceJSON(ctrSource(c)),
	}
	switch v := c.(type) {
	case CtrExpBool:
		base["kind"] = "expBool"
		base["expr"] = exprJSON(v.Expr)
	case CtrEq:
		base["kind"] = "eq"
		base["left"] = exprJSON(v.Left)
		base["right"] = exprJSON(v.Right)
	case CtrNotEq:
		base["kind"] = "notEq"
		base["left"] = exprJSON(v.Left)
		base["right"] = exprJSON(v.Right)
	case CtrLt:
		base["kind"] = "lt"
		base["left"] = exprJSON(v.Left)
		base["right"] = exprJSON(v.Right)
	case CtrLe:
		base["kind"] = "le"
		base["left"] = exprJSON(v.Left)
		base["right"] = exprJSON(v.Right)
	case CtrAnd:
		base["kind"] = "and"
		base["left"] = constraintJSON(v.Left)
		base["right"] = constraintJSON(v.Right)
	case CtrOr:
		base["kind"] = "or"
		base["left"] = constraintJSON(v.Left)
		base["right"] = constraintJSON(v.Right)
	case CtrNot:
		base["kind"] = "not"
		base["inner"] = constraintJSON(v.Inner)
	case CtrBroadcastable:
		base["kind"] = "broadcastable"
		base["left"] = exprJSON(v.Left)
		base["right"] = exprJSON(v.Right)
	case CtrForall:
		base["kind"] = "forall"
		base["var"] = symbolJSON(v.Var)
		base["lo"] = exprJSON(v.Lo)
		base["hi"] = exprJSON(v.Hi)
		base["body"] = constraintJSON(v.Body)
	case CtrFail:
		base["kind"] = "fail"
		base["reason"] = v.Reason
	}
	return base
}

func symbolJSON(sym Symbol) map[string]interface{} {
	return map[string]interface{}{
		"id":     sym.ID(),
		"kind":   sym.Kind().String(),
		"name":   sym.Name(),
		"source": sourceJSON(sym.Source()),
	}
}

func exprJSON(e Expr) map[string]interface{} {
	switch v := e.(type) {
	case NumConst:
		return map[string]interface{}{"kind": "numConst", "value": v.Value.RatString(), "isInt": v.IsInt}
	case NumSymbolRef:
		return map[string]interface{}{"kind": "numSymbolRef", "sym": symbolJSON(v.Sym)}
	case NumUnary:
		return map[string]interface{}{"kind": "numUnary", "op": numUnaryOpString(v.Op), "arg": exprJSON(v.Arg)}
	case NumBinary:
		return map[string]interface{}{"kind": "numBinary", "op": numBinaryOpString(v.Op), "left": exprJSON(v.Left), "right": exprJSON(v.Right)}
	case NumMax:
		return map[string]interface{}{"kind": "numMax", "args": exprJSONList(v.Args)}
	case NumMin:
		return map[string]interface{}{"kind": "numMin", "args": exprJSONList(v.Args)}
	case NumDim:
		return map[string]interface{}{"kind": "numDim", "shape": exprJSON(v.Shape), "index": exprJSON(v.Index)}
	case NumNumel:
		return map[string]interface{}{"kind": "numNumel", "shape": exprJSON(v.Shape)}
	case NumRank:
		return map[string]interface{}{"kind": "numRank", "shape": exprJSON(v.Shape)}
	case NumFromBool:
		return map[string]interface{}{"kind": "numFromBool", "arg": exprJSON(v.Arg)}
	case BoolConst:
		return map[string]interface{}{"kind": "boolConst", "value": v.Value}
	case BoolSymbolRef:
		return map[string]interface{}{"kind": "boolSymbolRef", "sym": symbolJSON(v.Sym)}
	case BoolFromNum:
		return map[string]interface{}{"kind": "boolFromNum", "arg": exprJSON(v.Arg)}
	case ShapeConst:
		return map[string]interface{}{"kind": "shapeConst", "dims": exprJSONList(v.Dims)}
	case ShapeSymbolRef:
		return map[string]interface{}{"kind": "shapeSymbolRef", "sym": symbolJSON(v.Sym)}
	case ShapeSet:
		return map[string]interface{}{"kind": "shapeSet", "base": exprJSON(v.Base), "axis": exprJSON(v.Axis), "newDim": exprJSON(v.NewDim)}
	case ShapeSlice:
		return map[string]interface{}{"kind": "shapeSlice", "base": exprJSON(v.Base), "start": exprJSON(v.Start), "end": exprJSON(v.End)}
	case ShapeConcat:
		return map[string]interface{}{"kind": "shapeConcat", "left": exprJSON(v.Left), "right": exprJSON(v.Right)}
	case ShapeBroadcast:
		return map[string]interface{}{"kind": "shapeBroadcast", "left": exprJSON(v.Left), "right": exprJSON(v.Right)}
	case StringConst:
		return map[string]interface{}{"kind": "stringConst", "value": v.Value}
	case StringSymbolRef:
		return map[string]interface{}{"kind": "stringSymbolRef", "sym": symbolJSON(v.Sym)}
	case StringConcat:
		return map[string]interface{}{"kind": "stringConcat", "left": exprJSON(v.Left), "right": exprJSON(v.Right)}
	case StringSlice:
		return map[string]interface{}{"kind": "stringSlice", "base": exprJSON(v.Base), "start": exprJSON(v.Start), "end": exprJSON(v.End)}
	default:
		return map[string]interface{}{"kind": "unknown"}
	}
}

func exprJSONList(args []NumExpr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(args))
	for i, a := range args {
		out[i] = exprJSON(a)
	}
	return out
}
