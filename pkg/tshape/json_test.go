package tshape

import (
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func TestGetConstraintJSONRoundTripsPoolAndClasses(t *testing.T) {
	s := freshSet()
	hard := CtrEq{ctrBase{id: 1}, NumIntConst(1), NumIntConst(1)}
	soft := CtrLt{ctrBase{id: 2}, NumIntConst(1), NumIntConst(2)}
	path := CtrFail{ctrBase{id: 3}, "unreachable branch"}

	s, _ = s.Guarantee(hard)
	s, _ = s.Require(soft)
	s, _ = s.AddIf(path)

	data, err := s.GetConstraintJSON()
	require.NoError(t, err)

	var bundle struct {
		CtrPool []json.RawMessage `json:"ctrPool"`
		HardCtr []int             `json:"hardCtr"`
		SoftCtr []int             `json:"softCtr"`
		PathCtr []int             `json:"pathCtr"`
	}
	require.NoError(t, json.Unmarshal(data, &bundle))

	require.Len(t, bundle.CtrPool, 3)
	require.Equal(t, []int{0}, bundle.HardCtr)
	require.Equal(t, []int{1}, bundle.SoftCtr)
	require.Equal(t, []int{2}, bundle.PathCtr)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal(bundle.CtrPool[0], &first))
	require.Equal(t, "eq", first["kind"])
}

func TestConstraintJSONIncludesSourceLocationWhenPresent(t *testing.T) {
	c := CtrFail{ctrBase{id: 1, source: &SourceLocation{File: "m.py", Line: 3, Column: 1}}, "bad axis"}
	node := constraintJSON(c)
	src, ok := node["source"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "m.py", src["file"])
}

func TestConstraintJSONSourceNilWhenAbsent(t *testing.T) {
	c := CtrFail{ctrBase{id: 1}, "bad axis"}
	node := constraintJSON(c)
	require.Nil(t, node["source"])
}

func TestExprJSONEncodesNestedStructure(t *testing.T) {
	mgr := NewIDManager()
	sym := NewSymbol(mgr, SymInt, "x")
	e := NumBinary{Op: OpAdd, Left: NumSymbolRef{Sym: sym}, Right: NumIntConst(1)}
	node := exprJSON(e)
	require.Equal(t, "numBinary", node["kind"])
	require.Equal(t, "+", node["op"])
	left, ok := node["left"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "numSymbolRef", left["kind"])
}
