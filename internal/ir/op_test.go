package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpString_GenericForm(t *testing.T) {
	a := NewOperand("%arg0", "tensor<16x8xf32>")
	b := NewOperand("%arg1", "tensor<8x16xf32>")
	op := NewOp("%0", "linalg.matmul", []Value{a, b}, []string{"tensor<16x16xf32>"})

	assert.Equal(t,
		`%0 = "linalg.matmul"(%arg0, %arg1) : (tensor<16x8xf32>, tensor<8x16xf32>) -> tensor<16x16xf32>`,
		op.String())
}

func TestOpString_AttrsSortedAndUnitBare(t *testing.T) {
	a := NewOperand("%arg0", "i32")
	op := NewOp("%0", "test.op", []Value{a}, []string{"i32"})
	op.SetAttr("root_op", UnitAttr())
	op.SetAttr("lowering_config", TextAttr("#config<tile_sizes = [[8]]>"))

	assert.Equal(t,
		`%0 = "test.op"(%arg0) {lowering_config = #config<tile_sizes = [[8]]>, root_op} : (i32) -> i32`,
		op.String())
}

func TestOpString_NoResult(t *testing.T) {
	op := NewOp("", "test.sink", []Value{NewOperand("%v", "f32")}, nil)
	assert.Equal(t, `"test.sink"(%v) : (f32) -> ()`, op.String())
}

func TestOpAttrRoundTrip(t *testing.T) {
	op := NewOp("%0", "test.op", nil, []string{"i32"})

	_, ok := op.Attr("root_op")
	require.False(t, ok)
	require.False(t, op.RemoveAttr("root_op"))

	op.SetAttr("root_op", UnitAttr())
	attr, ok := op.Attr("root_op")
	require.True(t, ok)
	assert.Equal(t, AttrUnit, attr.Kind())

	require.True(t, op.RemoveAttr("root_op"))
	_, ok = op.Attr("root_op")
	assert.False(t, ok)
}

func TestOperandIdentityDistinctFromName(t *testing.T) {
	// Two operands with identical names are still distinct values.
	a := NewOperand("%arg0", "i32")
	b := NewOperand("%arg0", "i32")

	seen := map[Value]bool{a: true}
	assert.False(t, seen[b])
	assert.True(t, seen[a])
}
