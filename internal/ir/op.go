package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Operand is a basic Value implementation.
type Operand struct {
	name string
	typ  string
}

// NewOperand creates an operand with the given SSA name (including the
// leading '%') and type token.
func NewOperand(name, typ string) *Operand {
	return &Operand{name: name, typ: typ}
}

// Name implements Value.
func (o *Operand) Name() string { return o.name }

// Type implements Value.
func (o *Operand) Type() string { return o.typ }

// Op is a basic Operation implementation that prints in the MLIR generic
// form. It is sufficient for building matcher templates from job files
// and for exercising the renderer in tests; a real compiler binding can
// replace it behind the Operation interface.
type Op struct {
	result      string
	name        string
	operands    []Value
	resultTypes []string
	attrs       map[string]Attribute
}

// NewOp creates an operation. result is the SSA result name including
// the leading '%' and may be empty for zero-result ops. name is the
// fully qualified operation name, e.g. "linalg.matmul".
func NewOp(result, name string, operands []Value, resultTypes []string) *Op {
	return &Op{
		result:      result,
		name:        name,
		operands:    append([]Value(nil), operands...),
		resultTypes: append([]string(nil), resultTypes...),
		attrs:       make(map[string]Attribute),
	}
}

// Attr implements Operation.
func (o *Op) Attr(name string) (Attribute, bool) {
	a, ok := o.attrs[name]
	return a, ok
}

// SetAttr implements Operation.
func (o *Op) SetAttr(name string, attr Attribute) {
	o.attrs[name] = attr
}

// RemoveAttr implements Operation.
func (o *Op) RemoveAttr(name string) bool {
	_, ok := o.attrs[name]
	delete(o.attrs, name)
	return ok
}

// Operands implements Operation.
func (o *Op) Operands() []Value { return o.operands }

// Attrs returns the attribute names currently set, sorted.
func (o *Op) Attrs() []string {
	names := make([]string, 0, len(o.attrs))
	for name := range o.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String implements Operation. The printed form is the MLIR generic
// syntax with attributes in sorted name order, so serialization is
// deterministic:
//
//	%0 = "linalg.matmul"(%arg0, %arg1) {root_op} : (tensor<..>, tensor<..>) -> tensor<..>
func (o *Op) String() string {
	var b strings.Builder

	if o.result != "" {
		fmt.Fprintf(&b, "%s = ", o.result)
	}
	fmt.Fprintf(&b, "%q(", o.name)

	operandNames := make([]string, len(o.operands))
	operandTypes := make([]string, len(o.operands))
	for i, v := range o.operands {
		operandNames[i] = v.Name()
		operandTypes[i] = v.Type()
	}
	b.WriteString(strings.Join(operandNames, ", "))
	b.WriteString(")")

	if len(o.attrs) > 0 {
		parts := make([]string, 0, len(o.attrs))
		for _, name := range o.Attrs() {
			attr := o.attrs[name]
			if attr.Kind() == AttrUnit {
				parts = append(parts, name)
				continue
			}
			parts = append(parts, fmt.Sprintf("%s = %s", name, attr))
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, " : (%s) -> ", strings.Join(operandTypes, ", "))
	switch len(o.resultTypes) {
	case 1:
		b.WriteString(o.resultTypes[0])
	default:
		fmt.Fprintf(&b, "(%s)", strings.Join(o.resultTypes, ", "))
	}

	return b.String()
}
