package specgen

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tunelab/tdspec/internal/ir"
	"github.com/tunelab/tdspec/internal/tuning"
)

// RootOpAttrName is the marker attribute identifying the root operation
// of a tuning session. The marker must not appear inside the generated
// matcher body: candidates being matched do not carry it.
const RootOpAttrName = "root_op"

// Parser validates transform-dialect text. The renderer runs every
// assembled spec through it before returning; a failure always signals a
// rendering bug.
type Parser interface {
	Parse(text string) error
}

// Renderer renders tuning specs for a compilation session.
type Renderer struct {
	parser Parser
	log    zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for non-fatal rendering warnings.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// New creates a Renderer that validates its output through parser.
func New(parser Parser, opts ...Option) *Renderer {
	r := &Renderer{parser: parser, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render emits a transform-dialect module that matches op's operand
// signature, declares one constant parameter per configuration, and
// wires an entry point annotating every match with the configuration
// values. sequenceName names the generated matcher sequence; the caller
// is responsible for its uniqueness across the compilation session.
//
// The configuration list is ordered and may contain duplicate names.
// Duplicates produce one annotation line each; the later annotation
// overrides the earlier at compile time, not here.
//
// op is borrowed, not owned. Its attribute set is identical before and
// after the call, but it is mutated transiently in between, so
// concurrent calls over the same operation must be serialized by the
// caller.
func (r *Renderer) Render(op ir.Operation, configs []tuning.Configuration, sequenceName string) (string, error) {
	rootText, err := serializeWithoutRootAttr(op)
	if err != nil {
		return "", err
	}

	// Capture operand SSA names so the block arguments line up with the
	// names appearing in the matcher body. Deduplicate by value identity:
	// repeating a block argument would fail to parse, and the compiler's
	// dag matcher cannot handle repeated operands anyway, so warn and
	// keep going.
	operands := op.Operands()
	bbargs := make([]string, 0, len(operands))
	captured := make(map[ir.Value]bool, len(operands))
	for _, operand := range operands {
		if captured[operand] {
			r.log.Warn().
				Str("operand", operand.Name()).
				Msg("root op has repeated operand; the generated matcher may fail to match at compile time")
			continue
		}
		captured[operand] = true
		bbargs = append(bbargs, fmt.Sprintf("%s: %s", operand.Name(), operand.Type()))
	}

	text := assembleSpec(rootText, bbargs, configs, sequenceName)
	if err := r.parser.Parse(text); err != nil {
		return "", &RenderError{Text: text, Err: err}
	}
	return text, nil
}

// serializeWithoutRootAttr returns op's textual form with the root-op
// marker stripped. The live operation is the match template for every
// candidate in the session, so the marker is restored on all exit paths
// before control returns.
func serializeWithoutRootAttr(op ir.Operation) (string, error) {
	attr, ok := op.Attr(RootOpAttrName)
	if !ok {
		return op.String(), nil
	}
	if attr.Kind() != ir.AttrUnit {
		return "", &ContractError{Attr: RootOpAttrName, Kind: attr.Kind()}
	}

	op.RemoveAttr(RootOpAttrName)
	defer op.SetAttr(RootOpAttrName, attr)
	return op.String(), nil
}

// assembleSpec builds the module text. The directive grammar here is
// consumed verbatim by the external compiler; any deviation shows up as
// a parse failure at the compiler boundary.
func assembleSpec(rootText string, bbargs []string, configs []tuning.Configuration, sequenceName string) string {
	annotationArgs := []string{"%op: !transform.any_op {transform.readonly}"}
	annotationLines := make([]string, 0, len(configs))
	configLines := make([]string, 0, len(configs))
	yieldVars := []string{"%cont"}
	yieldTypes := []string{"!transform.any_op"}

	for i, config := range configs {
		// Position-salted SSA names stay unique under duplicate
		// configuration names.
		configVar := fmt.Sprintf("%%%s_%d", config.Name, i)
		configLines = append(configLines,
			fmt.Sprintf("%s = transform.param.constant %s -> !transform.any_param", configVar, config.Value))
		yieldVars = append(yieldVars, configVar)
		yieldTypes = append(yieldTypes, "!transform.any_param")

		annotationArgs = append(annotationArgs,
			fmt.Sprintf("%%cfg_%d: !transform.any_param {transform.readonly}", i))
		annotationLines = append(annotationLines,
			fmt.Sprintf("transform.annotate %%op %q = %%cfg_%d : !transform.any_op, !transform.any_param", config.Name, i))
	}

	var b strings.Builder
	b.WriteString("module attributes { transform.with_named_sequence, iree_codegen.tuning_spec_with_default_entrypoint } {\n")

	// Annotation transform.
	fmt.Fprintf(&b, "  transform.named_sequence @apply_op_config(%s) {\n", strings.Join(annotationArgs, ", "))
	for _, line := range annotationLines {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	b.WriteString("    transform.yield\n")
	b.WriteString("  }\n\n")

	// Custom op matcher.
	fmt.Fprintf(&b, "  transform.named_sequence @%s(%%cont: !transform.any_op {transform.readonly})\n", sequenceName)
	fmt.Fprintf(&b, "      -> (%s) {\n", strings.Join(yieldTypes, ", "))
	b.WriteString("    %ins, %outs = transform.iree.match.cast_compatible_dag_from_root %cont {\n")
	fmt.Fprintf(&b, "    ^bb0(%s):\n", strings.Join(bbargs, ", "))
	fmt.Fprintf(&b, "      %s\n", rootText)
	b.WriteString("    } : (!transform.any_op) -> (!transform.any_value, !transform.any_value)\n")
	for _, line := range configLines {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	fmt.Fprintf(&b, "    transform.yield %s : %s\n", strings.Join(yieldVars, ", "), strings.Join(yieldTypes, ", "))
	b.WriteString("  }\n\n")

	// Entry point.
	b.WriteString("  transform.named_sequence @__kernel_config(%variant_op: !transform.any_op {transform.consumed}) -> !transform.any_op\n")
	b.WriteString("      attributes { iree_codegen.tuning_spec_entrypoint } {\n")
	fmt.Fprintf(&b, "    %%res = transform.foreach_match in %%variant_op @%s -> @apply_op_config : (!transform.any_op) -> !transform.any_op\n", sequenceName)
	b.WriteString("    transform.yield %res : !transform.any_op\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")

	return b.String()
}
