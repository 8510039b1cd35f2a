package tuning

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tunelab/tdspec/internal/ir"
)

// OperandSpec describes one root-op operand.
type OperandSpec struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// OpSpec describes the root operation a job matches against.
type OpSpec struct {
	// Name is the fully qualified operation name, e.g. "linalg.matmul".
	Name string `json:"name" yaml:"name"`

	// Result is the SSA result name including '%'; empty for zero-result ops.
	Result string `json:"result,omitempty" yaml:"result,omitempty"`

	ResultTypes []string      `json:"result_types,omitempty" yaml:"result_types,omitempty"`
	Operands    []OperandSpec `json:"operands,omitempty" yaml:"operands,omitempty"`

	// Attrs maps attribute names to opaque textual payloads.
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`

	// RootOp marks the op with the root-op marker attribute.
	RootOp bool `json:"root_op,omitempty" yaml:"root_op,omitempty"`
}

// Job is a renderable unit of tuning work: one root op, an ordered list
// of configurations discovered by the autotuner, and the matcher
// sequence name to emit.
type Job struct {
	SequenceName string          `json:"sequence_name" yaml:"sequence_name"`
	Op           OpSpec          `json:"op" yaml:"op"`
	Configs      []Configuration `json:"configs" yaml:"configs"`
}

var (
	validSequenceName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$.]*$`)
	validOpName       = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)+$`)
)

// Validate checks the job before rendering, so malformed input surfaces
// as a data error rather than a renderer bug.
func (j *Job) Validate() error {
	if !validSequenceName.MatchString(j.SequenceName) {
		return fmt.Errorf("invalid sequence name %q", j.SequenceName)
	}
	if !validOpName.MatchString(j.Op.Name) {
		return fmt.Errorf("invalid op name %q", j.Op.Name)
	}
	if j.Op.Result != "" && !strings.HasPrefix(j.Op.Result, "%") {
		return fmt.Errorf("op result %q must start with %%", j.Op.Result)
	}
	for i, operand := range j.Op.Operands {
		if !strings.HasPrefix(operand.Name, "%") {
			return fmt.Errorf("operand %d: name %q must start with %%", i, operand.Name)
		}
		if operand.Type == "" {
			return fmt.Errorf("operand %d (%s): empty type", i, operand.Name)
		}
	}
	for i, config := range j.Configs {
		if err := config.Validate(); err != nil {
			return fmt.Errorf("config %d: %w", i, err)
		}
	}
	return nil
}

// BuildOp constructs the concrete operation described by the job.
// Operands with the same name are distinct values, matching how a real
// IR graph treats distinct SSA definitions.
func (j *Job) BuildOp() *ir.Op {
	operands := make([]ir.Value, len(j.Op.Operands))
	for i, spec := range j.Op.Operands {
		operands[i] = ir.NewOperand(spec.Name, spec.Type)
	}

	op := ir.NewOp(j.Op.Result, j.Op.Name, operands, j.Op.ResultTypes)
	for name, value := range j.Op.Attrs {
		op.SetAttr(name, ir.TextAttr(value))
	}
	if j.Op.RootOp {
		op.SetAttr("root_op", ir.UnitAttr())
	}
	return op
}
