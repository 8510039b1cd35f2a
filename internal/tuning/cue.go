package tuning

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// CompileError reports a job-field problem found while compiling CUE
// input, with the CUE source position when available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadJobDir loads and compiles every tuning job declared in the CUE
// files under dir. Jobs live under the top-level "tuning" struct, keyed
// by sequence name:
//
//	tuning: match_mmt: {
//	    op: { name: "linalg.matmul", ... }
//	    configs: [{ name: "tile_sizes", value: "[[8, 16]]" }]
//	}
func LoadJobDir(dir string) ([]*Job, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("job directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("access job directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scan job directory: %w", err)
	}
	if len(cueFiles) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	tuningVal := value.LookupPath(cue.ParsePath("tuning"))
	if !tuningVal.Exists() {
		return nil, &CompileError{Field: "tuning", Message: "no tuning jobs declared", Pos: value.Pos()}
	}
	iter, err := tuningVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterating tuning jobs: %w", err)
	}

	var jobs []*Job
	for iter.Next() {
		job, err := CompileJob(iter.Value())
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if len(jobs) == 0 {
		return nil, &CompileError{Field: "tuning", Message: "tuning struct declares no jobs", Pos: tuningVal.Pos()}
	}
	return jobs, nil
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// CompileJob parses a CUE value into a Job. The value should be one
// entry of the "tuning" struct; its label becomes the sequence name.
func CompileJob(v cue.Value) (*Job, error) {
	if err := v.Err(); err != nil {
		return nil, &CompileError{Field: "tuning", Message: err.Error(), Pos: v.Pos()}
	}

	job := &Job{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		job.SequenceName = labels[len(labels)-1].String()
	}

	opVal := v.LookupPath(cue.ParsePath("op"))
	if !opVal.Exists() {
		return nil, &CompileError{Field: "op", Message: "op is required", Pos: v.Pos()}
	}
	op, err := compileOpSpec(opVal)
	if err != nil {
		return nil, err
	}
	job.Op = *op

	configsVal := v.LookupPath(cue.ParsePath("configs"))
	if configsVal.Exists() {
		configs, err := compileConfigs(configsVal)
		if err != nil {
			return nil, err
		}
		job.Configs = configs
	}

	if err := job.Validate(); err != nil {
		return nil, &CompileError{Field: "tuning." + job.SequenceName, Message: err.Error(), Pos: v.Pos()}
	}
	return job, nil
}

func compileOpSpec(v cue.Value) (*OpSpec, error) {
	op := &OpSpec{}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{Field: "op.name", Message: "op name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, &CompileError{Field: "op.name", Message: err.Error(), Pos: nameVal.Pos()}
	}
	op.Name = name

	if resultVal := v.LookupPath(cue.ParsePath("result")); resultVal.Exists() {
		result, err := resultVal.String()
		if err != nil {
			return nil, &CompileError{Field: "op.result", Message: err.Error(), Pos: resultVal.Pos()}
		}
		op.Result = result
	}

	if typesVal := v.LookupPath(cue.ParsePath("result_types")); typesVal.Exists() {
		typeIter, err := typesVal.List()
		if err != nil {
			return nil, &CompileError{Field: "op.result_types", Message: err.Error(), Pos: typesVal.Pos()}
		}
		for typeIter.Next() {
			typ, err := typeIter.Value().String()
			if err != nil {
				return nil, &CompileError{Field: "op.result_types", Message: err.Error(), Pos: typeIter.Value().Pos()}
			}
			op.ResultTypes = append(op.ResultTypes, typ)
		}
	}

	if operandsVal := v.LookupPath(cue.ParsePath("operands")); operandsVal.Exists() {
		operandIter, err := operandsVal.List()
		if err != nil {
			return nil, &CompileError{Field: "op.operands", Message: err.Error(), Pos: operandsVal.Pos()}
		}
		for operandIter.Next() {
			operand, err := compileOperand(operandIter.Value())
			if err != nil {
				return nil, err
			}
			op.Operands = append(op.Operands, *operand)
		}
	}

	if attrsVal := v.LookupPath(cue.ParsePath("attrs")); attrsVal.Exists() {
		attrIter, err := attrsVal.Fields()
		if err != nil {
			return nil, &CompileError{Field: "op.attrs", Message: err.Error(), Pos: attrsVal.Pos()}
		}
		op.Attrs = make(map[string]string)
		for attrIter.Next() {
			payload, err := attrIter.Value().String()
			if err != nil {
				return nil, &CompileError{Field: "op.attrs." + attrIter.Label(), Message: err.Error(), Pos: attrIter.Value().Pos()}
			}
			op.Attrs[attrIter.Label()] = payload
		}
	}

	if rootVal := v.LookupPath(cue.ParsePath("root_op")); rootVal.Exists() {
		root, err := rootVal.Bool()
		if err != nil {
			return nil, &CompileError{Field: "op.root_op", Message: err.Error(), Pos: rootVal.Pos()}
		}
		op.RootOp = root
	}

	return op, nil
}

func compileOperand(v cue.Value) (*OperandSpec, error) {
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return nil, &CompileError{Field: "op.operands.name", Message: err.Error(), Pos: v.Pos()}
	}
	typ, err := v.LookupPath(cue.ParsePath("type")).String()
	if err != nil {
		return nil, &CompileError{Field: "op.operands.type", Message: err.Error(), Pos: v.Pos()}
	}
	return &OperandSpec{Name: name, Type: typ}, nil
}

func compileConfigs(v cue.Value) ([]Configuration, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: "configs", Message: err.Error(), Pos: v.Pos()}
	}

	var configs []Configuration
	for iter.Next() {
		entry := iter.Value()
		name, err := entry.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, &CompileError{Field: "configs.name", Message: err.Error(), Pos: entry.Pos()}
		}
		literal, err := compileLiteral(entry.LookupPath(cue.ParsePath("value")))
		if err != nil {
			return nil, &CompileError{Field: "configs." + name, Message: err.Error(), Pos: entry.Pos()}
		}
		configs = append(configs, Configuration{Name: name, Value: literal})
	}
	return configs, nil
}

// compileLiteral accepts strings, ints, and bools; everything else must
// be spelled as a string holding the exact attribute text.
func compileLiteral(v cue.Value) (Literal, error) {
	if !v.Exists() {
		return "", fmt.Errorf("value is required")
	}
	if s, err := v.String(); err == nil {
		return Literal(s), nil
	}
	if i, err := v.Int64(); err == nil {
		return Literal(strconv.FormatInt(i, 10)), nil
	}
	if b, err := v.Bool(); err == nil {
		return Literal(strconv.FormatBool(b)), nil
	}
	return "", fmt.Errorf("unsupported value kind %s", v.Kind())
}
