package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSpecText = `module attributes { transform.with_named_sequence } {
  transform.named_sequence @__kernel_config(%variant_op: !transform.any_op {transform.readonly}) -> !transform.any_op
      attributes { iree_codegen.tuning_spec_entrypoint } {
    transform.yield %variant_op : !transform.any_op
  }
}
`

func writeSpecFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.mlir")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand_Valid(t *testing.T) {
	path := writeSpecFile(t, validSpecText)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok (1 sequences)")
	assert.Contains(t, stdout, "@__kernel_config (entry point)")
}

func TestValidateCommand_ValidJSON(t *testing.T) {
	path := writeSpecFile(t, validSpecText)

	stdout, _, err := execute(t, "validate", path, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	report := resp.Data.(map[string]interface{})
	assert.Equal(t, true, report["entry_point"])
	assert.Equal(t, []interface{}{"__kernel_config"}, report["sequences"])
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeSpecFile(t, "module { unbalanced")

	stdout, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "error [E005]")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.mlir"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand_NoEntryPointWarns(t *testing.T) {
	noEntry := `module {
  transform.named_sequence @just_a_matcher(%cont: !transform.any_op) -> !transform.any_op {
    transform.yield %cont : !transform.any_op
  }
}
`
	path := writeSpecFile(t, noEntry)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "warning: no entry point sequence")
}
