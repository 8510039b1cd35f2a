package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJobYAML = `sequence_name: match_mmt
op:
  name: linalg.matmul
  result: "%0"
  result_types: ["tensor<16x16xf32>"]
  operands:
    - {name: "%arg0", type: "tensor<16x8xf32>"}
    - {name: "%arg1", type: "tensor<8x16xf32>"}
  root_op: true
configs:
  - {name: tile_sizes, value: "[[8, 16]]"}
  - {name: subgroup_size, value: "64"}
`

func writeTestJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRenderCommand_StdoutText(t *testing.T) {
	path := writeTestJob(t, testJobYAML)

	stdout, _, err := execute(t, "render", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "transform.named_sequence @match_mmt")
	assert.Contains(t, stdout, "transform.param.constant [[8, 16]]")
	assert.Contains(t, stdout, `transform.annotate %op "subgroup_size"`)
	// The marker attr must not leak into the matcher body.
	assert.NotContains(t, stdout, "root_op")
}

func TestRenderCommand_OutputFile(t *testing.T) {
	path := writeTestJob(t, testJobYAML)
	out := filepath.Join(t.TempDir(), "spec.mlir")

	stdout, _, err := execute(t, "render", path, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transform.named_sequence @match_mmt")
}

func TestRenderCommand_JSONFormat(t *testing.T) {
	path := writeTestJob(t, testJobYAML)

	stdout, _, err := execute(t, "render", path, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	results, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "match_mmt", first["sequence_name"])
	assert.Len(t, first["hash"], 64)
	assert.Contains(t, first["spec"], "transform.foreach_match")
}

func TestRenderCommand_CUEDirectory(t *testing.T) {
	dir := t.TempDir()
	jobCUE := `
tuning: match_reduce: {
	op: {
		name:         "linalg.reduce"
		result:       "%0"
		result_types: ["tensor<16xf32>"]
		operands: [{name: "%arg0", type: "tensor<16x8xf32>"}]
		root_op: true
	}
	configs: [{name: "tile", value: 8}]
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jobs.cue"), []byte(jobCUE), 0o644))

	outDir := filepath.Join(t.TempDir(), "specs")
	stdout, _, err := execute(t, "render", dir, "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote")

	data, err := os.ReadFile(filepath.Join(outDir, "match_reduce.mlir"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "transform.param.constant 8")
}

func TestRenderCommand_RecordsInStore(t *testing.T) {
	path := writeTestJob(t, testJobYAML)
	db := filepath.Join(t.TempDir(), "session.db")

	_, _, err := execute(t, "render", path, "--db", db)
	require.NoError(t, err)

	stdout, _, err := execute(t, "cache", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "match_mmt")
	assert.Contains(t, stdout, "1 spec(s)")
}

func TestRenderCommand_MissingJobFile(t *testing.T) {
	_, _, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRenderCommand_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, _, err := execute(t, "render", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported job file")
}

func TestRenderCommand_InvalidJobFailsBeforeRendering(t *testing.T) {
	path := writeTestJob(t, strings.Replace(testJobYAML, "match_mmt", `"bad name"`, 1))

	_, _, err := execute(t, "render", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
