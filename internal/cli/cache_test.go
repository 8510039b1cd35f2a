package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedStore renders the test job into a fresh session database and
// returns the database path and the record ID.
func seedStore(t *testing.T) (string, string) {
	t.Helper()
	path := writeTestJob(t, testJobYAML)
	db := filepath.Join(t.TempDir(), "session.db")

	stdout, _, err := execute(t, "render", path, "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	results := resp.Data.([]interface{})
	id := results[0].(map[string]interface{})["store_id"].(string)
	require.NotEmpty(t, id)
	return db, id
}

func TestCacheShow_ByID(t *testing.T) {
	db, id := seedStore(t)

	stdout, _, err := execute(t, "cache", "show", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "transform.named_sequence @match_mmt")
}

func TestCacheShow_ByHashPrefix(t *testing.T) {
	db, id := seedStore(t)

	listOut, _, err := execute(t, "cache", "list", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(listOut), &resp))
	entries := resp.Data.([]interface{})
	require.Len(t, entries, 1)
	hash := entries[0].(map[string]interface{})["hash"].(string)
	assert.Equal(t, id, entries[0].(map[string]interface{})["id"])

	stdout, _, err := execute(t, "cache", "show", hash[:10], "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "transform.foreach_match")
}

func TestCacheShow_NotFound(t *testing.T) {
	db, _ := seedStore(t)

	_, _, err := execute(t, "cache", "show", "deadbeef", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, strings.Contains(err.Error(), "not found"))
}

func TestCacheList_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "cache", "list")
	require.Error(t, err)
}

func TestRenderTwice_SingleCacheEntry(t *testing.T) {
	path := writeTestJob(t, testJobYAML)
	db := filepath.Join(t.TempDir(), "session.db")

	_, _, err := execute(t, "render", path, "--db", db)
	require.NoError(t, err)
	_, _, err = execute(t, "render", path, "--db", db)
	require.NoError(t, err)

	stdout, _, err := execute(t, "cache", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 spec(s)")
}
