package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), err
}

func TestImportExportStats(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	base := []string{"--backend", "redis", "--redis-addr", mr.Addr()}

	csvPath := filepath.Join(dir, "intro.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("\ufeff编号,引种名称,世代\nYZ099,测试瓜,F1\nYZ100,甜瓜,F2\n"), 0o644))

	out, err := run(t, append(base, "import", "introductions", csvPath)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "imported 2 records")

	out, err = run(t, append(base, "export", "introductions", "--format", "csv", "-o", dir)...)
	require.NoError(t, err, out)
	data, err := os.ReadFile(filepath.Join(dir, "引种记录.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "YZ099,测试瓜")

	out, err = run(t, append(base, "stats")...)
	require.NoError(t, err, out)
	var stats struct {
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.Counts["introductionRecords"])
}

func TestUnknownCollection(t *testing.T) {
	mr := miniredis.RunT(t)
	_, err := run(t, "--backend", "redis", "--redis-addr", mr.Addr(), "export", "seeds")
	assert.ErrorContains(t, err, "unknown collection")
}
