package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/marmos91/helocheck/pkg/api"
	"github.com/marmos91/helocheck/pkg/device/memory"
	"github.com/marmos91/helocheck/pkg/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckMemoryDevice(t *testing.T) {
	out, err := execute(t, "check",
		"--device-type", "memory",
		"--count", "64",
		"--order", "random",
		"--progress", "0",
		"-o", "json")
	require.NoError(t, err)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)

	assert.Equal(t, "write", reports[0]["operation"])
	assert.Equal(t, "verify", reports[1]["operation"])
	for _, r := range reports {
		assert.Equal(t, true, r["ok"])
		assert.Equal(t, float64(64), r["good"])
		assert.Equal(t, "memory", r["device"])
	}
}

func TestGenerateAndVerifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.dat")

	_, err := execute(t, "generate", path, "--count", "16", "-o", "json")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(16*512), info.Size())

	_, err = execute(t, "generate", path, "--count", "16", "-o", "json")
	assert.ErrorContains(t, err, "already exists")

	out, err := execute(t, "verify-file", path, "-o", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, true, report["ok"])
	assert.Equal(t, float64(16), report["blocks"])

	// Corrupt one word of block 3
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[3*512+100] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0644))

	out, err = execute(t, "verify-file", path, "-o", "json")
	assert.ErrorIs(t, err, ErrCheckFailed)

	report = nil
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, false, report["ok"])
	assert.Equal(t, float64(1), report["bad"])
}

func TestConfigSchema(t *testing.T) {
	out, err := execute(t, "config", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "helocheck Configuration", schema["title"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "device")
	assert.Contains(t, props, "scan")
}

func TestStatus(t *testing.T) {
	runner := scan.NewRunner(memory.New(), scan.Options{})
	_, err := runner.Write(context.Background(), scan.Plan{Count: 8})
	require.NoError(t, err)

	server := httptest.NewServer(api.NewRouter(memory.New(), runner, nil))
	defer server.Close()

	out, err := execute(t, "status", "--addr", server.URL, "-o", "json")
	require.NoError(t, err)

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Ready)
	require.NotNil(t, report.Progress)
	assert.Equal(t, uint64(8), report.Progress.Done)
	assert.Equal(t, scan.OpWrite, report.Progress.Operation)
}
