package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/leapstack-labs/leaplook/internal/cli/config"
	"github.com/leapstack-labs/leaplook/internal/cli/output"
	"github.com/leapstack-labs/leaplook/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfgFile = ""

	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRoot_Help(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"generate", "list", "adapters", "version", "completion"} {
		assert.Contains(t, stdout, sub)
	}
}

func TestRoot_Version(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "leaplook "+Version)
}

func TestRoot_Completion(t *testing.T) {
	stdout, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "leaplook")

	_, _, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestRoot_GenerateWithFlags(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: markdown\n")
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, stderr, err := execute(t,
		"generate",
		"--config", filepath.Join(dir, "leaplook.yaml"),
		"--output-dir", outDir,
		"--connection", "warehouse",
		"-o", "json",
		"-v",
	)
	require.NoError(t, err)

	var got output.GenerateOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, outDir, got.OutputDir)
	assert.FileExists(t, filepath.Join(outDir, "views", "orders.view.lkml"))
	assert.FileExists(t, filepath.Join(outDir, "orders.model.lkml"))

	// -v routes debug records to stderr
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestRoot_LogFile(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: json\n")
	logFile := filepath.Join(t.TempDir(), "leaplook.log")

	_, stderr, err := execute(t, "list",
		"--config", filepath.Join(dir, "leaplook.yaml"),
		"--log-file", logFile,
		"--log-level", "debug",
	)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "level=DEBUG")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=DEBUG")
}

func TestRoot_InvalidConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: html\n")

	_, _, err := execute(t, "list", "--config", filepath.Join(dir, "leaplook.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestGetConfigAndRenderer_Defaults(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.DefaultOutput, cfg.OutputFormat)
	assert.NotNil(t, GetRenderer(context.Background()))
}
