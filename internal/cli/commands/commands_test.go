package commands

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
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run loads leaplook.yaml from dir and executes cmd with args.
func run(t *testing.T, dir string, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	_, err := config.LoadConfig(filepath.Join(dir, config.DefaultConfigFile), nil)
	require.NoError(t, err)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	assert.Equal(t, "generate", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)
	assert.Equal(t, []string{"gen"}, cmd.Aliases)
	for _, flag := range []string{"watch", "dry-run"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestGenerate_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: json\n")

	stdout, _, err := run(t, dir, NewGenerateCommand())
	require.NoError(t, err)

	var got output.GenerateOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "bigquery", got.AdapterType)
	assert.Equal(t, "shop", got.Project)
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, []string{"orders.view.lkml"}, got.Views)
	assert.Equal(t, []string{"orders.model.lkml", "sales.model.lkml"}, got.Models)
	assert.Equal(t, []string{"customers"}, got.Skipped)
	assert.Equal(t, 2, got.Summary.Models)
	assert.Equal(t, 1, got.Summary.Exposures)

	view, err := os.ReadFile(filepath.Join(dir, "lookml", "views", "orders.view.lkml"))
	require.NoError(t, err)
	assert.Contains(t, string(view), "view: orders {")
	assert.FileExists(t, filepath.Join(dir, "lookml", "sales.model.lkml"))
}

func TestGenerate_DryRunMarkdown(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: markdown\n")

	stdout, _, err := run(t, dir, NewGenerateCommand(), "--dry-run")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, stdout)
	assert.Contains(t, stdout, "# Compiled LookML (dry run)")
	assert.Contains(t, stdout, "- ✓ "+filepath.Join("views", "orders.view.lkml"))
	assert.Contains(t, stdout, "- - customers (not in catalog)")
	assert.NoDirExists(t, filepath.Join(dir, "lookml"))
}

func TestGenerate_MissingArtifacts(t *testing.T) {
	dir := testutil.SetupTestProject(t, "target_dir: missing\n")

	_, _, err := run(t, dir, NewGenerateCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest not found")
}

func TestList_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: json\n")

	stdout, _, err := run(t, dir, NewListCommand())
	require.NoError(t, err)

	var got output.ListOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "shop", got.Project)
	require.Len(t, got.Models, 1)
	assert.Equal(t, "orders", got.Models[0].Name)
	assert.Equal(t, 2, got.Models[0].Columns)
	assert.Equal(t, "id", got.Models[0].PrimaryKey)
	require.Len(t, got.Exposures, 1)
	assert.Equal(t, "ref('orders')", got.Exposures[0].MainModel)
	assert.True(t, got.Exposures[0].HasExplore)
	assert.Equal(t, []string{"customers"}, got.Skipped)
}

func TestList_Markdown(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: markdown\n")

	stdout, stderr, err := run(t, dir, NewListCommand())
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Models (1 total)")
	assert.Contains(t, stdout, "| orders |")
	assert.Contains(t, stdout, "## Exposures (1 total)")
	assert.Contains(t, stderr, "customers")
}

func TestAdapters(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: json\n")

	stdout, _, err := run(t, dir, NewAdaptersCommand())
	require.NoError(t, err)

	var infos []output.AdapterInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
		if info.Name == "redshift" {
			assert.True(t, info.Introspects)
		}
		if info.Name == "bigquery" {
			assert.False(t, info.Introspects)
		}
	}
	assert.Equal(t, []string{"bigquery", "postgres", "redshift", "snowflake", "spark"}, names)
}

func TestAdapters_Show(t *testing.T) {
	dir := testutil.SetupTestProject(t, "output: markdown\n")

	stdout, _, err := run(t, dir, NewAdaptersCommand(), "bigquery")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# bigquery type mapping")
	assert.Contains(t, stdout, "| INT64 | number |")

	_, _, err = run(t, dir, NewAdaptersCommand(), "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}
