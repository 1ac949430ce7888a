// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/leaplook/internal/cli/output"
)

// Manifest is a small dbt manifest: two bigquery models and one exposure.
// Only orders appears in Catalog, so customers is skipped.
const Manifest = `{
  "metadata": {"adapter_type": "bigquery", "project_name": "shop"},
  "nodes": {
    "model.shop.orders": {
      "unique_id": "model.shop.orders", "resource_type": "model", "name": "orders",
      "database": "proj", "schema": "shop", "relation_name": "proj.shop.orders",
      "description": "Orders", "tags": ["looker"], "config": {"materialized": "table"},
      "meta": {"primary_key": "id"},
      "columns": {
        "id": {"name": "id", "description": "Order id", "meta": {}},
        "amount": {"name": "amount", "description": "", "meta": {"measures": {"total_amount": {"type": "sum"}}}}
      }
    },
    "model.shop.customers": {
      "unique_id": "model.shop.customers", "resource_type": "model", "name": "customers",
      "database": "proj", "schema": "shop", "relation_name": "proj.shop.customers",
      "description": "Customers", "tags": ["looker"], "config": {"materialized": "table"},
      "columns": {"id": {"name": "id", "description": "", "meta": {}}}
    }
  },
  "exposures": {
    "exposure.shop.sales": {
      "unique_id": "exposure.shop.sales", "name": "sales", "description": "Sales", "tags": ["looker"],
      "meta": {"looker": {"main_model": "ref('orders')"}}
    }
  }
}`

// Catalog is the catalog.json matching Manifest.
const Catalog = `{"nodes": {
  "model.shop.orders": {"unique_id": "model.shop.orders", "columns": {
    "id": {"name": "id", "type": "INT64"},
    "amount": {"name": "amount", "type": "NUMERIC"}
  }}
}}`

// SetupTestProject creates a temporary dbt project with compiled artifacts
// and a leaplook.yaml holding config.
func SetupTestProject(t *testing.T, config string) string {
	t.Helper()

	dir := t.TempDir()
	targetDir := filepath.Join(dir, "target")
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		t.Fatalf("failed to create target directory: %v", err)
	}

	files := map[string]string{
		filepath.Join(dir, "dbt_project.yml"):     "name: shop\nprofile: shop\n",
		filepath.Join(dir, "leaplook.yaml"):       config,
		filepath.Join(targetDir, "manifest.json"): Manifest,
		filepath.Join(targetDir, "catalog.json"):  Catalog,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return dir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
