package loader

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/leapstack-labs/leaplook/pkg/core"
)

// CatalogFile is the catalog file name inside the target directory.
const CatalogFile = "catalog.json"

type rawCatalog struct {
	Nodes map[string]struct {
		UniqueID string `json:"unique_id"`
		Columns  map[string]struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"columns"`
	} `json:"nodes"`
}

// LoadCatalog reads the catalog at path.
func LoadCatalog(path string) (map[string]core.CatalogNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ParseError{File: path, Message: "catalog not found, run dbt docs generate or use --target-dir"}
		}
		return nil, &ParseError{File: path, Message: "reading catalog", Err: err}
	}
	nodes, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}

// ParseCatalog decodes catalog JSON into nodes keyed by unique id.
// Column names are lower-cased.
func ParseCatalog(data []byte) (map[string]core.CatalogNode, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Message: "invalid catalog JSON", Err: err}
	}

	nodes := make(map[string]core.CatalogNode, len(raw.Nodes))
	for id, n := range raw.Nodes {
		if n.UniqueID != "" {
			id = n.UniqueID
		}
		cols := make(map[string]string, len(n.Columns))
		for key, c := range n.Columns {
			name := c.Name
			if name == "" {
				name = key
			}
			cols[strings.ToLower(name)] = c.Type
		}
		nodes[id] = core.CatalogNode{UniqueID: id, Columns: cols}
	}
	return nodes, nil
}
