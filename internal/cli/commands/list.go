package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaplook/internal/cli/output"
	"github.com/leapstack-labs/leaplook/internal/engine"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the models and exposures that would be compiled",
		Long: `List the dbt models and exposures selected for LookML generation,
after the tag filter and catalog reconciliation.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List everything tagged for Looker
  leaplook list --tag looker

  # List as JSON
  leaplook list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cctx := NewCommandContext(cmd)

	if _, err := cctx.Engine.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load dbt artifacts: %w", err)
	}

	list := buildList(cctx.Engine)
	r := cctx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(list)
	}
	renderList(r, list)
	return nil
}

func buildList(eng *engine.Engine) output.ListOutput {
	list := output.ListOutput{
		Models:    []output.ModelInfo{},
		Exposures: []output.ExposureInfo{},
		Skipped:   eng.Skipped(),
	}
	if p := eng.Project(); p != nil {
		list.Project = p.Name
	}

	for _, m := range eng.Registry().AllModels() {
		list.Models = append(list.Models, output.ModelInfo{
			Name:       m.Name,
			UniqueID:   m.UniqueID,
			Relation:   m.RelationName,
			Columns:    len(m.Columns),
			Joins:      len(m.Meta.Joins),
			PrimaryKey: m.Meta.PrimaryKey,
		})
	}

	for _, x := range eng.Exposures() {
		info := output.ExposureInfo{
			Name:       x.Name,
			UniqueID:   x.UniqueID,
			HasExplore: x.Explore != nil,
		}
		if x.Explore != nil {
			info.MainModel = x.Explore.MainModel
			info.Joins = len(x.Explore.Joins)
		}
		list.Exposures = append(list.Exposures, info)
	}
	return list
}

func renderList(r *output.Renderer, list output.ListOutput) {
	r.Header(1, fmt.Sprintf("Models (%d total)", len(list.Models)))
	rows := make([][]string, 0, len(list.Models))
	for _, m := range list.Models {
		rows = append(rows, []string{m.Name, m.Relation, strconv.Itoa(m.Columns), strconv.Itoa(m.Joins), m.PrimaryKey})
	}
	r.Table([]string{"Name", "Relation", "Columns", "Joins", "Primary Key"}, rows)
	r.Println("")

	if len(list.Exposures) > 0 {
		r.Header(2, fmt.Sprintf("Exposures (%d total)", len(list.Exposures)))
		rows = rows[:0]
		for _, x := range list.Exposures {
			explore := "no"
			if x.HasExplore {
				explore = "yes"
			}
			rows = append(rows, []string{x.Name, x.MainModel, strconv.Itoa(x.Joins), explore})
		}
		r.Table([]string{"Name", "Main Model", "Joins", "Explore"}, rows)
		r.Println("")
	}

	if len(list.Skipped) > 0 {
		r.Warning(fmt.Sprintf("skipped (not in catalog): %s", strings.Join(list.Skipped, ", ")))
	}
}
