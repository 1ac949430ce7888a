package commands

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/leaplook/internal/cli/output"
	"github.com/leapstack-labs/leaplook/pkg/adapter"
	"github.com/leapstack-labs/leaplook/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewAdaptersCommand creates the adapters command.
func NewAdaptersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adapters [adapter]",
		Short: "List supported warehouse adapters and their type mappings",
		Long: `Without arguments, list every dbt adapter type leaplook can compile for
and whether it supports live catalog introspection.

With an adapter name, print how each native column type maps to a Looker type.`,
		Example: `  leaplook adapters
  leaplook adapters snowflake --output json`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return dialect.List(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContextWithoutEngine(cmd).Renderer
			if len(args) == 1 {
				return showAdapter(r, args[0])
			}
			return listAdapters(r)
		},
	}
	return cmd
}

func listAdapters(r *output.Renderer) error {
	var infos []output.AdapterInfo
	for _, name := range dialect.List() {
		d, _ := dialect.Get(name)
		infos = append(infos, output.AdapterInfo{
			Name:        name,
			Types:       len(d.Types),
			Introspects: adapter.IsRegistered(name),
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	r.Header(1, "Adapters")
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		live := "no"
		if info.Introspects {
			live = "yes"
		}
		rows = append(rows, []string{info.Name, fmt.Sprint(info.Types), live})
	}
	r.Table([]string{"Adapter", "Mapped Types", "Live Catalog"}, rows)
	return nil
}

func showAdapter(r *output.Renderer, name string) error {
	d, err := dialect.Require(name)
	if err != nil {
		return err
	}

	natives := make([]string, 0, len(d.Types))
	for native := range d.Types {
		natives = append(natives, native)
	}
	slices.Sort(natives)

	if r.EffectiveMode() == output.ModeJSON {
		mapping := make(map[string]string, len(d.Types))
		for native, looker := range d.Types {
			mapping[native] = string(looker)
		}
		return r.JSON(map[string]any{"name": d.Name, "types": mapping})
	}

	r.Header(1, fmt.Sprintf("%s type mapping", d.Name))
	rows := make([][]string, 0, len(natives))
	for _, native := range natives {
		rows = append(rows, []string{native, string(d.Types[native])})
	}
	r.Table([]string{"Native Type", "Looker Type"}, rows)
	return nil
}
