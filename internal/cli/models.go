package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"batchlens/internal/registry"
)

// NewModelsCommand creates the models command.
func NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the known record models",
		Long:  `Print every registered model profile with its required fields and dependencies.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Model", "Category", "Required Fields", "Depends On"})
			for _, p := range registry.Builtin().All() {
				var required []string
				for _, f := range p.Fields {
					if f.Required {
						required = append(required, f.CanonicalName)
					}
				}
				t.AppendRow(table.Row{
					p.Name,
					p.Category,
					strings.Join(required, ", "),
					joinOrDash(p.DependsOn),
				})
			}
			t.Render()
			return nil
		},
	}
}
