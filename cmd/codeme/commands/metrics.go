package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/scoring"
)

func metricsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "List the profile metrics and what they measure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			desc := scoring.NewRegistry().Describe()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				if err := enc.Encode(desc); err != nil {
					return fmt.Errorf("encode metrics: %w", err)
				}

				return nil
			}

			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Name", "Display name", "Type", "Description"})

			for _, d := range desc {
				tbl.AppendRow(table.Row{d.Name, d.DisplayName, d.Type, d.Description})
			}

			tbl.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print descriptors as JSON")

	return cmd
}
