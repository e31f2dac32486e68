package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladlyt/mj/internal/output"
)

func NewExportCmd(deps *Dependencies) *cobra.Command {
	var (
		path   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "export ROOM",
		Short: "Print who attended a room and for how long",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := deps.App.Export.Export(cmd.Context(), args[0], path)
			if err != nil {
				return fmt.Errorf("exporting room: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			formatter := output.NewFormatter(cmd.OutOrStdout())
			formatter.Report(args[0], report)
			if path != "" && report.Available {
				formatter.Success(fmt.Sprintf("CSV saved: %s", path))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Also write the report as CSV to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}
