package cli

import (
	"github.com/spf13/cobra"

	"github.com/vladlyt/mj/internal/output"
	"github.com/vladlyt/mj/internal/version"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.NewFormatter(cmd.OutOrStdout()).Plain(version.Full())
			return nil
		},
	}
}
