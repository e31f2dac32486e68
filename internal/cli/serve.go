package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladlyt/mj/internal/output"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the room redirect server",
		Long: "Serve GET /r/{token} redirects to the room a link, UUID or alias names. " +
			"Aliases are re-read from the config periodically and on POST /reload.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.NewFormatter(cmd.OutOrStdout()).
				Info(fmt.Sprintf("Serving room redirects on %s", deps.Config.ListenPort))
			return deps.App.Serve(cmd.Context())
		},
	}

	// Bound to the shared config so App.Serve listens where the flag says.
	cmd.Flags().StringVar(&deps.Config.ListenPort, "listen", deps.Config.ListenPort, "Address to listen on, ex: :8080")

	return cmd
}

func NewStatsCmd(deps *Dependencies) *cobra.Command {
	var reset string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print redirect counters recorded by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(cmd.OutOrStdout())

			store, closeFn, err := deps.App.UsageStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if reset != "" {
				if err := store.ResetUsage(cmd.Context(), reset); err != nil {
					return err
				}
				formatter.Success(fmt.Sprintf("Counter of %s reset", reset))
				return nil
			}

			stats, err := store.GetUsageStats(cmd.Context())
			if err != nil {
				return err
			}
			formatter.Stats(stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&reset, "reset", "", "Reset the counter of this token")

	return cmd
}
