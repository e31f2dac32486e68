package cli

import (
	"github.com/spf13/cobra"

	"github.com/vladlyt/mj/internal/app"
	"github.com/vladlyt/mj/internal/config"
	"github.com/vladlyt/mj/internal/version"
)

type Dependencies struct {
	App    *app.App
	Config *config.Config
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mj",
		Short: "Create, name and join video-conferencing rooms",
		Long: "mj creates rooms on the room service, keeps short aliases for them, " +
			"opens them in the browser and exports attendance reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewCreateCmd(deps))
	rootCmd.AddCommand(NewConnectCmd(deps))
	rootCmd.AddCommand(NewAliasCmd(deps))
	rootCmd.AddCommand(NewGetCmd(deps))
	rootCmd.AddCommand(NewRemoveCmd(deps))
	rootCmd.AddCommand(NewRenameCmd(deps))
	rootCmd.AddCommand(NewAliasesCmd(deps))
	rootCmd.AddCommand(NewGetConfigCmd(deps))
	rootCmd.AddCommand(NewSetConfigCmd(deps))
	rootCmd.AddCommand(NewSetNameCmd(deps))
	rootCmd.AddCommand(NewExportCmd(deps))
	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewStatsCmd(deps))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
