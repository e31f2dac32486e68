package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vladlyt/mj/internal/output"
)

func NewGetConfigCmd(deps *Dependencies) *cobra.Command {
	var (
		pretty   bool
		showPath bool
	)

	cmd := &cobra.Command{
		Use:   "get-config",
		Short: "Print the config document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPath {
				output.NewFormatter(cmd.OutOrStdout()).Plain(deps.App.ConfigPath())
				return nil
			}

			doc := deps.App.Aliases.RawConfig()

			var (
				data []byte
				err  error
			)
			if pretty {
				data, err = yaml.Marshal(doc)
			} else {
				data, err = json.Marshal(doc)
			}
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}

			output.NewFormatter(cmd.OutOrStdout()).Plain(string(data))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Print as YAML")
	cmd.Flags().BoolVar(&showPath, "path", false, "Print where the config is stored")

	return cmd
}

func NewSetConfigCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "set-config PATH",
		Short: "Replace the config with a JSON, YAML or TOML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.App.Aliases.ImportConfig(args[0]); err != nil {
				return fmt.Errorf("importing config: %w", err)
			}
			output.NewFormatter(cmd.OutOrStdout()).Success("Successfully updated config")
			return nil
		},
	}
}

func NewSetNameCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "set-name NAME",
		Short: "Set the name displayed by default in rooms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.App.Aliases.SetDefaultName(args[0]); err != nil {
				return fmt.Errorf("saving name: %w", err)
			}
			output.NewFormatter(cmd.OutOrStdout()).Success("Successfully set name")
			return nil
		},
	}
}
