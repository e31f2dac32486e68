package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vladlyt/mj/internal/domain"
	"github.com/vladlyt/mj/internal/output"
)

// maxSuggestions bounds the "did you mean" list for unknown tokens.
const maxSuggestions = 3

func NewCreateCmd(deps *Dependencies) *cobra.Command {
	var (
		connect bool
		name    string
		alias   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(cmd.OutOrStdout())

			roomURL := deps.App.Resolver.CreateRoom(name)
			formatter.Link(roomURL)

			if alias != "" {
				roomID := deps.App.Resolver.ExtractRoomID(roomURL)
				if err := deps.App.Aliases.Create(roomID, alias); err != nil {
					return fmt.Errorf("saving alias: %w", err)
				}
				formatter.AliasSaved(alias)
			}

			if connect {
				formatter.Info("Opening in browser...")
				return deps.App.Browser.Open(roomURL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&connect, "connect", "c", false, "Instantly connect to the room")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name displayed in the room")
	cmd.Flags().StringVarP(&alias, "alias", "a", "", "Save the room under this alias")

	return cmd
}

func NewConnectCmd(deps *Dependencies) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "connect ROOM",
		Short: "Open a room (link, UUID or alias) in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(cmd.OutOrStdout())

			warnUnknownToken(cmd, deps, args[0])
			roomURL := deps.App.Resolver.BuildURL(args[0], name)
			formatter.Connecting(roomURL)
			return deps.App.Browser.Open(roomURL)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name displayed in the room")

	return cmd
}

func NewGetCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "get ROOM",
		Short: "Print the link of a room (link, UUID or alias)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			warnUnknownToken(cmd, deps, args[0])
			output.NewFormatter(cmd.OutOrStdout()).Plain(deps.App.Resolver.BuildURL(args[0], ""))
			return nil
		},
	}
}

// warnUnknownToken points at close aliases when token is used as a literal
// room id. The room is still opened as asked.
func warnUnknownToken(cmd *cobra.Command, deps *Dependencies, token string) {
	if deps.App.Resolver.Classify(token).Kind != domain.KindOpaque {
		return
	}
	suggestions := domain.SuggestAliases(token, deps.App.Aliases.List(), maxSuggestions)
	if len(suggestions) == 0 {
		return
	}

	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = s.Alias.Name
	}
	output.NewFormatter(cmd.ErrOrStderr()).
		Warning(fmt.Sprintf("No alias named %s, did you mean: %s?", token, strings.Join(names, ", ")))
}
