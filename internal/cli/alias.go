package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladlyt/mj/internal/domain"
	"github.com/vladlyt/mj/internal/output"
)

func NewAliasCmd(deps *Dependencies) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "alias ROOM ALIAS",
		Short: "Save a room (link or UUID) under an alias",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			room, alias := args[0], args[1]
			roomID := deps.App.Resolver.RoomID(room)

			create := deps.App.Aliases.Create
			if strict {
				create = deps.App.Aliases.CreateStrict
			}
			if err := create(roomID, alias); err != nil {
				if errors.Is(err, domain.ErrAliasExists) {
					return fmt.Errorf("alias %q already exists, remove it first or drop --strict", alias)
				}
				return fmt.Errorf("saving alias: %w", err)
			}

			output.NewFormatter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("Created a room %s with alias: %s", room, alias))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of overwriting an existing alias")

	return cmd
}

func NewRemoveCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ALIAS",
		Short: "Remove an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(cmd.OutOrStdout())

			removed, err := deps.App.Aliases.Remove(args[0])
			if err != nil {
				return fmt.Errorf("removing alias: %w", err)
			}
			if !removed {
				formatter.Warning(fmt.Sprintf("Room alias %s does not exist", args[0]))
				return nil
			}
			formatter.Success(fmt.Sprintf("Room alias %s is removed", args[0]))
			return nil
		},
	}
}

func NewRenameCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename an alias",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.NewFormatter(cmd.OutOrStdout())
			oldAlias, newAlias := args[0], args[1]

			renamed, err := deps.App.Aliases.Rename(oldAlias, newAlias)
			if err != nil {
				return fmt.Errorf("renaming alias: %w", err)
			}
			if !renamed {
				formatter.Warning(fmt.Sprintf("Room alias %s does not exist", oldAlias))
				return nil
			}
			formatter.Success(fmt.Sprintf("Room alias %s is renamed to %s", oldAlias, newAlias))
			return nil
		},
	}
}

func NewAliasesCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List every alias with its link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			aliases := deps.App.Aliases.List()
			entries := make([]output.AliasEntry, 0, len(aliases))
			for _, a := range aliases {
				entries = append(entries, output.AliasEntry{
					Alias: a.Name,
					URL:   deps.App.Resolver.BuildURL(a.RoomID, ""),
				})
			}
			output.NewFormatter(cmd.OutOrStdout()).AliasList(entries)
			return nil
		},
	}
}
