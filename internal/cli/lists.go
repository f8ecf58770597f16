package cli

import (
	"strings"

	"dragsort-cli/internal/model"

	"github.com/spf13/cobra"
)

type listRow struct {
	model.List
	Items   int  `json:"items"`
	Current bool `json:"current"`
}

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "Manage lists",
	}

	var use bool
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return writeErr(cmd, errInvalidArg("name", "must not be empty"))
			}
			l, err := env.st.CreateList(ctx, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				if err := env.st.SetCurrentListID(ctx, l.ID); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}
	createCmd.Flags().BoolVar(&use, "use", false, "Make the new list current")

	var all bool
	lsCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List lists (oldest first)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			lists, err := env.st.Lists(ctx, all)
			if err != nil {
				return writeErr(cmd, err)
			}
			cur, err := env.st.CurrentListID(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := make([]listRow, 0, len(lists))
			for _, l := range lists {
				items, err := env.st.Items(ctx, l.ID)
				if err != nil {
					return writeErr(cmd, err)
				}
				rows = append(rows, listRow{List: l, Items: len(items), Current: l.ID == cur})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
	lsCmd.Flags().BoolVar(&all, "all", false, "Include archived lists")

	useCmd := &cobra.Command{
		Use:   "use <list-id>",
		Short: "Set the current list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			l, err := findList(ctx, env.st, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := env.st.SetCurrentListID(ctx, l.ID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	var undo bool
	archiveCmd := &cobra.Command{
		Use:   "archive <list-id>",
		Short: "Archive (or with --undo, restore) a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			l, err := findList(ctx, env.st, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := env.st.ArchiveList(ctx, l.ID, !undo); err != nil {
				return writeErr(cmd, err)
			}
			l.Archived = !undo
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}
	archiveCmd.Flags().BoolVar(&undo, "undo", false, "Restore an archived list")

	cmd.AddCommand(createCmd, lsCmd, useCmd, archiveCmd)
	return cmd
}
