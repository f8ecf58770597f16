package cli

import (
	"strings"

	"dragsort-cli/internal/model"

	"github.com/spf13/cobra"
)

type itemRow struct {
	Index int `json:"index"`
	model.Item
}

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Edit the items of the current list",
	}

	var note string
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Append an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			l, err := resolveList(ctx, app, env.st)
			if err != nil {
				return writeErr(cmd, err)
			}
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return writeErr(cmd, errInvalidArg("title", "must not be empty"))
			}
			it, err := env.st.AddItem(ctx, l.ID, title, note)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
	addCmd.Flags().StringVar(&note, "note", "", "Markdown note shown under the title")

	var pending bool
	lsCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items in order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			l, err := resolveList(ctx, app, env.st)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := env.st.Items(ctx, l.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := make([]itemRow, 0, len(items))
			for i, it := range items {
				if pending && it.Done {
					continue
				}
				rows = append(rows, itemRow{Index: i, Item: it})
			}
			return writeOut(cmd, app, map[string]any{
				"data": rows,
				"meta": map[string]any{"list": l},
			})
		},
	}
	lsCmd.Flags().BoolVar(&pending, "pending", false, "Hide done items (indexes stay those of the full list)")

	rmCmd := &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			if err := env.st.RemoveItem(ctx, args[0]); err != nil {
				return writeErr(cmd, itemErr(err, args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "removed": true}})
		},
	}

	var undo bool
	doneCmd := &cobra.Command{
		Use:   "done <item-id>",
		Short: "Mark an item done (or with --undo, not done)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			it, err := env.st.SetDone(ctx, args[0], !undo)
			if err != nil {
				return writeErr(cmd, itemErr(err, args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
	doneCmd.Flags().BoolVar(&undo, "undo", false, "Clear the done flag")

	var to int
	moveCmd := &cobra.Command{
		Use:   "move <item-id> --to <index>",
		Short: "Move an item to a 0-based index (clamped to the list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("to") {
				return writeErr(cmd, errInvalidArg("to", "is required"))
			}
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			ev, changed, err := env.st.MoveItem(ctx, args[0], to, "cli")
			if err != nil {
				return writeErr(cmd, itemErr(err, args[0]))
			}
			var evOut any
			if changed {
				evOut = ev
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"changed": changed, "event": evOut}})
		},
	}
	moveCmd.Flags().IntVar(&to, "to", 0, "Target index")

	cmd.AddCommand(addCmd, lsCmd, rmCmd, doneCmd, moveCmd)
	return cmd
}
