package cli

import (
	"dragsort-cli/internal/model"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show committed reorders of the current list (newest first)",
		Args:  cobra.NoArgs,
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
			evs, err := env.st.ReorderEvents(ctx, l.ID, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if evs == nil {
				evs = []model.ReorderEvent{}
			}
			return writeOut(cmd, app, map[string]any{"data": evs, "meta": map[string]any{"list": l}})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Max events to return (0 = all)")

	return cmd
}
