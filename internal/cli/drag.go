package cli

import (
	"dragsort-cli/internal/reorder"

	"github.com/spf13/cobra"
)

func newDragCmd(app *App) *cobra.Command {
	var (
		from         int
		startY       float64
		moves        []float64
		cancel       bool
		itemHeight   float64
		cancelPolicy string
	)

	cmd := &cobra.Command{
		Use:   "drag --from <index> --move <y>[,<y>...]",
		Short: "Run one drag gesture against the stored order",
		Long: `Run one drag gesture against the stored order without a terminal.

Coordinates are in rows from the top of the first item; row i spans
[i*h, (i+1)*h) where h is --item-height (default ui.item_height).
The gesture starts at --start-y (default: the center of --from), visits each
--move coordinate in turn, then drops (or cancels with --cancel).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("from") {
				return writeErr(cmd, errInvalidArg("from", "is required"))
			}
			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			l, err := resolveList(ctx, app, env.st)
			if err != nil {
				return writeErr(cmd, err)
			}
			gc, err := gestureSettings(env, itemHeight, cancelPolicy)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, err := newGestureRun(ctx, env.st, l, "cli", gc)
			if err != nil {
				return writeErr(cmd, err)
			}

			var y *float64
			if cmd.Flags().Changed("start-y") {
				y = &startY
			}
			if err := g.start(from, y); err != nil {
				return writeErr(cmd, err)
			}
			for _, m := range moves {
				if err := g.move(m); err != nil {
					return writeErr(cmd, err)
				}
			}
			finish := g.end
			if cancel {
				finish = g.cancel
			}
			if err := finish(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": g.commits[0],
				"meta": map[string]any{"order": g.order(), "pulses": g.pulses},
			})
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "Index of the item to pick up")
	cmd.Flags().Float64Var(&startY, "start-y", 0, "Press coordinate (default: center of the picked item)")
	cmd.Flags().Float64SliceVar(&moves, "move", nil, "Pointer coordinates to move through, in order")
	cmd.Flags().BoolVar(&cancel, "cancel", false, "Cancel instead of dropping")
	cmd.Flags().Float64Var(&itemHeight, "item-height", 0, "Row height (default: ui.item_height)")
	cmd.Flags().StringVar(&cancelPolicy, "cancel-policy", "", "commit|abort (default: ui.cancel_policy)")

	return cmd
}

// gestureSettings fills engine settings from flags, falling back to config.
func gestureSettings(env *appEnv, itemHeight float64, cancelPolicy string) (gestureConfig, error) {
	if itemHeight < 0 {
		return gestureConfig{}, errInvalidArg("item-height", "must be positive")
	}
	if itemHeight == 0 {
		itemHeight = float64(env.cfg.UI.ItemHeight)
	}
	if cancelPolicy == "" {
		cancelPolicy = env.cfg.UI.CancelPolicy
	}
	policy, err := reorder.ParseCancelPolicy(cancelPolicy)
	if err != nil {
		return gestureConfig{}, errInvalidArg("cancel-policy", err.Error())
	}
	return gestureConfig{itemHeight: itemHeight, cancelPolicy: policy, log: env.log}, nil
}
