package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"dragsort-cli/internal/config"
	"dragsort-cli/internal/format"
	"dragsort-cli/internal/logging"
	"dragsort-cli/internal/model"
	"dragsort-cli/internal/store"
	"dragsort-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	DBPath     string
	ConfigPath string
	ListID     string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "dragsort",
		Short:        "Ordered lists you rearrange by dragging (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  dragsort

  # Open a list directly (shortcut for: dragsort --list <list-id>)
  dragsort list-0123456789ab

  # Scriptable commands
  dragsort lists create Groceries --use
  dragsort items add Apples
  dragsort items move item-0123456789ab --to 0

  # Drag item 0 past two rows without a terminal
  dragsort drag --from 0 --move 5,8.5
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := format.ParseFormat(app.Format); err != nil {
			return writeErr(cmd, errInvalidArg("format", err.Error()))
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("DRAGSORT_DB", ""), "Path to the sqlite database (overrides database.path)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $DRAGSORT_CONFIG or ~/.config/dragsort/config.toml)")
	cmd.PersistentFlags().StringVar(&app.ListID, "list", envOr("DRAGSORT_LIST", ""), "List id (overrides the current list)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DRAGSORT_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newDragCmd(app))
	cmd.AddCommand(newReplayCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// appEnv is what a command needs once config is resolved: settings, a logger and
// an open store. Close releases both.
type appEnv struct {
	cfg config.Config
	log *zap.Logger
	st  *store.Store
}

func (e *appEnv) Close() error {
	_ = e.log.Sync()
	return e.st.Close()
}

func openEnv(ctx context.Context, app *App) (*appEnv, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if p := strings.TrimSpace(app.DBPath); p != "" {
		cfg.Database.Path = p
	}
	log, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Database.Path, store.WithLogger(log))
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &appEnv{cfg: cfg, log: log, st: st}, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	env, err := openEnv(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer env.Close()

	listID := strings.TrimSpace(app.ListID)
	if listID != "" {
		if _, err := findList(cmd.Context(), env.st, listID); err != nil {
			return writeErr(cmd, err)
		}
	}
	return tui.Run(cmd.Context(), tui.Options{
		Store:  env.st,
		UI:     env.cfg.UI,
		Logger: env.log,
		ListID: listID,
		Bell:   os.Stderr,
	})
}

// resolveList picks --list, then the stored current list.
func resolveList(ctx context.Context, app *App, st *store.Store) (model.List, error) {
	id := strings.TrimSpace(app.ListID)
	if id == "" {
		cur, err := st.CurrentListID(ctx)
		if err != nil {
			return model.List{}, err
		}
		id = cur
	}
	if id == "" {
		return model.List{}, errInvalidArg("list", "no list selected; pass --list or run `dragsort lists use <list-id>`")
	}
	return findList(ctx, st, id)
}

func findList(ctx context.Context, st *store.Store, id string) (model.List, error) {
	l, err := st.FindList(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.List{}, errNotFound("list", id)
	}
	return l, err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
