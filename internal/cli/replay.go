package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// replayScript is the YAML gesture script read by `dragsort replay`.
type replayScript struct {
	List         string       `yaml:"list"`
	ItemHeight   float64      `yaml:"item_height"`
	CancelPolicy string       `yaml:"cancel_policy"`
	Steps        []replayStep `yaml:"steps"`
}

// replayStep sets exactly one of Start, Move, End, Click or Cancel. Y only goes
// with Start.
type replayStep struct {
	Start  *int     `yaml:"start"`
	Y      *float64 `yaml:"y"`
	Move   *float64 `yaml:"move"`
	End    bool     `yaml:"end"`
	Click  bool     `yaml:"click"`
	Cancel bool     `yaml:"cancel"`
}

func (s replayStep) op() (string, error) {
	var ops []string
	if s.Start != nil {
		ops = append(ops, "start")
	}
	if s.Move != nil {
		ops = append(ops, "move")
	}
	if s.End {
		ops = append(ops, "end")
	}
	if s.Click {
		ops = append(ops, "click")
	}
	if s.Cancel {
		ops = append(ops, "cancel")
	}
	switch {
	case len(ops) == 0:
		return "", errors.New("step has no gesture")
	case len(ops) > 1:
		return "", fmt.Errorf("step sets %s; want exactly one", strings.Join(ops, "+"))
	case s.Y != nil && ops[0] != "start":
		return "", errors.New("y only applies to start")
	}
	return ops[0], nil
}

func parseReplayScript(r io.Reader) (replayScript, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var sc replayScript
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return replayScript{}, errors.New("empty script")
		}
		return replayScript{}, err
	}
	if len(sc.Steps) == 0 {
		return replayScript{}, errors.New("script has no steps")
	}
	for i, st := range sc.Steps {
		if _, err := st.op(); err != nil {
			return replayScript{}, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return sc, nil
}

func (g *gestureRun) runStep(st replayStep) error {
	op, err := st.op()
	if err != nil {
		return err
	}
	switch op {
	case "start":
		return g.start(*st.Start, st.Y)
	case "move":
		return g.move(*st.Move)
	case "end":
		return g.end()
	case "click":
		return g.click()
	default:
		return g.cancel()
	}
}

func newReplayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script.yaml|->",
		Short: "Replay a YAML gesture script against the stored order",
		Long:  "Replay a YAML gesture script against the stored order. See `dragsort docs replay` for the format.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := parseReplayScript(bytes.NewReader(raw))
			if err != nil {
				return writeErr(cmd, errInvalidArg("script", err.Error()))
			}

			env, err := openEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer env.Close()

			if strings.TrimSpace(sc.List) != "" {
				app.ListID = sc.List
			}
			l, err := resolveList(ctx, app, env.st)
			if err != nil {
				return writeErr(cmd, err)
			}
			gc, err := gestureSettings(env, sc.ItemHeight, sc.CancelPolicy)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, err := newGestureRun(ctx, env.st, l, "replay", gc)
			if err != nil {
				return writeErr(cmd, err)
			}
			for i, st := range sc.Steps {
				if err := g.runStep(st); err != nil {
					return writeErr(cmd, fmt.Errorf("step %d: %w", i+1, err))
				}
			}
			if key, ok := g.engine.DraggedKey(); ok {
				// An unfinished gesture is dropped like a lost pointer.
				env.log.Debug("replay ended mid-drag; cancelling", zap.String("item", key))
				if err := g.cancel(); err != nil {
					return writeErr(cmd, err)
				}
			}
			commits := g.commits
			if commits == nil {
				commits = []commitOut{}
			}
			return writeOut(cmd, app, map[string]any{
				"data": commits,
				"meta": map[string]any{"list": l, "order": g.order(), "pulses": g.pulses},
			})
		},
	}
	return cmd
}
