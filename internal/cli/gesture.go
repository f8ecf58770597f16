package cli

import (
	"context"
	"fmt"

	"dragsort-cli/internal/model"
	"dragsort-cli/internal/reorder"
	"dragsort-cli/internal/store"

	"go.uber.org/zap"
)

// commitOut is one finished gesture as reported by drag and replay.
type commitOut struct {
	Item    string              `json:"item"`
	From    int                 `json:"from"`
	To      int                 `json:"to"`
	Changed bool                `json:"changed"`
	Event   *model.ReorderEvent `json:"event,omitempty"`
}

// gestureRun drives an engine over a list's stored items without a terminal.
// There is no Measurer, so row i spans [i*itemHeight, (i+1)*itemHeight).
// Every committed order is written through store.ApplyOrder.
type gestureRun struct {
	ctx    context.Context
	st     *store.Store
	list   model.List
	source string
	engine *reorder.Engine[model.Item]

	pulses  int
	commits []commitOut
}

type gestureConfig struct {
	itemHeight   float64
	cancelPolicy reorder.CancelPolicy
	log          *zap.Logger
}

func newGestureRun(ctx context.Context, st *store.Store, l model.List, source string, c gestureConfig) (*gestureRun, error) {
	items, err := st.Items(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	g := &gestureRun{ctx: ctx, st: st, list: l, source: source}
	g.engine = reorder.New(reorder.Options[model.Item]{
		Data:            items,
		Key:             model.ItemKey,
		ItemHeight:      c.itemHeight,
		CancelPolicy:    c.cancelPolicy,
		VibrateOnChange: true,
		Haptics: reorder.HapticsFunc(func() error {
			g.pulses++
			return nil
		}),
		Logger: c.log,
	})
	// No frames are painted, so the first capture can run right away.
	g.engine.Settle(g.engine.Pending().Gen)
	return g, nil
}

func (g *gestureRun) start(index int, y *float64) error {
	at := reorder.NoCoord
	if y != nil {
		at = reorder.At(*y)
	}
	if err := g.engine.Start(index, at); err != nil {
		return errInvalidArg("start", err.Error())
	}
	return nil
}

func (g *gestureRun) move(y float64) error {
	if g.engine.State() != reorder.Dragging {
		return errInvalidArg("move", "no drag in progress")
	}
	g.engine.Move(y)
	return nil
}

func (g *gestureRun) end() error    { return g.finish("end", g.engine.End) }
func (g *gestureRun) click() error  { return g.finish("click", g.engine.Click) }
func (g *gestureRun) cancel() error { return g.finish("cancel", g.engine.Cancel) }

func (g *gestureRun) finish(op string, fn func() reorder.CommitResult[model.Item]) error {
	key, ok := g.engine.DraggedKey()
	if !ok {
		return errInvalidArg(op, "no drag in progress")
	}
	res := fn()
	out := commitOut{Item: key, From: res.From, To: res.To, Changed: res.Changed}
	if res.Changed {
		ids := make([]string, len(res.Order))
		for i, it := range res.Order {
			ids[i] = it.ID
		}
		ev, changed, err := g.st.ApplyOrder(g.ctx, g.list.ID, ids, g.source)
		if err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
		if changed {
			out.Event = &ev
		}
		// ApplyOrder may re-rank the moved item, so the snapshot takes the stored rows.
		stored, err := g.st.Items(g.ctx, g.list.ID)
		if err != nil {
			return fmt.Errorf("reload %s: %w", g.list.ID, err)
		}
		res.Settle = g.engine.SetData(stored)
	}
	if res.Settle.Gen != 0 {
		g.engine.Settle(res.Settle.Gen)
	}
	g.commits = append(g.commits, out)
	return nil
}

// order is the engine's snapshot as item rows. After a commit it matches the store.
func (g *gestureRun) order() []itemRow {
	items := g.engine.Items()
	out := make([]itemRow, len(items))
	for i, it := range items {
		out[i] = itemRow{Index: i, Item: it}
	}
	return out
}
