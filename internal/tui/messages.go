package tui

import (
	"context"
	"time"

	"dragsort-cli/internal/model"
	"dragsort-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

const reloadInterval = time.Second

type (
	reloadTickMsg struct{}

	// settleMsg and animFrameMsg carry the view that scheduled them so a tick from a
	// previously opened list never reaches the current engine.
	settleMsg struct {
		view *reorderView
		gen  uint64
	}
	animFrameMsg struct{ view *reorderView }

	listsLoadedMsg struct {
		lists   []model.List
		counts  map[string]int
		current string
		err     error
	}
	itemsLoadedMsg struct {
		list  model.List
		items []model.Item
		rev   int64
		err   error
	}
	revisionMsg struct {
		listID string
		rev    int64
		err    error
	}
	reloadItemsMsg struct{ listID string }
	persistedMsg   struct {
		view    *reorderView
		event   model.ReorderEvent
		changed bool
		err     error
	}
	errMsg struct{ err error }
)

func tickReload() tea.Cmd {
	return tea.Tick(reloadInterval, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func loadListsCmd(ctx context.Context, st *store.Store) tea.Cmd {
	return func() tea.Msg {
		lists, err := st.Lists(ctx, false)
		if err != nil {
			return listsLoadedMsg{err: err}
		}
		counts := make(map[string]int, len(lists))
		for _, l := range lists {
			items, err := st.Items(ctx, l.ID)
			if err != nil {
				return listsLoadedMsg{err: err}
			}
			counts[l.ID] = len(items)
		}
		cur, err := st.CurrentListID(ctx)
		return listsLoadedMsg{lists: lists, counts: counts, current: cur, err: err}
	}
}

func loadItemsCmd(ctx context.Context, st *store.Store, listID string) tea.Cmd {
	return func() tea.Msg {
		l, err := st.FindList(ctx, listID)
		if err != nil {
			return itemsLoadedMsg{err: err}
		}
		// Read the revision first: a write landing in between only causes one extra reload.
		rev, err := st.Revision(ctx, listID)
		if err != nil {
			return itemsLoadedMsg{err: err}
		}
		items, err := st.Items(ctx, listID)
		return itemsLoadedMsg{list: l, items: items, rev: rev, err: err}
	}
}

func checkRevisionCmd(ctx context.Context, st *store.Store, listID string) tea.Cmd {
	return func() tea.Msg {
		rev, err := st.Revision(ctx, listID)
		return revisionMsg{listID: listID, rev: rev, err: err}
	}
}

func persistOrderCmd(ctx context.Context, st *store.Store, v *reorderView, order []model.Item) tea.Cmd {
	ids := make([]string, len(order))
	for i, it := range order {
		ids[i] = it.ID
	}
	listID := v.list.ID
	return func() tea.Msg {
		ev, changed, err := st.ApplyOrder(ctx, listID, ids, "tui")
		return persistedMsg{view: v, event: ev, changed: changed, err: err}
	}
}

func setCurrentListCmd(ctx context.Context, st *store.Store, listID string) tea.Cmd {
	return func() tea.Msg {
		if err := st.SetCurrentListID(ctx, listID); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}
