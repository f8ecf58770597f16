package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"dragsort-cli/internal/model"

	"go.uber.org/zap"
)

var (
	// ErrStaleOrder means the proposed order is not a permutation of the stored items
	// (another process added or removed items meanwhile).
	ErrStaleOrder = errors.New("order does not match stored items")
	// ErrNotSingleMove means the proposed order moves more than one item.
	ErrNotSingleMove = errors.New("order differs by more than one moved item")
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const itemColumns = `id, list_id, rank, title, note, done, created_at_unixms, updated_at_unixms`

// AddItem appends a new item after the last item of the list.
func (s *Store) AddItem(ctx context.Context, listID, title, note string) (model.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Item{}, errors.New("item title is required")
	}
	if _, err := s.FindList(ctx, listID); err != nil {
		return model.Item{}, err
	}
	var it model.Item
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		items, err := listItems(ctx, tx, listID)
		if err != nil {
			return err
		}
		last := ""
		if len(items) > 0 {
			last = items[len(items)-1].Rank
		}
		rank, err := RankBetweenUnique(takenRanks(items, nil), last, "")
		if err != nil {
			return err
		}
		now := s.nowMs()
		it = model.Item{
			ID:        newID("item"),
			ListID:    listID,
			Rank:      rank,
			Title:     title,
			Note:      strings.TrimSpace(note),
			CreatedAt: fromMs(now),
			UpdatedAt: fromMs(now),
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items(`+itemColumns+`) VALUES(?, ?, ?, ?, ?, 0, ?, ?)`,
			it.ID, it.ListID, it.Rank, it.Title, it.Note, now, now); err != nil {
			return err
		}
		return bumpRevision(ctx, tx, listID)
	})
	if err != nil {
		return model.Item{}, fmt.Errorf("add item: %w", err)
	}
	return it, nil
}

// Items returns the list's items in ranked order.
func (s *Store) Items(ctx context.Context, listID string) ([]model.Item, error) {
	if _, err := s.FindList(ctx, listID); err != nil {
		return nil, err
	}
	return listItems(ctx, s.db, listID)
}

func listItems(ctx context.Context, q queryer, listID string) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+itemColumns+` FROM items WHERE list_id = ?`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortItems(out)
	return out, nil
}

func (s *Store) FindItem(ctx context.Context, id string) (model.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, strings.TrimSpace(id))
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	return it, err
}

func (s *Store) RemoveItem(ctx context.Context, id string) error {
	it, err := s.FindItem(ctx, id)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, it.ID); err != nil {
			return err
		}
		return bumpRevision(ctx, tx, it.ListID)
	})
}

func (s *Store) SetDone(ctx context.Context, id string, done bool) (model.Item, error) {
	it, err := s.FindItem(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	now := s.nowMs()
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE items SET done = ?, updated_at_unixms = ? WHERE id = ?`, boolToInt(done), now, it.ID); err != nil {
			return err
		}
		return bumpRevision(ctx, tx, it.ListID)
	})
	if err != nil {
		return model.Item{}, err
	}
	it.Done = done
	it.UpdatedAt = fromMs(now)
	return it, nil
}

// MoveItem moves itemID to toIndex (clamped) within its list.
func (s *Store) MoveItem(ctx context.Context, itemID string, toIndex int, source string) (model.ReorderEvent, bool, error) {
	it, err := s.FindItem(ctx, itemID)
	if err != nil {
		return model.ReorderEvent{}, false, err
	}
	var (
		ev      model.ReorderEvent
		changed bool
	)
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		items, err := listItems(ctx, tx, it.ListID)
		if err != nil {
			return err
		}
		from := indexOfItem(items, it.ID)
		to := min(max(toIndex, 0), len(items)-1)
		if from == to {
			return nil
		}
		ev, err = s.applyMove(ctx, tx, items, from, to, source)
		changed = err == nil
		return err
	})
	return ev, changed, err
}

// ApplyOrder persists order (item ids) for listID. order must be the stored items with
// at most one of them moved; the rank change is kept minimal.
func (s *Store) ApplyOrder(ctx context.Context, listID string, order []string, source string) (model.ReorderEvent, bool, error) {
	if _, err := s.FindList(ctx, listID); err != nil {
		return model.ReorderEvent{}, false, err
	}
	var (
		ev      model.ReorderEvent
		changed bool
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		items, err := listItems(ctx, tx, listID)
		if err != nil {
			return err
		}
		cur := make([]string, len(items))
		for i, it := range items {
			cur[i] = it.ID
		}
		if !samePermutation(cur, order) {
			return ErrStaleOrder
		}
		from, to, ok := diffSingleMove(cur, order)
		if !ok {
			return ErrNotSingleMove
		}
		if from == to {
			return nil
		}
		ev, err = s.applyMove(ctx, tx, items, from, to, source)
		changed = err == nil
		return err
	})
	if err != nil {
		return model.ReorderEvent{}, false, fmt.Errorf("apply order: %w", err)
	}
	return ev, changed, nil
}

func (s *Store) applyMove(ctx context.Context, tx *sql.Tx, items []model.Item, from, to int, source string) (model.ReorderEvent, error) {
	moved := items[from]
	plan, err := PlanMove(items, moved.ID, to)
	if err != nil {
		return model.ReorderEvent{}, err
	}
	now := s.nowMs()
	for id, rank := range plan.RankByID {
		if _, err := tx.ExecContext(ctx, `UPDATE items SET rank = ?, updated_at_unixms = ? WHERE id = ?`, rank, now, id); err != nil {
			return model.ReorderEvent{}, err
		}
	}
	ev, err := s.recordReorder(ctx, tx, moved, from, to, source)
	if err != nil {
		return model.ReorderEvent{}, err
	}
	if err := bumpRevision(ctx, tx, moved.ListID); err != nil {
		return model.ReorderEvent{}, err
	}
	s.log.Info("item moved",
		zap.String("list", moved.ListID),
		zap.String("item", moved.ID),
		zap.Int("from", from),
		zap.Int("to", to),
		zap.String("source", source),
		zap.Int("rerank", len(plan.RankByID)),
		zap.Bool("rebalanced", len(plan.Rebalanced) > 0))
	return ev, nil
}

func indexOfItem(items []model.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}

// diffSingleMove finds from/to such that moving cur[from] to index to yields next.
// from == to == -1 means the orders are identical.
func diffSingleMove(cur, next []string) (from, to int, ok bool) {
	i := 0
	for i < len(cur) && cur[i] == next[i] {
		i++
	}
	if i == len(cur) {
		return -1, -1, true
	}
	j := len(cur) - 1
	for cur[j] == next[j] {
		j--
	}
	if cur[i] == next[j] && slices.Equal(cur[i+1:j+1], next[i:j]) {
		return i, j, true
	}
	if cur[j] == next[i] && slices.Equal(cur[i:j], next[i+1:j+1]) {
		return j, i, true
	}
	return 0, 0, false
}

func scanItem(r rowScanner) (model.Item, error) {
	var (
		it               model.Item
		done             int
		created, updated int64
	)
	if err := r.Scan(&it.ID, &it.ListID, &it.Rank, &it.Title, &it.Note, &done, &created, &updated); err != nil {
		return model.Item{}, err
	}
	it.Done = done != 0
	it.CreatedAt = fromMs(created)
	it.UpdatedAt = fromMs(updated)
	return it, nil
}
