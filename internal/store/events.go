package store

import (
	"context"
	"database/sql"

	"dragsort-cli/internal/model"
)

func (s *Store) recordReorder(ctx context.Context, tx *sql.Tx, moved model.Item, from, to int, source string) (model.ReorderEvent, error) {
	if source == "" {
		source = "cli"
	}
	ev := model.ReorderEvent{
		ID:        newID("evt"),
		ListID:    moved.ListID,
		ItemID:    moved.ID,
		FromIndex: from,
		ToIndex:   to,
		Source:    source,
		At:        fromMs(s.nowMs()),
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO reorder_events(id, list_id, item_id, from_index, to_index, source, at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.ListID, ev.ItemID, ev.FromIndex, ev.ToIndex, ev.Source, ev.At.UnixMilli())
	return ev, err
}

// ReorderEvents returns the newest events for listID first. limit <= 0 means all.
func (s *Store) ReorderEvents(ctx context.Context, listID string, limit int) ([]model.ReorderEvent, error) {
	if _, err := s.FindList(ctx, listID); err != nil {
		return nil, err
	}
	q := `SELECT id, list_id, item_id, from_index, to_index, source, at_unixms FROM reorder_events
		WHERE list_id = ? ORDER BY at_unixms DESC, rowid DESC`
	args := []any{listID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReorderEvent
	for rows.Next() {
		var (
			ev model.ReorderEvent
			at int64
		)
		if err := rows.Scan(&ev.ID, &ev.ListID, &ev.ItemID, &ev.FromIndex, &ev.ToIndex, &ev.Source, &at); err != nil {
			return nil, err
		}
		ev.At = fromMs(at)
		out = append(out, ev)
	}
	return out, rows.Err()
}
