package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dragsort-cli/internal/model"

	"go.uber.org/zap"
)

func (s *Store) CreateList(ctx context.Context, name string) (model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.List{}, errors.New("list name is required")
	}
	l := model.List{ID: newID("list"), Name: name, CreatedAt: fromMs(s.nowMs())}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO lists(id, name, archived, revision, created_at_unixms) VALUES(?, ?, 0, 0, ?)`,
		l.ID, l.Name, l.CreatedAt.UnixMilli()); err != nil {
		return model.List{}, fmt.Errorf("create list: %w", err)
	}
	s.log.Info("list created", zap.String("list", l.ID), zap.String("name", l.Name))
	return l, nil
}

func (s *Store) Lists(ctx context.Context, includeArchived bool) ([]model.List, error) {
	q := `SELECT id, name, archived, created_at_unixms FROM lists`
	if !includeArchived {
		q += ` WHERE archived = 0`
	}
	q += ` ORDER BY created_at_unixms, id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) FindList(ctx context.Context, id string) (model.List, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, archived, created_at_unixms FROM lists WHERE id = ?`, strings.TrimSpace(id))
	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.List{}, fmt.Errorf("%w: list %s", ErrNotFound, id)
	}
	return l, err
}

func (s *Store) ArchiveList(ctx context.Context, id string, archived bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE lists SET archived = ? WHERE id = ?`, boolToInt(archived), id); err != nil {
			return err
		}
		return bumpRevision(ctx, tx, id)
	})
}

// Revision is a counter bumped by every write to the list or its items.
func (s *Store) Revision(ctx context.Context, listID string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM lists WHERE id = ?`, listID).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: list %s", ErrNotFound, listID)
	}
	return rev, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(r rowScanner) (model.List, error) {
	var (
		l        model.List
		archived int
		created  int64
	)
	if err := r.Scan(&l.ID, &l.Name, &archived, &created); err != nil {
		return model.List{}, err
	}
	l.Archived = archived != 0
	l.CreatedAt = fromMs(created)
	return l, nil
}
