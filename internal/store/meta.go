package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

const metaCurrentList = "current_list_id"

// CurrentListID returns the list opened by default, or "" when none was chosen.
func (s *Store) CurrentListID(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, metaCurrentList).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return strings.TrimSpace(v), err
}

func (s *Store) SetCurrentListID(ctx context.Context, id string) error {
	if _, err := s.FindList(ctx, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, metaCurrentList, id)
	return err
}
