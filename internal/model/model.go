package model

import "time"

type List struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"archived"`
}

type Item struct {
	ID     string `json:"id"`
	ListID string `json:"listId"`

	// Rank is a lexicographic fractional index; sibling order is rank, then CreatedAt, then ID.
	Rank string `json:"rank,omitempty"`

	Title string `json:"title"`
	Note  string `json:"note,omitempty"`
	Done  bool   `json:"done"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReorderEvent records one committed order change.
type ReorderEvent struct {
	ID        string `json:"id"`
	ListID    string `json:"listId"`
	ItemID    string `json:"itemId"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`

	// Source is how the move was made: drag|keyboard|cli|replay.
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}

func ItemKey(it Item) string { return it.ID }
