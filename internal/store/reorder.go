package store

import (
	"errors"
	"sort"
	"strings"

	"dragsort-cli/internal/model"
)

// RankPlan is the set of rank writes that realizes moving one item.
// RankByID only contains items whose rank changes.
type RankPlan struct {
	RankByID map[string]string
	// Rebalanced lists the window of ids re-ranked when the neighbors left no room (final order).
	Rebalanced []string
}

func (p RankPlan) Empty() bool { return len(p.RankByID) == 0 }

// SortItems orders items in place: rank, then CreatedAt, then ID. Items without a
// rank fall back to CreatedAt/ID.
func SortItems(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool { return compareItems(items[i], items[j]) < 0 })
}

func compareItems(a, b model.Item) int {
	ra, rb := normRank(a.Rank), normRank(b.Rank)
	if ra != "" && rb != "" && ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch {
	case a.CreatedAt.Before(b.CreatedAt):
		return -1
	case a.CreatedAt.After(b.CreatedAt):
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// PlanMove plans rank updates that move movedID to insertAt, where insertAt indexes
// the sibling list with the moved item removed.
//
// Only the moved item is re-ranked when its new neighbors leave room. Otherwise the
// smallest window around the insertion point with usable outer bounds is re-ranked.
func PlanMove(sibs []model.Item, movedID string, insertAt int) (RankPlan, error) {
	movedID = strings.TrimSpace(movedID)
	if movedID == "" {
		return RankPlan{}, errors.New("missing moved item id")
	}
	cur := append([]model.Item(nil), sibs...)
	SortItems(cur)

	from := -1
	for i := range cur {
		if cur[i].ID == movedID {
			from = i
			break
		}
	}
	if from < 0 {
		return RankPlan{}, errors.New("moved item not found in list")
	}
	moved := cur[from]
	rest := append(append([]model.Item(nil), cur[:from]...), cur[from+1:]...)

	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(rest) {
		insertAt = len(rest)
	}
	if insertAt == from {
		return RankPlan{RankByID: map[string]string{}}, nil
	}

	final := make([]model.Item, 0, len(cur))
	final = append(final, rest[:insertAt]...)
	final = append(final, moved)
	final = append(final, rest[insertAt:]...)

	taken := takenRanks(final, map[string]bool{movedID: true})
	lower, upper := outerRanks(final, insertAt, insertAt)
	if r, err := RankBetweenUnique(taken, lower, upper); err == nil {
		plan := RankPlan{RankByID: map[string]string{}}
		if normRank(moved.Rank) != r {
			plan.RankByID[movedID] = r
		}
		return plan, nil
	}

	// Moving up displaces later siblings, so grow the window to the right first.
	lo, hi := minimalWindow(final, insertAt, insertAt < from)
	lower, upper = outerRanks(final, lo, hi)

	excl := map[string]bool{}
	for i := lo; i <= hi; i++ {
		excl[final[i].ID] = true
	}
	taken = takenRanks(final, excl)

	plan := RankPlan{RankByID: map[string]string{}, Rebalanced: make([]string, 0, hi-lo+1)}
	for i := lo; i <= hi; i++ {
		r, err := RankBetweenUnique(taken, lower, upper)
		if err != nil {
			return RankPlan{}, err
		}
		taken[r] = true
		plan.RankByID[final[i].ID] = r
		plan.Rebalanced = append(plan.Rebalanced, final[i].ID)
		lower = r
	}
	return plan, nil
}

func takenRanks(items []model.Item, exclude map[string]bool) map[string]bool {
	taken := map[string]bool{}
	for _, it := range items {
		if exclude[it.ID] {
			continue
		}
		if r := normRank(it.Rank); r != "" {
			taken[r] = true
		}
	}
	return taken
}

// outerRanks returns the ranks just outside [lo, hi]; empty means unbounded.
func outerRanks(final []model.Item, lo, hi int) (lower, upper string) {
	if lo > 0 {
		lower = normRank(final[lo-1].Rank)
	}
	if hi+1 < len(final) {
		upper = normRank(final[hi+1].Rank)
	}
	return lower, upper
}

// minimalWindow finds the smallest [lo, hi] containing at whose outer bounds leave
// room for a new rank. preferRight breaks ties toward later windows.
func minimalWindow(final []model.Item, at int, preferRight bool) (lo, hi int) {
	valid := func(lo, hi int) bool {
		_, err := RankBetween(outerRanks(final, lo, hi))
		return err == nil
	}
	for size := 1; size <= len(final); size++ {
		first := max(at-(size-1), 0)
		last := min(at, len(final)-size)
		if preferRight {
			for lo := last; lo >= first; lo-- {
				if valid(lo, lo+size-1) {
					return lo, lo + size - 1
				}
			}
			continue
		}
		for lo := first; lo <= last; lo++ {
			if valid(lo, lo+size-1) {
				return lo, lo + size - 1
			}
		}
	}
	return 0, len(final) - 1
}
