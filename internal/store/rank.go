package store

import (
	"errors"
	"fmt"
	"strings"
)

// Ranks are lowercase base36 strings compared lexicographically (fractional indexing).
const rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const maxRankLen = 256

var (
	errRankOrder   = errors.New("rank: lower bound must sort before upper bound")
	errRankNoSpace = errors.New("rank: no space between ranks")
)

func rankDigit(c byte) (int, bool) {
	i := strings.IndexByte(rankAlphabet, c)
	return i, i >= 0
}

func normRank(r string) string { return strings.ToLower(strings.TrimSpace(r)) }

// RankBetween returns a rank strictly between lower and upper. Either bound may be
// empty, meaning unbounded on that side.
func RankBetween(lower, upper string) (string, error) {
	lower, upper = normRank(lower), normRank(upper)
	if err := validRank(lower); err != nil {
		return "", fmt.Errorf("lower bound: %w", err)
	}
	if err := validRank(upper); err != nil {
		return "", fmt.Errorf("upper bound: %w", err)
	}
	if lower != "" && upper != "" && lower >= upper {
		return "", errRankOrder
	}

	base := len(rankAlphabet)
	bounded := upper != ""
	out := make([]byte, 0, len(lower)+2)
	for i := 0; i < maxRankLen; i++ {
		lo, hi := 0, base
		if i < len(lower) {
			lo, _ = rankDigit(lower[i])
		}
		if bounded {
			if i >= len(upper) {
				// out equals upper: nothing longer sorts below it.
				return "", errRankNoSpace
			}
			hi, _ = rankDigit(upper[i])
		}
		switch {
		case hi-lo > 1:
			out = append(out, rankAlphabet[(lo+hi)/2])
			return checkBetween(string(out), lower, upper)
		case hi-lo == 1:
			// Taking lo puts out below upper for good.
			out = append(out, rankAlphabet[lo])
			bounded = false
		default:
			out = append(out, rankAlphabet[lo])
		}
	}
	return "", errRankNoSpace
}

func validRank(r string) error {
	for i := 0; i < len(r); i++ {
		if _, ok := rankDigit(r[i]); !ok {
			return fmt.Errorf("rank: invalid character %q", r[i])
		}
	}
	return nil
}

func checkBetween(r, lower, upper string) (string, error) {
	if (lower != "" && r <= lower) || (upper != "" && r >= upper) {
		return "", errRankNoSpace
	}
	return r, nil
}

func RankAfter(r string) (string, error)  { return RankBetween(r, "") }
func RankBefore(r string) (string, error) { return RankBetween("", r) }

// RankBetweenUnique is RankBetween that also avoids every rank already in taken
// (keys normalized with normRank).
func RankBetweenUnique(taken map[string]bool, lower, upper string) (string, error) {
	cur := lower
	for i := 0; i < 256; i++ {
		r, err := RankBetween(cur, upper)
		if err != nil {
			return "", err
		}
		if !taken[r] {
			return r, nil
		}
		cur = r
	}
	return "", errors.New("rank: unable to find unique rank")
}
