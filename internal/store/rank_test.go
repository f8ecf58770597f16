package store

import (
	"errors"
	"testing"
)

func TestRankBetween(t *testing.T) {
	cases := []struct {
		lower, upper string
	}{
		{"", ""},
		{"h", ""},
		{"", "h"},
		{"", "1"},
		{"a", "b"},
		{"a5", "b"},
		{"h", "h5"},
		{"h", "h1"},
		{"h0", "h1"},
		{"zz", ""},
		{"Y", "z"},
	}
	for _, tc := range cases {
		r, err := RankBetween(tc.lower, tc.upper)
		if err != nil {
			t.Fatalf("RankBetween(%q, %q): %v", tc.lower, tc.upper, err)
		}
		lo, hi := normRank(tc.lower), normRank(tc.upper)
		if lo != "" && !(lo < r) {
			t.Fatalf("RankBetween(%q, %q) = %q; not after lower", tc.lower, tc.upper, r)
		}
		if hi != "" && !(r < hi) {
			t.Fatalf("RankBetween(%q, %q) = %q; not before upper", tc.lower, tc.upper, r)
		}
	}
}

func TestRankBetween_NoSpace(t *testing.T) {
	// "y" < "y0" with nothing lexicographically in between.
	if _, err := RankBetween("y", "y0"); !errors.Is(err, errRankNoSpace) {
		t.Fatalf("expected no-space error; got %v", err)
	}
	if _, err := RankBetween("", "0"); !errors.Is(err, errRankNoSpace) {
		t.Fatalf("nothing sorts before \"0\"; got %v", err)
	}
	if _, err := RankBetween("b", "a"); !errors.Is(err, errRankOrder) {
		t.Fatalf("expected order error; got %v", err)
	}
	if _, err := RankBetween("!", ""); err == nil {
		t.Fatalf("expected invalid character error")
	}
}

func TestRankBetweenUnique_SkipsTaken(t *testing.T) {
	first, err := RankBetween("a", "c")
	if err != nil {
		t.Fatalf("RankBetween: %v", err)
	}
	r, err := RankBetweenUnique(map[string]bool{first: true}, "a", "c")
	if err != nil {
		t.Fatalf("RankBetweenUnique: %v", err)
	}
	if r == first || !("a" < r && r < "c") {
		t.Fatalf("expected a fresh rank between a and c; got %q (taken %q)", r, first)
	}
}

func TestRankAfter_RepeatedAppendsStayOrdered(t *testing.T) {
	prev := ""
	for i := 0; i < 200; i++ {
		r, err := RankAfter(prev)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if prev != "" && !(prev < r) {
			t.Fatalf("append %d: %q does not sort after %q", i, r, prev)
		}
		prev = r
	}
}
