package format

import (
	"bytes"
	"testing"
	"time"
)

type sample struct {
	ID    string    `json:"id"`
	Index int       `json:"index"`
	Done  bool      `json:"done"`
	Note  *string   `json:"note"`
	At    time.Time `json:"at"`
	Tags  []string  `json:"tags"`
}

func TestWriteEDN_KeywordsAndScalars(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{
		"data": sample{
			ID:    "item-1",
			Index: 9007199254740993,
			At:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Tags:  []string{"a", "b"},
		},
		"odd key": 1.5,
	}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:data {:at "2026-01-02T03:04:05Z" :done false :id "item-1" :index 9007199254740993 :note nil :tags ["a" "b"]} "odd key" 1.5}` + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected edn:\n got %s\nwant %s", buf.String(), want)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"xs": []int{1, 2}, "empty": []int{}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :empty []\n  :xs [\n    1\n    2\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("unexpected pretty edn:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteJSON_NoHTMLEscape(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{"title": "a<b & c"}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), `{"title":"a<b & c"}`+"\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": JSON, "JSON": JSON, " edn ": EDN} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatalf("expected error for yaml")
	}
}
