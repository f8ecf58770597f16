package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type cliHarness struct {
	t  *testing.T
	db string
}

// newCLI isolates config and env so only --db decides where state lives.
func newCLI(t *testing.T) *cliHarness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"DRAGSORT_CONFIG", "DRAGSORT_DB", "DRAGSORT_LIST", "DRAGSORT_FORMAT"} {
		t.Setenv(k, "")
	}
	return &cliHarness{t: t, db: filepath.Join(t.TempDir(), "dragsort.db")}
}

func (c *cliHarness) run(args ...string) ([]byte, []byte, error) {
	c.t.Helper()
	return runCLI(c.t, append([]string{"--db", c.db}, args...))
}

func (c *cliHarness) mustRun(args ...string) map[string]any {
	c.t.Helper()
	stdout, stderr, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("command failed: dragsort %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		c.t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		c.t.Fatalf("expected data key; got %v", env)
	}
	return env
}

func (c *cliHarness) mustFail(args ...string) string {
	c.t.Helper()
	_, stderr, err := c.run(args...)
	if err == nil {
		c.t.Fatalf("expected dragsort %v to fail", args)
	}
	return string(stderr)
}

func dataMap(env map[string]any) map[string]any {
	m, _ := env["data"].(map[string]any)
	return m
}

// titles reads the first letter of each title from a slice of item rows.
func titles(v any) string {
	xs, _ := v.([]any)
	var b strings.Builder
	for _, x := range xs {
		m, _ := x.(map[string]any)
		s, _ := m["title"].(string)
		if s != "" {
			b.WriteString(s[:1])
		}
	}
	return b.String()
}

func (c *cliHarness) seed(names ...string) (listID string, itemIDs []string) {
	c.t.Helper()
	l := dataMap(c.mustRun("lists", "create", "Groceries", "--use"))
	listID, _ = l["id"].(string)
	for _, n := range names {
		it := dataMap(c.mustRun("items", "add", n))
		id, _ := it["id"].(string)
		itemIDs = append(itemIDs, id)
	}
	return listID, itemIDs
}

var groceries = []string{"Apples", "Bread", "Cheese", "Dates", "Eggs"}

func TestCLI_ListsAndCurrentList(t *testing.T) {
	c := newCLI(t)

	if msg := c.mustFail("items", "ls"); !strings.Contains(msg, "no list selected") {
		t.Fatalf("expected no-list error; got %q", msg)
	}

	a := dataMap(c.mustRun("lists", "create", "Chores"))
	b := dataMap(c.mustRun("lists", "create", "Errands", "--use"))
	aID, _ := a["id"].(string)
	bID, _ := b["id"].(string)

	rows, _ := c.mustRun("lists", "ls")["data"].([]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 lists; got %v", rows)
	}
	for _, r := range rows {
		m := r.(map[string]any)
		if cur, _ := m["current"].(bool); cur != (m["id"] == bID) {
			t.Fatalf("expected only Errands current; got %v", rows)
		}
	}

	c.mustRun("lists", "use", aID)
	c.mustRun("items", "add", "Sweep")
	c.mustRun("--list", bID, "items", "add", "Post office")
	if got := titles(c.mustRun("items", "ls")["data"]); got != "S" {
		t.Fatalf("expected Chores to hold Sweep; got %s", got)
	}

	c.mustRun("lists", "archive", bID)
	if rows, _ := c.mustRun("lists", "ls")["data"].([]any); len(rows) != 1 {
		t.Fatalf("expected archived list hidden; got %v", rows)
	}
	if rows, _ := c.mustRun("lists", "ls", "--all")["data"].([]any); len(rows) != 2 {
		t.Fatalf("expected --all to include archived; got %v", rows)
	}

	if msg := c.mustFail("lists", "use", "list-nope"); !strings.Contains(msg, "list not found: list-nope") {
		t.Fatalf("unexpected error: %q", msg)
	}
}

func TestCLI_DragPersistsAndRecordsHistory(t *testing.T) {
	c := newCLI(t)
	_, ids := c.seed(groceries...)

	// Rows are 3 tall: item centers sit at 1.5, 4.5, 7.5, ...
	env := c.mustRun("drag", "--from", "0", "--move", "5,8.5")
	d := dataMap(env)
	if d["from"] != float64(0) || d["to"] != float64(2) || d["changed"] != true {
		t.Fatalf("unexpected commit: %v", d)
	}
	if d["item"] != ids[0] {
		t.Fatalf("expected Apples to be the moved item; got %v", d["item"])
	}
	meta, _ := env["meta"].(map[string]any)
	if got := titles(meta["order"]); got != "BCADE" {
		t.Fatalf("expected BCADE; got %s", got)
	}
	// start, then the drop slot changing twice
	if meta["pulses"] != float64(3) {
		t.Fatalf("expected 3 pulses; got %v", meta["pulses"])
	}

	if got := titles(c.mustRun("items", "ls")["data"]); got != "BCADE" {
		t.Fatalf("expected stored BCADE; got %s", got)
	}

	evs, _ := c.mustRun("history")["data"].([]any)
	if len(evs) != 1 {
		t.Fatalf("expected 1 event; got %v", evs)
	}
	ev, _ := evs[0].(map[string]any)
	if ev["source"] != "cli" || ev["fromIndex"] != float64(0) || ev["toIndex"] != float64(2) {
		t.Fatalf("unexpected event: %v", ev)
	}
}

func TestCLI_DragTieDoesNotDisplace(t *testing.T) {
	c := newCLI(t)
	c.seed(groceries...)

	// Moving Apples' center exactly onto Bread's center (4.5) displaces nothing.
	d := dataMap(c.mustRun("drag", "--from", "0", "--move", "4.5"))
	if d["changed"] != false || d["to"] != float64(0) {
		t.Fatalf("expected no change on a tie; got %v", d)
	}
	if evs, _ := c.mustRun("history")["data"].([]any); len(evs) != 0 {
		t.Fatalf("expected no events; got %v", evs)
	}
}

func TestCLI_DragIgnoresNonFiniteCoordinates(t *testing.T) {
	c := newCLI(t)
	c.seed(groceries...)

	d := dataMap(c.mustRun("drag", "--from", "2", "--move", "NaN"))
	if d["changed"] != false || d["to"] != float64(2) {
		t.Fatalf("a NaN move must not reorder; got %v", d)
	}
	d = dataMap(c.mustRun("drag", "--from", "2", "--move", "+Inf,-Inf"))
	if d["changed"] != false || d["to"] != float64(2) {
		t.Fatalf("an infinite move must not reorder; got %v", d)
	}
	// A NaN press falls back to the item's center, so the finite move still lands.
	d = dataMap(c.mustRun("drag", "--from", "2", "--start-y", "NaN", "--move", "10.6"))
	if d["changed"] != true || d["to"] != float64(3) {
		t.Fatalf("expected the drop at 3 from the item center; got %v", d)
	}
	if got := titles(c.mustRun("items", "ls")["data"]); got != "ABDCE" {
		t.Fatalf("expected stored ABDCE; got %s", got)
	}
	if evs, _ := c.mustRun("history")["data"].([]any); len(evs) != 1 {
		t.Fatalf("expected only the finite drag recorded; got %v", evs)
	}
}

func TestCLI_DragOrderReportsStoredRanks(t *testing.T) {
	c := newCLI(t)
	c.seed(groceries...)

	env := c.mustRun("drag", "--from", "2", "--move", "1")
	meta, _ := env["meta"].(map[string]any)
	reported, _ := meta["order"].([]any)
	stored, _ := c.mustRun("items", "ls")["data"].([]any)
	if len(reported) != len(stored) {
		t.Fatalf("expected %d rows; got %v", len(stored), reported)
	}
	for i := range stored {
		want := stored[i].(map[string]any)
		got := reported[i].(map[string]any)
		if got["id"] != want["id"] || got["rank"] != want["rank"] {
			t.Fatalf("row %d: reported id=%v rank=%v; stored id=%v rank=%v", i, got["id"], got["rank"], want["id"], want["rank"])
		}
	}
	if got := titles(reported); got != "CABDE" {
		t.Fatalf("expected CABDE; got %s", got)
	}
}

func TestCLI_DragCancelPolicies(t *testing.T) {
	c := newCLI(t)
	c.seed(groceries...)

	d := dataMap(c.mustRun("drag", "--from", "4", "--start-y", "13.5", "--move", "4", "--cancel", "--cancel-policy", "abort"))
	if d["changed"] != false {
		t.Fatalf("abort must not change the order; got %v", d)
	}
	if got := titles(c.mustRun("items", "ls")["data"]); got != "ABCDE" {
		t.Fatalf("expected ABCDE; got %s", got)
	}

	d = dataMap(c.mustRun("drag", "--from", "4", "--start-y", "13.5", "--move", "4", "--cancel", "--cancel-policy", "commit"))
	if d["changed"] != true || d["to"] != float64(1) {
		t.Fatalf("commit policy should drop at 1; got %v", d)
	}
	if got := titles(c.mustRun("items", "ls")["data"]); got != "AEBCD" {
		t.Fatalf("expected AEBCD; got %s", got)
	}
}

func TestCLI_DragErrors(t *testing.T) {
	c := newCLI(t)
	c.seed("Apples", "Bread")

	if msg := c.mustFail("drag", "--move", "5"); !strings.Contains(msg, "invalid from") {
		t.Fatalf("expected missing --from error; got %q", msg)
	}
	if msg := c.mustFail("drag", "--from", "7"); !strings.Contains(msg, "index out of range") {
		t.Fatalf("expected range error; got %q", msg)
	}
	if msg := c.mustFail("drag", "--from", "0", "--cancel-policy", "maybe"); !strings.Contains(msg, "invalid cancel-policy") {
		t.Fatalf("expected policy error; got %q", msg)
	}
}

func TestCLI_ItemsMoveDoneRemove(t *testing.T) {
	c := newCLI(t)
	_, ids := c.seed(groceries...)

	mv := dataMap(c.mustRun("items", "move", ids[4], "--to", "0"))
	if mv["changed"] != true {
		t.Fatalf("expected move to change order; got %v", mv)
	}
	if got := titles(c.mustRun("items", "ls")["data"]); got != "EABCD" {
		t.Fatalf("expected EABCD; got %s", got)
	}
	if mv := dataMap(c.mustRun("items", "move", ids[4], "--to", "0")); mv["changed"] != false || mv["event"] != nil {
		t.Fatalf("expected no-op move; got %v", mv)
	}

	if it := dataMap(c.mustRun("items", "done", ids[1])); it["done"] != true {
		t.Fatalf("expected done; got %v", it)
	}
	pending, _ := c.mustRun("items", "ls", "--pending")["data"].([]any)
	if got := titles(pending); got != "EACD" {
		t.Fatalf("expected EACD pending; got %s", got)
	}
	// Indexes are positions in the full list.
	if idx := pending[2].(map[string]any)["index"]; idx != float64(3) {
		t.Fatalf("expected Cheese at index 3; got %v", idx)
	}
	c.mustRun("items", "done", ids[1], "--undo")

	c.mustRun("items", "rm", ids[2])
	if got := titles(c.mustRun("items", "ls")["data"]); got != "EABD" {
		t.Fatalf("expected EABD; got %s", got)
	}
	if msg := c.mustFail("items", "rm", "item-nope"); !strings.Contains(msg, "item not found: item-nope") {
		t.Fatalf("unexpected error: %q", msg)
	}
	if msg := c.mustFail("items", "move", ids[0]); !strings.Contains(msg, "invalid to") {
		t.Fatalf("expected missing --to error; got %q", msg)
	}
}

func TestCLI_ReplayScript(t *testing.T) {
	c := newCLI(t)
	listID, _ := c.seed(groceries...)

	script := `
list: ` + listID + `
cancel_policy: abort
steps:
  - start: 0
  - move: 8.5
  - end: true
  - start: 4
    y: 13.5
  - move: 4
  - cancel: true
  - start: 1
  - move: 1
  - click: true
`
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	env := c.mustRun("replay", path)
	commits, _ := env["data"].([]any)
	if len(commits) != 3 {
		t.Fatalf("expected 3 commits; got %v", commits)
	}
	first, _ := commits[0].(map[string]any)
	if first["changed"] != true || first["to"] != float64(2) {
		t.Fatalf("unexpected first commit: %v", first)
	}
	if second, _ := commits[1].(map[string]any); second["changed"] != false {
		t.Fatalf("aborted cancel must not change order: %v", second)
	}
	// Order is BCADE after the first drop; dragging C (index 1) up to y=1 puts it first.
	if third, _ := commits[2].(map[string]any); third["changed"] != true || third["to"] != float64(0) {
		t.Fatalf("unexpected click commit: %v", third)
	}
	meta, _ := env["meta"].(map[string]any)
	if got := titles(meta["order"]); got != "CBADE" {
		t.Fatalf("expected CBADE; got %s", got)
	}

	evs, _ := c.mustRun("history")["data"].([]any)
	if len(evs) != 2 {
		t.Fatalf("expected 2 events; got %v", evs)
	}
	for _, e := range evs {
		if src := e.(map[string]any)["source"]; src != "replay" {
			t.Fatalf("expected replay source; got %v", src)
		}
	}
}

func TestCLI_ReplayCancelsUnfinishedGesture(t *testing.T) {
	c := newCLI(t)
	c.seed(groceries...)

	path := filepath.Join(t.TempDir(), "script.yaml")
	script := "cancel_policy: commit\nsteps:\n  - start: 0\n  - move: 8.5\n"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	commits, _ := c.mustRun("replay", path)["data"].([]any)
	if len(commits) != 1 || commits[0].(map[string]any)["changed"] != true {
		t.Fatalf("expected the open drag to be cancelled with commit policy; got %v", commits)
	}
}

func TestParseReplayScript_Errors(t *testing.T) {
	cases := map[string]string{
		"":                                  "empty script",
		"steps: []":                         "no steps",
		"steps:\n  - {start: 0, move: 3}":   "start+move",
		"steps:\n  - {}":                    "no gesture",
		"steps:\n  - {move: 3, y: 1}":       "y only applies to start",
		"steps:\n  - {start: 0}\nbogus: 1":  "bogus",
		"steps:\n  - {start: 0, end: true}": "start+end",
	}
	for in, want := range cases {
		_, err := parseReplayScript(strings.NewReader(in))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("parseReplayScript(%q): expected error containing %q; got %v", in, want, err)
		}
	}
}

func TestCLI_MoveWithoutStartFailsReplay(t *testing.T) {
	c := newCLI(t)
	c.seed("Apples")

	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte("steps:\n  - move: 3\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if msg := c.mustFail("replay", path); !strings.Contains(msg, "step 1: invalid move: no drag in progress") {
		t.Fatalf("unexpected error: %q", msg)
	}
}

func TestCLI_Docs(t *testing.T) {
	c := newCLI(t)

	topics, _ := dataMap(c.mustRun("docs"))["topics"].([]any)
	if len(topics) < 4 {
		t.Fatalf("expected topics; got %v", topics)
	}

	stdout, _, err := c.run("docs", "overview", "--raw")
	if err != nil {
		t.Fatalf("docs --raw: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# dragsort") {
		t.Fatalf("expected raw markdown; got %q", stdout)
	}

	if d := dataMap(c.mustRun("docs", "replay")); !strings.Contains(d["markdown"].(string), "steps:") {
		t.Fatalf("expected replay docs; got %v", d)
	}
	if msg := c.mustFail("docs", "nope"); !strings.Contains(msg, "docs topic not found") {
		t.Fatalf("unexpected error: %q", msg)
	}
}

func TestCLI_FormatEDN(t *testing.T) {
	c := newCLI(t)
	c.seed("Apples")

	stdout, _, err := c.run("--format", "edn", "items", "ls")
	if err != nil {
		t.Fatalf("items ls: %v", err)
	}
	out := string(stdout)
	if !strings.HasPrefix(out, "{:data [{") || !strings.Contains(out, `:title "Apples"`) {
		t.Fatalf("unexpected edn: %s", out)
	}

	if msg := c.mustFail("--format", "yaml", "items", "ls"); !strings.Contains(msg, "unknown format") {
		t.Fatalf("unexpected error: %q", msg)
	}
}

func TestCLI_UnknownCommand(t *testing.T) {
	c := newCLI(t)
	if _, _, err := c.run("wat"); err == nil {
		t.Fatalf("expected unknown command error")
	}
}
