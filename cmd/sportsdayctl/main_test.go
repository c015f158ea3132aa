package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

type ctlEnv struct {
	dir string
	db  string
}

func newCtlEnv(t *testing.T) *ctlEnv {
	t.Helper()
	dir := t.TempDir()
	return &ctlEnv{dir: dir, db: filepath.Join(dir, "sportsday.db")}
}

// run executes sportsdayctl with the test database and returns stdout
func (e *ctlEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = &errOut
	a.ExitErrHandler = func(*cli.Context, error) {}

	argv := append([]string{"sportsdayctl", "--env", filepath.Join(e.dir, "missing.env"), "--db", e.db}, args...)
	err := a.Run(argv)
	return out.String(), err
}

func (e *ctlEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out
}

type standingsJSON struct {
	Revision  int64 `json:"revision"`
	Standings []struct {
		Key   string `json:"key"`
		Score int    `json:"score"`
		Rank  int    `json:"rank"`
	} `json:"standings"`
}

func TestSeedThenStandings(t *testing.T) {
	env := newCtlEnv(t)

	out := env.mustRun(t, "seed", "-n", "5")
	if !strings.Contains(out, "created 5 event(s)") {
		t.Errorf("unexpected seed output %q", out)
	}

	out = env.mustRun(t, "standings", "--json")
	var v standingsJSON
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if v.Revision != 5 {
		t.Errorf("expected revision 5, got %d", v.Revision)
	}
	if len(v.Standings) == 0 {
		t.Error("expected one standing per catalog bucket")
	}
}

func TestStandings_Table(t *testing.T) {
	env := newCtlEnv(t)

	out := env.mustRun(t, "standings")
	for _, want := range []string{"Table: standard", "Policy: zero_sentinel", "RANK", "LKG-A"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPoints(t *testing.T) {
	env := newCtlEnv(t)

	out := env.mustRun(t, "points", "1", "group")
	if !strings.Contains(out, "Group position 1: 20 points (standard table)") {
		t.Errorf("unexpected output %q", out)
	}

	out = env.mustRun(t, "points", "7", "Individual")
	if !strings.Contains(out, "0 points") {
		t.Errorf("expected no points beyond the table, got %q", out)
	}

	for _, args := range [][]string{
		{"points", "1"},
		{"points", "first", "Group"},
		{"points", "1", "Relay"},
		{"points", "0", "Group"},
	} {
		if _, err := env.run(t, args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestRepairNames(t *testing.T) {
	env := newCtlEnv(t)

	out := env.mustRun(t, "repair-names")
	if !strings.Contains(out, "repaired 0 event name(s)") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestImportJSON(t *testing.T) {
	env := newCtlEnv(t)

	events := filepath.Join(env.dir, "events.json")
	photos := filepath.Join(env.dir, "photos.json")
	writeTestFile(t, events, `[
		{"id": "relay", "name": "Relay", "type": "Group", "winners": [{"gradeSection": "1-A", "position": 1, "points": 20}]},
		{"id": "jump", "name": "", "type": "Individual"}
	]`)
	writeTestFile(t, photos, `{"p1": {"eventId": "relay", "position": 1, "image": "https://img.example/relay.jpg"}}`)

	out := env.mustRun(t, "import", "json", "--photos", photos, events)
	if !strings.Contains(out, "imported 2 event(s), attached 1 photo(s)") {
		t.Errorf("unexpected output %q", out)
	}

	out = env.mustRun(t, "standings", "--json")
	var v standingsJSON
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, s := range v.Standings {
		if s.Key == "1-A" && (s.Score != 20 || s.Rank != 1) {
			t.Errorf("expected 1-A to lead with 20, got %+v", s)
		}
	}

	out = env.mustRun(t, "repair-names")
	if !strings.Contains(out, "repaired 1 event name(s)") {
		t.Errorf("expected the unnamed event to be repaired, got %q", out)
	}
}

func TestImportJSON_Errors(t *testing.T) {
	env := newCtlEnv(t)

	if _, err := env.run(t, "import", "json"); err == nil {
		t.Error("expected usage error without a file")
	}
	if _, err := env.run(t, "import", "json", filepath.Join(env.dir, "nope.json")); err == nil {
		t.Error("expected error for a missing file")
	}

	bad := filepath.Join(env.dir, "bad.json")
	writeTestFile(t, bad, `"relay"`)
	if _, err := env.run(t, "import", "json", bad); err == nil {
		t.Error("expected error for a document that is not a list or map")
	}
}

func TestImportFirestore_NotConfigured(t *testing.T) {
	t.Setenv("FIRESTORE_PROJECT", "")
	env := newCtlEnv(t)

	if _, err := env.run(t, "import", "firestore"); err == nil {
		t.Error("expected an error without a Firestore project")
	}
}

func TestExport(t *testing.T) {
	env := newCtlEnv(t)
	env.mustRun(t, "seed", "-n", "3")
	out := t.TempDir()

	env.mustRun(t, "export", "csv", "-o", out)
	env.mustRun(t, "export", "xlsx", "-o", out)
	env.mustRun(t, "export", "chart", "-o", out)

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	var csv, xlsx, png int
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".csv":
			csv++
		case ".xlsx":
			xlsx++
		case ".png":
			png++
		}
	}
	if csv < 2 || xlsx != 1 || png != 1 {
		t.Errorf("unexpected export files: %d csv, %d xlsx, %d png", csv, xlsx, png)
	}
}

func TestExport_UnknownTable(t *testing.T) {
	env := newCtlEnv(t)

	if _, err := env.run(t, "export", "csv", "--table", "voters", "-o", t.TempDir()); err == nil {
		t.Error("expected an error for an unknown table")
	}
}

func TestGlobalFlags_InvalidMode(t *testing.T) {
	env := newCtlEnv(t)

	if _, err := env.run(t, "--mode", "year", "standings"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
