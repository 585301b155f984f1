package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSessionID = "3f2c1b9e-8d7a-4c6b-9e5f-1a2b3c4d5e6f"

// setupEnv points configuration at a fresh data dir and isolates it from the user's home and working directory. It returns the data dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	data := filepath.Join(t.TempDir(), "data")
	t.Setenv("HOME", home)
	t.Setenv("ARTIFACTVIEW_DATADIR", data)
	t.Setenv("ARTIFACTVIEW_PLANSDIR", "")
	t.Setenv("ARTIFACTVIEW_LOG_FILE", "")
	t.Setenv("ARTIFACTVIEW_WIDTH", "")
	t.Setenv("ARTIFACTVIEW_CONTEXT", "")
	t.Chdir(t.TempDir())
	return data
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func run(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	code, err = Run(append([]string{"artifactview"}, args...), &RunOptions{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	return code, out.String(), errOut.String(), err
}

func TestRun_Help(t *testing.T) {
	setupEnv(t)
	code, out, errOut, err := run(t, "", "-h")
	if err != nil || code != 0 {
		t.Fatalf("expected success, got code=%d err=%v", code, err)
	}
	for _, sub := range []string{"diff", "md", "plans", "sessions", "changes", "serve", "config", "version"} {
		if !strings.Contains(out, sub) {
			t.Fatalf("expected help to list %q, got:\n%s", sub, out)
		}
	}
	if errOut != "" {
		t.Fatalf("expected empty stderr, got %q", errOut)
	}
}

func TestRun_Version(t *testing.T) {
	setupEnv(t)
	code, out, _, err := run(t, "", "version")
	if err != nil || code != 0 {
		t.Fatalf("expected success, got code=%d err=%v", code, err)
	}
	if out != Version+"\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRun_UnknownCommand_IsUsageError(t *testing.T) {
	setupEnv(t)
	code, _, errOut, err := run(t, "", "nope")
	if err == nil || code != 2 {
		t.Fatalf("expected usage error, got code=%d err=%v", code, err)
	}
	if errOut == "" {
		t.Fatalf("expected stderr output")
	}
}

func TestRun_Diff_Unified(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	writeFile(t, oldPath, "a\nb\nc\n")
	writeFile(t, newPath, "a\nX\nc\n")

	code, out, _, err := run(t, "", "diff", "--context", "1", oldPath, newPath)
	if err != nil || code != 0 {
		t.Fatalf("expected success, got code=%d err=%v", code, err)
	}
	want := strings.Join([]string{
		"--- " + oldPath,
		"+++ " + newPath,
		"@@ -1,3 +1,3 @@",
		" a",
		"-b",
		"+X",
		" c",
	}, "\n") + "\n"
	if out != want {
		t.Fatalf("unexpected diff:\n got: %q\nwant: %q", out, want)
	}
}

func TestRun_Diff_StdinAndJSON(t *testing.T) {
	setupEnv(t)
	newPath := filepath.Join(t.TempDir(), "new.txt")
	writeFile(t, newPath, "a\nc")

	code, out, _, err := run(t, "a\nb", "diff", "-f", "json", "-", newPath)
	if err != nil || code != 0 {
		t.Fatalf("expected success, got code=%d err=%v", code, err)
	}
	var got struct {
		Entries []struct {
			Kind       string `json:"kind"`
			Content    string `json:"content"`
			LineNumber int    `json:"lineNumber"`
		} `json:"entries"`
		Stats struct {
			Added     int `json:"added"`
			Removed   int `json:"removed"`
			Unchanged int `json:"unchanged"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(got.Entries) != 3 || got.Entries[0].Kind != "same" || got.Entries[0].LineNumber != 1 || got.Entries[1].Kind != "removed" || got.Entries[2].Kind != "added" {
		t.Fatalf("unexpected entries: %+v", got.Entries)
	}
	if got.Stats.Added != 1 || got.Stats.Removed != 1 || got.Stats.Unchanged != 1 {
		t.Fatalf("unexpected stats: %+v", got.Stats)
	}
}

func TestRun_Diff_Normalize(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	writeFile(t, oldPath, "a\r\nb\r\n")
	writeFile(t, newPath, "a\nb\n")

	_, out, _, err := run(t, "", "diff", oldPath, newPath)
	if err != nil || !strings.Contains(out, "@@") {
		t.Fatalf("expected a hunk without --normalize, got err=%v out=%q", err, out)
	}
	_, out, _, err = run(t, "", "diff", "--normalize", oldPath, newPath)
	if err != nil || strings.Contains(out, "@@") {
		t.Fatalf("expected no hunks with --normalize, got err=%v out=%q", err, out)
	}
}

func TestRun_Diff_Errors(t *testing.T) {
	setupEnv(t)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "one arg", args: []string{"diff", "a"}, code: 2},
		{name: "both stdin", args: []string{"diff", "-", "-"}, code: 2},
		{name: "bad format", args: []string{"diff", "-f", "html", "a", "b"}, code: 2},
		{name: "missing file", args: []string{"diff", filepath.Join(t.TempDir(), "missing"), "-"}, code: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, _, err := run(t, "", tc.args...)
			if err == nil || code != tc.code {
				t.Fatalf("expected code %d, got code=%d err=%v", tc.code, code, err)
			}
		})
	}
}

func TestRun_Markdown(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "doc.md")
	writeFile(t, path, "# Title\n\nSome **bold** text.\n\n1. one\n2. two\n")

	_, out, _, err := run(t, "", "md", "--html", path)
	if err != nil {
		t.Fatalf("md --html: %v", err)
	}
	for _, want := range []string{`<h1 class="md-h1">Title</h1>`, "<strong>bold</strong>", `<ol class="md-ol">`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	t.Setenv("ARTIFACTVIEW_LEGACYORDEREDLISTS", "true")
	_, out, _, err = run(t, "", "md", "--html", path)
	if err != nil || strings.Contains(out, "<ol") {
		t.Fatalf("expected legacy ordered lists, got err=%v out=%q", err, out)
	}

	_, out, _, err = run(t, "", "md", path)
	if err != nil {
		t.Fatalf("md: %v", err)
	}
	if strings.Contains(out, "<") || strings.Contains(out, "\x1b[") || !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Fatalf("unexpected text rendering %q", out)
	}
}

func TestRun_Plans(t *testing.T) {
	data := setupEnv(t)
	writeFile(t, filepath.Join(data, "plans", "refactor.md"), "---\ntitle: Refactor the parser\n---\n# Ignored\n\nBody **text**.\n")
	writeFile(t, filepath.Join(data, "plans", "notes.txt"), "not a plan")

	code, out, _, err := run(t, "", "plans")
	if err != nil || code != 0 {
		t.Fatalf("plans: code=%d err=%v", code, err)
	}
	if !strings.Contains(out, "refactor") || !strings.Contains(out, "Refactor the parser") || strings.Contains(out, "notes") {
		t.Fatalf("unexpected listing %q", out)
	}

	_, out, _, err = run(t, "", "plans", "show", "--html", "refactor")
	if err != nil {
		t.Fatalf("plans show: %v", err)
	}
	if !strings.Contains(out, "<strong>text</strong>") || strings.Contains(out, "title:") {
		t.Fatalf("unexpected plan html %q", out)
	}

	code, _, _, err = run(t, "", "plans", "show", "missing")
	if err == nil || code != 1 {
		t.Fatalf("expected runtime error for missing plan, got code=%d err=%v", code, err)
	}
}

func TestRun_SessionsAndChanges(t *testing.T) {
	data := setupEnv(t)
	transcript := strings.Join([]string{
		`{"type":"file-history-snapshot","snapshot":{"timestamp":"2025-01-02T10:00:01Z","trackedFileBackups":{` +
			`"/repo/a.go":{"backupFileName":"aaaa@v1","version":1,"backupTime":"2025-01-02T10:00:01Z"}}}}`,
		`{"type":"assistant","timestamp":"2025-01-02T10:00:02Z","message":{"content":[` +
			`{"type":"tool_use","name":"Edit","input":{"file_path":"/repo/a.go","old_string":"x := 1","new_string":"x := 2"}}]}}`,
		`{"type":"file-history-snapshot","snapshot":{"timestamp":"2025-01-02T10:00:04Z","trackedFileBackups":{` +
			`"/repo/a.go":{"backupFileName":"aaaa@v2","version":2,"backupTime":"2025-01-02T10:00:04Z"}}}}`,
	}, "\n")
	writeFile(t, filepath.Join(data, "projects", "-repo", testSessionID+".jsonl"), transcript)
	writeFile(t, filepath.Join(data, "file-history", testSessionID, "aaaa@v1"), "package a\n\nx := 1\n")
	writeFile(t, filepath.Join(data, "file-history", testSessionID, "aaaa@v2"), "package a\n\nx := 2\n")

	_, out, _, err := run(t, "", "sessions")
	if err != nil || !strings.Contains(out, testSessionID) || !strings.Contains(out, "-repo") {
		t.Fatalf("sessions: err=%v out=%q", err, out)
	}

	_, out, _, err = run(t, "", "changes", testSessionID)
	if err != nil || !strings.Contains(out, "aaaa@v1") || !strings.Contains(out, "aaaa@v2") || !strings.Contains(out, "/repo/a.go") {
		t.Fatalf("changes: err=%v out=%q", err, out)
	}

	_, out, _, err = run(t, "", "changes", testSessionID, "aaaa@v2")
	if err != nil {
		t.Fatalf("changes BACKUP: %v", err)
	}
	if !strings.Contains(out, "-x := 1\n+x := 2") || !strings.Contains(out, "+++ /repo/a.go") {
		t.Fatalf("unexpected change diff %q", out)
	}

	_, out, _, err = run(t, "", "changes", "--edits", testSessionID)
	if err != nil || !strings.Contains(out, "-x := 1\n+x := 2") {
		t.Fatalf("changes --edits: err=%v out=%q", err, out)
	}

	code, _, _, err := run(t, "", "changes", "not-a-uuid")
	if err == nil || code != 1 {
		t.Fatalf("expected runtime error for invalid session id, got code=%d err=%v", code, err)
	}
	code, _, _, err = run(t, "", "changes", "--edits", testSessionID, "aaaa@v2")
	if err == nil || code != 2 {
		t.Fatalf("expected usage error, got code=%d err=%v", code, err)
	}
}

func TestRun_Config(t *testing.T) {
	data := setupEnv(t)
	t.Setenv("ARTIFACTVIEW_CONTEXT", "7")

	code, out, _, err := run(t, "", "config")
	if err != nil || code != 0 {
		t.Fatalf("config: code=%d err=%v", code, err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got["datadir"] != data || got["context"] != float64(7) || got["plansdir"] != filepath.Join(data, "plans") {
		t.Fatalf("unexpected config %v", got)
	}

	t.Setenv("ARTIFACTVIEW_CONTEXT", "-1")
	code, _, _, err = run(t, "", "config")
	if err == nil || code != 1 {
		t.Fatalf("expected invalid configuration error, got code=%d err=%v", code, err)
	}
}

func TestRun_LogsFailures(t *testing.T) {
	setupEnv(t)
	logPath := filepath.Join(t.TempDir(), "artifactview.log")
	t.Setenv("ARTIFACTVIEW_LOG_FILE", logPath)

	code, _, _, _ := run(t, "", "plans", "show", "missing")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "command failed") {
		t.Fatalf("expected failure in log, got %q", b)
	}
}
