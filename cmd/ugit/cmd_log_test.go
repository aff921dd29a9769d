package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/ugit/pkg/repo"
)

func chdirForTest(t *testing.T, dir string) func() {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%s): %v", dir, err)
	}
	return func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore cwd %s: %v", wd, err)
		}
	}
}

func writeCmdTestFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	absPath := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q): %v", relPath, err)
	}
	if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q): %v", relPath, err)
	}
}

func readCmdTestFile(t *testing.T, root, relPath string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		t.Fatalf("ReadFile(%q): %v", relPath, err)
	}
	return string(data)
}

func runLogCommand(t *testing.T, args ...string) string {
	t.Helper()

	cmd := newLogCmd()
	cmd.SetArgs(args)

	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("log command failed (%v): %v\noutput:\n%s", args, err, output.String())
	}
	return output.String()
}

func TestLogCmd_NoCommits(t *testing.T) {
	dir := t.TempDir()
	if _, err := repo.Init(dir); err != nil {
		t.Fatalf("repo.Init: %v", err)
	}

	restore := chdirForTest(t, dir)
	defer restore()

	output := runLogCommand(t)
	if !strings.Contains(output, "no commits yet") {
		t.Fatalf("log output = %q, want %q", output, "no commits yet")
	}
}

func TestLogCmd_OnelineHistory(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("repo.Init: %v", err)
	}

	writeCmdTestFile(t, dir, "a.txt", "v1")
	if _, err := r.Commit("first change"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	writeCmdTestFile(t, dir, "a.txt", "v2")
	head, err := r.Commit("second change")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	restore := chdirForTest(t, dir)
	defer restore()

	output := runLogCommand(t, "--oneline")
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 2 {
		t.Fatalf("log returned %d lines, want 2\noutput:\n%s", len(lines), output)
	}
	if !strings.Contains(lines[0], "second change") || !strings.Contains(lines[0], "(HEAD)") {
		t.Errorf("first line = %q, want second change decorated with (HEAD)", lines[0])
	}
	if !strings.Contains(lines[1], "first change") {
		t.Errorf("second line = %q, want first change", lines[1])
	}
	if !strings.HasPrefix(lines[0], string(head)[:8]) {
		t.Errorf("first line = %q, want prefix %q", lines[0], string(head)[:8])
	}

	limited := runLogCommand(t, "--oneline", "-n", "1")
	if got := len(strings.Split(strings.TrimSpace(limited), "\n")); got != 1 {
		t.Errorf("limited log returned %d lines, want 1", got)
	}
}

func TestLogCmd_FromRevision(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("repo.Init: %v", err)
	}

	writeCmdTestFile(t, dir, "a.txt", "v1")
	first, err := r.Commit("first change")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	writeCmdTestFile(t, dir, "a.txt", "v2")
	if _, err := r.Commit("second change"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := r.CreateTag("v1", string(first)); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	restore := chdirForTest(t, dir)
	defer restore()

	output := runLogCommand(t, "--oneline", "v1")
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Fatalf("log from v1 returned %d lines, want 1\noutput:\n%s", len(lines), output)
	}
	if !strings.Contains(lines[0], "first change") {
		t.Errorf("line = %q, want first change", lines[0])
	}
}
