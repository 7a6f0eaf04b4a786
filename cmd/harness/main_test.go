package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newWorkspace creates a problems-layout workspace with one echo problem.
func newWorkspace(t *testing.T, expected string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".harness"), "solution: solution.sh\ntimeout: 5s\n")
	writeFile(t, filepath.Join(root, "solutions", "Echo", "solution.sh"), "cat\n")
	writeFile(t, filepath.Join(root, "solutions", "Echo", "testcases", "1.in"), "hello\n")
	writeFile(t, filepath.Join(root, "solutions", "Echo", "testcases", "1.out"), expected)
	return root
}

func TestRunMain_Pass(t *testing.T) {
	root := newWorkspace(t, "hello\n")

	var out bytes.Buffer
	code, err := runMain([]string{"-dir", root}, &out)
	if err != nil {
		t.Fatalf("runMain: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0\n%s", code, out.String())
	}
	want := "[Echo:1] ✅ Pass\n\n=== Summary ===\nPassed: 1/1\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunMain_WrongOutput(t *testing.T) {
	root := newWorkspace(t, "bye\n")

	var out bytes.Buffer
	code, err := runMain([]string{"-dir", root}, &out)
	if err != nil {
		t.Fatalf("runMain: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "❌ Output not matching") {
		t.Errorf("missing mismatch message:\n%s", out.String())
	}
	if !strings.HasSuffix(out.String(), "Passed: 0/1\n") {
		t.Errorf("missing summary:\n%s", out.String())
	}
}

func TestRunMain_JSONAndSave(t *testing.T) {
	root := newWorkspace(t, "hello\n")
	saveDir := t.TempDir()

	var out bytes.Buffer
	code, err := runMain([]string{"-dir", root, "-json", "-save", saveDir}, &out)
	if err != nil {
		t.Fatalf("runMain: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out.String(), `"verdict": "pass"`) {
		t.Errorf("JSON output missing verdict:\n%s", out.String())
	}
	entries, err := os.ReadDir(saveDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".json" {
		t.Errorf("saved files = %v, want one .json", entries)
	}
}

func TestRunMain_NoCases(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "solutions"), 0o755); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	code, err := runMain([]string{"-dir", root}, &out)
	if err != nil {
		t.Fatalf("runMain: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "No testcases were executed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunMain_BadLayoutFlag(t *testing.T) {
	root := newWorkspace(t, "hello\n")
	_, err := runMain([]string{"-dir", root, "-layout", "tree"}, &bytes.Buffer{})
	if !errors.Is(err, errUsage) {
		t.Errorf("err = %v, want usage error", err)
	}
}

func TestCleanMain_Usage(t *testing.T) {
	root := newWorkspace(t, "hello\n")
	tests := []struct {
		name string
		args []string
	}{
		{"none", []string{"-dir", root}},
		{"both", []string{"-dir", root, "-all", "Echo"}},
		{"two problems", []string{"-dir", root, "Echo", "Other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cleanMain(tt.args, &bytes.Buffer{})
			if !errors.Is(err, errUsage) {
				t.Errorf("err = %v, want usage error", err)
			}
		})
	}
}

func TestCleanMain_Problem(t *testing.T) {
	root := newWorkspace(t, "hello\n")

	var out bytes.Buffer
	code, err := cleanMain([]string{"-dir", root, "Echo"}, &out)
	if err != nil {
		t.Fatalf("cleanMain: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	want := "[Echo] 🧹 Removed 2 sample file(s)\n\nTotal files removed: 2\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if _, err := os.Stat(filepath.Join(root, "solutions", "Echo", "solution.sh")); err != nil {
		t.Errorf("solution removed: %v", err)
	}
}

func TestCleanMain_NotFound(t *testing.T) {
	root := newWorkspace(t, "hello\n")

	var out bytes.Buffer
	code, err := cleanMain([]string{"-dir", root, "Missing"}, &out)
	if err != nil {
		t.Fatalf("cleanMain: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(out.String(), "Problem 'Missing' not found under ") {
		t.Errorf("output = %q", out.String())
	}
}
