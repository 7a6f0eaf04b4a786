package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestClean_SingleProblem(t *testing.T) {
	root := t.TempDir()
	writeSolution(t, root, "A", "cat\n", map[string]string{"1.in": "", "1.out": "", "2.in": "", "notes.txt": ""})
	writeSolution(t, root, "B", "cat\n", map[string]string{"1.in": "", "1.out": ""})

	e := newEndToEndEngine(t, root)
	res, err := e.Clean("A")
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if res.Removed != 3 {
		t.Errorf("Removed = %d, want 3", res.Removed)
	}
	if len(res.Entries) != 1 || res.Entries[0].Message != "[A] 🧹 Removed 3 sample file(s)" {
		t.Errorf("Entries = %+v", res.Entries)
	}

	left, _ := filepath.Glob(filepath.Join(root, "solutions", "A", "testcases", "*"))
	if len(left) != 1 || filepath.Base(left[0]) != "notes.txt" {
		t.Errorf("remaining files = %v, want only notes.txt", left)
	}
	if _, err := os.Stat(filepath.Join(root, "solutions", "A", "solution.sh")); err != nil {
		t.Error("cleanup must not remove the solution")
	}
	if _, err := os.Stat(filepath.Join(root, "solutions", "B", "testcases", "1.in")); err != nil {
		t.Error("cleanup of A must not touch B")
	}
}

func TestClean_All(t *testing.T) {
	root := t.TempDir()
	writeSolution(t, root, "A", "cat\n", map[string]string{"1.in": "", "1.out": ""})
	writeSolution(t, root, "B", "cat\n", nil)
	if err := os.MkdirAll(filepath.Join(root, "solutions", "C"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := newEndToEndEngine(t, root).Clean("")
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if res.Removed != 2 {
		t.Errorf("Removed = %d, want 2", res.Removed)
	}
	want := "[A] 🧹 Removed 2 sample file(s)\n[B] Nothing to clean\n[C] ⚠️ No testcase directory to clean"
	if got := res.Log(); got != want {
		t.Errorf("Log() =\n%s\nwant\n%s", got, want)
	}
	if res.Summary() != "Total files removed: 2" {
		t.Errorf("Summary() = %q", res.Summary())
	}
}

func TestClean_UnknownProblem(t *testing.T) {
	root := t.TempDir()
	writeSolution(t, root, "A", "cat\n", nil)
	if _, err := newEndToEndEngine(t, root).Clean("Z"); !errors.Is(err, ErrProblemNotFound) {
		t.Fatalf("Clean(Z) error = %v, want ErrProblemNotFound", err)
	}
}
