//go:build unix

package runner

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestRun_BackgroundChildHoldsStdout(t *testing.T) {
	r := newTestRunner(t)
	pidFile := filepath.Join(t.TempDir(), "bg.pid")

	// The solution exits at once but leaves a sleep holding its stdout.
	script := `sleep 10 & echo $! > "$1"; echo 1`
	start := time.Now()
	res, err := r.Run(context.Background(), []string{"sh", "-c", script, "sh", pidFile}, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Run took %v, want it bounded by the wait delay", elapsed)
	}
	if res.TimedOut {
		t.Error("TimedOut = true, want false")
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "1" {
		t.Errorf("Stdout = %q, want %q", got, "1")
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatal(err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	// The orphan is reparented and reaped asynchronously after the kill.
	deadline := time.Now().Add(2 * time.Second)
	for unix.Kill(pid, 0) == nil {
		if time.Now().After(deadline) {
			t.Fatalf("background child %d still running after Run returned", pid)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
