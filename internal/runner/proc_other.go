//go:build !unix

package runner

import "os/exec"

// isolate is a no-op where process groups are unavailable; cancellation
// falls back to killing the direct child.
func isolate(cmd *exec.Cmd) func() {
	return func() {}
}
