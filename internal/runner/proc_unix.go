//go:build unix

package runner

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// isolate places the child in a new process group and makes cancellation
// kill the whole group, so grandchildren spawned by the solution die with it.
// The returned func kills whatever is left of the group and must be called
// after Wait.
func isolate(cmd *exec.Cmd) func() {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	kill := func() error {
		if cmd.Process == nil {
			return nil
		}
		err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		if err == unix.ESRCH {
			return nil
		}
		return err
	}
	cmd.Cancel = kill
	return func() { _ = kill() }
}
