//go:build !windows

package shell

import (
	"os/exec"
	"syscall"
)

// killGroup puts the engine in its own process group so that helpers it
// spawns (soffice.bin, gs workers) die with it.
func killGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
