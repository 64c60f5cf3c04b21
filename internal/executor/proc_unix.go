//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
)

// sysProcAttr places the child in its own process group so the whole tree
// can be killed on timeout, not just the immediate shell.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killTree signals the child's entire process group.
func killTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		cmd.Process.Kill()
		return
	}
	syscall.Kill(-pgid, syscall.SIGKILL)
}
