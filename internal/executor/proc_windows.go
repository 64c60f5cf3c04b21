//go:build windows

package executor

import (
	"os/exec"
	"syscall"
)

// sysProcAttr creates the child in a new process group so console signals
// do not leak between the CLI and the command it runs.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// killTree terminates the child. Windows has no POSIX process groups to
// signal; descendants are left to the job object the shell creates.
func killTree(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}
