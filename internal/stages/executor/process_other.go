//go:build !unix

package executor

import (
	"os"
	"os/exec"
)

func configureProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// terminatedBySignal cannot tell a kill from an exit here; an unsuccessful exit counts as killed.
func terminatedBySignal(state *os.ProcessState) bool {
	return state != nil && !state.Success()
}
