//go:build windows

package host

import (
	"os/exec"
)

// killProcessGroup kills a backend process on Windows. Windows has no
// Unix-style process groups; child cleanup relies on the
// CREATE_NEW_PROCESS_GROUP flag set at spawn time.
func killProcessGroup(pid int, cmd *exec.Cmd) error {
	if cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			// "process already finished" is not an error we care about
			if err.Error() != "os: process already finished" {
				return err
			}
		}
	}
	return nil
}
