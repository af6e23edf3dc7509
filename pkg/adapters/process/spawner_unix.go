//go:build !windows

package process

import (
	"os"
	"os/exec"
	"syscall"
	"time"
)

// gracePeriod is how long a cancelled process may take to exit after SIGTERM.
const gracePeriod = 5 * time.Second

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// configureGraceful makes context cancellation signal the whole process group
// with SIGTERM first and kill it only after the grace period.
func configureGraceful(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM); err != nil {
			return cmd.Process.Signal(os.Interrupt)
		}
		return nil
	}
	cmd.WaitDelay = gracePeriod
}
