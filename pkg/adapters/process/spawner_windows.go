//go:build windows

package process

import (
	"os/exec"
	"time"
)

const gracePeriod = 5 * time.Second

func detach(cmd *exec.Cmd) {}

func configureGraceful(cmd *exec.Cmd) {
	cmd.WaitDelay = gracePeriod
}
