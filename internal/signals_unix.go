//go:build !windows

package internal

import (
	"os"
	"syscall"
)

var foregroundSignals = []os.Signal{syscall.SIGUSR1}
