//go:build windows

package internal

import "os"

var foregroundSignals []os.Signal
