//go:build !linux

package bootstrap

import (
	"syscall"
	"time"
)

// TCP_DEFER_ACCEPT is Linux only; elsewhere the option is ignored.
func controlDeferAccept(time.Duration) func(network, address string, c syscall.RawConn) error {
	return nil
}
