//go:build linux

package bootstrap

import (
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// controlDeferAccept sets TCP_DEFER_ACCEPT so the kernel holds a connection
// back from accept until its first bytes arrive or d has passed.
func controlDeferAccept(d time.Duration) func(network, address string, c syscall.RawConn) error {
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}

	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_DEFER_ACCEPT, secs)
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}
