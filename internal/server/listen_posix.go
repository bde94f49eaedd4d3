//go:build !windows

package server

import (
	"errors"
	"syscall"
)

// isAddressInUse はリッスンエラーがアドレス使用中によるものかを返す
func isAddressInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
