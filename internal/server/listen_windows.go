package server

import (
	"errors"
	"syscall"
)

// WSAEADDRINUSE は POSIX の EADDRINUSE に相当する Winsock のエラーコード
// https://docs.microsoft.com/en-us/windows/win32/winsock/windows-sockets-error-codes-2
const WSAEADDRINUSE syscall.Errno = 10048

// isAddressInUse はリッスンエラーがアドレス使用中によるものかを返す
func isAddressInUse(err error) bool {
	return errors.Is(err, WSAEADDRINUSE) || errors.Is(err, syscall.EADDRINUSE)
}
