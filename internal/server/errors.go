package server

import (
	"fmt"
)

// PortInUseError はポートが既に使用されているためにバインドできなかったことを表す
type PortInUseError struct {
	Port int
	Err  error
}

func (e *PortInUseError) Error() string {
	return fmt.Sprintf("ポート %d は既に使用されています: %v", e.Port, e.Err)
}

func (e *PortInUseError) Unwrap() error {
	return e.Err
}

// StartupError はポート使用中以外の理由でバインドに失敗したことを表す
type StartupError struct {
	Addr string
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s でのサーバー起動に失敗: %v", e.Addr, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// classifyListenError はリッスン時のエラーを種類ごとに分類する
func classifyListenError(addr string, port int, err error) error {
	if isAddressInUse(err) {
		return &PortInUseError{Port: port, Err: err}
	}
	return &StartupError{Addr: addr, Err: err}
}
