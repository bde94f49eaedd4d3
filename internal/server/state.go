package server

// State はサーバーのライフサイクル状態
type State int

const (
	// StateUnstarted はバインド前の状態
	StateUnstarted State = iota
	// StateBound はポートをバインド済みで受付ループ開始前の状態
	StateBound
	// StateServing は接続を受け付けている状態
	StateServing
	// StateStopped は停止済みの状態 (再起動不可)
	StateStopped
	// StateFailed はバインドに失敗した状態
	StateFailed
)

// String は状態名を返す
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "UNSTARTED"
	case StateBound:
		return "BOUND"
	case StateServing:
		return "SERVING"
	case StateStopped:
		return "STOPPED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
