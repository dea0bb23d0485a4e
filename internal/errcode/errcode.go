package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：可恢复错误（内存状态仍然有效，流程可继续）
const (
	OK            = 0
	PersistFailed = 4009
)
