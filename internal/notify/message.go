// Package notify 将状态变更与持久化失败推送给已连接的客户端。
package notify

// 消息类型，字段名与前端解析保持一致。
const (
	TypeStateChanged  = "state_changed"
	TypePersistFailed = "persist_failed"
	TypeBindingChange = "binding_changed"
)

// Message 是通过 WebSocket 下发的统一消息结构。
type Message struct {
	Type         string `json:"type"`
	Namespace    string `json:"namespace,omitempty"`
	Seq          uint64 `json:"seq,omitempty"`
	ErrorCode    int    `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
