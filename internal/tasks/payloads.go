package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeStatePersist = "state:persist"
)

// QueuePersist 是镜像写入任务使用的队列。
const QueuePersist = "persist"

// StatePersistPayload 携带一个命名空间的完整状态快照。
// Seq 单调递增，消费者据此丢弃过期快照。
type StatePersistPayload struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
	Seq   uint64          `json:"seq"`
}

// NewStatePersistTask 构造一个镜像写入任务。
func NewStatePersistTask(key string, value []byte, seq uint64) (*asynq.Task, error) {
	payload, err := json.Marshal(StatePersistPayload{
		Key:   key,
		Value: json.RawMessage(value),
		Seq:   seq,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStatePersist, payload), nil
}
