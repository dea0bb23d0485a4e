package persist

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"magicResume/internal/kv"
	"magicResume/internal/tasks"
)

// KVWriter 直接把快照写入键值存储。
type KVWriter struct {
	Store kv.Store
}

func (w KVWriter) Write(ctx context.Context, entry Entry) error {
	return w.Store.Set(ctx, entry.Key, entry.Value)
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskWriter 把快照作为 Asynq 任务交给 worker 写入。
type TaskWriter struct {
	client   enqueuer
	maxRetry int
}

// NewTaskWriter 构造 TaskWriter。
func NewTaskWriter(client enqueuer, maxRetry int) *TaskWriter {
	return &TaskWriter{client: client, maxRetry: maxRetry}
}

func (w *TaskWriter) Write(ctx context.Context, entry Entry) error {
	task, err := tasks.NewStatePersistTask(entry.Key, entry.Value, entry.Seq)
	if err != nil {
		return fmt.Errorf("build persist task: %w", err)
	}
	if _, err := w.client.EnqueueContext(ctx, task,
		asynq.Queue(tasks.QueuePersist),
		asynq.MaxRetry(w.maxRetry),
	); err != nil {
		return fmt.Errorf("enqueue persist task: %w", err)
	}
	return nil
}
