package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hibiken/asynq"

	"magicResume/internal/errcode"
	"magicResume/internal/kv"
	"magicResume/internal/notify"
	"magicResume/internal/tasks"
)

// PersistTaskHandler 消费镜像写入任务，把快照写入共享后端。
// 同一命名空间只接受比已写入序号更新的快照。
type PersistTaskHandler struct {
	store     kv.Store
	publisher notify.Publisher
	logger    *slog.Logger
	isFinal   func(ctx context.Context) bool

	mu      sync.Mutex
	applied map[string]uint64
}

// NewPersistTaskHandler 创建任务处理器。publisher 可以为 nil。
func NewPersistTaskHandler(store kv.Store, publisher notify.Publisher, logger *slog.Logger) *PersistTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistTaskHandler{
		store:     store,
		publisher: publisher,
		logger:    logger,
		isFinal:   isFinalAsynqAttempt,
		applied:   map[string]uint64{},
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *PersistTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.StatePersistPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Key == "" {
		return fmt.Errorf("empty state key: %w", asynq.SkipRetry)
	}

	log := h.logger.With(
		slog.String("namespace", payload.Key),
		slog.Uint64("seq", payload.Seq),
	)

	defer func() {
		if retErr == nil || !h.isFinal(ctx) {
			return
		}
		h.publish(ctx, log, notify.Message{
			Type:         notify.TypePersistFailed,
			Namespace:    payload.Key,
			Seq:          payload.Seq,
			ErrorCode:    errcode.PersistFailed,
			ErrorMessage: strings.TrimSpace(retErr.Error()),
		})
	}()

	h.mu.Lock()
	defer h.mu.Unlock()

	if last, ok := h.applied[payload.Key]; ok && payload.Seq <= last {
		log.Info("skip stale state snapshot", slog.Uint64("applied_seq", last))
		return nil
	}

	if err := h.store.Set(ctx, payload.Key, payload.Value); err != nil {
		log.Error("write state snapshot failed", slog.Any("error", err))
		return fmt.Errorf("write %q: %w", payload.Key, err)
	}
	h.applied[payload.Key] = payload.Seq

	log.Debug("state snapshot persisted")
	return nil
}

func (h *PersistTaskHandler) publish(ctx context.Context, log *slog.Logger, msg notify.Message) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, msg); err != nil {
		log.Error("publish persist notification failed", slog.Any("error", err))
	}
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
