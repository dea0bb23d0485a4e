package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"magicResume/internal/errcode"
	"magicResume/internal/metrics"
	"magicResume/internal/notify"
)

// Entry 是一条待写出的快照。
type Entry struct {
	Key   string
	Value []byte
	Seq   uint64
}

// Writer 将快照写入持久化后端。
type Writer interface {
	Write(ctx context.Context, entry Entry) error
}

// Mirror 在后台把最新快照写入 Writer。
// 同一个键在写出前多次提交时只保留最新一份；写入失败只记录日志并通知，不回滚内存状态。
type Mirror struct {
	writer       Writer
	publisher    notify.Publisher
	logger       *slog.Logger
	writeTimeout time.Duration

	mu      sync.Mutex
	pending map[string]Entry
	order   []string
	lastSeq uint64

	// 取出与写出在同一把锁下完成，保证同一键的写入顺序与提交顺序一致。
	writeMu sync.Mutex
	wake    chan struct{}
}

// NewMirror 构造 Mirror。publisher 可以为 nil。
func NewMirror(writer Writer, publisher notify.Publisher, logger *slog.Logger, writeTimeout time.Duration) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Mirror{
		writer:       writer,
		publisher:    publisher,
		logger:       logger,
		writeTimeout: writeTimeout,
		pending:      map[string]Entry{},
		wake:         make(chan struct{}, 1),
	}
}

// Commit 实现 Committer。编码失败只记录日志。
func (m *Mirror) Commit(key string, state any) {
	value, err := Encode(state)
	if err != nil {
		m.logger.Error("encode state snapshot failed", slog.String("namespace", key), slog.Any("error", err))
		return
	}

	m.mu.Lock()
	seq := m.nextSeq()
	if _, queued := m.pending[key]; queued {
		metrics.ObserveMirrorCoalesced(key)
	} else {
		m.order = append(m.order, key)
	}
	m.pending[key] = Entry{Key: key, Value: value, Seq: seq}
	pending := len(m.pending)
	m.mu.Unlock()

	metrics.SetMirrorPending(pending)
	m.publish(notify.Message{Type: notify.TypeStateChanged, Namespace: key, Seq: seq})

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// 序号取纳秒时间戳，并保证在进程内严格递增，重启后仍大于之前写出的序号。
func (m *Mirror) nextSeq() uint64 {
	now := uint64(time.Now().UnixNano())
	if now <= m.lastSeq {
		now = m.lastSeq + 1
	}
	m.lastSeq = now
	return now
}

// Run 持续写出待处理快照，直到 ctx 结束；结束前会尽力写出剩余快照。
func (m *Mirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if err := m.drain(context.Background()); err != nil {
				m.logger.Warn("final mirror drain incomplete", slog.Any("error", err))
			}
			return
		case <-m.wake:
			// 写入只受单次超时约束，关停信号不能打断已取出的快照。
			_ = m.drain(context.WithoutCancel(ctx))
		}
	}
}

// Flush 同步写出所有待处理快照，返回本次写出中的错误。
func (m *Mirror) Flush(ctx context.Context) error {
	return m.drain(ctx)
}

// Pending 返回尚未写出的命名空间数量。
func (m *Mirror) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Mirror) take() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) == 0 {
		return nil
	}
	batch := make([]Entry, 0, len(m.order))
	for _, key := range m.order {
		batch = append(batch, m.pending[key])
	}
	m.pending = map[string]Entry{}
	m.order = m.order[:0]
	return batch
}

func (m *Mirror) drain(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	batch := m.take()
	metrics.SetMirrorPending(m.Pending())

	var errs []error
	for _, entry := range batch {
		writeCtx, cancel := context.WithTimeout(ctx, m.writeTimeout)
		err := m.writer.Write(writeCtx, entry)
		cancel()

		metrics.ObserveMirrorWrite(entry.Key, err)
		if err == nil {
			continue
		}

		errs = append(errs, fmt.Errorf("write %q: %w", entry.Key, err))
		m.logger.Error("persist state snapshot failed",
			slog.String("namespace", entry.Key),
			slog.Uint64("seq", entry.Seq),
			slog.Any("error", err),
		)
		m.publish(notify.Message{
			Type:         notify.TypePersistFailed,
			Namespace:    entry.Key,
			Seq:          entry.Seq,
			ErrorCode:    errcode.PersistFailed,
			ErrorMessage: err.Error(),
		})
	}
	return errors.Join(errs...)
}

func (m *Mirror) publish(msg notify.Message) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.Publish(context.Background(), msg); err != nil {
		m.logger.Warn("publish notification failed", slog.String("type", msg.Type), slog.Any("error", err))
	}
}
