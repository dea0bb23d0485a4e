package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"

	"magicResume/internal/errcode"
	"magicResume/internal/kv"
	"magicResume/internal/notify"
	"magicResume/internal/tasks"
)

type recordingPublisher struct {
	messages []notify.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg notify.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

type failingStore struct {
	kv.Store
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("backend down")
}

func persistTask(t *testing.T, key, value string, seq uint64) *asynq.Task {
	t.Helper()
	task, err := tasks.NewStatePersistTask(key, []byte(value), seq)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func TestPersistTaskHandler_WritesAndDropsStale(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	h := NewPersistTaskHandler(store, nil, nil)

	if err := h.ProcessTask(ctx, persistTask(t, "resume-storage", `{"state":{"theme":"dark"},"version":0}`, 20)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := h.ProcessTask(ctx, persistTask(t, "resume-storage", `{"state":{"theme":"light"},"version":0}`, 10)); err != nil {
		t.Fatalf("process stale: %v", err)
	}

	got, err := store.Get(ctx, "resume-storage")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"state":{"theme":"dark"},"version":0}` {
		t.Fatalf("stale snapshot overwrote newer one: %s", got)
	}

	if err := h.ProcessTask(ctx, persistTask(t, "ai-config-storage", `{"state":{},"version":0}`, 5)); err != nil {
		t.Fatalf("namespaces should be tracked independently: %v", err)
	}
	if _, err := store.Get(ctx, "ai-config-storage"); err != nil {
		t.Fatalf("expected ai config to be written: %v", err)
	}
}

func TestPersistTaskHandler_NotifiesOnFinalFailure(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewPersistTaskHandler(failingStore{kv.NewMemoryStore()}, pub, nil)

	h.isFinal = func(context.Context) bool { return false }
	if err := h.ProcessTask(context.Background(), persistTask(t, "resume-storage", `{}`, 1)); err == nil {
		t.Fatal("expected write error")
	}
	if len(pub.messages) != 0 {
		t.Fatalf("retryable failure should not notify, got %+v", pub.messages)
	}

	h.isFinal = func(context.Context) bool { return true }
	if err := h.ProcessTask(context.Background(), persistTask(t, "resume-storage", `{}`, 2)); err == nil {
		t.Fatal("expected write error")
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.Type != notify.TypePersistFailed || msg.ErrorCode != errcode.PersistFailed || msg.Seq != 2 {
		t.Fatalf("unexpected notification: %+v", msg)
	}
}

func TestPersistTaskHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewPersistTaskHandler(kv.NewMemoryStore(), nil, nil)
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeStatePersist, []byte("not json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
