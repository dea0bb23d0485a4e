package backend

import (
	"context"
	"errors"
	"testing"

	"magicResume/internal/config"
	"magicResume/internal/kv"
)

func TestOpen_MemoryWithPrefix(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Persist: config.PersistConfig{
		Backend:   config.BackendMemory,
		Mode:      config.ModeDirect,
		KeyPrefix: "tenant",
	}}

	b, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()

	if b.Redis != nil {
		t.Fatal("memory backend should not open redis")
	}
	if err := b.Store.Set(ctx, "resume-storage", []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := b.Store.Get(ctx, "resume-storage"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := b.Store.Get(ctx, "other"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Persist: config.PersistConfig{Backend: "etcd", Mode: config.ModeDirect}}
	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
