package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"magicResume/internal/database"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "resume-storage"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if err := store.Set(ctx, "resume-storage", []byte(`{"state":{"theme":"light"},"version":0}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "resume-storage", []byte(`{"state":{"theme":"dark"},"version":0}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Get(ctx, "resume-storage")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Contains(got, []byte(`"dark"`)) {
		t.Fatalf("expected latest value, got %s", got)
	}

	if err := store.Delete(ctx, "resume-storage"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "resume-storage"); err != nil {
		t.Fatalf("second delete should be idempotent: %v", err)
	}
	if _, err := store.Get(ctx, "resume-storage"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	value := []byte(`"a"`)
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[1] = 'b'

	got, _ := store.Get(ctx, "k")
	if string(got) != `"a"` {
		t.Fatalf("stored value mutated through caller slice: %s", got)
	}
}

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	store := WithPrefix(inner, "tenant-a")

	exerciseStore(t, store)

	if err := store.Set(ctx, "ai-config-storage", []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := inner.Get(ctx, "tenant-a:ai-config-storage"); err != nil {
		t.Fatalf("expected prefixed key in inner store: %v", err)
	}
	if WithPrefix(inner, "  ") != Store(inner) {
		t.Fatalf("blank prefix should return the inner store")
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGormStore(t *testing.T) {
	exerciseStore(t, NewGormStore(newTestDB(t)))
}

type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) PutObject(_ context.Context, objectKey string, data []byte, _ string) error {
	f.objects[objectKey] = append([]byte(nil), data...)
	return nil
}

func (f *fakeObjects) ReadObject(_ context.Context, objectKey string) ([]byte, error) {
	data, ok := f.objects[objectKey]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return data, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, objectKey string) error {
	delete(f.objects, objectKey)
	return nil
}

func TestObjectStore(t *testing.T) {
	fake := &fakeObjects{objects: map[string][]byte{}}
	exerciseStore(t, NewObjectStore(fake))

	if err := NewObjectStore(fake).Set(context.Background(), "tenant:syncDirectory", []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := fake.objects["state/tenant/syncDirectory.json"]; !ok {
		t.Fatalf("unexpected object layout: %v", fake.objects)
	}
}
