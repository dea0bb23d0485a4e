package kv

import (
	"context"
	"strings"

	"magicResume/internal/storage"
)

// objectClient 是 ObjectStore 依赖的对象存储能力，由 storage.Client 实现。
type objectClient interface {
	PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error
	ReadObject(ctx context.Context, objectKey string) ([]byte, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

const objectPrefix = "state/"

// ObjectStore 将每个键保存为 Bucket 中的一个 JSON 对象。
type ObjectStore struct {
	client objectClient
}

// NewObjectStore 构造基于 MinIO 的 Store。
func NewObjectStore(client objectClient) *ObjectStore {
	return &ObjectStore{client: client}
}

func objectKeyFor(key string) string {
	return objectPrefix + strings.ReplaceAll(key, ":", "/") + ".json"
}

func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.ReadObject(ctx, objectKeyFor(key))
	if err != nil {
		if storage.IsNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *ObjectStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.PutObject(ctx, objectKeyFor(key), value, "application/json")
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	return s.client.DeleteObject(ctx, objectKeyFor(key))
}
