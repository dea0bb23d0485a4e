// Package kv 定义状态镜像使用的键值存储端口及其实现。
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound 表示键不存在。
var ErrNotFound = errors.New("kv: key not found")

// Store 是按字符串键读写不透明字节值的存储服务。
// Delete 对不存在的键是幂等的。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type prefixed struct {
	inner  Store
	prefix string
}

// WithPrefix 为所有键加上命名空间前缀；前缀为空时原样返回。
func WithPrefix(store Store, prefix string) Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return store
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &prefixed{inner: store, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}
