// Package persist 实现状态的持久化镜像：内存状态为准，异步写入键值存储。
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"magicResume/internal/kv"
)

// Version 是快照信封格式版本，与浏览器端 persist 中间件的 version 字段一致。
const Version = 0

// envelope 与浏览器端持久化格式兼容：{"state": ..., "version": 0}。
type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// Committer 接收每次变更后的完整状态快照。实现不得阻塞。
type Committer interface {
	Commit(key string, state any)
}

// Source 是 Hydrate 读取快照的来源，kv.Store 满足该接口。
type Source interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Encode 将状态编码为信封。
func Encode(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return json.Marshal(envelope{State: raw, Version: Version})
}

// Decode 将信封中的状态解码到 dst。
func Decode(data []byte, dst any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version > Version {
		return fmt.Errorf("unsupported snapshot version %d", env.Version)
	}
	if len(env.State) == 0 || string(env.State) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.State, dst); err != nil {
		return fmt.Errorf("unmarshal state: %w", err)
	}
	return nil
}

// Hydrate 从 src 读取 key 对应的快照并覆盖到 dst 上。
// 键不存在时返回 false 且 dst 保持默认值。
func Hydrate(ctx context.Context, src Source, key string, dst any) (bool, error) {
	data, err := src.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %q: %w", key, err)
	}
	if err := Decode(data, dst); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}
