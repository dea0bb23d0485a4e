package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"magicResume/internal/kv"
)

// 这两个键位于任何 store 命名空间之外。
const (
	KeyHandle = "syncDirectory"
	KeyPath   = "syncDirectoryPath"
)

// Gateway 负责保存、读取同步目录绑定，并在复用前校验权限。
type Gateway struct {
	store  kv.Store
	codec  Codec
	logger *slog.Logger
}

// NewGateway 构造 Gateway。
func NewGateway(store kv.Store, codec Codec, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, codec: codec, logger: logger}
}

// LoadBinding 读取已保存的绑定。句柄或路径缺失、句柄失效、权限被拒绝时均返回 nil, nil。
func (g *Gateway) LoadBinding(ctx context.Context) (*Binding, error) {
	// 读失败与未绑定同等对待：调用方只关心是否有可用目录。
	rawHandle, ok := g.read(ctx, KeyHandle)
	if !ok {
		return nil, nil
	}
	rawPath, ok := g.read(ctx, KeyPath)
	if !ok {
		return nil, nil
	}

	var path string
	if err := json.Unmarshal(rawPath, &path); err != nil || path == "" {
		g.logger.Warn("discard unreadable directory path", slog.Any("error", err))
		return nil, nil
	}

	handle, err := g.codec.Decode(rawHandle)
	if err != nil {
		g.logger.Warn("discard unreadable directory handle", slog.Any("error", err))
		return nil, nil
	}

	if !g.VerifyPermission(ctx, handle) {
		g.logger.Info("stored directory no longer accessible", slog.String("path", path))
		return nil, nil
	}
	return &Binding{Handle: handle, Path: path}, nil
}

// SelectDirectory 通过 picker 让用户选择目录，授权后保存绑定。
// picker 为 nil 表示宿主不支持目录选择。用户取消或拒绝授权时返回 nil, nil。
func (g *Gateway) SelectDirectory(ctx context.Context, picker Picker) (*Binding, error) {
	if picker == nil {
		return nil, ErrUnsupportedEnvironment
	}

	handle, err := picker.PickDirectory(ctx, ModeReadWrite)
	if errors.Is(err, ErrPickCancelled) {
		g.logger.Info("directory selection cancelled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pick directory: %w", err)
	}

	if !g.VerifyPermission(ctx, handle) {
		g.logger.Info("directory permission not granted", slog.String("name", handle.Name()))
		return nil, nil
	}

	binding := &Binding{Handle: handle, Path: handle.Name()}
	if err := g.save(ctx, binding); err != nil {
		// 绑定在本次会话中仍然可用，只是不能跨会话恢复。
		g.logger.Error("persist directory binding failed", slog.String("path", binding.Path), slog.Any("error", err))
	}
	return binding, nil
}

// VerifyPermission 查询句柄的读写权限，未授予时主动请求一次。结果从不缓存。
func (g *Gateway) VerifyPermission(ctx context.Context, handle Handle) bool {
	state, err := handle.QueryPermission(ctx, ModeReadWrite)
	if err != nil {
		g.logger.Warn("query directory permission failed", slog.String("name", handle.Name()), slog.Any("error", err))
	} else if state == PermissionGranted {
		return true
	}

	state, err = handle.RequestPermission(ctx, ModeReadWrite)
	if err != nil {
		g.logger.Warn("request directory permission failed", slog.String("name", handle.Name()), slog.Any("error", err))
		return false
	}
	return state == PermissionGranted
}

// ClearBinding 删除已保存的绑定。
func (g *Gateway) ClearBinding(ctx context.Context) error {
	if err := g.store.Delete(ctx, KeyHandle); err != nil {
		return fmt.Errorf("delete directory handle: %w", err)
	}
	if err := g.store.Delete(ctx, KeyPath); err != nil {
		return fmt.Errorf("delete directory path: %w", err)
	}
	return nil
}

func (g *Gateway) save(ctx context.Context, b *Binding) error {
	rawHandle, err := g.codec.Encode(b.Handle)
	if err != nil {
		return fmt.Errorf("encode directory handle: %w", err)
	}
	rawPath, err := json.Marshal(b.Path)
	if err != nil {
		return fmt.Errorf("encode directory path: %w", err)
	}
	if err := g.store.Set(ctx, KeyHandle, rawHandle); err != nil {
		return fmt.Errorf("store directory handle: %w", err)
	}
	if err := g.store.Set(ctx, KeyPath, rawPath); err != nil {
		return fmt.Errorf("store directory path: %w", err)
	}
	return nil
}

func (g *Gateway) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := g.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		g.logger.Warn("read directory binding failed", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return raw, true
}
