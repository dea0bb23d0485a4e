// Package directory 管理应用唯一可读写的同步目录。目录以能力句柄而非路径保存，
// 每次复用前都重新校验权限。
package directory

import (
	"context"
	"errors"
)

// Mode 是请求的访问模式。
type Mode string

const (
	ModeRead      Mode = "read"
	ModeReadWrite Mode = "readwrite"
)

// PermissionState 是宿主对句柄权限的答复。
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
)

var (
	// ErrUnsupportedEnvironment 表示宿主不提供目录选择能力。
	ErrUnsupportedEnvironment = errors.New("directory picker is not supported in this environment")
	// ErrPickCancelled 表示用户取消了目录选择。
	ErrPickCancelled = errors.New("directory pick cancelled")
)

// Handle 是宿主提供的目录能力。
type Handle interface {
	// Name 是展示给用户的目录名。
	Name() string
	QueryPermission(ctx context.Context, mode Mode) (PermissionState, error)
	RequestPermission(ctx context.Context, mode Mode) (PermissionState, error)
	ReadFile(ctx context.Context, name string) ([]byte, error)
	WriteFile(ctx context.Context, name string, data []byte) error
}

// Picker 是宿主的目录选择器。
type Picker interface {
	PickDirectory(ctx context.Context, mode Mode) (Handle, error)
}

// Codec 将句柄转换为可保存的字节并还原。
type Codec interface {
	Encode(h Handle) ([]byte, error)
	Decode(data []byte) (Handle, error)
}

// Binding 是成对保存的句柄与展示路径。
type Binding struct {
	Handle Handle
	Path   string
}
