package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrOutsideRoot 表示请求的目录不在允许的根目录下。
var ErrOutsideRoot = errors.New("directory is outside the allowed root")

// ErrInvalidFileName 表示文件名包含路径成分。
var ErrInvalidFileName = errors.New("invalid file name")

// DirHandle 是本地文件系统上的目录能力。
// 本地宿主没有交互式授权，RequestPermission 与 QueryPermission 结果相同。
type DirHandle struct {
	path string
}

// NewDirHandle 以绝对路径构造句柄，不检查目录是否存在。
func NewDirHandle(path string) *DirHandle {
	return &DirHandle{path: filepath.Clean(path)}
}

// Path 返回目录的绝对路径。
func (h *DirHandle) Path() string { return h.path }

func (h *DirHandle) Name() string { return filepath.Base(h.path) }

func (h *DirHandle) QueryPermission(_ context.Context, mode Mode) (PermissionState, error) {
	info, err := os.Stat(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return PermissionDenied, nil
		}
		return PermissionDenied, fmt.Errorf("stat %q: %w", h.path, err)
	}
	if !info.IsDir() {
		return PermissionDenied, nil
	}

	dir, err := os.Open(h.path)
	if err != nil {
		return PermissionDenied, nil
	}
	dir.Close()

	if mode != ModeReadWrite {
		return PermissionGranted, nil
	}

	tmp, err := os.CreateTemp(h.path, ".magic-resume-check-*")
	if err != nil {
		return PermissionDenied, nil
	}
	name := tmp.Name()
	tmp.Close()
	_ = os.Remove(name)
	return PermissionGranted, nil
}

func (h *DirHandle) RequestPermission(ctx context.Context, mode Mode) (PermissionState, error) {
	return h.QueryPermission(ctx, mode)
}

func (h *DirHandle) ReadFile(_ context.Context, name string) ([]byte, error) {
	full, err := h.child(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// WriteFile 先写临时文件再重命名，避免读到半截内容。
func (h *DirHandle) WriteFile(_ context.Context, name string, data []byte) error {
	full, err := h.child(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(h.path, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %q: %w", name, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %q: %w", name, err)
	}
	return nil
}

func (h *DirHandle) child(name string) (string, error) {
	if !isValidFileName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	full := filepath.Join(h.path, name)
	// 目录内的文件不能是链接，否则读写会落到目录之外。
	if info, err := os.Lstat(full); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("%w: %q is a symlink", ErrOutsideRoot, name)
	}
	return full, nil
}

func isValidFileName(name string) bool {
	if name == "" || !utf8.ValidString(name) || len(name) > 200 {
		return false
	}
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// resolveUnderRoot 将 requested 解析为 root 下的绝对路径。目录存在时按解析符号链接后的
// 真实路径再校验一次，指向根目录之外的链接会被拒绝。不存在的目录原样返回，权限检查会拒绝它。
func resolveUnderRoot(root, requested string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	target := requested
	if !filepath.IsAbs(target) {
		target = filepath.Join(absRoot, target)
	}
	target = filepath.Clean(target)

	if !within(absRoot, target) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, requested)
	}

	realTarget, err := filepath.EvalSymlinks(target)
	if errors.Is(err, os.ErrNotExist) {
		return target, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", requested, err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	if !within(realRoot, realTarget) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, requested)
	}
	return realTarget, nil
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// PathPicker 充当本地宿主的目录选择器：用户提交的路径即为"选中"的目录。
type PathPicker struct {
	root      string
	requested string
}

// NewPathPicker 返回限定在 root 下的选择器；root 为空时返回 nil，表示不支持目录选择。
func NewPathPicker(root, requested string) Picker {
	if strings.TrimSpace(root) == "" {
		return nil
	}
	return &PathPicker{root: root, requested: requested}
}

func (p *PathPicker) PickDirectory(_ context.Context, _ Mode) (Handle, error) {
	requested := strings.TrimSpace(p.requested)
	if requested == "" {
		return nil, ErrPickCancelled
	}
	target, err := resolveUnderRoot(p.root, requested)
	if err != nil {
		return nil, err
	}
	return NewDirHandle(target), nil
}

// PathCodec 将 DirHandle 保存为 JSON 中的绝对路径，还原时重新校验根目录。
type PathCodec struct {
	Root string
}

type encodedHandle struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

const handleKindLocal = "local-directory"

func (c PathCodec) Encode(h Handle) ([]byte, error) {
	dh, ok := h.(*DirHandle)
	if !ok {
		return nil, fmt.Errorf("unsupported handle type %T", h)
	}
	return json.Marshal(encodedHandle{Kind: handleKindLocal, Path: dh.Path()})
}

func (c PathCodec) Decode(data []byte) (Handle, error) {
	var enc encodedHandle
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("unmarshal handle: %w", err)
	}
	if enc.Kind != handleKindLocal || enc.Path == "" {
		return nil, fmt.Errorf("unsupported handle kind %q", enc.Kind)
	}
	if strings.TrimSpace(c.Root) == "" {
		return nil, ErrUnsupportedEnvironment
	}
	target, err := resolveUnderRoot(c.Root, enc.Path)
	if err != nil {
		return nil, err
	}
	return NewDirHandle(target), nil
}
