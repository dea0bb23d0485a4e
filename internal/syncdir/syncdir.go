// Package syncdir 在已绑定的同步目录中导出、导入简历文档。
package syncdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"magicResume/internal/directory"
	"magicResume/internal/resume"
)

// Format 是导出文件格式。
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrNoBinding 表示尚未选择同步目录或目录已不可用。
	ErrNoBinding = errors.New("no sync directory bound")
	// ErrUnknownFormat 表示导出格式不受支持。
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrMalformedFile 表示导入文件无法解析为简历文档。
	ErrMalformedFile = errors.New("malformed resume file")
)

// ParseFormat 解析格式名，空字符串视为 json。
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// FileName 返回该格式的导出文件名。
func (f Format) FileName() string {
	if f == FormatYAML {
		return "resume.yaml"
	}
	return "resume.json"
}

type bindingLoader interface {
	LoadBinding(ctx context.Context) (*directory.Binding, error)
}

// Exporter 连接简历 store 与同步目录。
type Exporter struct {
	gateway bindingLoader
	store   *resume.Store
	logger  *slog.Logger
}

// NewExporter 构造 Exporter。
func NewExporter(gateway bindingLoader, store *resume.Store, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{gateway: gateway, store: store, logger: logger}
}

// Export 将当前文档写入同步目录，返回写入的文件名。
func (e *Exporter) Export(ctx context.Context, format Format) (string, error) {
	binding, err := e.binding(ctx)
	if err != nil {
		return "", err
	}

	data, err := encode(e.store.State(), format)
	if err != nil {
		return "", err
	}

	name := format.FileName()
	if err := binding.Handle.WriteFile(ctx, name, data); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	e.logger.Info("resume exported", slog.String("directory", binding.Path), slog.String("file", name))
	return name, nil
}

// Import 读取同步目录中的文件并整体替换当前文档。格式由扩展名决定。
func (e *Exporter) Import(ctx context.Context, name string) error {
	format, err := formatFromName(name)
	if err != nil {
		return err
	}

	binding, err := e.binding(ctx)
	if err != nil {
		return err
	}

	data, err := binding.Handle.ReadFile(ctx, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	doc, err := decode(data, format)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedFile, name, err)
	}
	e.store.Replace(doc)
	e.logger.Info("resume imported", slog.String("directory", binding.Path), slog.String("file", name))
	return nil
}

func (e *Exporter) binding(ctx context.Context) (*directory.Binding, error) {
	binding, err := e.gateway.LoadBinding(ctx)
	if err != nil {
		return nil, err
	}
	if binding == nil {
		return nil, ErrNoBinding
	}
	return binding, nil
}

func formatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

func encode(doc resume.Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		// 经 JSON 中转，使 YAML 键名与 JSON 标签一致。
		var generic map[string]any
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(generic)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func decode(data []byte, format Format) (resume.Document, error) {
	var fields map[string]json.RawMessage
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &fields); err != nil {
			return resume.Document{}, err
		}
	case FormatYAML:
		var generic map[string]any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return resume.Document{}, err
		}
		raw, err := json.Marshal(generic)
		if err != nil {
			return resume.Document{}, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return resume.Document{}, err
		}
	default:
		return resume.Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return resume.MergeOverDefaults(fields)
}
