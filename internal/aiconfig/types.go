package aiconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Provider 标识可互换的 AI 服务商。新增服务商需要显式扩展此枚举。
type Provider string

const (
	ProviderDoubao   Provider = "doubao"
	ProviderDeepseek Provider = "deepseek"
)

// ErrUnknownProvider 表示服务商不在枚举范围内。
var ErrUnknownProvider = errors.New("unknown ai provider")

// Providers 返回所有受支持的服务商。
func Providers() []Provider {
	return []Provider{ProviderDoubao, ProviderDeepseek}
}

// Valid 报告 p 是否为受支持的服务商。
func (p Provider) Valid() bool {
	switch p {
	case ProviderDoubao, ProviderDeepseek:
		return true
	default:
		return false
	}
}

// ParseProvider 解析外部输入的服务商名称。
func ParseProvider(raw string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, raw)
	}
	return p, nil
}

// Selection 是当前选用的服务商与模型。
type Selection struct {
	Provider Provider `json:"provider"`
	ModelID  string   `json:"modelId"`
}

// Config 是持久化的完整状态，字段名与浏览器端存储保持一致。
type Config struct {
	DoubaoAPIKey    string    `json:"doubaoApiKey"`
	DoubaoModelID   string    `json:"doubaoModelId"`
	DeepseekAPIKey  string    `json:"deepseekApiKey"`
	DeepseekModelID string    `json:"deepseekModelId"`
	CurrentAIModel  Selection `json:"currentAIModel"`
}

// Credentials 是某个服务商保存的密钥与模型。
type Credentials struct {
	Provider Provider `json:"provider"`
	APIKey   string   `json:"apiKey"`
	ModelID  string   `json:"modelId"`
}

// DefaultConfig 返回初始状态：全部为空，默认选中豆包。
func DefaultConfig() Config {
	return Config{
		CurrentAIModel: Selection{Provider: ProviderDoubao},
	}
}
