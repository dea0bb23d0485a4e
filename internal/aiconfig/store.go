// Package aiconfig 保存两个 AI 服务商的凭据以及当前选择。
package aiconfig

import (
	"context"
	"sync"

	"magicResume/internal/persist"
)

// Namespace 是该状态在键值存储中的键。
const Namespace = "ai-config-storage"

// Store 持有 AI 配置，所有写操作都是整字段替换，不做格式校验。
type Store struct {
	mu        sync.RWMutex
	state     Config
	committer persist.Committer
}

// NewStore 以默认状态构造 Store。committer 为 nil 时不做持久化。
func NewStore(committer persist.Committer) *Store {
	return &Store{state: DefaultConfig(), committer: committer}
}

// Hydrate 用已持久化的快照覆盖默认状态，不触发提交。
func (s *Store) Hydrate(ctx context.Context, src persist.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored := DefaultConfig()
	found, err := persist.Hydrate(ctx, src, Namespace, &restored)
	if err != nil {
		return err
	}
	if found {
		if !restored.CurrentAIModel.Provider.Valid() {
			restored.CurrentAIModel.Provider = ProviderDoubao
		}
		s.state = restored
	}
	return nil
}

// State 返回当前状态的副本。
func (s *Store) State() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Credentials 返回当前选中服务商保存的凭据。
func (s *Store) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()

	provider := s.state.CurrentAIModel.Provider
	switch provider {
	case ProviderDeepseek:
		return Credentials{Provider: provider, APIKey: s.state.DeepseekAPIKey, ModelID: s.state.DeepseekModelID}
	default:
		return Credentials{Provider: ProviderDoubao, APIKey: s.state.DoubaoAPIKey, ModelID: s.state.DoubaoModelID}
	}
}

func (s *Store) SetDoubaoApiKey(key string) {
	s.update(func(c *Config) { c.DoubaoAPIKey = key })
}

func (s *Store) SetDoubaoModelId(id string) {
	s.update(func(c *Config) { c.DoubaoModelID = id })
}

func (s *Store) SetDeepseekApiKey(key string) {
	s.update(func(c *Config) { c.DeepseekAPIKey = key })
}

func (s *Store) SetDeepseekModelId(id string) {
	s.update(func(c *Config) { c.DeepseekModelID = id })
}

// SetCurrentAIModel 整体替换当前选择。切换服务商不会带出该服务商已保存的模型 ID。
func (s *Store) SetCurrentAIModel(sel Selection) {
	s.update(func(c *Config) { c.CurrentAIModel = sel })
}

func (s *Store) update(mutate func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.state)
	if s.committer != nil {
		s.committer.Commit(Namespace, s.state)
	}
}
