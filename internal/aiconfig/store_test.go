package aiconfig

import (
	"context"
	"errors"
	"testing"

	"magicResume/internal/kv"
	"magicResume/internal/persist"
)

type captureCommitter struct {
	keys   []string
	states []any
}

func (c *captureCommitter) Commit(key string, state any) {
	c.keys = append(c.keys, key)
	c.states = append(c.states, state)
}

func TestStore_Defaults(t *testing.T) {
	s := NewStore(nil)
	got := s.State()
	if got.DoubaoAPIKey != "" || got.DeepseekModelID != "" {
		t.Fatalf("expected empty credentials, got %+v", got)
	}
	if got.CurrentAIModel != (Selection{Provider: ProviderDoubao}) {
		t.Fatalf("unexpected default selection %+v", got.CurrentAIModel)
	}
}

func TestStore_SettersReplaceFieldsAndCommit(t *testing.T) {
	committer := &captureCommitter{}
	s := NewStore(committer)

	s.SetDoubaoApiKey("db-key")
	s.SetDoubaoModelId("db-model")
	s.SetDeepseekApiKey("ds-key")
	s.SetDeepseekModelId("ds-model")

	got := s.State()
	want := Config{
		DoubaoAPIKey:    "db-key",
		DoubaoModelID:   "db-model",
		DeepseekAPIKey:  "ds-key",
		DeepseekModelID: "ds-model",
		CurrentAIModel:  Selection{Provider: ProviderDoubao},
	}
	if got != want {
		t.Fatalf("state = %+v, want %+v", got, want)
	}

	if len(committer.keys) != 4 {
		t.Fatalf("expected a commit per mutation, got %d", len(committer.keys))
	}
	for _, key := range committer.keys {
		if key != Namespace {
			t.Fatalf("unexpected namespace %q", key)
		}
	}
}

func TestStore_SelectionDoesNotTouchCredentials(t *testing.T) {
	s := NewStore(nil)
	s.SetDoubaoApiKey("db-key")
	s.SetDoubaoModelId("db-model")
	s.SetDeepseekModelId("stored-ds-model")

	s.SetCurrentAIModel(Selection{Provider: ProviderDeepseek, ModelID: "x"})

	got := s.State()
	if got.DoubaoAPIKey != "db-key" || got.DoubaoModelID != "db-model" {
		t.Fatalf("doubao credentials changed: %+v", got)
	}
	if got.CurrentAIModel.ModelID != "x" {
		t.Fatalf("selection should not be populated from stored model id, got %q", got.CurrentAIModel.ModelID)
	}
	if got.DeepseekModelID != "stored-ds-model" {
		t.Fatalf("deepseek model id changed: %q", got.DeepseekModelID)
	}

	creds := s.Credentials()
	if creds.Provider != ProviderDeepseek || creds.ModelID != "stored-ds-model" {
		t.Fatalf("unexpected credentials %+v", creds)
	}
}

func TestStore_HydrateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	mirror := persist.NewMirror(persist.KVWriter{Store: store}, nil, nil, 0)
	s := NewStore(mirror)
	s.SetDeepseekApiKey("ds-key")
	s.SetCurrentAIModel(Selection{Provider: ProviderDeepseek, ModelID: "deepseek-chat"})
	if err := mirror.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	restored := NewStore(nil)
	if err := restored.Hydrate(ctx, store); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if restored.State() != s.State() {
		t.Fatalf("restored %+v, want %+v", restored.State(), s.State())
	}
}

func TestParseProvider(t *testing.T) {
	for _, raw := range []string{"doubao", " DeepSeek "} {
		if _, err := ParseProvider(raw); err != nil {
			t.Fatalf("ParseProvider(%q): %v", raw, err)
		}
	}
	if _, err := ParseProvider("openai"); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
