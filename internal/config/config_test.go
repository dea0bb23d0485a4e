package config

import (
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 8080 {
		t.Fatalf("port = %d", cfg.API.Port)
	}
	if cfg.Persist.Backend != BackendMemory || cfg.Persist.Mode != ModeDirect {
		t.Fatalf("persist = %+v", cfg.Persist)
	}
	if cfg.Persist.WriteTimeout != 5*time.Second {
		t.Fatalf("write timeout = %v", cfg.Persist.WriteTimeout)
	}
	if cfg.Auth.Enabled() || cfg.UsesRedis() {
		t.Fatalf("defaults should need neither auth nor redis: %+v", cfg)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PERSIST_BACKEND", BackendRedis)
	t.Setenv("PERSIST_MODE", ModeQueue)
	t.Setenv("PERSIST_KEY_PREFIX", "demo")
	t.Setenv("PERSIST_WRITE_TIMEOUT", "2s")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("SYNC_ALLOWED_ROOT", "/data/sync")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Fatalf("port = %d", cfg.API.Port)
	}
	if want := []string{"http://a.test", "http://b.test"}; !reflect.DeepEqual(cfg.API.AllowedOrigins, want) {
		t.Fatalf("origins = %v", cfg.API.AllowedOrigins)
	}
	if cfg.Persist.KeyPrefix != "demo" || cfg.Persist.WriteTimeout != 2*time.Second {
		t.Fatalf("persist = %+v", cfg.Persist)
	}
	if cfg.Redis.Addr() != "redis.internal:6379" {
		t.Fatalf("redis addr = %s", cfg.Redis.Addr())
	}
	if cfg.Sync.AllowedRoot != "/data/sync" {
		t.Fatalf("sync root = %q", cfg.Sync.AllowedRoot)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Fatalf("log level = %v", cfg.Log.SlogLevel())
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"queue on memory", map[string]string{"PERSIST_MODE": ModeQueue}, "shared backend"},
		{"unknown backend", map[string]string{"PERSIST_BACKEND": "etcd"}, "invalid persist backend"},
		{"unknown mode", map[string]string{"PERSIST_MODE": "async"}, "invalid persist mode"},
		{"minio without keys", map[string]string{"PERSIST_BACKEND": BackendMinIO}, "minio access key id is required"},
		{"auth without secret", map[string]string{"AUTH_PASSWORD_HASH": "$2a$10$x"}, "auth token secret is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
