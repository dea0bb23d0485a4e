package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"magicResume/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(svc *auth.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(CorrelationIDMiddleware(), AuthMiddleware(svc))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetCorrelationID(c))
	})
	return r
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	r := newEngine(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "abc")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "abc" || w.Header().Get("X-Correlation-ID") != "abc" {
		t.Fatalf("correlation id not propagated: body=%q header=%q", w.Body.String(), w.Header().Get("X-Correlation-ID"))
	}
}

func TestAuthMiddleware_Enabled(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc, err := auth.NewAuthService(string(hash), "secret", time.Hour)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	token, err := svc.GenerateAccessToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	r := newEngine(svc)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token " + token, http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if tc.want == http.StatusOK && w.Header().Get("X-Correlation-ID") == "" {
				t.Fatal("expected generated correlation id")
			}
		})
	}
}

func TestCorrelationIDMiddleware_ReplacesUnsafeIDs(t *testing.T) {
	r := newEngine(nil)
	cases := []struct {
		name   string
		header string
		keep   bool
	}{
		{"safe", "req-42_a.b:c", true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 65), false},
		{"newline", "abc\ninjected", false},
		{"space", "a b", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set(CorrelationIDHeader, tc.header)
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get(CorrelationIDHeader)
			if tc.keep && got != tc.header {
				t.Fatalf("id = %q, want %q", got, tc.header)
			}
			if !tc.keep && (got == tc.header || got == "" || w.Body.String() != got) {
				t.Fatalf("id = %q, body = %q", got, w.Body.String())
			}
		})
	}
}

func TestSlogLoggerMiddleware_LevelAndRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := gin.New()
	r.Use(CorrelationIDMiddleware(), SlogLoggerMiddleware(logger))
	r.GET("/items/:id", func(c *gin.Context) {
		switch c.Param("id") {
		case "boom":
			_ = c.Error(errString("storage offline"))
			c.Status(http.StatusInternalServerError)
		case "missing":
			c.Status(http.StatusNotFound)
		default:
			LoggerFromContext(c).Debug("handler")
			c.Status(http.StatusOK)
		}
	})

	cases := []struct {
		path  string
		level string
	}{
		{"/items/1", "INFO"},
		{"/items/missing", "WARN"},
		{"/items/boom", "ERROR"},
	}
	for _, tc := range cases {
		buf.Reset()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set(CorrelationIDHeader, "cid-1")
		r.ServeHTTP(w, req)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		var entry map[string]any
		if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", buf.String(), err)
		}
		if entry["level"] != tc.level {
			t.Fatalf("%s: level = %v, want %s", tc.path, entry["level"], tc.level)
		}
		if entry["route"] != "/items/:id" || entry["path"] != tc.path || entry["correlation_id"] != "cid-1" {
			t.Fatalf("%s: unexpected entry %v", tc.path, entry)
		}
		if tc.level == "ERROR" && !strings.Contains(entry["errors"].(string), "storage offline") {
			t.Fatalf("errors not logged: %v", entry)
		}
		if tc.level == "INFO" && len(lines) != 2 {
			t.Fatalf("handler should log through the request logger: %q", buf.String())
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }
