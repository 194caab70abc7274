package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestComponentAttachedOnce(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf})
	l.WithComponent(ComponentActions).Info("hello")

	out := buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=actions") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLogMutationPrefix(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf}))
	sl.LogMutation(context.Background(), "deleteCategory", "category", "c-42", "u1", nil, errors.New("category x: not found"))

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, `msg="[deleteCategory] category x: not found"`) {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(out, "entity_id=c-42") {
		t.Fatalf("missing entity id in %q", out)
	}

	buf.Reset()
	sl.LogMutation(context.Background(), "createCategory", "category", "", "u1", []string{"categories"}, nil)
	if strings.Contains(buf.String(), "entity_id") {
		t.Fatalf("empty entity id should be omitted: %q", buf.String())
	}
}

func TestMiddlewareCarriesLogger(t *testing.T) {
	l := Discard()
	var got *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != l {
		t.Fatalf("logger not carried by the request context")
	}
	if FromContext(context.Background()).component != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}
