package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"finboard/internal/log"
	"finboard/internal/metrics"
)

func TestMiddleware_AssignsRequestID(t *testing.T) {
	var seen string
	h := NewMiddleware(nil, nil, nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("request id = %q", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Errorf("header = %q, want %q", rec.Header().Get(HeaderRequestID), seen)
	}
}

func TestMiddleware_KeepsValidIncomingID(t *testing.T) {
	var seen string
	h := NewMiddleware(nil, nil, nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "upstream-1234")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "upstream-1234" {
		t.Errorf("request id = %q", seen)
	}

	req.Header.Set(HeaderRequestID, "bad id with spaces")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "bad id with spaces" {
		t.Error("invalid incoming id should be replaced")
	}
}

func TestMiddleware_LogsAndCounts(t *testing.T) {
	var buf bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Output = &buf
	logger := log.New(cfg)
	m := metrics.New()

	mw := NewMiddleware(func(*http.Request) string { return "10.0.0.1" }, logger, m)
	h := log.Middleware(logger)(mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).InfoContext(r.Context(), "inside handler")
		w.WriteHeader(http.StatusNotFound)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/accounts/x", nil))

	out := buf.String()
	if !strings.Contains(out, "HTTP request completed") || !strings.Contains(out, "status_code=404") {
		t.Errorf("missing completion log: %s", out)
	}
	if !strings.Contains(out, `msg="inside handler"`) || !strings.Contains(out, "request_id=req_") {
		t.Errorf("handler log not enriched with request id: %s", out)
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.Contains(line, "HTTP request completed") && !strings.Contains(line, "request_id=req_") {
			t.Errorf("completion log lacks request id: %s", line)
		}
	}
	if got := mw.GetStats().TotalRequests; got != 1 {
		t.Errorf("TotalRequests = %d", got)
	}
	expected := `
# HELP finboard_http_requests_total HTTP requests by method and status code.
# TYPE finboard_http_requests_total counter
finboard_http_requests_total{method="GET",status="404"} 1
`
	if err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "finboard_http_requests_total"); err != nil {
		t.Error(err)
	}
}
