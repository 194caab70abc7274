package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Mutation("createCategory", OutcomeSuccess)
	m.Mutation("createCategory", OutcomeSuccess)
	m.Invalidation("dashboard")
	m.ViewCache("dashboard", true)
	m.ViewCache("dashboard", false)
	m.HTTPRequest("POST", 201)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("createCategory", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidations.WithLabelValues("dashboard")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.viewCache.WithLabelValues("dashboard", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "201")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Mutation("a", OutcomeError)
	m.Invalidation("b")
	m.ViewCache("c", true)
	m.HTTPRequest("GET", 200)
	m.Export("memory", OutcomeSuccess)
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Invalidation("categories")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `finboard_invalidations_total{signal="categories"} 1`))
}
