package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordAndServe(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveModelCall("facebook/bart-large-cnn", "ok", 120*time.Millisecond)
	m.ObserveModelCall("facebook/bart-large-cnn", "error", 10*time.Millisecond)
	m.ObserveSimplification("rules")
	m.ObserveAnalysis("ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelRequests.WithLabelValues("facebook/bart-large-cnn", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tiers.WithLabelValues("rules")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "legalai_analyses_total"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveModelCall("x", "ok", time.Second)
	m.ObserveSimplification("rules")
	m.ObserveAnalysis("failed")
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
