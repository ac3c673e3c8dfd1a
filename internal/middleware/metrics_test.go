package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/merchantkit/payment-stripe/internal/infrastructure/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("test", reg)

	r := chi.NewRouter()
	r.Use(Metrics(metrics))
	r.Post("/api/v1/checkout/payment", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	var foundRequestsTotal, foundDuration bool
	for _, mf := range metricFamilies {
		switch *mf.Name {
		case "test_http_requests_total":
			foundRequestsTotal = true
			assert.Greater(t, len(mf.Metric), 0)
		case "test_http_request_duration_seconds":
			foundDuration = true
			assert.Greater(t, len(mf.Metric), 0)
		}
	}
	assert.True(t, foundRequestsTotal, "http_requests_total should be recorded")
	assert.True(t, foundDuration, "http_request_duration should be recorded")
}

func TestMetrics_RecordsErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("test", reg)

	r := chi.NewRouter()
	r.Use(Metrics(metrics))
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range metricFamilies {
		if *mf.Name != "test_http_requests_total" {
			continue
		}
		for _, m := range mf.Metric {
			for _, label := range m.Label {
				if *label.Name == "status" && *label.Value == "500" {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "500 status should be labeled")
}
