package vscale

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dnsdomain "thebits/vscale/internal/dns/domain"
	"thebits/vscale/internal/domain"
)

func TestConnection_SendsTokenAndBody(t *testing.T) {
	var gotToken, gotContentType, gotRequestID, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Token")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-Id")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	conn := NewConnection("secret", WithBaseURL(srv.URL))
	resp, err := conn.Request(context.Background(), http.MethodPost, "/v1/domains/", map[string]string{"name": "example.com"})
	require.NoError(t, err)

	assert.Equal(t, "secret", gotToken)
	assert.Contains(t, gotContentType, "application/json")
	assert.NotEmpty(t, gotRequestID)
	assert.JSONEq(t, `{"name":"example.com"}`, gotBody)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]any
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, float64(1), out["id"])
}

func TestConnection_NoContentTypeWithoutBody(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	conn := NewConnection("secret", WithBaseURL(srv.URL+"/"))
	resp, err := conn.Request(context.Background(), http.MethodDelete, "/v1/sshkeys/1", nil)
	require.NoError(t, err)

	assert.Empty(t, gotContentType)
	assert.True(t, resp.NoContent())
	assert.Equal(t, srv.URL, conn.BaseURL())
}

func TestConnection_ClassifiesErrorResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "domain_not_found"}`))
	}))
	defer srv.Close()

	conn := NewConnection("secret", WithBaseURL(srv.URL))
	_, err := conn.Request(context.Background(), http.MethodGet, "/v1/domains/1", nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, dnsdomain.ErrZoneDoesNotExist)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var perr *domain.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusNotFound, perr.StatusCode)
	assert.Equal(t, "domain_not_found", perr.Code)
}

func TestConnection_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	conn := NewConnection("secret", WithBaseURL(url))
	_, err := conn.Request(context.Background(), http.MethodGet, "/v1/scalets", nil)
	require.Error(t, err)

	var perr *domain.ProviderError
	assert.False(t, errors.As(err, &perr), "transport errors are not provider errors")
	assert.Contains(t, err.Error(), "request failed")
}

func TestConnection_CancelledContextWithLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	conn := NewConnection("secret", WithBaseURL(srv.URL), WithRateLimit(1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.Request(ctx, http.MethodGet, "/v1/scalets", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConnection_RecordsMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	conn := NewConnection("secret", WithBaseURL(srv.URL), WithMetrics(metrics))

	_, err := conn.Request(context.Background(), http.MethodGet, "/v1/sshkeys", nil)
	require.NoError(t, err)
	_, err = conn.Request(context.Background(), http.MethodGet, "/v1/sshkeys", nil)
	require.NoError(t, err)
	_, err = conn.Request(context.Background(), http.MethodDelete, "/v1/sshkeys/1", nil)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.Requests.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Requests.WithLabelValues("DELETE", "403")))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.Duration))
}

func TestSummarize(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.observe(http.MethodGet, "200", 20*time.Millisecond)
	metrics.observe(http.MethodGet, "404", 40*time.Millisecond)
	metrics.observe(http.MethodDelete, "204", 10*time.Millisecond)

	got, err := Summarize(reg)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "DELETE", got[0].Method)
	assert.Equal(t, 1, got[0].Requests)
	assert.Equal(t, map[string]int{"204": 1}, got[0].Statuses)

	assert.Equal(t, "GET", got[1].Method)
	assert.Equal(t, 2, got[1].Requests)
	assert.Equal(t, map[string]int{"200": 1, "404": 1}, got[1].Statuses)
	assert.InDelta(t, float64(30*time.Millisecond), float64(got[1].Mean), float64(time.Millisecond))

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, reg))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "requests=2 statuses=200:1,404:1 mean=30ms")
}

func TestWriteSummary_NoTraffic(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, reg))
	assert.Empty(t, buf.String())
}

func TestDatacenterCountry(t *testing.T) {
	country, err := DatacenterCountry(21)
	require.NoError(t, err)
	assert.Equal(t, "DE", country)

	_, err = DatacenterCountry(4)
	var unknown *ErrUnknownDatacenter
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 4, unknown.ID)
}
