package proxy

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProxy(opts ...Option) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(logger, opts...)
}

func TestProxyRelaysUpstreamResponse(t *testing.T) {
	var gotUserAgent, gotAPIKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAPIKey = r.Header.Get("X-RapidAPI-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"scoreboard":"ok"}`))
	}))
	defer upstream.Close()

	upstreamHost, _ := url.Parse(upstream.URL)
	srv := newTestProxy(
		WithAllowedHosts([]string{upstreamHost.Hostname()}),
		WithHeaderInjector(func(host string) map[string]string {
			return map[string]string{"X-RapidAPI-Key": "test-key"}
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/?url="+url.QueryEscape(upstream.URL), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"scoreboard":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "IBY-NFL-Analytics/1.0", gotUserAgent)
	assert.Equal(t, "test-key", gotAPIKey)
}

func TestProxyRequiresURLParameter(t *testing.T) {
	srv := newTestProxy()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing url parameter")
}

func TestProxyBlocksUnlistedHosts(t *testing.T) {
	srv := newTestProxy()

	req := httptest.NewRequest(http.MethodGet, "/?url="+url.QueryEscape("https://evil.example.com/steal"), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	// The block response still carries CORS headers so the browser can read it.
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProxyPreflight(t *testing.T) {
	srv := newTestProxy()

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-RapidAPI-Key")
}

func TestProxyPassesThroughUpstreamErrors(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	upstreamHost, _ := url.Parse(upstream.URL)
	srv := newTestProxy(WithAllowedHosts([]string{upstreamHost.Hostname()}))

	req := httptest.NewRequest(http.MethodGet, "/?url="+url.QueryEscape(upstream.URL), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
