package proxy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	userAgent       = "IBY-NFL-Analytics/1.0"
	upstreamTimeout = 10 * time.Second
)

// allowedHosts limits proxying to the upstream APIs the dashboard uses.
var allowedHosts = []string{
	"site.api.espn.com",
	"sports.core.api.espn.com",
	"api.sleeper.app",
	"api.the-odds-api.com",
	"v1.american-football.api-sports.io",
	"api.sportradar.com",
}

// HeaderInjector returns extra request headers for a given upstream host.
type HeaderInjector func(host string) map[string]string

// Server is a CORS pass-through for browser clients. Upstream APIs
// without permissive CORS headers are fetched server-side and re-served
// with Access-Control-Allow-Origin set.
type Server struct {
	port     string
	server   *http.Server
	client   *http.Client
	injector HeaderInjector
	allowed  []string
	logger   *slog.Logger
}

// Option configures the proxy server.
type Option func(*Server)

// WithHeaderInjector installs per-host API key header injection.
func WithHeaderInjector(injector HeaderInjector) Option {
	return func(s *Server) { s.injector = injector }
}

// WithAllowedHosts replaces the default upstream allow-list.
func WithAllowedHosts(hosts []string) Option {
	return func(s *Server) { s.allowed = hosts }
}

// NewServer creates a CORS proxy.
func NewServer(logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		client:  &http.Client{Timeout: upstreamTimeout},
		allowed: allowedHosts,
		logger:  logger.With("component", "cors_proxy"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the proxy listener. It blocks until the listener stops.
func (s *Server) Start(port string) error {
	s.port = port

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleProxy)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	s.logger.Info("cors proxy listening", "port", port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the proxy.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Handler exposes the proxy handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleProxy)
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	writeCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rawTarget := r.URL.Query().Get("url")
	if rawTarget == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	target, err := url.Parse(rawTarget)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		http.Error(w, "invalid url parameter", http.StatusBadRequest)
		return
	}
	if !s.hostAllowed(target.Hostname()) {
		s.logger.Warn("blocked proxy target", "host", target.Hostname())
		http.Error(w, "target host not allowed", http.StatusForbidden)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		http.Error(w, "invalid url parameter", http.StatusBadRequest)
		return
	}
	req.Header.Set("User-Agent", userAgent)
	if s.injector != nil {
		for k, v := range s.injector(target.Hostname()) {
			req.Header.Set(k, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("upstream request failed", "url", target.String(), "error", err)
		http.Error(w, "upstream request failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.Warn("failed to relay upstream body", "url", target.String(), "error", err)
	}
}

func (s *Server) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range s.allowed {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-RapidAPI-Key, X-RapidAPI-Host, X-API-Key")
}
