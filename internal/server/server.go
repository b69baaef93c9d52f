// Package server exposes the HTTP API and serves the static pages.
package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eventvms/vms/internal/metrics"
	"github.com/eventvms/vms/internal/service"
)

// Dependencies collects everything the server needs.
type Dependencies struct {
	Addr         string
	PublicDir    string
	Registration *service.RegistrationService
	Checkin      *service.CheckinService
	Reports      *service.ReportService
}

// Server is the HTTP edge: JSON API routes, the metrics endpoint, and
// static page serving for the registration and scanner frontends.
type Server struct {
	httpServer   *http.Server
	mux          *http.ServeMux
	publicDir    string
	registration *service.RegistrationService
	checkin      *service.CheckinService
	reports      *service.ReportService
}

// NewServer builds the route table and wraps it in logging and CORS
// middleware.
func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		mux:          mux,
		publicDir:    d.PublicDir,
		registration: d.Registration,
		checkin:      d.Checkin,
		reports:      d.Reports,
	}

	mux.HandleFunc("GET /api/stalls", s.handleListStalls)
	mux.HandleFunc("GET /api/visitors", s.handleListVisitors)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/stall-auth", s.handleStallAuth)
	mux.HandleFunc("POST /api/scan", s.handleScan)
	mux.HandleFunc("GET /api/export/stall/{stallID}", s.handleExportStall)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("/", s.handleStatic)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           loggingMiddleware(corsMiddleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler returns the fully-wrapped handler, for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start blocks serving requests until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// pages maps pretty paths to the static files behind them.
var pages = map[string]string{
	"/":          "index.html",
	"/scan":      "scan.html",
	"/admin":     "admin.html",
	"/visitors":  "visitors.html",
	"/dashboard": "dashboard.html",
}

// handleStatic serves the frontend pages and public assets, including
// the generated QR artifacts under /qrcodes/.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	if page, ok := pages[r.URL.Path]; ok {
		http.ServeFile(w, r, filepath.Join(s.publicDir, page))
		return
	}

	path := filepath.Join(s.publicDir, filepath.Clean(r.URL.Path))
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
