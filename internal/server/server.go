// Package server implements the local preview server with live reload.
package server

import (
	"compress/gzip"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Aagat/aagat.com/builder/config"
)

// Server serves the rendered site with gzip compression, cache headers and
// the blog-aware not-found fallback.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	staticDir string

	fileServer http.Handler
	reload     *reloader
}

// New creates a preview server rooted at the configured output directory.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		staticDir:  cfg.OutputDir,
		fileServer: http.FileServer(http.Dir(cfg.OutputDir)),
		reload:     newReloader(),
	}
}

// Handler builds the full request mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.reload.handleSSE)
	mux.HandleFunc("/", gzipHandler(s.handleFile))
	return mux
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	normalized := normalizeRequestPath(r.URL.Path)

	fullPath, err := validatePath(s.staticDir, normalized)
	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("403 - Forbidden: Invalid path"))
		return
	}

	fileInfo, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.serveNotFound(w, normalized)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("500 - Internal Server Error"))
		}
		return
	}

	filename := filepath.Base(normalized)
	if isHashedAsset(filename) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	} else if fileInfo.IsDir() || strings.HasSuffix(filename, ".html") {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=60")
	}

	s.fileServer.ServeHTTP(w, r)
}

// serveNotFound writes a 404 response. Requests under the blog prefix get the
// rendered blog fallback document; everything else gets the site-wide one.
func (s *Server) serveNotFound(w http.ResponseWriter, reqPath string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)

	candidates := []string{"404.html"}
	if strings.HasPrefix(reqPath, s.cfg.BlogPrefix) {
		blog404 := path.Join(strings.Trim(s.cfg.BlogPrefix, "/"), "404.html")
		candidates = []string{blog404, "404.html"}
	}

	for _, name := range candidates {
		if content, err := os.ReadFile(filepath.Join(s.staticDir, filepath.FromSlash(name))); err == nil {
			_, _ = w.Write(content)
			return
		}
	}
	_, _ = w.Write([]byte("404 - Page Not Found"))
}

// gzipResponseWriter wraps the underlying ResponseWriter to enable Gzip compression
type gzipResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

func gzipHandler(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer func() { _ = gz.Close() }()
		gzw := &gzipResponseWriter{Writer: gz, ResponseWriter: w}
		next(gzw, r)
	}
}

// Run starts the preview server and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	host := fs.String("host", "localhost", "The host/IP to bind to")
	port := fs.String("port", "8080", "The port to listen on")

	// Builder flags pass through without erroring here.
	_ = fs.Bool("drafts", false, "Include drafts (handled by builder)")
	_ = fs.String("baseurl", "", "Base URL (handled by builder)")
	_ = fs.Bool("compress", false, "Enable compression (handled by builder)")
	_ = fs.Bool("force", false, "Ignore the build cache (handled by builder)")
	_ = fs.Parse(args)

	addr := fmt.Sprintf("%s:%s", *host, *port)

	srv := New(cfg, logger)
	srv.reload.startWatcher(cfg.OutputDir, cfg.DebounceDuration, logger)
	defer srv.reload.stop()
	go srv.reload.broadcast()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	go func() {
		<-ctx.Done()
		fmt.Println("\n🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
	}()

	fmt.Printf("🌐 Serving on http://%s\n", addr)
	if *host == "0.0.0.0" {
		fmt.Println("   (Accessible on your local network)")
	}
	fmt.Println("   (Auto-reload enabled via /events)")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	fmt.Println("✅ Server stopped.")
	return nil
}

// isHashedAsset checks if filename contains a content hash (e.g., main.A1B2C3D4.css)
func isHashedAsset(filename string) bool {
	parts := strings.Split(filename, ".")
	if len(parts) < 3 {
		return false
	}
	hashPart := parts[len(parts)-2]
	if len(hashPart) < 8 || len(hashPart) > 12 {
		return false
	}
	for _, c := range hashPart {
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
