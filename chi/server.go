// Package chi serves the animal dashboard over HTTP.
//
// Every request re-queries the store; the server holds no mutable state
// between requests.
package chi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// MaxResults caps the number of animals shown, exported or returned per
// request.
const MaxResults = 200

// ShutdownTimeout bounds how long in-flight requests may take once the
// serve context is cancelled.
const ShutdownTimeout = 5 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

// Server is the dashboard HTTP server.
type Server struct {
	Animals animals.AnimalService
	Logger  *slog.Logger

	router    chi.Router
	templates *template.Template
}

// NewServer creates a dashboard backed by svc. A nil logger discards logs.
func NewServer(svc animals.AnimalService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		Animals:   svc,
		Logger:    logger,
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/animals/{id}", s.handleAnimal)
	r.Get("/export.csv", s.handleExport)
	r.Route("/api", func(r chi.Router) {
		r.Get("/animals", s.handleAPIAnimals)
		r.Get("/stats", s.handleAPIStats)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("serving dashboard", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.Logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// Error writes err with the HTTP status of its application code. Internal
// errors are logged and reported with a generic message.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code := animals.ErrorCode(err)
	if code == animals.EINTERNAL {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	http.Error(w, animals.ErrorMessage(err), errorStatus(code))
}

func errorStatus(code string) int {
	switch code {
	case animals.EINVALID:
		return http.StatusBadRequest
	case animals.ENOTFOUND:
		return http.StatusNotFound
	case animals.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
