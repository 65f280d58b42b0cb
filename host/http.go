package host

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/clip-trimmer/trim"
)

// HTTPBridge lets a host process talk to the widget over HTTP.
//
//	PUT /args     deliver the widget arguments (first delivery wins)
//	GET /args     read back the delivered arguments
//	GET /result   wait for the applied selection (?wait=false polls)
//	GET /healthz  liveness
type HTTPBridge struct {
	logger *slog.Logger
	router *chi.Mux

	mu        sync.Mutex
	args      *Args
	argsReady chan struct{}
	result    trim.Result
	done      chan struct{}
	once      once
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPBridge builds the bridge and its routes.
func NewHTTPBridge(logger *slog.Logger) *HTTPBridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &HTTPBridge{
		logger:    logger,
		argsReady: make(chan struct{}),
		done:      make(chan struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Get("/healthz", b.handleHealth)
	r.Put("/args", b.handlePutArgs)
	r.Get("/args", b.handleGetArgs)
	r.Get("/result", b.handleResult)
	b.router = r

	return b
}

// Handler returns the HTTP handler serving the bridge routes.
func (b *HTTPBridge) Handler() http.Handler {
	return b.router
}

// Args blocks until the host has PUT arguments or ctx ends.
func (b *HTTPBridge) Args(ctx context.Context) (Args, error) {
	select {
	case <-b.argsReady:
		b.mu.Lock()
		defer b.mu.Unlock()
		return *b.args, nil
	case <-ctx.Done():
		return Args{}, ctx.Err()
	}
}

// Emit publishes the result to every waiting and future GET /result.
func (b *HTTPBridge) Emit(ctx context.Context, res trim.Result) error {
	if err := b.once.claim(); err != nil {
		return err
	}
	b.mu.Lock()
	b.result = res
	b.mu.Unlock()
	close(b.done)
	b.logger.Info("result emitted", "start", res.Start, "end", res.End)
	return nil
}

func (b *HTTPBridge) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (b *HTTPBridge) handlePutArgs(w http.ResponseWriter, r *http.Request) {
	var a Args
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid args: " + err.Error()})
		return
	}
	if a.VideoURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "video_url is required"})
		return
	}

	b.mu.Lock()
	if b.args != nil {
		b.mu.Unlock()
		writeJSON(w, http.StatusConflict, errorResponse{Error: "args already delivered"})
		return
	}
	b.args = &a
	close(b.argsReady)
	b.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (b *HTTPBridge) handleGetArgs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	a := b.args
	b.mu.Unlock()
	if a == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no args delivered"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (b *HTTPBridge) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("wait") == "false" {
		select {
		case <-b.done:
		default:
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	select {
	case <-b.done:
		b.mu.Lock()
		res := b.result
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, res)
	case <-r.Context().Done():
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
