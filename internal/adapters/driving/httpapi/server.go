// Package httpapi exposes the policy API over JSON HTTP.
//
// Routes:
//
//	GET  /health   service liveness
//	POST /query    {"query": "...", "k": 3}
//	POST /extract  {"text": "..."}
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8000"

// maxBodyBytes bounds request bodies; policy documents are small.
const maxBodyBytes = 4 << 20

// Server serves the policy API.
type Server struct {
	api    driving.PolicyAPI
	server *http.Server
}

// NewServer creates a server for api listening on addr.
func NewServer(api driving.PolicyAPI, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{api: api}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Extraction waits on the capability timeout before falling back.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("POST /extract", s.handleExtract)
	return loggingMiddleware(mux)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on http://%s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.api.Health())
}

type queryBody struct {
	Query *string `json:"query"`
	K     *int    `json:"k"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var body queryBody
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, err)
		return
	}
	if body.Query == nil || strings.TrimSpace(*body.Query) == "" {
		respondError(w, domain.InvalidArgument("field \"query\" is required"))
		return
	}

	resp, err := s.api.AnswerQuery(r.Context(), driving.QueryRequest{Query: *body.Query, K: body.K})
	if errors.Is(err, domain.ErrCapabilityUnavailable) {
		logger.Warn("Query answered empty: %v", err)
		resp = driving.QueryResponse{
			Query:      *body.Query,
			Results:    []driving.QueryResult{},
			Timestamp:  time.Now().UTC(),
			Diagnostic: err.Error(),
		}
		err = nil
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

type extractBody struct {
	Text *string `json:"text"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var body extractBody
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, err)
		return
	}
	if body.Text == nil || strings.TrimSpace(*body.Text) == "" {
		respondError(w, domain.InvalidArgument("field \"text\" is required"))
		return
	}

	resp, err := s.api.ExtractClauses(r.Context(), driving.ExtractRequest{Text: *body.Text})
	if errors.Is(err, domain.ErrCapabilityUnavailable) {
		logger.Warn("Extraction answered empty: %v", err)
		resp = driving.ExtractResponse{
			Text:       *body.Text,
			Clauses:    []domain.Clause{},
			Timestamp:  time.Now().UTC(),
			Diagnostic: err.Error(),
		}
		err = nil
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// decodeBody reads one JSON object. Malformed input is an invalid argument.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.InvalidArgument("request body is empty")
		}
		return domain.InvalidArgument("invalid JSON body: %v", err)
	}
	if dec.More() {
		return domain.InvalidArgument("request body must hold a single JSON object")
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDimensionMismatch):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed: %v", err)
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("Failed to write response: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
