// Package server is the JSON admin API over the record store: book CRUD,
// page coordinates, analytics and review status transitions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tishamal/righttoread/common"
	"github.com/tishamal/righttoread/store"
)

// StatusForwarder propagates review decisions to the narration service so
// the digitized version's lifecycle stays in step on both sides.
type StatusForwarder interface {
	SetReviewStatus(ctx context.Context, book string, status common.ReviewStatus, notes string) error
}

// Objects is the slice of the object store the admin API needs: placing
// uploaded manifests and purging a deleted book's objects. May be nil, in
// which case the API manages records only.
type Objects interface {
	Upload(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

type Server struct {
	store   *store.Store
	tts     StatusForwarder
	objects Objects
	log     *zap.Logger
	http    *http.Server
}

func New(addr string, st *store.Store, tts StatusForwarder, objects Objects, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{store: st, tts: tts, objects: objects, log: log}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/books", s.handleListBooks)
	mux.HandleFunc("POST /api/books", s.handleCreateBook)
	mux.HandleFunc("GET /api/books/{id}", s.handleGetBook)
	mux.HandleFunc("PUT /api/books/{id}", s.handleUpdateBook)
	mux.HandleFunc("DELETE /api/books/{id}", s.handleDeleteBook)
	mux.HandleFunc("PUT /api/books/{id}/review-status", s.handleReviewStatus)
	mux.HandleFunc("GET /api/books/{id}/pages", s.handleListPages)
	mux.HandleFunc("POST /api/books/{id}/pages", s.handleRegisterPage)
	mux.HandleFunc("GET /api/books/{id}/pages/{number}", s.handlePageRef)
	mux.HandleFunc("GET /api/books/{id}/analytics", s.handleBookAnalytics)
	mux.HandleFunc("POST /api/analytics", s.handleRecordEvent)
	mux.HandleFunc("GET /api/analytics/usage", s.handleUsage)
	mux.HandleFunc("GET /api/analytics/summary", s.handleSummary)

	return mux
}

// ListenAndServe blocks until ctx is canceled or the listener fails, then
// drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("Admin API listening", zap.String("addr", s.http.Addr))
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// envelope is the response shape every endpoint uses.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		s.log.Warn("Unable to write response", zap.Error(err))
	}
}

func (s *Server) respondErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrBookNotFound), errors.Is(err, store.ErrPageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{Error: err.Error()}); encErr != nil {
		s.log.Warn("Unable to write error response", zap.Error(encErr))
	}
}

var errBadRequest = errors.New("bad request")
