package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"platterd/internal/logging"
	"platterd/internal/queue"
)

// Server exposes Surface over the control-surface HTTP contract (spec.md §6):
// JSON over HTTP, successful responses carry at least {success, job_id,
// status}, failures carry {detail}. Grounded on the teacher's
// daemon.apiServer listen/Serve/Shutdown lifecycle.
type Server struct {
	bind    string
	surface *Surface
	log     *slog.Logger

	listener net.Listener
	server   *http.Server
}

// NewServer constructs an HTTP control surface bound to addr (e.g.
// "127.0.0.1:9876", config.Paths.APIBind).
func NewServer(addr string, surface *Surface, log *slog.Logger) *Server {
	s := &Server{
		bind:    addr,
		surface: surface,
		log:     log.With(logging.FieldComponent, "api-http"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs", s.handleListJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobAction)
	mux.HandleFunc("/api/oversight/check", s.handleOversightCheck)
	mux.HandleFunc("/api/oversight/fix_encoding", s.handleOversightFix)
	mux.HandleFunc("/api/active_mode", s.handleActiveMode)
	mux.HandleFunc("/api/active_mode/toggle", s.handleToggleActiveMode)
	mux.HandleFunc("/api/wanted", s.handleWanted)
	mux.HandleFunc("/api/wanted/", s.handleWantedItem)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins serving and returns once the listener is bound. It stops
// itself when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("api server error", logging.FieldErrorHint, err.Error())
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log.Info("api server listening", "address", listener.Addr().String())
	return nil
}

// Stop shuts the server down immediately, independent of any ctx passed to Start.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	excludeArchived := r.URL.Query().Get("all") != "1"
	jobs, err := s.surface.ListJobs(r.Context(), limit, excludeArchived)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleJobAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	jobID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	ctx := r.Context()
	switch parts[1] {
	case "approve":
		res, err := s.surface.Approve(ctx, jobID)
		s.respondResult(w, res, err)
	case "skip":
		res, err := s.surface.Skip(ctx, jobID)
		s.respondResult(w, res, err)
	case "archive":
		res, err := s.surface.Archive(ctx, jobID)
		s.respondResult(w, res, err)
	case "identify":
		var req identifyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := s.surface.Identify(ctx, jobID, req.Title, req.Year)
		s.respondResult(w, res, err)
	case "pre_identify":
		var req identifyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := s.surface.PreIdentify(ctx, jobID, req.Title, req.Year)
		s.respondResult(w, res, err)
	default:
		writeError(w, http.StatusNotFound, "unknown job action")
	}
}

type identifyRequest struct {
	Title string `json:"title"`
	Year  *int   `json:"year"`
}

func (s *Server) respondResult(w http.ResponseWriter, res Result, err error) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	switch res.Outcome {
	case OutcomeNotFound:
		writeError(w, http.StatusNotFound, "job not found")
	case OutcomeInvalidState:
		writeError(w, http.StatusBadRequest, res.Detail)
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"job_id":  res.JobID,
			"status":  res.Status,
		})
	}
}

func (s *Server) handleOversightCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	issues, err := s.surface.OversightCheck(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"issues": issues})
}

func (s *Server) handleOversightFix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	count, err := s.surface.OversightFixEncoding(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"repaired": count})
}

func (s *Server) handleActiveMode(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		on, err := s.surface.ActiveMode(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"active": on})
	case http.MethodPost:
		var req struct {
			Active bool `json:"active"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		on, err := s.surface.SetActiveMode(r.Context(), req.Active)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"active": on})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleToggleActiveMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	on, err := s.surface.ToggleActiveMode(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": on})
}

func (s *Server) handleWanted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Title       string            `json:"title"`
		Year        *int              `json:"year"`
		ContentType queue.ContentType `json:"content_type"`
		CatalogID   *int64            `json:"catalog_id"`
		PosterRef   string            `json:"poster_ref"`
		Notes       string            `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ContentType == "" {
		req.ContentType = queue.ContentMovie
	}
	res, err := s.surface.AddWanted(r.Context(), req.Title, req.Year, req.ContentType, req.CatalogID, req.PosterRef, req.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.Outcome == OutcomeInvalidState {
		writeError(w, http.StatusBadRequest, "year must be between 1800 and 2100")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": res.ID})
}

func (s *Server) handleWantedItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/wanted/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid wanted id")
		return
	}
	res, err := s.surface.RemoveWanted(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.Outcome == OutcomeNotFound {
		writeError(w, http.StatusNotFound, "wanted item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
