package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/squirrel"
	"github.com/google/uuid"
)

// DefaultAddr is the address the API server listens on by default.
const DefaultAddr = ":8080"

// User-facing API error messages.
const (
	MessageBadRequestBody = "リクエストボディの解析に失敗しました。有効なJSONを送信してください。"
	MessageURLRequired    = "URLが指定されていません"
	MessageInvalidID      = "有効なIDを指定してください"
	MessageEntryNotFound  = "指定されたIDの履歴が見つかりません"
)

// maxRequestBytes caps the size of a scrape request body.
const maxRequestBytes = 1 << 20

// Server serves the scrape and history JSON API.
type Server struct {
	ln     net.Listener
	server *http.Server
	mux    *http.ServeMux

	// Addr is the bind address, e.g. ":8080".
	Addr string

	Scraper squirrel.Scraper
	History squirrel.HistoryService
	Logger  *slog.Logger
}

// NewServer returns a Server with its routes registered.
func NewServer(scraper squirrel.Scraper, history squirrel.HistoryService, logger *slog.Logger) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		Addr:    DefaultAddr,
		Scraper: scraper,
		History: history,
		Logger:  logger,
	}
	s.server = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mux.HandleFunc("POST /api/scrape", s.handleScrape)
	s.mux.HandleFunc("GET /api/history", s.handleHistoryList)
	s.mux.HandleFunc("GET /api/history/{id}", s.handleHistoryView)

	return s
}

// Open starts listening on Addr and serves requests in the background.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of the listening server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ServeHTTP routes the request and logs it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.Logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(begin),
	)
}

type scrapeRequest struct {
	URL       string               `json:"url"`
	Selectors squirrel.SelectorMap `json:"selectors,omitempty"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MessageBadRequestBody)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, MessageURLRequired)
		return
	}
	if err := req.Selectors.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, squirrel.ErrorMessage(err))
		return
	}

	result := s.Scraper.Scrape(r.Context(), req.URL, req.Selectors)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	limit := squirrel.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.History.FindEntries(r.Context(), squirrel.HistoryFilter{Limit: limit})
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: entries})
}

func (s *Server) handleHistoryView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, MessageInvalidID)
		return
	}

	entry, err := s.History.FindEntryByID(r.Context(), id)
	if squirrel.ErrorCode(err) == squirrel.ENOTFOUND {
		writeError(w, http.StatusNotFound, MessageEntryNotFound)
		return
	} else if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: entry})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, squirrel.ErrorMessage(err))
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
