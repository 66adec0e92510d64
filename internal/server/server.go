// Package server exposes the analyzer, templates and history over HTTP
package server

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/contractlens/internal/model"
	"github.com/ppiankov/contractlens/internal/pipeline"
	"github.com/ppiankov/contractlens/internal/report"
	"github.com/ppiankov/contractlens/internal/store"
	"github.com/ppiankov/contractlens/internal/templates"
)

// Server serves the HTTP API
type Server struct {
	cfg      model.ServerConfig
	analyzer *pipeline.Analyzer
	store    store.Store // nil when history is disabled
	renderer *report.Renderer
	router   chi.Router
}

// New creates a server. st may be nil.
func New(cfg model.ServerConfig, analyzer *pipeline.Analyzer, st store.Store) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		store:    st,
		renderer: report.NewRenderer(true),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)

		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{type}", s.handleGetTemplate)
		r.Post("/templates/{type}/render", s.handleRenderTemplate)

		r.Get("/history", s.handleListHistory)
		r.Get("/history/{id}", s.handleGetHistory)
		r.Delete("/history/{id}", s.handleDeleteHistory)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return eris.Wrap(err, "server listen")
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server shutdown")
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// handleAnalyze accepts {"text": ...} JSON or a text/plain body. With
// ?format=markdown the report is returned as Markdown.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody())

	var req analyzeRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/plain":
		data, err := io.ReadAll(body)
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		req.Text = string(data)
	case "application/json", "":
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	default:
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json or text/plain")
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	res := s.analyzer.Analyze(r.Context(), req.Text)
	rep := report.New(req.Source, res)

	if s.store != nil {
		rec, err := s.store.Save(r.Context(), req.Source, res)
		if err != nil {
			zap.L().Warn("history save failed", zap.Error(err))
		} else {
			rep.ID = rec.ID
			rep.AnalyzedAt = rec.AnalyzedAt
		}
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, s.renderer.Markdown(rep))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type templateInfo struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	reg := s.analyzer.Templates()
	out := make([]templateInfo, 0, len(reg.Types()))
	for _, typ := range reg.Types() {
		t, _ := reg.Get(typ)
		out = append(out, templateInfo{Type: t.Type, Title: t.Title, Categories: t.Categories()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.analyzer.Templates().Get(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown contract type")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleRenderTemplate fills placeholders from a JSON object of values
func (s *Server) handleRenderTemplate(w http.ResponseWriter, r *http.Request) {
	values := map[string]string{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody())).Decode(&values); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "values must be a JSON object of strings")
			return
		}
	}

	text, err := s.analyzer.Templates().Render(chi.URLParam(r, "type"), values)
	if eris.Is(err, templates.ErrUnknownTemplate) {
		writeError(w, http.StatusNotFound, "unknown contract type")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	q := r.URL.Query()
	filter := store.Filter{ContractType: strings.ToLower(q.Get("type"))}
	if v := q.Get("min_risk"); v != "" {
		level, err := model.ParseRiskLevel(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_risk must be low, medium or high")
			return
		}
		filter.MinRisk = level
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	records, err := s.store.List(r.Context(), filter)
	if err != nil {
		zap.L().Error("history list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		zap.L().Error("history get failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		zap.L().Error("history delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) maxBody() int64 {
	if s.cfg.MaxBodyBytes > 0 {
		return s.cfg.MaxBodyBytes
	}
	return 5_000_000
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
