// Package rest exposes the editing surface and its collaborators over HTTP.
// The layer is deliberately thin: it decodes requests, delegates to the
// editor service, and maps domain sentinels to status codes.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"newsdesk/internal/domain"
	"newsdesk/internal/ports"
	"newsdesk/internal/render"
	"newsdesk/internal/usecase"
)

// Server holds the handler dependencies.
type Server struct {
	editor     *usecase.EditorService
	repository ports.ArticleRepository
	debounce   time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	searchers map[string]*usecase.LinkSearcher
}

// NewServer wires the editing surface into an HTTP handler set.
func NewServer(editor *usecase.EditorService, repository ports.ArticleRepository, debounce time.Duration, logger *slog.Logger) *Server {
	return &Server{
		editor:     editor,
		repository: repository,
		debounce:   debounce,
		logger:     logger,
		searchers:  map[string]*usecase.LinkSearcher{},
	}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /articles", s.createArticle)
	mux.HandleFunc("GET /articles", s.listArticles)
	mux.HandleFunc("GET /articles/{id}", s.getArticle)
	mux.HandleFunc("GET /articles/{id}/html", s.getArticleHTML)

	mux.HandleFunc("POST /articles/{id}/session", s.openSession)
	mux.HandleFunc("DELETE /sessions/{sid}", s.closeSession)
	mux.HandleFunc("GET /sessions/{sid}/blocks", s.getBlocks)
	mux.HandleFunc("POST /sessions/{sid}/blocks", s.appendBlock)
	mux.HandleFunc("PUT /sessions/{sid}/blocks/{bid}", s.updateBlock)
	mux.HandleFunc("DELETE /sessions/{sid}/blocks/{bid}", s.removeBlock)
	mux.HandleFunc("POST /sessions/{sid}/blocks/{bid}/move", s.moveBlock)
	mux.HandleFunc("POST /sessions/{sid}/blocks/{bid}/link", s.linkArticle)
	mux.HandleFunc("POST /sessions/{sid}/blocks/{bid}/upload", s.uploadMedia)
	mux.HandleFunc("POST /sessions/{sid}/blocks/{bid}/tweet-preview", s.tweetPreview)
	mux.HandleFunc("GET /sessions/{sid}/search", s.searchArticles)
	mux.HandleFunc("POST /sessions/{sid}/save", s.saveSession)

	return mux
}

type createArticleRequest struct {
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.clientError(w, "invalid json body")
		return
	}

	article, err := s.repository.Create(r.Context(), domain.Article{
		Title:    req.Title,
		Slug:     req.Slug,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, article)
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.repository.List(r.Context(), 50)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	s.writeJSON(w, http.StatusOK, articles)
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.repository.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, article)
}

func (s *Server) getArticleHTML(w http.ResponseWriter, r *http.Request) {
	article, err := s.repository.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(render.HTML(article.Body)))
}

type sessionResponse struct {
	SessionID string         `json:"sessionId"`
	Blocks    []domain.Block `json:"blocks"`
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	sessionID, blocks, err := s.editor.Open(r.Context(), r.PathValue("id"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	s.mu.Lock()
	s.searchers[sessionID] = s.editor.Searcher(s.debounce)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID, Blocks: blocks})
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")

	s.mu.Lock()
	if searcher, ok := s.searchers[sessionID]; ok {
		searcher.Cancel()
		delete(s.searchers, sessionID)
	}
	s.mu.Unlock()

	s.editor.Close(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.editor.Blocks(r.PathValue("sid"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

type appendBlockRequest struct {
	Kind domain.BlockKind `json:"kind"`
}

func (s *Server) appendBlock(w http.ResponseWriter, r *http.Request) {
	var req appendBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.clientError(w, "invalid json body")
		return
	}
	if !req.Kind.Known() {
		s.clientError(w, "unknown block kind")
		return
	}

	block, err := s.editor.AppendBlock(r.PathValue("sid"), req.Kind)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, block)
}

func (s *Server) updateBlock(w http.ResponseWriter, r *http.Request) {
	var next domain.Block
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		s.clientError(w, "invalid json body")
		return
	}

	blocks, err := s.editor.UpdateBlock(r.PathValue("sid"), r.PathValue("bid"), next)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) removeBlock(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.editor.RemoveBlock(r.PathValue("sid"), r.PathValue("bid"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

type moveBlockRequest struct {
	TargetIndex int `json:"targetIndex"`
}

func (s *Server) moveBlock(w http.ResponseWriter, r *http.Request) {
	var req moveBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.clientError(w, "invalid json body")
		return
	}

	blocks, err := s.editor.MoveBlock(r.PathValue("sid"), r.PathValue("bid"), req.TargetIndex)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) linkArticle(w http.ResponseWriter, r *http.Request) {
	var hit domain.ArticleHit
	if err := json.NewDecoder(r.Body).Decode(&hit); err != nil {
		s.clientError(w, "invalid json body")
		return
	}

	blocks, err := s.editor.SelectLinkedArticle(r.PathValue("sid"), r.PathValue("bid"), hit)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) uploadMedia(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.clientError(w, "missing multipart file field")
		return
	}
	defer file.Close()

	blocks, err := s.editor.UploadMedia(r.Context(), r.PathValue("sid"), r.PathValue("bid"), header.Filename, file)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) tweetPreview(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.editor.FetchTweetPreview(r.Context(), r.PathValue("sid"), r.PathValue("bid"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

// searchArticles funnels the query through the session's debounced searcher
// so rapid keystrokes collapse server-side and stale in-flight results are
// never delivered.
func (s *Server) searchArticles(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sid")

	s.mu.Lock()
	searcher, ok := s.searchers[sessionID]
	s.mu.Unlock()
	if !ok {
		s.domainError(w, r, domain.ErrNoSession)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	got := make(chan []domain.ArticleHit, 1)
	searcher.Type(r.Context(), query, func(hits []domain.ArticleHit) {
		got <- hits
	})

	select {
	case hits := <-got:
		if hits == nil {
			hits = []domain.ArticleHit{}
		}
		s.writeJSON(w, http.StatusOK, hits)
	case <-r.Context().Done():
		// superseded by a newer keystroke or abandoned by the client
		w.WriteHeader(http.StatusNoContent)
	}
}

type saveResponse struct {
	ReadingMinutes int `json:"readingMinutes"`
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request) {
	minutes, err := s.editor.Save(r.Context(), r.PathValue("sid"))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, saveResponse{ReadingMinutes: minutes})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && s.logger != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) clientError(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (s *Server) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrArticleNotFound), errors.Is(err, domain.ErrNoSession):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionOpen), errors.Is(err, domain.ErrUploadInFlight):
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	if s.logger != nil {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
