package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"newsdesk/internal/domain"
	"newsdesk/internal/ports"
)

// EditorDeps wires collaborators into the editing surface.
type EditorDeps struct {
	Repository ports.ArticleRepository
	Search     ports.ArticleSearch
	Uploads    ports.FileUpload
	Unfurler   ports.Unfurler
	Allocator  domain.IDAllocator
	Widgets    *WidgetRegistry
	Logger     *slog.Logger
}

// EditorService owns the in-memory editing sessions. Each article is edited
// by exactly one session at a time; all pending mutations live in the
// session and reach storage only through Save. Abandoning a session discards
// everything since the last save.
type EditorService struct {
	repository ports.ArticleRepository
	search     ports.ArticleSearch
	uploads    ports.FileUpload
	unfurler   ports.Unfurler
	alloc      domain.IDAllocator
	widgets    *WidgetRegistry
	logger     *slog.Logger

	mu        sync.Mutex
	sessions  map[string]*session
	byArticle map[string]string
}

type session struct {
	id        string
	articleID string
	blocks    []domain.Block
	uploading map[string]bool
}

// NewEditorService constructs the editing surface.
func NewEditorService(deps EditorDeps) *EditorService {
	widgets := deps.Widgets
	if widgets == nil {
		widgets = DefaultWidgets()
	}
	return &EditorService{
		repository: deps.Repository,
		search:     deps.Search,
		uploads:    deps.Uploads,
		unfurler:   deps.Unfurler,
		alloc:      deps.Allocator,
		widgets:    widgets,
		logger:     deps.Logger,
		sessions:   map[string]*session{},
		byArticle:  map[string]string{},
	}
}

// Searcher returns a debounced article searcher bound to the service's
// search collaborator, for the article_link picker.
func (e *EditorService) Searcher(debounce time.Duration) *LinkSearcher {
	return NewLinkSearcher(e.search, debounce, e.logger)
}

// Open loads the article and starts an exclusive editing session for it.
func (e *EditorService) Open(ctx context.Context, articleID string) (string, []domain.Block, error) {
	article, err := e.repository.Get(ctx, articleID)
	if err != nil {
		return "", nil, fmt.Errorf("load article %s: %w", articleID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, open := e.byArticle[articleID]; open {
		return "", nil, domain.ErrSessionOpen
	}

	s := &session{
		id:        e.alloc.NewID(),
		articleID: articleID,
		blocks:    article.Body,
		uploading: map[string]bool{},
	}
	e.sessions[s.id] = s
	e.byArticle[articleID] = s.id

	e.debug("session opened", "session_id", s.id, "article_id", articleID, "blocks", len(s.blocks))
	return s.id, snapshot(s.blocks), nil
}

// Close abandons the session; unsaved mutations are discarded.
func (e *EditorService) Close(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return
	}
	delete(e.sessions, sessionID)
	delete(e.byArticle, s.articleID)
	e.debug("session closed", "session_id", sessionID, "article_id", s.articleID)
}

// Blocks returns the session's current block sequence.
func (e *EditorService) Blocks(sessionID string) ([]domain.Block, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return snapshot(s.blocks), nil
}

// AppendBlock adds a new block of the given kind with its widget defaults
// and returns it.
func (e *EditorService) AppendBlock(sessionID string, kind domain.BlockKind) (domain.Block, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return domain.Block{}, domain.ErrNoSession
	}

	s.blocks = domain.Append(s.blocks, kind, e.alloc)
	added := s.blocks[len(s.blocks)-1]
	if w, ok := e.widgets.Resolve(kind); ok {
		s.blocks = domain.Update(s.blocks, added.ID, w.Init(added))
		added = s.blocks[len(s.blocks)-1]
	}

	e.debug("block appended", "session_id", sessionID, "block_id", added.ID, "kind", kind)
	return added, nil
}

// UpdateBlock runs the block's widget over the submitted payload and applies
// the result. A stale block id is a no-op.
func (e *EditorService) UpdateBlock(sessionID, blockID string, next domain.Block) ([]domain.Block, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNoSession
	}

	if prev, found := findBlock(s.blocks, blockID); found {
		if w, ok := e.widgets.Resolve(prev.Type); ok {
			next = w.Normalize(prev, next)
		}
	}
	s.blocks = domain.Update(s.blocks, blockID, next)
	return snapshot(s.blocks), nil
}

// RemoveBlock deletes the block; absent ids are a no-op.
func (e *EditorService) RemoveBlock(sessionID, blockID string) ([]domain.Block, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	s.blocks = domain.Remove(s.blocks, blockID)
	return snapshot(s.blocks), nil
}

// MoveBlock repositions the block at targetIndex (clamped).
func (e *EditorService) MoveBlock(sessionID, blockID string, targetIndex int) ([]domain.Block, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	s.blocks = domain.Reposition(s.blocks, blockID, targetIndex)
	return snapshot(s.blocks), nil
}

// SelectLinkedArticle snapshots the picked candidate into an article_link
// block so rendering never needs a live join.
func (e *EditorService) SelectLinkedArticle(sessionID, blockID string, hit domain.ArticleHit) ([]domain.Block, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNoSession
	}

	prev, found := findBlock(s.blocks, blockID)
	if !found || prev.Type != domain.KindArticleLink {
		return snapshot(s.blocks), nil
	}

	next := prev
	next.LinkedArticleID = hit.ID
	next.LinkedArticle = &domain.LinkedArticle{
		Title:        hit.Title,
		Slug:         hit.Slug,
		HeroImageURL: hit.HeroImageURL,
	}
	s.blocks = domain.Update(s.blocks, blockID, next)
	return snapshot(s.blocks), nil
}

// UploadMedia stores the file through the upload collaborator and writes the
// issued URL into the target image or video block. While an upload is in
// flight its block rejects further uploads; every other block stays
// editable. Failure leaves the block unchanged.
func (e *EditorService) UploadMedia(ctx context.Context, sessionID, blockID, name string, r io.Reader) ([]domain.Block, error) {
	e.mu.Lock()
	s, ok := e.sessions[sessionID]
	if !ok {
		e.mu.Unlock()
		return nil, domain.ErrNoSession
	}
	if s.uploading[blockID] {
		e.mu.Unlock()
		return nil, domain.ErrUploadInFlight
	}
	if _, found := findBlock(s.blocks, blockID); !found {
		blocks := snapshot(s.blocks)
		e.mu.Unlock()
		return blocks, nil
	}
	s.uploading[blockID] = true
	e.mu.Unlock()

	// the session lock is released for the duration of the upload
	url, mimeType, err := e.uploads.Upload(ctx, name, r)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(s.uploading, blockID)

	if err != nil {
		e.warn("upload failed", "session_id", sessionID, "block_id", blockID, "error", err)
		return snapshot(s.blocks), fmt.Errorf("upload %s: %w", name, err)
	}

	prev, found := findBlock(s.blocks, blockID)
	if !found {
		// block deleted while the upload ran; the file is orphaned but the
		// document stays consistent
		return snapshot(s.blocks), nil
	}

	next := prev
	switch prev.Type {
	case domain.KindImage:
		next.URL = url
		next.MimeType = mimeType
	case domain.KindVideo:
		next.Source = domain.VideoSourceUpload
		next.URL = url
		next.MimeType = mimeType
		next.VideoID = ""
	default:
		return snapshot(s.blocks), nil
	}
	s.blocks = domain.Update(s.blocks, blockID, next)
	return snapshot(s.blocks), nil
}

// FetchTweetPreview fills a tweet block's preview text from the status
// page's metadata. The fetch is best-effort: any failure leaves the block as
// it was, and the session stays fully usable.
func (e *EditorService) FetchTweetPreview(ctx context.Context, sessionID, blockID string) ([]domain.Block, error) {
	e.mu.Lock()
	s, ok := e.sessions[sessionID]
	if !ok {
		e.mu.Unlock()
		return nil, domain.ErrNoSession
	}
	prev, found := findBlock(s.blocks, blockID)
	blocks := snapshot(s.blocks)
	e.mu.Unlock()

	if e.unfurler == nil || !found || prev.Type != domain.KindTweet || prev.TweetID == "" {
		return blocks, nil
	}

	handle := prev.AuthorHandle
	if handle == "" {
		// x.com resolves the real handle server-side
		handle = "i"
	}
	statusURL := fmt.Sprintf("https://x.com/%s/status/%s", handle, prev.TweetID)

	title, _, err := e.unfurler.Unfurl(ctx, statusURL)
	if err != nil || title == "" {
		e.warn("tweet preview fetch failed", "block_id", blockID, "url", statusURL, "error", err)
		return blocks, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, stillThere := findBlock(s.blocks, blockID); stillThere {
		cur.PreviewText = title
		s.blocks = domain.Update(s.blocks, blockID, cur)
	}
	return snapshot(s.blocks), nil
}

// Save hands the whole document to the repository, which persists it and
// recomputes the sibling reading time. Last write wins at whole-article
// granularity.
func (e *EditorService) Save(ctx context.Context, sessionID string) (int, error) {
	e.mu.Lock()
	s, ok := e.sessions[sessionID]
	if !ok {
		e.mu.Unlock()
		return 0, domain.ErrNoSession
	}
	blocks := snapshot(s.blocks)
	articleID := s.articleID
	e.mu.Unlock()

	minutes, err := e.repository.SaveBody(ctx, articleID, blocks)
	if err != nil {
		return 0, fmt.Errorf("save article %s: %w", articleID, err)
	}

	e.debug("article saved", "article_id", articleID, "blocks", len(blocks), "reading_minutes", minutes)
	return minutes, nil
}

func findBlock(blocks []domain.Block, id string) (domain.Block, bool) {
	for _, b := range blocks {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Block{}, false
}

func snapshot(blocks []domain.Block) []domain.Block {
	out := make([]domain.Block, len(blocks))
	copy(out, blocks)
	return out
}

func (e *EditorService) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *EditorService) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
