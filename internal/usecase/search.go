package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"newsdesk/internal/domain"
	"newsdesk/internal/ports"
)

// minSearchQuery is the shortest query that triggers a search.
const minSearchQuery = 2

// LinkSearcher drives search-as-you-type for the article_link picker.
// Keystrokes are debounced, and each fired search carries a generation
// number: when a newer keystroke has arrived by the time a result returns,
// the stale result is dropped instead of delivered. Search failures degrade
// to an empty candidate list.
type LinkSearcher struct {
	search   ports.ArticleSearch
	debounce time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
}

// NewLinkSearcher wires the article-search collaborator with a debounce
// window.
func NewLinkSearcher(search ports.ArticleSearch, debounce time.Duration, logger *slog.Logger) *LinkSearcher {
	return &LinkSearcher{
		search:   search,
		debounce: debounce,
		logger:   logger,
	}
}

// Type registers a keystroke-settled query. deliver is invoked at most once
// per call, from a background goroutine for fired searches or synchronously
// with an empty list for queries below the minimum length. A later call
// supersedes any pending or in-flight search from this one.
func (l *LinkSearcher) Type(ctx context.Context, query string, deliver func([]domain.ArticleHit)) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}

	if utf8.RuneCountInString(query) < minSearchQuery {
		l.mu.Unlock()
		deliver(nil)
		return
	}

	l.timer = time.AfterFunc(l.debounce, func() {
		l.fire(ctx, gen, query, deliver)
	})
	l.mu.Unlock()
}

// Cancel drops any pending or in-flight search.
func (l *LinkSearcher) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *LinkSearcher) fire(ctx context.Context, gen uint64, query string, deliver func([]domain.ArticleHit)) {
	if l.stale(gen) {
		return
	}

	hits, err := l.search.Search(ctx, query)
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("article search failed", "query", query, "error", err)
		}
		hits = nil
	}

	if l.stale(gen) {
		return
	}
	deliver(hits)
}

func (l *LinkSearcher) stale(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen != l.generation
}
