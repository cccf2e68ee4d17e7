package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/domain"
)

type scriptedSearch struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]domain.ArticleHit
	err     error
	block   chan struct{}
}

func (s *scriptedSearch) Search(_ context.Context, query string) ([]domain.ArticleHit, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

func (s *scriptedSearch) queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func collectHits() (func([]domain.ArticleHit), chan []domain.ArticleHit) {
	ch := make(chan []domain.ArticleHit, 8)
	return func(hits []domain.ArticleHit) { ch <- hits }, ch
}

func TestShortQueryNeverFires(t *testing.T) {
	t.Parallel()

	search := &scriptedSearch{}
	searcher := NewLinkSearcher(search, time.Millisecond, nil)
	deliver, got := collectHits()

	searcher.Type(context.Background(), "a", deliver)

	select {
	case hits := <-got:
		assert.Empty(t, hits, "short query clears the candidate list")
	case <-time.After(time.Second):
		t.Fatal("expected synchronous empty delivery")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, search.queries(), "no search may fire for a short query")
}

func TestDebouncedSearchDelivers(t *testing.T) {
	t.Parallel()

	want := []domain.ArticleHit{{ID: "1", Title: "Election night", Slug: "election-night"}}
	search := &scriptedSearch{results: map[string][]domain.ArticleHit{"elect": want}}
	searcher := NewLinkSearcher(search, 5*time.Millisecond, nil)
	deliver, got := collectHits()

	searcher.Type(context.Background(), "elect", deliver)

	select {
	case hits := <-got:
		assert.Equal(t, want, hits)
	case <-time.After(time.Second):
		t.Fatal("debounced search never delivered")
	}
}

func TestNewerKeystrokeSupersedesOlder(t *testing.T) {
	t.Parallel()

	search := &scriptedSearch{results: map[string][]domain.ArticleHit{
		"ele":   {{ID: "stale"}},
		"elect": {{ID: "fresh"}},
	}}
	searcher := NewLinkSearcher(search, 30*time.Millisecond, nil)
	deliver, got := collectHits()

	searcher.Type(context.Background(), "ele", deliver)
	time.Sleep(5 * time.Millisecond)
	searcher.Type(context.Background(), "elect", deliver)

	select {
	case hits := <-got:
		require.Len(t, hits, 1)
		assert.Equal(t, "fresh", hits[0].ID)
	case <-time.After(time.Second):
		t.Fatal("superseding search never delivered")
	}

	select {
	case hits := <-got:
		t.Fatalf("stale delivery arrived: %v", hits)
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, []string{"elect"}, search.queries(), "the superseded query must never fire")
}

func TestInFlightResultDroppedWhenSuperseded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	search := &scriptedSearch{
		results: map[string][]domain.ArticleHit{"first": {{ID: "stale"}}},
		block:   release,
	}
	searcher := NewLinkSearcher(search, time.Millisecond, nil)
	deliver, got := collectHits()

	searcher.Type(context.Background(), "first", deliver)

	// wait for the search to actually be in flight, then supersede it
	require.Eventually(t, func() bool { return len(search.queries()) == 1 }, time.Second, time.Millisecond)
	searcher.Cancel()
	close(release)

	select {
	case hits := <-got:
		t.Fatalf("stale in-flight result applied: %v", hits)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSearchErrorDegradesToEmpty(t *testing.T) {
	t.Parallel()

	search := &scriptedSearch{err: errors.New("indexer down")}
	searcher := NewLinkSearcher(search, time.Millisecond, nil)
	deliver, got := collectHits()

	searcher.Type(context.Background(), "query", deliver)

	select {
	case hits := <-got:
		assert.Empty(t, hits, "errors surface as an empty result set")
	case <-time.After(time.Second):
		t.Fatal("failed search never delivered")
	}
}
