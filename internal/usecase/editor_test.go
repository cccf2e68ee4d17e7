package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/domain"
)

type stubAllocator struct {
	n int
}

func (s *stubAllocator) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

// MockArticleRepository is a mock implementation of ports.ArticleRepository.
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article domain.Article) (domain.Article, error) {
	args := m.Called(ctx, article)
	return args.Get(0).(domain.Article), args.Error(1)
}

func (m *MockArticleRepository) Get(ctx context.Context, id string) (domain.Article, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Article), args.Error(1)
}

func (m *MockArticleRepository) SaveBody(ctx context.Context, id string, blocks []domain.Block) (int, error) {
	args := m.Called(ctx, id, blocks)
	return args.Int(0), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, limit int) ([]domain.Article, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Article), args.Error(1)
}

// MockFileUpload is a mock implementation of ports.FileUpload.
type MockFileUpload struct {
	mock.Mock
}

func (m *MockFileUpload) Upload(ctx context.Context, name string, r io.Reader) (string, string, error) {
	args := m.Called(ctx, name, r)
	return args.String(0), args.String(1), args.Error(2)
}

func newTestEditor(t *testing.T, body []domain.Block) (*EditorService, *MockArticleRepository, *MockFileUpload) {
	t.Helper()

	repo := new(MockArticleRepository)
	uploads := new(MockFileUpload)
	repo.On("Get", mock.Anything, "art-1").Return(domain.Article{ID: "art-1", Title: "T", Body: body}, nil)

	editor := NewEditorService(EditorDeps{
		Repository: repo,
		Uploads:    uploads,
		Allocator:  &stubAllocator{},
	})
	return editor, repo, uploads
}

func TestOpenIsExclusivePerArticle(t *testing.T) {
	t.Parallel()

	editor, _, _ := newTestEditor(t, nil)
	ctx := context.Background()

	sessionID, blocks, err := editor.Open(ctx, "art-1")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Empty(t, blocks)

	_, _, err = editor.Open(ctx, "art-1")
	assert.ErrorIs(t, err, domain.ErrSessionOpen)

	editor.Close(sessionID)
	_, _, err = editor.Open(ctx, "art-1")
	assert.NoError(t, err)
}

func TestCloseDiscardsPendingMutations(t *testing.T) {
	t.Parallel()

	editor, _, _ := newTestEditor(t, nil)
	ctx := context.Background()

	sessionID, _, err := editor.Open(ctx, "art-1")
	require.NoError(t, err)

	_, err = editor.AppendBlock(sessionID, domain.KindParagraph)
	require.NoError(t, err)
	editor.Close(sessionID)

	again, blocks, err := editor.Open(ctx, "art-1")
	require.NoError(t, err)
	assert.Empty(t, blocks, "unsaved blocks must not survive an abandoned session")
	editor.Close(again)
}

func TestAppendBlockAppliesWidgetDefaults(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind  domain.BlockKind
		check func(t *testing.T, b domain.Block)
	}{
		{kind: domain.KindHeading, check: func(t *testing.T, b domain.Block) {
			assert.Equal(t, 2, b.Level)
		}},
		{kind: domain.KindBulletList, check: func(t *testing.T, b domain.Block) {
			assert.Equal(t, []string{""}, b.Items)
		}},
		{kind: domain.KindArticleLink, check: func(t *testing.T, b domain.Block) {
			assert.Equal(t, domain.DisplayCard, b.DisplayStyle)
			assert.Nil(t, b.LinkedArticle)
		}},
		{kind: domain.KindVideo, check: func(t *testing.T, b domain.Block) {
			assert.Equal(t, domain.VideoSourceYouTube, b.Source)
		}},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()

			editor, _, _ := newTestEditor(t, nil)
			sessionID, _, err := editor.Open(context.Background(), "art-1")
			require.NoError(t, err)

			added, err := editor.AppendBlock(sessionID, tc.kind)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, added.Type)
			assert.NotEmpty(t, added.ID)
			tc.check(t, added)
		})
	}
}

func TestUpdateBlockNormalizesEmbeds(t *testing.T) {
	t.Parallel()

	body := []domain.Block{
		{ID: "y", Type: domain.KindYouTube},
		{ID: "tw", Type: domain.KindTweet, TweetID: "12345", AuthorHandle: "nasa"},
		{ID: "p", Type: domain.KindParagraph},
	}
	editor, _, _ := newTestEditor(t, body)
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	blocks, err := editor.UpdateBlock(sessionID, "y", domain.Block{VideoID: "https://youtube.com/watch?v=dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", blocks[0].VideoID)

	blocks, err = editor.UpdateBlock(sessionID, "tw", domain.Block{TweetID: "definitely not a tweet"})
	require.NoError(t, err)
	assert.Equal(t, "definitely not a tweet", blocks[1].TweetID, "failed extraction keeps raw input")
	assert.Equal(t, "nasa", blocks[1].AuthorHandle, "failed re-parse must not clear the handle")

	blocks, err = editor.UpdateBlock(sessionID, "p", domain.Block{Text: `hi <script>alert(1)</script><b>there</b>`})
	require.NoError(t, err)
	assert.Equal(t, "hi <b>there</b>", blocks[2].Text)
}

func TestUpdateBlockStaleIDIsNoop(t *testing.T) {
	t.Parallel()

	body := []domain.Block{{ID: "p", Type: domain.KindParagraph, Text: "keep"}}
	editor, _, _ := newTestEditor(t, body)
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	blocks, err := editor.UpdateBlock(sessionID, "deleted-long-ago", domain.Block{Text: "x"})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "keep", blocks[0].Text)
}

func TestMoveAndRemove(t *testing.T) {
	t.Parallel()

	body := []domain.Block{
		{ID: "a", Type: domain.KindParagraph},
		{ID: "b", Type: domain.KindParagraph},
		{ID: "c", Type: domain.KindParagraph},
	}
	editor, _, _ := newTestEditor(t, body)
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	blocks, err := editor.MoveBlock(sessionID, "c", 0)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "c", blocks[0].ID)
	assert.Equal(t, "a", blocks[1].ID)
	assert.Equal(t, "b", blocks[2].ID)

	blocks, err = editor.RemoveBlock(sessionID, "a")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "c", blocks[0].ID)
	assert.Equal(t, "b", blocks[1].ID)
}

func TestSelectLinkedArticleSnapshots(t *testing.T) {
	t.Parallel()

	body := []domain.Block{{ID: "al", Type: domain.KindArticleLink, DisplayStyle: domain.DisplayCard}}
	editor, _, _ := newTestEditor(t, body)
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	hit := domain.ArticleHit{ID: "art-9", Title: "Other piece", Slug: "other-piece", HeroImageURL: "https://cdn.example.org/h.jpg"}
	blocks, err := editor.SelectLinkedArticle(sessionID, "al", hit)
	require.NoError(t, err)

	linked := blocks[0]
	assert.Equal(t, "art-9", linked.LinkedArticleID)
	require.NotNil(t, linked.LinkedArticle)
	assert.Equal(t, "Other piece", linked.LinkedArticle.Title)
	assert.Equal(t, "other-piece", linked.LinkedArticle.Slug)
	assert.Equal(t, "https://cdn.example.org/h.jpg", linked.LinkedArticle.HeroImageURL)
}

func TestUploadMedia(t *testing.T) {
	t.Parallel()

	body := []domain.Block{
		{ID: "img", Type: domain.KindImage},
		{ID: "p", Type: domain.KindParagraph, Text: "untouched"},
	}
	editor, _, uploads := newTestEditor(t, body)
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	uploads.On("Upload", mock.Anything, "photo.jpg", mock.Anything).
		Return("https://cdn.example.org/photo.jpg", "image/jpeg", nil).Once()

	blocks, err := editor.UploadMedia(context.Background(), sessionID, "img", "photo.jpg", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org/photo.jpg", blocks[0].URL)
	assert.Equal(t, "image/jpeg", blocks[0].MimeType)
	assert.Equal(t, "untouched", blocks[1].Text)
}

func TestUploadMediaFailureLeavesBlockUnchanged(t *testing.T) {
	t.Parallel()

	body := []domain.Block{{ID: "img", Type: domain.KindImage}}
	editor, _, uploads := newTestEditor(t, body)
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	uploads.On("Upload", mock.Anything, "broken.jpg", mock.Anything).
		Return("", "", errors.New("cdn unreachable")).Once()

	_, err = editor.UploadMedia(context.Background(), sessionID, "img", "broken.jpg", strings.NewReader("bytes"))
	require.Error(t, err)

	blocks, err := editor.Blocks(sessionID)
	require.NoError(t, err)
	assert.Empty(t, blocks[0].URL, "failed upload must leave url unset")
}

// MockUnfurler is a mock implementation of ports.Unfurler.
type MockUnfurler struct {
	mock.Mock
}

func (m *MockUnfurler) Unfurl(ctx context.Context, pageURL string) (string, string, error) {
	args := m.Called(ctx, pageURL)
	return args.String(0), args.String(1), args.Error(2)
}

func TestFetchTweetPreview(t *testing.T) {
	t.Parallel()

	repo := new(MockArticleRepository)
	repo.On("Get", mock.Anything, "art-1").Return(domain.Article{
		ID:   "art-1",
		Body: []domain.Block{{ID: "tw", Type: domain.KindTweet, TweetID: "12345", AuthorHandle: "nasa"}},
	}, nil)

	unfurler := new(MockUnfurler)
	unfurler.On("Unfurl", mock.Anything, "https://x.com/nasa/status/12345").
		Return("NASA on X: launch day", "", nil).Once()

	editor := NewEditorService(EditorDeps{
		Repository: repo,
		Unfurler:   unfurler,
		Allocator:  &stubAllocator{},
	})
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	blocks, err := editor.FetchTweetPreview(context.Background(), sessionID, "tw")
	require.NoError(t, err)
	assert.Equal(t, "NASA on X: launch day", blocks[0].PreviewText)
	unfurler.AssertExpectations(t)
}

func TestFetchTweetPreviewSoftFailure(t *testing.T) {
	t.Parallel()

	repo := new(MockArticleRepository)
	repo.On("Get", mock.Anything, "art-1").Return(domain.Article{
		ID:   "art-1",
		Body: []domain.Block{{ID: "tw", Type: domain.KindTweet, TweetID: "12345", PreviewText: "old preview"}},
	}, nil)

	unfurler := new(MockUnfurler)
	unfurler.On("Unfurl", mock.Anything, "https://x.com/i/status/12345").
		Return("", "", errors.New("blocked")).Once()

	editor := NewEditorService(EditorDeps{
		Repository: repo,
		Unfurler:   unfurler,
		Allocator:  &stubAllocator{},
	})
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	blocks, err := editor.FetchTweetPreview(context.Background(), sessionID, "tw")
	require.NoError(t, err, "preview fetch failures are soft")
	assert.Equal(t, "old preview", blocks[0].PreviewText)
}

func TestSaveRecomputesReadingTime(t *testing.T) {
	t.Parallel()

	text := strings.TrimSpace(strings.Repeat("word ", 210))
	body := []domain.Block{{ID: "p", Type: domain.KindParagraph, Text: text}}
	editor, repo, _ := newTestEditor(t, body)
	sessionID, _, err := editor.Open(context.Background(), "art-1")
	require.NoError(t, err)

	repo.On("SaveBody", mock.Anything, "art-1", mock.Anything).Return(2, nil).Once()

	minutes, err := editor.Save(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, minutes)
	repo.AssertExpectations(t)
}

func TestOperationsOnClosedSession(t *testing.T) {
	t.Parallel()

	editor, _, _ := newTestEditor(t, nil)
	_, err := editor.AppendBlock("ghost", domain.KindParagraph)
	assert.ErrorIs(t, err, domain.ErrNoSession)
	_, err = editor.Blocks("ghost")
	assert.ErrorIs(t, err, domain.ErrNoSession)
	_, err = editor.Save(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNoSession)
}
