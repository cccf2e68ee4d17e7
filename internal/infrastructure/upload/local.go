package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"newsdesk/internal/ports"
)

// LocalStore keeps uploaded media on disk and issues permanent URLs under a
// configured public base. Image and video blocks consume the URL verbatim.
type LocalStore struct {
	dir     string
	baseURL string
}

var _ ports.FileUpload = (*LocalStore)(nil)

// NewLocalStore creates the target directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores the stream under a random name (the original extension is
// kept) and returns its URL plus the sniffed mime type.
func (s *LocalStore) Upload(ctx context.Context, name string, r io.Reader) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	mimeType := http.DetectContentType(head)

	stored := uuid.NewString() + sanitizeExt(filepath.Ext(name))
	path := filepath.Join(s.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := f.Write(head); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("close upload: %w", err)
	}

	return s.baseURL + "/" + stored, mimeType, nil
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if len(ext) < 2 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
