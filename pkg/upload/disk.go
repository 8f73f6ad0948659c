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
)

// DiskStore copies uploads into a local directory. It is the development
// stand-in for S3; Handler serves the directory back.
type DiskStore struct {
	dir     string
	baseURL string
	newKey  func() string
}

var _ MediaStore = (*DiskStore)(nil)

// NewDiskStore creates dir if needed. Returned URLs are baseURL + "/" + name.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: creating media dir: %w", err)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		newKey:  uuid.NewString,
	}, nil
}

// Dir returns the directory media is written to.
func (s *DiskStore) Dir() string { return s.dir }

// Upload implements MediaStore.
func (s *DiskStore) Upload(ctx context.Context, path string, meta Meta) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("disk: opening spooled file: %w", err)
	}
	defer src.Close()

	name := s.newKey() + strings.ToLower(filepath.Ext(meta.Filename))
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("disk: creating %s: %w", name, err)
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("disk: writing %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}

// Handler serves stored media. Directory listings are refused.
func (s *DiskStore) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
