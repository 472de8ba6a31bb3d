// Package blob is the storage collaborator for item photos. It accepts a
// payload and hands back a retrievable URL; nothing else in the system ever
// touches image bytes again.
package blob

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes blobs to a directory on disk and serves them under a URL
// prefix.
type Store struct {
	dir    string
	prefix string
}

// NewStore creates the blob directory if needed.
func NewStore(dir, urlPrefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &Store{dir: dir, prefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Put stores a blob and returns the URL it will be served under.
// The extension should include the leading dot, e.g. ".jpg".
func (s *Store) Put(data []byte, ext string) (string, error) {
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing blob: %w", err)
	}
	return s.prefix + "/" + name, nil
}

// Handler serves stored blobs. Mount it at the store's URL prefix.
func (s *Store) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// path.Base strips any directory components from the request.
		name := path.Base(r.URL.Path)
		if name == "." || name == "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.ServeFile(w, r, filepath.Join(s.dir, name))
	})
}
