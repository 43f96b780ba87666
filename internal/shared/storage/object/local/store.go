package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"taxintake-backend/internal/shared/storage/object"
	"taxintake-backend/internal/shared/util"
)

// Store implements object.Store on the local filesystem. It exists for
// development and tests; the served /files route makes its public URLs
// real.
type Store struct {
	baseDir       string
	publicBaseURL string
}

// New creates a local object store rooted at baseDir. publicBaseURL is the
// URL prefix under which the directory is served.
func New(baseDir, publicBaseURL string) *Store {
	return &Store{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// BaseDir returns the directory backing the store.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Upload writes the reader to disk under name. O_EXCL enforces the
// no-overwrite contract; a failed write removes the partial file.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	clean, err := util.SanitizeFileName(name)
	if err != nil {
		return 0, fmt.Errorf("sanitize object name: %w", err)
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, clean)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("object %s: %w", clean, object.ErrObjectExists)
		}
		return 0, fmt.Errorf("open file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("close file: %w", err)
	}
	return written, nil
}

// List enumerates stored object names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// PublicURL maps an object name onto the served files route.
func (s *Store) PublicURL(name string) (string, bool) {
	if strings.TrimSpace(name) == "" || s.publicBaseURL == "" {
		return "", false
	}
	return s.publicBaseURL + "/" + name, true
}

var _ object.Store = (*Store)(nil)
