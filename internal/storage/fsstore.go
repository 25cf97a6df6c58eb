package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore holds rendered PDF reports on local disk, one file per
// submission named <refID>.pdf. The path for a given reference ID is
// deterministic; the PDF retrieval endpoint and the renderer both derive it
// from here.
type FileStore struct {
	dir string
}

// NewFileStore creates the report directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("report directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the deterministic file path for a reference ID.
func (s *FileStore) Path(refID string) string {
	return filepath.Join(s.dir, refID+".pdf")
}

// Exists reports whether a report file is present for the reference ID.
func (s *FileStore) Exists(refID string) bool {
	info, err := os.Stat(s.Path(refID))
	return err == nil && !info.IsDir()
}

// Open returns the report file contents and size, or ErrReportNotFound.
func (s *FileStore) Open(refID string) (io.ReadCloser, int64, error) {
	f, err := os.Open(s.Path(refID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrReportNotFound
		}
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
