// Package storage contains the stores for rendered report files: the local
// directory the renderer writes to and retrieval reads from, and an optional
// S3-compatible archive.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrReportNotFound reports that no PDF file exists for a reference ID.
var ErrReportNotFound = errors.New("report file not found")

// Archiver is the best-effort secondary store for rendered reports. Archive
// failures must never fail a submission; callers log and continue.
type Archiver interface {
	// Put uploads the report bytes under the given key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}
