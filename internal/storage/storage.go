package storage

import (
	"context"
	"io"
	"path"
	"time"
)

// Uploader archives original resume files.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// ResumeObjectName keeps each user's uploads under their own prefix.
func ResumeObjectName(userID, id, ext string, at time.Time) string {
	return path.Join("resumes", userID, at.UTC().Format("2006/01/02"), id+ext)
}
