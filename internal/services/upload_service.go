package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/resumeats/internal/extract"
	"github.com/yoockh/resumeats/internal/storage"
	"github.com/yoockh/resumeats/internal/utils"
)

// FileUpload is one multipart file as received by the HTTP layer.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadResult struct {
	Text       string `json:"text"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
	FileSize   int64  `json:"fileSize"`
	StoredPath string `json:"-"`
}

type UploadService interface {
	// Extract returns the text of f. Archive asks for the original to be kept
	// in object storage when an uploader is configured.
	Extract(ctx context.Context, userID string, f FileUpload, archive bool) (*UploadResult, error)
}

type uploadService struct {
	maxBytes int64
	dir      string
	uploader storage.Uploader
	log      *logrus.Logger
}

// NewUploadService accepts a nil uploader; archiving is then skipped.
func NewUploadService(maxBytes int64, dir string, uploader storage.Uploader, log *logrus.Logger) UploadService {
	if log == nil {
		log = logrus.New()
	}
	return &uploadService{maxBytes: maxBytes, dir: dir, uploader: uploader, log: log}
}

func (s *uploadService) Extract(ctx context.Context, userID string, f FileUpload, archive bool) (*UploadResult, error) {
	const op = "UploadService.Extract"

	if f.Body == nil || f.FileName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "No file uploaded", nil)
	}
	if f.Size > s.maxBytes {
		return nil, s.tooLarge(op)
	}

	contentType, err := extract.ResolveContentType(f.ContentType, f.FileName)
	if err != nil {
		return nil, err
	}

	// one extra byte tells us the declared size was a lie
	body := &countingReader{r: io.LimitReader(f.Body, s.maxBytes+1)}

	var res extract.Result
	var stored string
	err = extract.Spool(s.dir, extract.Ext(contentType), body, func(path string) error {
		if body.n > s.maxBytes {
			return s.tooLarge(op)
		}
		var err error
		if res, err = extract.FromFile(ctx, path, contentType); err != nil {
			return err
		}
		if archive {
			stored = s.archive(ctx, userID, path, contentType)
		}
		return nil
	})
	if err != nil {
		var ae *utils.AppError
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to process upload", err)
	}

	return &UploadResult{
		Text:       res.Text,
		FileName:   f.FileName,
		FileType:   res.FileType,
		FileSize:   body.n,
		StoredPath: stored,
	}, nil
}

func (s *uploadService) tooLarge(op string) error {
	return utils.E(utils.CodeFileTooLarge, op,
		fmt.Sprintf("File too large. Maximum size is %dMB.", s.maxBytes>>20), nil)
}

// archive is best effort; a failure only costs the stored copy.
func (s *uploadService) archive(ctx context.Context, userID, path, contentType string) string {
	if s.uploader == nil {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		s.log.WithError(err).Warn("archive: reopen spooled file failed")
		return ""
	}
	defer f.Close()

	name := storage.ResumeObjectName(userID, uuid.NewString(), extract.Ext(contentType), time.Now())
	stored, err := s.uploader.Upload(ctx, name, contentType, f)
	if err != nil {
		s.log.WithError(err).WithField("object", name).Warn("archive: upload failed")
		return ""
	}
	return stored
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
