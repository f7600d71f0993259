package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeats/internal/services"
	"github.com/yoockh/resumeats/internal/utils"
)

// multipartOverhead covers boundaries and headers around the file part.
const multipartOverhead = 64 << 10

type UploadHandler struct {
	svc      services.UploadService
	maxBytes int64
}

func NewUploadHandler(svc services.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes}
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(c *gin.Context) {
	res, ok := h.extract(c, "resume", true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"text":     res.Text,
		"fileName": res.FileName,
		"fileType": res.FileType,
		"fileSize": res.FileSize,
	})
}

func (h *UploadHandler) Resume(c *gin.Context) {
	res, ok := h.extract(c, "resume", true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "File processed successfully",
		"extractedText": res.Text,
		"fileName":      res.FileName,
		"fileType":      res.FileType,
		"fileSize":      res.FileSize,
	})
}

func (h *UploadHandler) JobDescription(c *gin.Context) {
	res, ok := h.extract(c, "jobDescription", false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Job description processed successfully",
		"extractedText": res.Text,
		"fileName":      res.FileName,
		"fileType":      res.FileType,
		"fileSize":      res.FileSize,
	})
}

func (h *UploadHandler) extract(c *gin.Context, field string, archive bool) (*services.UploadResult, bool) {
	const op = "UploadHandler.extract"

	userID, ok := requireUserID(c)
	if !ok {
		return nil, false
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	fh, err := c.FormFile(field)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(c, utils.E(utils.CodeFileTooLarge, op,
				fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxBytes>>20), err))
			return nil, false
		}
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "No file uploaded", err))
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return nil, false
	}
	defer f.Close()

	res, err := h.svc.Extract(c.Request.Context(), userID, services.FileUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, archive)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return res, true
}
