package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/services"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

type CreateResumeRequest struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	JobDescription string `json:"jobDescription"`
}

type UpdateResumeRequest struct {
	Title            *string                `json:"title,omitempty"`
	Content          *string                `json:"content,omitempty"`
	JobDescription   *string                `json:"jobDescription,omitempty"`
	Analysis         *models.ResumeAnalysis `json:"analysis,omitempty"`
	OptimizedContent *string                `json:"optimizedContent,omitempty"`
}

type AnalyzeResumeRequest struct {
	Mode models.ResumeAnalysisKind `json:"mode"` // scored|optimization
}

type OptimizeResumeRequest struct {
	Focus string `json:"optimizationFocus"`
}

func (h *ResumeHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ResumeHandler.Create", err)
		return
	}

	r, err := h.svc.Create(c.Request.Context(), userID, services.CreateResumeInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "resume": r})
}

func (h *ResumeHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if rows == nil {
		rows = []models.Resume{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resumes": rows})
}

func (h *ResumeHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	r, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resume": r})
}

func (h *ResumeHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ResumeHandler.Update", err)
		return
	}

	r, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), models.ResumePatch(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resume": r})
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Resume deleted successfully"})
}

func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AnalyzeResumeRequest
	// body is optional; an empty one means a scored analysis
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "ResumeHandler.Analyze", err)
			return
		}
	}

	r, err := h.svc.Analyze(c.Request.Context(), userID, c.Param("id"), req.Mode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resume": r})
}

func (h *ResumeHandler) Optimize(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req OptimizeResumeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "ResumeHandler.Optimize", err)
			return
		}
	}

	r, err := h.svc.Optimize(c.Request.Context(), userID, c.Param("id"), req.Focus)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resume": r})
}
