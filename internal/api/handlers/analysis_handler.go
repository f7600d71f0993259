package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/services"
)

type AnalysisHandler struct {
	svc services.AnalysisService
}

func NewAnalysisHandler(svc services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	FileName       string `json:"fileName"`
	FileType       string `json:"fileType"`
}

// AnalysisResult is the metric block returned by POST /api/analyze.
type AnalysisResult struct {
	ATSScore             int                     `json:"atsScore"`
	MatchedKeywords      []models.MatchedKeyword `json:"matchedKeywords"`
	MissingKeywords      []models.MissingKeyword `json:"missingKeywords"`
	Suggestions          []models.Suggestion     `json:"suggestions"`
	ReadabilityScore     int                     `json:"readabilityScore"`
	ModelConfidence      float64                 `json:"modelConfidence"`
	ImprovementPotential int                     `json:"improvementPotential"`
	KeywordMatchRatio    float64                 `json:"keywordMatchRatio"`
	SkillMatchRatio      float64                 `json:"skillMatchRatio"`
	ActionVerbCount      int                     `json:"actionVerbCount"`
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "AnalysisHandler.Analyze", err)
		return
	}

	a, err := h.svc.Analyze(c.Request.Context(), userID, services.AnalyzeInput{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		FileName:       req.FileName,
		FileType:       req.FileType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"analysisId": a.ID.Hex(),
		"analysis": AnalysisResult{
			ATSScore:             a.ATSScore,
			MatchedKeywords:      a.MatchedKeywords,
			MissingKeywords:      a.MissingKeywords,
			Suggestions:          a.Suggestions,
			ReadabilityScore:     a.ReadabilityScore,
			ModelConfidence:      a.ModelConfidence,
			ImprovementPotential: a.ImprovementPotential,
			KeywordMatchRatio:    a.KeywordMatchRatio,
			SkillMatchRatio:      a.SkillMatchRatio,
			ActionVerbCount:      a.ActionVerbCount,
		},
	})
}

func (h *AnalysisHandler) Recent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.Recent(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analyses": nonNilAnalyses(rows)})
}

func (h *AnalysisHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, page, err := h.svc.List(c.Request.Context(), userID, queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analyses": nonNilAnalyses(rows), "pagination": page})
}

func (h *AnalysisHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	a, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": a})
}

func (h *AnalysisHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Analysis deleted successfully"})
}

func (h *AnalysisHandler) Stats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	st, err := h.svc.Stats(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": st})
}

func (h *AnalysisHandler) Export(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	exp, err := h.svc.Export(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="resume-analysis-%s.json"`, id))
	c.JSON(http.StatusOK, exp)
}

func nonNilAnalyses(rows []models.Analysis) []models.Analysis {
	if rows == nil {
		return []models.Analysis{}
	}
	return rows
}
