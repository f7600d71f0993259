package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeats/internal/analyzer"
	"github.com/yoockh/resumeats/internal/services"
	"github.com/yoockh/resumeats/internal/utils"
)

type AIHandler struct {
	ai services.Assistant
}

func NewAIHandler(ai services.Assistant) *AIHandler {
	return &AIHandler{ai: ai}
}

type AIRequest struct {
	ResumeText        string `json:"resumeText"`
	JobDescription    string `json:"jobDescription"`
	OptimizationFocus string `json:"optimizationFocus"`
}

func (r AIRequest) validate(op string) error {
	if strings.TrimSpace(r.ResumeText) == "" || strings.TrimSpace(r.JobDescription) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "Resume text and job description are required", nil)
	}
	return nil
}

func (h *AIHandler) Analyze(c *gin.Context) {
	const op = "AIHandler.Analyze"

	if _, ok := requireUserID(c); !ok {
		return
	}

	var req AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, op, err)
		return
	}
	if err := req.validate(op); err != nil {
		writeError(c, err)
		return
	}

	jobKeywords := analyzer.ExtractKeywords(req.JobDescription, analyzer.DefaultKeywordLimit)
	c.JSON(http.StatusOK, gin.H{
		"message": "Analysis completed successfully",
		"analysis": gin.H{
			"jobKeywords":             jobKeywords,
			"resumeAnalysis":          analyzer.AnalyzeStructure(req.ResumeText),
			"optimizationSuggestions": h.ai.Suggest(c.Request.Context(), req.ResumeText, req.JobDescription, jobKeywords),
		},
	})
}

func (h *AIHandler) Optimize(c *gin.Context) {
	const op = "AIHandler.Optimize"

	if _, ok := requireUserID(c); !ok {
		return
	}

	var req AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, op, err)
		return
	}
	if err := req.validate(op); err != nil {
		writeError(c, err)
		return
	}

	out, err := h.ai.Optimize(c.Request.Context(), req.ResumeText, req.JobDescription, req.OptimizationFocus)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Resume optimization completed",
		"optimizedResume": out,
	})
}
