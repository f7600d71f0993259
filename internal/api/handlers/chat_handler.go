package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/services"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type SaveChatRequest struct {
	SessionID      string                `json:"sessionId"`
	Title          *string               `json:"title"`
	Messages       *[]models.ChatMessage `json:"messages"`
	ResumeFileName string                `json:"resumeFileName"`
	ATSScore       *int                  `json:"atsScore"`
}

func (h *ChatHandler) Save(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SaveChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ChatHandler.Save", err)
		return
	}

	in := services.SaveChatInput{
		SessionID:      req.SessionID,
		Title:          req.Title,
		ResumeFileName: req.ResumeFileName,
		ATSScore:       req.ATSScore,
	}
	if req.Messages != nil {
		in.Messages = *req.Messages
		if in.Messages == nil {
			in.Messages = []models.ChatMessage{}
		}
	}

	sess, err := h.svc.Save(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess})
}

func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if rows == nil {
		rows = []models.ChatSession{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessions": rows})
}

func (h *ChatHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess})
}

func (h *ChatHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Chat session deleted successfully"})
}
