package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/resumeats/internal/models"
	mongorepo "github.com/yoockh/resumeats/internal/repositories/mongo"
	"github.com/yoockh/resumeats/internal/utils"
)

const (
	chatHistoryLimit = 50
	maxChatTitle     = 200
)

// SaveChatInput creates a session, or appends to SessionID when set.
// A nil Messages slice means the field was absent from the request.
type SaveChatInput struct {
	SessionID      string
	Title          *string
	Messages       []models.ChatMessage
	ResumeFileName string
	ATSScore       *int
}

type ChatService interface {
	Save(ctx context.Context, userID string, in SaveChatInput) (*models.ChatSession, error)
	History(ctx context.Context, userID string) ([]models.ChatSession, error)
	Get(ctx context.Context, userID, id string) (*models.ChatSession, error)
	Delete(ctx context.Context, userID, id string) error
}

type chatService struct {
	repo mongorepo.ChatRepository
	now  func() time.Time
}

func NewChatService(repo mongorepo.ChatRepository) ChatService {
	return &chatService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *chatService) Save(ctx context.Context, userID string, in SaveChatInput) (*models.ChatSession, error) {
	const op = "ChatService.Save"

	if err := validateChat(op, &in); err != nil {
		return nil, err
	}

	now := s.now()
	for i := range in.Messages {
		if in.Messages[i].Timestamp.IsZero() {
			in.Messages[i].Timestamp = now
		}
	}

	if in.SessionID != "" {
		sess, err := s.repo.AppendMessages(ctx, in.SessionID, userID, in.Messages, in.ATSScore, now)
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "Chat session not found", err)
		}
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to update chat session", err)
		}
		return sess, nil
	}

	title := strings.TrimSpace(in.ResumeFileName)
	if in.Title != nil {
		title = *in.Title
	}
	if title == "" {
		title = "Chat " + now.Format("1/2/2006")
	}

	sess := &models.ChatSession{
		UserID:         userID,
		Title:          title,
		Messages:       in.Messages,
		ResumeFileName: strings.TrimSpace(in.ResumeFileName),
		ATSScore:       in.ATSScore,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create chat session", err)
	}
	return sess, nil
}

func validateChat(op string, in *SaveChatInput) error {
	var v utils.Violations
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if n := utf8.RuneCountInString(t); n < 1 || n > maxChatTitle {
			v.Add("title", "Title must be between 1 and 200 characters")
		}
		in.Title = &t
	}
	if in.Messages == nil {
		v.Add("messages", "Messages must be an array")
	}
	for _, m := range in.Messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			v.Add("messages", "Message role must be user or assistant")
			break
		}
	}
	for _, m := range in.Messages {
		if strings.TrimSpace(m.Content) == "" {
			v.Add("messages", "Message content is required")
			break
		}
	}
	if in.ATSScore != nil && (*in.ATSScore < 0 || *in.ATSScore > 100) {
		v.Add("atsScore", "ATS score must be between 0 and 100")
	}
	if in.SessionID != "" && !primitive.IsValidObjectID(in.SessionID) {
		v.Add("sessionId", "Invalid session id")
	}
	return v.Err(op)
}

func (s *chatService) History(ctx context.Context, userID string) ([]models.ChatSession, error) {
	const op = "ChatService.History"

	rows, err := s.repo.ListByUser(ctx, userID, chatHistoryLimit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list chat sessions", err)
	}
	return rows, nil
}

func (s *chatService) Get(ctx context.Context, userID, id string) (*models.ChatSession, error) {
	const op = "ChatService.Get"

	sess, err := s.repo.GetForUser(ctx, id, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "Chat session not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get chat session", err)
	}
	return sess, nil
}

func (s *chatService) Delete(ctx context.Context, userID, id string) error {
	const op = "ChatService.Delete"

	err := s.repo.DeleteForUser(ctx, id, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "Chat session not found", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete chat session", err)
	}
	return nil
}
