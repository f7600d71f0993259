package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role      string    `bson:"role" json:"role"` // user|assistant
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type ChatSession struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID string             `bson:"user_id" json:"userId"`

	Title          string        `bson:"title" json:"title"`
	Messages       []ChatMessage `bson:"messages,omitempty" json:"messages,omitempty"`
	ResumeFileName string        `bson:"resume_file_name,omitempty" json:"resumeFileName,omitempty"`
	ATSScore       *int          `bson:"ats_score,omitempty" json:"atsScore,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
