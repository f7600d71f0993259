package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository interface {
	Create(ctx context.Context, s *models.ChatSession) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.ChatSession, error)
	GetForUser(ctx context.Context, id, userID string) (*models.ChatSession, error)
	AppendMessages(ctx context.Context, id, userID string, msgs []models.ChatMessage, atsScore *int, at time.Time) (*models.ChatSession, error)
	DeleteForUser(ctx context.Context, id, userID string) error
}

type chatRepo struct {
	col *mongo.Collection
}

func NewChatRepo(db *mongo.Database) ChatRepository {
	return &chatRepo{col: db.Collection("chat_sessions")}
}

func (r *chatRepo) Create(ctx context.Context, s *models.ChatSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

// ListByUser omits message bodies.
func (r *chatRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.ChatSession, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"messages": 0})

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ChatSession{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chatRepo) GetForUser(ctx context.Context, id, userID string) (*models.ChatSession, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var s models.ChatSession
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AppendMessages pushes onto the stored sequence in one single-document
// update, so concurrent appends are serialised by the store.
func (r *chatRepo) AppendMessages(ctx context.Context, id, userID string, msgs []models.ChatMessage, atsScore *int, at time.Time) (*models.ChatSession, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": at.UTC()}
	if atsScore != nil {
		set["ats_score"] = *atsScore
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": msgs}},
		"$set":  set,
	}

	var out models.ChatSession
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRepo) DeleteForUser(ctx context.Context, id, userID string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
