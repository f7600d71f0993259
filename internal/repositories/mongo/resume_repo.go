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

type ResumeRepository interface {
	Create(ctx context.Context, r *models.Resume) error
	ListByUser(ctx context.Context, userID string) ([]models.Resume, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Resume, error)
	Update(ctx context.Context, id, userID string, patch models.ResumePatch) (*models.Resume, error)
	DeleteForUser(ctx context.Context, id, userID string) error
}

type resumeRepo struct {
	col *mongo.Collection
}

func NewResumeRepo(db *mongo.Database) ResumeRepository {
	return &resumeRepo{col: db.Collection("resumes")}
}

func (r *resumeRepo) Create(ctx context.Context, res *models.Resume) error {
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now
	out, err := r.col.InsertOne(ctx, res)
	if err != nil {
		return err
	}
	if oid, ok := out.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid
	}
	return nil
}

func (r *resumeRepo) ListByUser(ctx context.Context, userID string) ([]models.Resume, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Resume{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resumeRepo) GetForUser(ctx context.Context, id, userID string) (*models.Resume, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var res models.Resume
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Update applies the non-nil patch fields and touches updated_at.
func (r *resumeRepo) Update(ctx context.Context, id, userID string, patch models.ResumePatch) (*models.Resume, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.JobDescription != nil {
		set["job_description"] = *patch.JobDescription
	}
	if patch.Analysis != nil {
		set["analysis"] = patch.Analysis
	}
	if patch.OptimizedContent != nil {
		set["optimized_content"] = *patch.OptimizedContent
	}

	var out models.Resume
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": set},
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

func (r *resumeRepo) DeleteForUser(ctx context.Context, id, userID string) error {
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
