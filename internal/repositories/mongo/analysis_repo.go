package mongo

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnalysisRepository interface {
	Create(ctx context.Context, a *models.Analysis) error
	ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Analysis, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Analysis, error)
	DeleteForUser(ctx context.Context, id, userID string) error
	Stats(ctx context.Context, userID string) (*models.AnalysisStats, error)
}

var scoreBoundaries = bson.A{0, 25, 50, 75, 100}

type analysisRepo struct {
	col *mongo.Collection
}

func NewAnalysisRepo(db *mongo.Database) AnalysisRepository {
	return &analysisRepo{col: db.Collection("analyses")}
}

func (r *analysisRepo) Create(ctx context.Context, a *models.Analysis) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

func (r *analysisRepo) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Analysis, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit).
		SetProjection(bson.M{"resume_text": 0, "job_description": 0})

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Analysis{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *analysisRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (r *analysisRepo) GetForUser(ctx context.Context, id, userID string) (*models.Analysis, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var a models.Analysis
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *analysisRepo) DeleteForUser(ctx context.Context, id, userID string) error {
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

type statsFacet struct {
	Summary []struct {
		Total int64   `bson:"total"`
		Avg   float64 `bson:"avg"`
	} `bson:"summary"`
	Distribution []models.ScoreBucket     `bson:"distribution"`
	Recent       []models.AnalysisSummary `bson:"recent"`
}

// Stats runs a single $facet pipeline over the user's analyses.
func (r *analysisRepo) Stats(ctx context.Context, userID string) (*models.AnalysisStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$facet", Value: bson.M{
			"summary": bson.A{
				bson.M{"$group": bson.M{
					"_id":   nil,
					"total": bson.M{"$sum": 1},
					"avg":   bson.M{"$avg": "$ats_score"},
				}},
			},
			"distribution": bson.A{
				bson.M{"$bucket": bson.M{
					"groupBy":    "$ats_score",
					"boundaries": scoreBoundaries,
					"default":    "Other",
					"output":     bson.M{"count": bson.M{"$sum": 1}},
				}},
			},
			"recent": bson.A{
				bson.M{"$sort": bson.M{"created_at": -1}},
				bson.M{"$limit": 5},
				bson.M{"$project": bson.M{"ats_score": 1, "file_name": 1, "created_at": 1}},
			},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var facets []statsFacet
	if err := cur.All(ctx, &facets); err != nil {
		return nil, err
	}

	out := &models.AnalysisStats{
		ScoreDistribution: []models.ScoreBucket{},
		RecentAnalyses:    []models.AnalysisSummary{},
	}
	if len(facets) == 0 {
		return out, nil
	}
	f := facets[0]
	if len(f.Summary) > 0 {
		out.TotalAnalyses = f.Summary[0].Total
		out.AverageScore = int(math.Round(f.Summary[0].Avg))
	}
	if f.Distribution != nil {
		out.ScoreDistribution = f.Distribution
	}
	if f.Recent != nil {
		out.RecentAnalyses = f.Recent
	}
	return out, nil
}
