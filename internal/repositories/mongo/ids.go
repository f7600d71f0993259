package mongo

import (
	"github.com/yoockh/resumeats/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseID maps malformed ids to ErrNotFound so callers cannot tell them apart
// from missing records.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, utils.ErrNotFound
	}
	return oid, nil
}
