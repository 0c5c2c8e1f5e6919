package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

// ParseID decodes a hex ObjectID taken from a request path. A string that
// is not a valid id cannot name any record, so it reports ErrorNotFound.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, common.ErrorNotFound
	}
	return id, nil
}
