// Package pipeline stores the stages of the project pipeline.
package pipeline

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// Repository defines the operations on pipeline stages.
type Repository interface {
	// ListComplete returns stages with project, description and stageType
	// set, ordered by order and then by id.
	ListComplete(ctx context.Context) ([]models.PipelineStage, error)

	// Create assigns an id and stores the stage, returning it as stored.
	Create(ctx context.Context, s *models.PipelineStage) (*models.PipelineStage, error)

	// CreateMany attempts every stage. When some are rejected it returns the
	// result together with a *PartialFailureError.
	CreateMany(ctx context.Context, stages []models.PipelineStage) (*BulkResult, error)

	// Update replaces the stage stored under id. It returns
	// common.ErrorNotFound when the id is absent.
	Update(ctx context.Context, id primitive.ObjectID, s *models.PipelineStage) error

	// Delete reports whether a stage existed and was removed.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}
