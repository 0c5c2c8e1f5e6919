// Package techs stores TechEntry records in the shared tech collection and
// exposes the tech-only and project views over it.
package techs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// Repository defines the operations on tech entries.
type Repository interface {
	// ListTechs returns entries without a project.
	ListTechs(ctx context.Context) ([]models.TechEntry, error)

	// ListProjects returns entries with project, description and
	// technologies all set.
	ListProjects(ctx context.Context) ([]models.TechEntry, error)

	// GetByID returns common.ErrorNotFound when no entry has the id.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.TechEntry, error)

	// Create assigns the id and kind and stores the entry.
	Create(ctx context.Context, e *models.TechEntry) (*models.TechEntry, error)

	// Update replaces the entry stored under id, recomputing its kind.
	// It returns common.ErrorNotFound when the id is absent.
	Update(ctx context.Context, id primitive.ObjectID, e *models.TechEntry) error

	// Delete reports whether an entry existed and was removed.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)

	// SetImage records the image reference of an entry.
	SetImage(ctx context.Context, id primitive.ObjectID, image string) error
}
