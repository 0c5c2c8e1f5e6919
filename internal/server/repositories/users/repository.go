// Package users declares the identity repository and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// Repository looks up and creates identities.
type Repository interface {
	// Create stores user and fills in its id and creation time. A taken
	// username returns common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.Identity) (*models.Identity, error)

	// GetByUsername returns common.ErrorNotFound when no identity has the
	// exact username.
	GetByUsername(ctx context.Context, username string) (*models.Identity, error)
}
