// Package roles declares the repository contract for identity role
// memberships.
package roles

import "context"

// Repository grants and lists the roles held by identities.
type Repository interface {
	// ListRoles returns the roles held by userID in name order. An identity
	// without memberships yields an empty slice.
	ListRoles(ctx context.Context, userID string) ([]string, error)

	// Grant adds role to userID. Granting a role already held is not an error.
	Grant(ctx context.Context, userID string, role string) error

	// Revoke removes role from userID. Revoking a role not held is not an
	// error.
	Revoke(ctx context.Context, userID string, role string) error
}
