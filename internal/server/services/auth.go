// Package services contains the server-side logic that sits between the
// REST handlers and the repositories. This file implements AuthService,
// which verifies credentials against the identity store and issues tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/cryptox"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
)

// AuthService provides identity operations:
//   - Verify / Login: check credentials and mint access tokens
//   - Register / Grant: administrative account management
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
}

// NewAuthService constructs an AuthService over the identity store.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
	}
}

// Verify checks the password of username and returns the identity with its
// roles. An unknown username and a wrong password both yield
// common.ErrorUnauthorized after the same bcrypt work. Identity store
// failures yield common.ErrorInternal.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*models.Identity, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CompareDummy(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.ComparePassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	roles, err := s.repomanager.Roles(s.db).ListRoles(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	user.Roles = roles

	return user, nil
}

// Login verifies the credentials and, on success, returns a new access
// token carrying the identity's roles.
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.Token, error) {
	user, err := s.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return token, nil
}

// Register creates an identity with the given password and roles in one
// transaction. The password must satisfy cryptox.CheckPasswordPolicy.
func (s *AuthService) Register(ctx context.Context, username, password string, roles ...string) (*models.Identity, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username required", common.ErrorValidation)
	}
	if err := cryptox.CheckPasswordPolicy(password); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user *models.Identity
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.Identity{UserName: username, PasswordHash: hash})
		if err != nil {
			return err
		}
		for _, role := range roles {
			if err := s.repomanager.Roles(tx).Grant(ctx, u.ID, role); err != nil {
				return err
			}
		}
		u.Roles = append([]string(nil), roles...)
		user = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Grant adds role to an existing identity.
func (s *AuthService) Grant(ctx context.Context, username, role string) error {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("user %q: %w", username, err)
	}
	if err := s.repomanager.Roles(s.db).Grant(ctx, user.ID, role); err != nil {
		return fmt.Errorf("error granting role: %w", err)
	}
	return nil
}

// Revoke removes role from an existing identity. Revoking a role the
// identity does not hold is not an error.
func (s *AuthService) Revoke(ctx context.Context, username, role string) error {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("user %q: %w", username, err)
	}
	if err := s.repomanager.Roles(s.db).Revoke(ctx, user.ID, role); err != nil {
		return fmt.Errorf("error revoking role: %w", err)
	}
	return nil
}
