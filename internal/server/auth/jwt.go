// Package auth issues and checks the bearer tokens guarding write
// endpoints. Tokens are HS256 JWTs carrying the identity's username, id and
// role memberships; the server keeps no session state.
package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// DefaultValidity is the token lifetime used when none is configured.
const DefaultValidity = time.Hour

// Claims is the claim set of an access token. Subject holds the username.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"uid"`
	Roles  []string `json:"roles"`
}

// HasRole reports whether the token grants role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Token is an issued access token.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Issuer signs and validates tokens with one symmetric key.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	validity time.Duration
	now      func() time.Time
}

// NewIssuer fails when key, issuer or audience is empty. A non-positive
// validity falls back to DefaultValidity.
func NewIssuer(key []byte, issuer, audience string, validity time.Duration) (*Issuer, error) {
	var missing []string
	if len(key) == 0 {
		missing = append(missing, "signing key")
	}
	if issuer == "" {
		missing = append(missing, "issuer")
	}
	if audience == "" {
		missing = append(missing, "audience")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("token issuer: missing %s", strings.Join(missing, ", "))
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Issuer{
		key:      key,
		issuer:   issuer,
		audience: audience,
		validity: validity,
		now:      time.Now,
	}, nil
}

// Issue signs a token for the identity and its current roles.
func (i *Issuer) Issue(identity *models.Identity) (*Token, error) {
	now := i.now()
	exp := now.Add(i.validity)

	roles := identity.Roles
	if roles == nil {
		roles = []string{}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserName,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: identity.ID,
		Roles:  roles,
	})

	s, err := token.SignedString(i.key)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{Value: s, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Parse validates signature, issuer, audience and expiry and returns the
// claims. Failures map to common.ErrTokenExpired or common.ErrInvalidToken.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// Authorize parses the token and requires requiredRole among its roles.
// A valid token without the role yields common.ErrorForbidden.
func (i *Issuer) Authorize(tokenString string, requiredRole string) (*Claims, error) {
	claims, err := i.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.HasRole(requiredRole) {
		return nil, common.ErrorForbidden
	}
	return claims, nil
}
