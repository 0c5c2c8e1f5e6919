// Package cryptox hashes and checks identity passwords.
package cryptox

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

// MinPasswordLength is the shortest password the policy accepts.
const MinPasswordLength = 8

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// ComparePassword reports whether password matches hash. The comparison
// runs in constant time with respect to the password.
func ComparePassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// dummyHash is compared against when the username is unknown, so a miss
// costs the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portfolio-dummy-password"), bcrypt.DefaultCost)

// CompareDummy burns one bcrypt comparison and always reports false.
func CompareDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}

var (
	errTooShort    = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	errNoUppercase = errors.New("password must contain an uppercase letter")
	errNoDigit     = errors.New("password must contain a digit")
)

// CheckPasswordPolicy validates a new password. All violations are joined
// into one error that matches common.ErrorValidation.
func CheckPasswordPolicy(password string) error {
	var upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	var errs []error
	if len([]rune(password)) < MinPasswordLength {
		errs = append(errs, errTooShort)
	}
	if !upper {
		errs = append(errs, errNoUppercase)
	}
	if !digit {
		errs = append(errs, errNoDigit)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", common.ErrorValidation, errors.Join(errs...))
}
