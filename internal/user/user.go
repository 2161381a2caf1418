// Package user stores the people who contribute to the dictionary.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleModerator   Role = "moderator"
	RoleContributor Role = "contributor"
	RoleUser        Role = "user"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrDuplicate   = errors.New("username or email already registered")
	ErrInvalidRole = errors.New("invalid role")
)

// Privileged reports whether the role may look at other users' records.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleModerator
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleContributor, RoleUser:
		return true
	}
	return false
}

// User is a registered account. ContributionCount and ContributorRank cache
// what the contribution ledger says about the user.
type User struct {
	ID                string    `db:"id"`
	Username          string    `db:"username"`
	Email             string    `db:"email"`
	PasswordHash      string    `db:"password_hash"`
	Role              Role      `db:"role"`
	ContributionCount int       `db:"contribution_count"`
	ContributorRank   int       `db:"contributor_rank"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// New returns a user with a hashed password and empty standing.
func New(username, email, password string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
