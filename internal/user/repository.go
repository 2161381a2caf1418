package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/at-ishikawa/wordbridge/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/user/mock_repository.go -package=mock_user

// Repository defines operations for managing users.
type Repository interface {
	Create(ctx context.Context, q database.Queryer, u *User) error
	FindByID(ctx context.Context, q database.Queryer, id string) (*User, error)
	FindByUsername(ctx context.Context, q database.Queryer, username string) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, q database.Queryer, username, email string) ([]User, error)
	FindAll(ctx context.Context, q database.Queryer) ([]User, error)
	SyncContributionCount(ctx context.Context, q database.Queryer, id string) error
	UpdateRank(ctx context.Context, q database.Queryer, id string, rank int) error
	UpdateStanding(ctx context.Context, q database.Queryer, id string, count, rank int) error
}

// DBRepository implements Repository using SQL.
type DBRepository struct{}

// NewDBRepository creates a new DBRepository.
func NewDBRepository() *DBRepository {
	return &DBRepository{}
}

func (r *DBRepository) Create(ctx context.Context, q database.Queryer, u *User) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, role, contribution_count, contributor_rank, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.ContributionCount, u.ContributorRank, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *DBRepository) FindByID(ctx context.Context, q database.Queryer, id string) (*User, error) {
	return r.findOne(ctx, q, "SELECT * FROM users WHERE id = ?", id)
}

func (r *DBRepository) FindByUsername(ctx context.Context, q database.Queryer, username string) (*User, error) {
	return r.findOne(ctx, q, "SELECT * FROM users WHERE username = ?", username)
}

func (r *DBRepository) findOne(ctx context.Context, q database.Queryer, query string, arg string) (*User, error) {
	var u User
	if err := q.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}

// FindByUsernameOrEmail returns the users already holding the username or the email.
func (r *DBRepository) FindByUsernameOrEmail(ctx context.Context, q database.Queryer, username, email string) ([]User, error) {
	var users []User
	if err := q.SelectContext(ctx, &users, "SELECT * FROM users WHERE username = ? OR email = ?", username, email); err != nil {
		return nil, fmt.Errorf("load users by username or email: %w", err)
	}
	return users, nil
}

func (r *DBRepository) FindAll(ctx context.Context, q database.Queryer) ([]User, error) {
	var users []User
	if err := q.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("load all users: %w", err)
	}
	return users, nil
}

// SyncContributionCount re-derives the cached contribution count from the ledger.
// On MySQL the UPDATE locks the user row until the transaction ends, which serializes
// concurrent writes by the same user.
func (r *DBRepository) SyncContributionCount(ctx context.Context, q database.Queryer, id string) error {
	result, err := q.ExecContext(ctx,
		"UPDATE users SET contribution_count = (SELECT COUNT(*) FROM contributions WHERE user_id = ?), updated_at = ? WHERE id = ?",
		id, now(), id)
	if err != nil {
		return fmt.Errorf("sync contribution count of user %s: %w", id, err)
	}
	return requireAffected(result, id)
}

func (r *DBRepository) UpdateRank(ctx context.Context, q database.Queryer, id string, rank int) error {
	result, err := q.ExecContext(ctx,
		"UPDATE users SET contributor_rank = ?, updated_at = ? WHERE id = ?", rank, now(), id)
	if err != nil {
		return fmt.Errorf("update rank of user %s: %w", id, err)
	}
	return requireAffected(result, id)
}

func (r *DBRepository) UpdateStanding(ctx context.Context, q database.Queryer, id string, count, rank int) error {
	result, err := q.ExecContext(ctx,
		"UPDATE users SET contribution_count = ?, contributor_rank = ?, updated_at = ? WHERE id = ?", count, rank, now(), id)
	if err != nil {
		return fmt.Errorf("update standing of user %s: %w", id, err)
	}
	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
