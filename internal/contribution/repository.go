package contribution

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/wordbridge/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/contribution/mock_repository.go -package=mock_contribution

// Repository is the ledger store. It has no update or delete operations.
type Repository interface {
	Append(ctx context.Context, q database.Queryer, c *Contribution) error
	FindByUser(ctx context.Context, q database.Queryer, userID string) ([]Contribution, error)
	CountByUser(ctx context.Context, q database.Queryer, userID string) (int, error)
	CountAll(ctx context.Context, q database.Queryer) (map[string]int, error)
}

// DBRepository implements Repository using SQL.
type DBRepository struct{}

// NewDBRepository creates a new DBRepository.
func NewDBRepository() *DBRepository {
	return &DBRepository{}
}

// Append writes c to the ledger.
func (r *DBRepository) Append(ctx context.Context, q database.Queryer, c *Contribution) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx,
		"INSERT INTO contributions (id, user_id, contribution_type, word_id, language_id, change_details, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.UserID, c.Type, c.WordID, c.LanguageID, c.Details, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("append contribution: %w", err)
	}
	return nil
}

// FindByUser returns the user's contributions, newest first.
func (r *DBRepository) FindByUser(ctx context.Context, q database.Queryer, userID string) ([]Contribution, error) {
	var contributions []Contribution
	if err := q.SelectContext(ctx, &contributions,
		"SELECT * FROM contributions WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID); err != nil {
		return nil, fmt.Errorf("load contributions of user %s: %w", userID, err)
	}
	return contributions, nil
}

func (r *DBRepository) CountByUser(ctx context.Context, q database.Queryer, userID string) (int, error) {
	var count int
	if err := q.GetContext(ctx, &count, "SELECT COUNT(*) FROM contributions WHERE user_id = ?", userID); err != nil {
		return 0, fmt.Errorf("count contributions of user %s: %w", userID, err)
	}
	return count, nil
}

type userCount struct {
	UserID string `db:"user_id"`
	Count  int    `db:"count"`
}

// CountAll replays the whole ledger and returns the number of contributions per user.
// Users without contributions are absent from the result.
func (r *DBRepository) CountAll(ctx context.Context, q database.Queryer) (map[string]int, error) {
	var rows []userCount
	if err := q.SelectContext(ctx, &rows,
		"SELECT user_id, COUNT(*) AS count FROM contributions GROUP BY user_id"); err != nil {
		return nil, fmt.Errorf("count contributions: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Count
	}
	return counts, nil
}
