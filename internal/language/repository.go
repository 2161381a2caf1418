package language

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/wordbridge/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/language/mock_repository.go -package=mock_language

// Repository defines operations for managing languages.
// Every method takes the Queryer to run on, so callers decide whether it joins a transaction.
type Repository interface {
	FindAll(ctx context.Context, q database.Queryer) ([]Language, error)
	FindByID(ctx context.Context, q database.Queryer, id string) (*Language, error)
	FindByIDs(ctx context.Context, q database.Queryer, ids []string) ([]Language, error)
	FindByCode(ctx context.Context, q database.Queryer, code string) (*Language, error)
	ExistsByCodeOrName(ctx context.Context, q database.Queryer, code, name string) (bool, error)
	Create(ctx context.Context, q database.Queryer, lang *Language) error
}

// DBRepository implements Repository using SQL.
type DBRepository struct{}

// NewDBRepository creates a new DBRepository.
func NewDBRepository() *DBRepository {
	return &DBRepository{}
}

// FindAll returns every language in insertion order.
func (r *DBRepository) FindAll(ctx context.Context, q database.Queryer) ([]Language, error) {
	var languages []Language
	if err := q.SelectContext(ctx, &languages, "SELECT * FROM languages ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("load all languages: %w", err)
	}
	return languages, nil
}

func (r *DBRepository) FindByID(ctx context.Context, q database.Queryer, id string) (*Language, error) {
	var lang Language
	if err := q.GetContext(ctx, &lang, "SELECT * FROM languages WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load language %s: %w", id, err)
	}
	return &lang, nil
}

// FindByIDs returns the languages matching ids. Unknown ids are skipped, so callers
// compare lengths to detect them.
func (r *DBRepository) FindByIDs(ctx context.Context, q database.Queryer, ids []string) ([]Language, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM languages WHERE id IN (?) ORDER BY created_at, id", ids)
	if err != nil {
		return nil, fmt.Errorf("build languages query: %w", err)
	}
	var languages []Language
	if err := q.SelectContext(ctx, &languages, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}
	return languages, nil
}

func (r *DBRepository) FindByCode(ctx context.Context, q database.Queryer, code string) (*Language, error) {
	var lang Language
	if err := q.GetContext(ctx, &lang, "SELECT * FROM languages WHERE code = ?", NormalizeCode(code)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load language by code %s: %w", code, err)
	}
	return &lang, nil
}

// ExistsByCodeOrName reports whether a language already uses the code or the name.
func (r *DBRepository) ExistsByCodeOrName(ctx context.Context, q database.Queryer, code, name string) (bool, error) {
	var count int
	if err := q.GetContext(ctx, &count, "SELECT COUNT(*) FROM languages WHERE code = ? OR name = ?", code, name); err != nil {
		return false, fmt.Errorf("check language conflict: %w", err)
	}
	return count > 0, nil
}

// Create inserts lang. A unique index violation is reported as ErrDuplicate.
func (r *DBRepository) Create(ctx context.Context, q database.Queryer, lang *Language) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO languages (id, code, name, native_name, created_at) VALUES (?, ?, ?, ?, ?)",
		lang.ID, lang.Code, lang.Name, lang.NativeName, lang.CreatedAt)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, lang.Code)
		}
		return fmt.Errorf("insert language: %w", err)
	}
	return nil
}
