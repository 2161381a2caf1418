package lexicon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/cases"

	"github.com/at-ishikawa/wordbridge/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/lexicon/mock_repository.go -package=mock_lexicon

// SearchFilter narrows a word search.
type SearchFilter struct {
	Term string
	// FromLanguageID keeps only words written in this language.
	FromLanguageID string
	// ToLanguageID keeps only meanings in this language, and drops words without one.
	ToLanguageID string
	Limit        int
}

// WordRepository defines operations for managing words and their meanings.
type WordRepository interface {
	Create(ctx context.Context, q database.Queryer, w *Word) error
	FindByID(ctx context.Context, q database.Queryer, id string) (*Word, error)
	Search(ctx context.Context, q database.Queryer, filter SearchFilter) ([]Word, error)
	FindAll(ctx context.Context, q database.Queryer, languageID string, limit int) ([]Word, error)
}

const (
	selectWordColumns         = "id, word, language_id, created_by, created_at"
	selectPrefixedWordColumns = "w.id, w.word, w.language_id, w.created_by, w.created_at"
)

// fold returns the form words are matched on. It folds case over the whole of Unicode.
func fold(s string) string {
	return cases.Fold().String(s)
}

// DBWordRepository implements WordRepository using SQL.
type DBWordRepository struct{}

// NewDBWordRepository creates a new DBWordRepository.
func NewDBWordRepository() *DBWordRepository {
	return &DBWordRepository{}
}

// Create inserts the word and all of its meanings.
// It must run inside a transaction so a failure leaves no half-created word.
func (r *DBWordRepository) Create(ctx context.Context, q database.Queryer, w *Word) error {
	if len(w.Meanings) == 0 {
		return ErrNoMeanings
	}
	if _, err := q.ExecContext(ctx,
		"INSERT INTO words (id, word, word_folded, language_id, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		w.ID, w.Word, fold(w.Word), w.LanguageID, w.CreatedBy, w.CreatedAt); err != nil {
		return fmt.Errorf("insert word: %w", err)
	}

	var args []interface{}
	for i := range w.Meanings {
		w.Meanings[i].WordID = w.ID
		m := w.Meanings[i]
		args = append(args, m.WordID, m.LanguageID, m.Meaning, m.SortOrder)
	}
	query := database.BuildMultiRowInsert("word_meanings", []string{"word_id", "language_id", "meaning", "sort_order"}, len(w.Meanings))
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		if database.IsDuplicateKey(err) {
			return fmt.Errorf("insert word meanings: %w", ErrDuplicateMeaning)
		}
		return fmt.Errorf("insert word meanings: %w", err)
	}
	return nil
}

// FindByID returns the word with all of its meanings.
func (r *DBWordRepository) FindByID(ctx context.Context, q database.Queryer, id string) (*Word, error) {
	var w Word
	if err := q.GetContext(ctx, &w, "SELECT "+selectWordColumns+" FROM words WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWordNotFound
		}
		return nil, fmt.Errorf("load word %s: %w", id, err)
	}
	words := []Word{w}
	if err := loadMeanings(ctx, q, words, ""); err != nil {
		return nil, err
	}
	return &words[0], nil
}

// Search matches words case-insensitively by substring, comparing folded forms.
// Exact matches come first, then prefix matches, then the rest, each in insertion order.
func (r *DBWordRepository) Search(ctx context.Context, q database.Queryer, filter SearchFilter) ([]Word, error) {
	term := strings.TrimSpace(filter.Term)
	if term == "" {
		return nil, nil
	}
	folded := fold(term)
	escaped := escapeLike(folded)

	query := "SELECT " + selectPrefixedWordColumns + " FROM words w WHERE w.word_folded LIKE ? ESCAPE '!'"
	args := []interface{}{"%" + escaped + "%"}
	if filter.FromLanguageID != "" {
		query += " AND w.language_id = ?"
		args = append(args, filter.FromLanguageID)
	}
	if filter.ToLanguageID != "" {
		query += " AND EXISTS (SELECT 1 FROM word_meanings m WHERE m.word_id = w.id AND m.language_id = ?)"
		args = append(args, filter.ToLanguageID)
	}
	query += " ORDER BY CASE WHEN w.word_folded = ? THEN 0 WHEN w.word_folded LIKE ? ESCAPE '!' THEN 1 ELSE 2 END, w.created_at, w.id"
	args = append(args, folded, escaped+"%")
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var words []Word
	if err := q.SelectContext(ctx, &words, query, args...); err != nil {
		return nil, fmt.Errorf("search words: %w", err)
	}
	if err := loadMeanings(ctx, q, words, filter.ToLanguageID); err != nil {
		return nil, err
	}
	return words, nil
}

// FindAll returns words alphabetically with their meanings, optionally restricted to one language.
// A limit of 0 returns every word.
func (r *DBWordRepository) FindAll(ctx context.Context, q database.Queryer, languageID string, limit int) ([]Word, error) {
	query := "SELECT " + selectWordColumns + " FROM words"
	var args []interface{}
	if languageID != "" {
		query += " WHERE language_id = ?"
		args = append(args, languageID)
	}
	query += " ORDER BY word, created_at, id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var words []Word
	if err := q.SelectContext(ctx, &words, query, args...); err != nil {
		return nil, fmt.Errorf("load all words: %w", err)
	}
	if err := loadMeanings(ctx, q, words, ""); err != nil {
		return nil, err
	}
	return words, nil
}

func loadMeanings(ctx context.Context, q database.Queryer, words []Word, languageID string) error {
	if len(words) == 0 {
		return nil
	}

	wordIDs := make([]string, len(words))
	wordMap := make(map[string]*Word, len(words))
	for i := range words {
		wordIDs[i] = words[i].ID
		wordMap[words[i].ID] = &words[i]
	}

	query := "SELECT * FROM word_meanings WHERE word_id IN (?)"
	args := []interface{}{wordIDs}
	if languageID != "" {
		query += " AND language_id = ?"
		args = append(args, languageID)
	}
	query += " ORDER BY word_id, sort_order"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return fmt.Errorf("build word meanings query: %w", err)
	}
	var meanings []Meaning
	if err := q.SelectContext(ctx, &meanings, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("load word meanings: %w", err)
	}
	for _, m := range meanings {
		w := wordMap[m.WordID]
		w.Meanings = append(w.Meanings, m)
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
