// Package search looks words up in the lexicon and resolves their languages for presentation.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/wordbridge/internal/database"
	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
	"github.com/at-ishikawa/wordbridge/internal/metrics"
)

const DefaultLimit = 100

var ErrEmptyTerm = errors.New("search term must not be empty")

// Query is a search request. Language filters are language ids.
type Query struct {
	Term         string
	FromLanguage string
	ToLanguage   string
}

// LanguageRef is the presentation form of a language.
type LanguageRef struct {
	ID   string
	Code string
	Name string
}

type Meaning struct {
	Language LanguageRef
	Meaning  string
}

// Result is a word with its meanings and every language resolved.
type Result struct {
	ID        string
	Word      string
	Language  LanguageRef
	Meanings  []Meaning
	CreatedBy string
	CreatedAt time.Time
}

type Engine struct {
	words     lexicon.WordRepository
	languages language.Repository
	limit     int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewEngine(words lexicon.WordRepository, languages language.Repository, limit int, m *metrics.Metrics, logger *slog.Logger) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		words:     words,
		languages: languages,
		limit:     limit,
		metrics:   m,
		logger:    logger,
	}
}

// Search returns the words matching query. Finding nothing is not an error.
func (e *Engine) Search(ctx context.Context, q database.Queryer, query Query) ([]Result, error) {
	term := strings.TrimSpace(query.Term)
	if term == "" {
		return nil, ErrEmptyTerm
	}

	words, err := e.words.Search(ctx, q, lexicon.SearchFilter{
		Term:           term,
		FromLanguageID: strings.TrimSpace(query.FromLanguage),
		ToLanguageID:   strings.TrimSpace(query.ToLanguage),
		Limit:          e.limit,
	})
	if err != nil {
		return nil, err
	}
	results, err := e.Resolve(ctx, q, words)
	if err != nil {
		return nil, err
	}

	e.metrics.SearchServed(len(results))
	e.logger.Debug("search served",
		"term", term,
		"from_language", query.FromLanguage,
		"to_language", query.ToLanguage,
		"results", len(results),
	)
	return results, nil
}

// List browses words alphabetically, optionally only those written in languageID.
// At most the engine's limit of words is returned.
func (e *Engine) List(ctx context.Context, q database.Queryer, languageID string) ([]Result, error) {
	words, err := e.words.FindAll(ctx, q, strings.TrimSpace(languageID), e.limit)
	if err != nil {
		return nil, err
	}
	return e.Resolve(ctx, q, words)
}

// Resolve attaches language codes and names to words.
// A language that cannot be found keeps only its id.
func (e *Engine) Resolve(ctx context.Context, q database.Queryer, words []lexicon.Word) ([]Result, error) {
	results := make([]Result, 0, len(words))
	if len(words) == 0 {
		return results, nil
	}

	var ids []string
	seen := make(map[string]struct{})
	for i := range words {
		for _, id := range words[i].LanguageIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	languages, err := e.languages.FindByIDs(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]LanguageRef, len(languages))
	for _, l := range languages {
		refs[l.ID] = LanguageRef{ID: l.ID, Code: l.Code, Name: l.Name}
	}
	ref := func(id string) LanguageRef {
		if r, ok := refs[id]; ok {
			return r
		}
		return LanguageRef{ID: id}
	}

	for _, w := range words {
		result := Result{
			ID:        w.ID,
			Word:      w.Word,
			Language:  ref(w.LanguageID),
			Meanings:  make([]Meaning, 0, len(w.Meanings)),
			CreatedBy: w.CreatedBy,
			CreatedAt: w.CreatedAt,
		}
		for _, m := range w.Meanings {
			result.Meanings = append(result.Meanings, Meaning{Language: ref(m.LanguageID), Meaning: m.Meaning})
		}
		results = append(results, result)
	}
	return results, nil
}
