// Package lexicon stores words and the meanings attached to them.
package lexicon

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxWordLength    = 255
	maxMeaningLength = 1000
)

var (
	ErrEmptyWord        = errors.New("word must not be empty")
	ErrWordTooLong      = errors.New("word must be at most 255 characters")
	ErrNoMeanings       = errors.New("word needs at least one meaning")
	ErrEmptyMeaning     = errors.New("meaning must not be empty")
	ErrMeaningTooLong   = errors.New("meaning must be at most 1000 characters")
	ErrMissingLanguage  = errors.New("language is required")
	ErrDuplicateMeaning = errors.New("duplicate target language")
	ErrWordNotFound     = errors.New("word not found")
)

// Word is a lexical entry bound to exactly one language.
type Word struct {
	ID         string    `db:"id" yaml:"id"`
	Word       string    `db:"word" yaml:"word"`
	LanguageID string    `db:"language_id" yaml:"language_id"`
	CreatedBy  string    `db:"created_by" yaml:"created_by"`
	CreatedAt  time.Time `db:"created_at" yaml:"-"`
	Meanings   []Meaning `db:"-" yaml:"meanings"`
}

// Meaning is a translation or definition of a word expressed in another language.
type Meaning struct {
	ID         int64  `db:"id" yaml:"-"`
	WordID     string `db:"word_id" yaml:"-"`
	LanguageID string `db:"language_id" yaml:"language_id"`
	Meaning    string `db:"meaning" yaml:"meaning"`
	SortOrder  int    `db:"sort_order" yaml:"-"`
}

// MeaningError reports which meaning of a word is invalid.
type MeaningError struct {
	Index int
	Err   error
}

func (e *MeaningError) Error() string {
	return fmt.Sprintf("meanings[%d]: %v", e.Index, e.Err)
}

func (e *MeaningError) Unwrap() error {
	return e.Err
}

// NewWord validates the input and returns a Word with a fresh id.
// Meanings keep the given order and at most one meaning per target language is allowed.
// A meaning in the word's own language is accepted.
func NewWord(text, languageID, createdBy string, meanings []Meaning) (*Word, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyWord
	}
	if utf8.RuneCountInString(text) > maxWordLength {
		return nil, ErrWordTooLong
	}
	if strings.TrimSpace(languageID) == "" {
		return nil, ErrMissingLanguage
	}
	if len(meanings) == 0 {
		return nil, ErrNoMeanings
	}

	w := &Word{
		ID:         uuid.NewString(),
		Word:       text,
		LanguageID: strings.TrimSpace(languageID),
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		Meanings:   make([]Meaning, 0, len(meanings)),
	}
	seen := make(map[string]struct{}, len(meanings))
	for i, m := range meanings {
		langID := strings.TrimSpace(m.LanguageID)
		if langID == "" {
			return nil, &MeaningError{Index: i, Err: ErrMissingLanguage}
		}
		body := strings.TrimSpace(m.Meaning)
		if body == "" {
			return nil, &MeaningError{Index: i, Err: ErrEmptyMeaning}
		}
		if utf8.RuneCountInString(body) > maxMeaningLength {
			return nil, &MeaningError{Index: i, Err: ErrMeaningTooLong}
		}
		if _, ok := seen[langID]; ok {
			return nil, &MeaningError{Index: i, Err: ErrDuplicateMeaning}
		}
		seen[langID] = struct{}{}

		w.Meanings = append(w.Meanings, Meaning{
			WordID:     w.ID,
			LanguageID: langID,
			Meaning:    body,
			SortOrder:  i,
		})
	}
	return w, nil
}

// LanguageIDs returns the word's language followed by every meaning language, without duplicates.
func (w *Word) LanguageIDs() []string {
	ids := []string{w.LanguageID}
	seen := map[string]struct{}{w.LanguageID: {}}
	for _, m := range w.Meanings {
		if _, ok := seen[m.LanguageID]; ok {
			continue
		}
		seen[m.LanguageID] = struct{}{}
		ids = append(ids, m.LanguageID)
	}
	return ids
}
