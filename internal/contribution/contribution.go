// Package contribution implements the append-only ledger of user contributions.
package contribution

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
)

// Type is the kind of action a contribution records.
type Type string

const (
	TypeAddWord     Type = "add_word"
	TypeAddLanguage Type = "add_language"
)

// Contribution is an immutable record of one user action.
type Contribution struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	Type       Type      `db:"contribution_type"`
	WordID     *string   `db:"word_id"`
	LanguageID *string   `db:"language_id"`
	Details    Details   `db:"change_details"`
	CreatedAt  time.Time `db:"created_at"`
}

// Details is the snapshot of what a contribution created. It is stored as JSON.
type Details struct {
	Language *LanguageSnapshot `json:"language,omitempty"`
	Word     *WordSnapshot     `json:"word,omitempty"`
}

type LanguageSnapshot struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name,omitempty"`
}

type WordSnapshot struct {
	ID           string            `json:"id"`
	Word         string            `json:"word"`
	LanguageID   string            `json:"language_id"`
	LanguageCode string            `json:"language_code,omitempty"`
	Meanings     []MeaningSnapshot `json:"meanings"`
}

type MeaningSnapshot struct {
	LanguageID   string `json:"language_id"`
	LanguageCode string `json:"language_code,omitempty"`
	Meaning      string `json:"meaning"`
}

// Value implements driver.Valuer.
func (d Details) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal contribution details: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *Details) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*d = Details{}
		return nil
	default:
		return fmt.Errorf("unsupported contribution details type %T", src)
	}
	if err := json.Unmarshal(b, d); err != nil {
		return fmt.Errorf("unmarshal contribution details: %w", err)
	}
	return nil
}

// ForLanguage builds the contribution recording that userID added lang.
func ForLanguage(userID string, lang *language.Language) *Contribution {
	id := lang.ID
	return &Contribution{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       TypeAddLanguage,
		LanguageID: &id,
		Details: Details{
			Language: &LanguageSnapshot{
				ID:         lang.ID,
				Code:       lang.Code,
				Name:       lang.Name,
				NativeName: lang.DisplayNativeName(),
			},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// ForWord builds the contribution recording that userID added w.
// languages resolves language ids to codes for the snapshot; unknown ids leave the code empty.
func ForWord(userID string, w *lexicon.Word, languages map[string]language.Language) *Contribution {
	wordID := w.ID
	langID := w.LanguageID
	snapshot := &WordSnapshot{
		ID:           w.ID,
		Word:         w.Word,
		LanguageID:   w.LanguageID,
		LanguageCode: languages[w.LanguageID].Code,
		Meanings:     make([]MeaningSnapshot, 0, len(w.Meanings)),
	}
	for _, m := range w.Meanings {
		snapshot.Meanings = append(snapshot.Meanings, MeaningSnapshot{
			LanguageID:   m.LanguageID,
			LanguageCode: languages[m.LanguageID].Code,
			Meaning:      m.Meaning,
		})
	}
	return &Contribution{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       TypeAddWord,
		WordID:     &wordID,
		LanguageID: &langID,
		Details:    Details{Word: snapshot},
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

var errMalformed = errors.New("malformed contribution")

// Validate checks the record is well-formed before it is appended.
func (c *Contribution) Validate() error {
	if c.ID == "" || c.UserID == "" {
		return fmt.Errorf("%w: id and user are required", errMalformed)
	}
	switch c.Type {
	case TypeAddWord:
		if c.WordID == nil || c.Details.Word == nil {
			return fmt.Errorf("%w: add_word needs a word", errMalformed)
		}
	case TypeAddLanguage:
		if c.LanguageID == nil || c.Details.Language == nil {
			return fmt.Errorf("%w: add_language needs a language", errMalformed)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", errMalformed, c.Type)
	}
	return nil
}
