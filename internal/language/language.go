// Package language implements the registry of natural languages words and meanings refer to.
package language

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	codeLength        = 2
	maxNameLength     = 100
	maxNativeNameSize = 100
)

var (
	ErrInvalidCode       = errors.New("code must be exactly two letters")
	ErrInvalidName       = errors.New("name must be between 1 and 100 characters")
	ErrInvalidNativeName = errors.New("native name must be at most 100 characters")
	ErrDuplicate         = errors.New("language already exists")
	ErrNotFound          = errors.New("language not found")
)

// Language is a registered natural language identified by its ISO-639-1 code.
type Language struct {
	ID         string    `db:"id" yaml:"id"`
	Code       string    `db:"code" yaml:"code"`
	Name       string    `db:"name" yaml:"name"`
	NativeName *string   `db:"native_name" yaml:"native_name,omitempty"`
	CreatedAt  time.Time `db:"created_at" yaml:"-"`
}

// New normalizes the given fields and returns a Language with a fresh id.
// The code is trimmed and lowercased before it is checked.
func New(code, name, nativeName string) (*Language, error) {
	code = NormalizeCode(code)
	if !isCode(code) {
		return nil, ErrInvalidCode
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrInvalidName
	}

	lang := &Language{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if nativeName = strings.TrimSpace(nativeName); nativeName != "" {
		if utf8.RuneCountInString(nativeName) > maxNativeNameSize {
			return nil, ErrInvalidNativeName
		}
		lang.NativeName = &nativeName
	}
	return lang, nil
}

// NormalizeCode returns the canonical form of a language code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// DisplayNativeName returns the native name, or an empty string when none is recorded.
func (l Language) DisplayNativeName() string {
	if l.NativeName == nil {
		return ""
	}
	return *l.NativeName
}

func isCode(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
