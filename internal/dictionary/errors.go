package dictionary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
)

var (
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrDuplicateLanguage = errors.New("language already exists")
	ErrEmptyContribution = errors.New("a word needs at least one meaning")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// FieldViolation describes one invalid field of a request.
type FieldViolation struct {
	Field       string
	Description string
}

// ValidationError is returned when a request is malformed. The caller can fix it and retry.
type ValidationError struct {
	Violations []FieldViolation
}

func newValidationError(field, description string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Description: description}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Description))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func languageFieldError(err error) error {
	switch {
	case errors.Is(err, language.ErrInvalidCode):
		return newValidationError("code", err.Error())
	case errors.Is(err, language.ErrInvalidName):
		return newValidationError("name", err.Error())
	case errors.Is(err, language.ErrInvalidNativeName):
		return newValidationError("native_name", err.Error())
	}
	return err
}

func wordFieldError(err error) error {
	var meaningErr *lexicon.MeaningError
	if errors.As(err, &meaningErr) {
		field := "meaning"
		if errors.Is(meaningErr.Err, lexicon.ErrMissingLanguage) || errors.Is(meaningErr.Err, lexicon.ErrDuplicateMeaning) {
			field = "language_id"
		}
		return newValidationError(fmt.Sprintf("meanings[%d].%s", meaningErr.Index, field), meaningErr.Err.Error())
	}

	switch {
	case errors.Is(err, lexicon.ErrNoMeanings):
		return ErrEmptyContribution
	case errors.Is(err, lexicon.ErrEmptyWord), errors.Is(err, lexicon.ErrWordTooLong):
		return newValidationError("word", err.Error())
	case errors.Is(err, lexicon.ErrMissingLanguage):
		return newValidationError("language_id", err.Error())
	case errors.Is(err, lexicon.ErrDuplicateMeaning):
		return newValidationError("meanings", err.Error())
	}
	return err
}
