package dictionary

import (
	"strings"

	"github.com/at-ishikawa/wordbridge/internal/language"
)

type AddLanguageRequest struct {
	Code       string `json:"code" validate:"required,len=2,alpha"`
	Name       string `json:"name" validate:"required,max=100"`
	NativeName string `json:"native_name" validate:"max=100"`
}

func (r *AddLanguageRequest) normalize() {
	r.Code = language.NormalizeCode(r.Code)
	r.Name = strings.TrimSpace(r.Name)
	r.NativeName = strings.TrimSpace(r.NativeName)
}

type MeaningInput struct {
	LanguageID string `json:"language_id" validate:"required"`
	Meaning    string `json:"meaning" validate:"required,max=1000"`
}

type AddWordRequest struct {
	Word       string         `json:"word" validate:"required,max=255"`
	LanguageID string         `json:"language_id" validate:"required"`
	Meanings   []MeaningInput `json:"meanings" validate:"dive"`
}

func (r *AddWordRequest) normalize() {
	r.Word = strings.TrimSpace(r.Word)
	r.LanguageID = strings.TrimSpace(r.LanguageID)
	for i := range r.Meanings {
		r.Meanings[i].LanguageID = strings.TrimSpace(r.Meanings[i].LanguageID)
		r.Meanings[i].Meaning = strings.TrimSpace(r.Meanings[i].Meaning)
	}
}

type SearchRequest struct {
	Word         string `json:"word" validate:"required,max=255"`
	FromLanguage string `json:"from_language"`
	ToLanguage   string `json:"to_language"`
}

func (r *SearchRequest) normalize() {
	r.Word = strings.TrimSpace(r.Word)
	r.FromLanguage = strings.TrimSpace(r.FromLanguage)
	r.ToLanguage = strings.TrimSpace(r.ToLanguage)
}

// ListWordsRequest browses words. An empty LanguageID lists words of every language.
type ListWordsRequest struct {
	LanguageID string `json:"language_id" validate:"max=36"`
}

func (r *ListWordsRequest) normalize() {
	r.LanguageID = strings.TrimSpace(r.LanguageID)
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}
