// Package apiv1 holds the request and response messages of wordbridge.v1.DictionaryService.
// Messages travel as JSON, so every field carries a json tag.
package apiv1

import (
	"encoding/json"
	"time"
)

const DictionaryServiceName = "wordbridge.v1.DictionaryService"

const (
	DictionaryServiceListLanguagesProcedure     = "/wordbridge.v1.DictionaryService/ListLanguages"
	DictionaryServiceAddLanguageProcedure       = "/wordbridge.v1.DictionaryService/AddLanguage"
	DictionaryServiceSearchProcedure            = "/wordbridge.v1.DictionaryService/Search"
	DictionaryServiceListWordsProcedure         = "/wordbridge.v1.DictionaryService/ListWords"
	DictionaryServiceAddWordProcedure           = "/wordbridge.v1.DictionaryService/AddWord"
	DictionaryServiceGetWordProcedure           = "/wordbridge.v1.DictionaryService/GetWord"
	DictionaryServiceListContributionsProcedure = "/wordbridge.v1.DictionaryService/ListContributions"
	DictionaryServiceGetMeProcedure             = "/wordbridge.v1.DictionaryService/GetMe"
	DictionaryServiceRegisterProcedure          = "/wordbridge.v1.DictionaryService/Register"
)

type Language struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	NativeName string    `json:"native_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LanguageRef is a language as it appears inside a word.
type LanguageRef struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

type Meaning struct {
	Language LanguageRef `json:"language"`
	Meaning  string      `json:"meaning"`
}

type Word struct {
	ID        string      `json:"id"`
	Word      string      `json:"word"`
	Language  LanguageRef `json:"language"`
	Meanings  []Meaning   `json:"meanings"`
	CreatedBy string      `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// Standing is the caller's contribution count and rank after a write.
type Standing struct {
	ContributionCount int  `json:"contribution_count"`
	ContributorRank   int  `json:"contributor_rank"`
	RankedUp          bool `json:"ranked_up"`
}

type Contribution struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	ContributionType string          `json:"contribution_type"`
	WordID           string          `json:"word_id,omitempty"`
	LanguageID       string          `json:"language_id,omitempty"`
	ChangeDetails    json.RawMessage `json:"change_details"`
	CreatedAt        time.Time       `json:"created_at"`
}

type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	ContributionCount int       `json:"contribution_count"`
	ContributorRank   int       `json:"contributor_rank"`
	CreatedAt         time.Time `json:"created_at"`
}

type ListLanguagesRequest struct{}

type ListLanguagesResponse struct {
	Languages []Language `json:"languages"`
}

type AddLanguageRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name,omitempty"`
}

type AddLanguageResponse struct {
	Language Language `json:"language"`
	Standing Standing `json:"standing"`
}

type SearchRequest struct {
	Word         string `json:"word"`
	FromLanguage string `json:"from_language,omitempty"`
	ToLanguage   string `json:"to_language,omitempty"`
}

type SearchResponse struct {
	Words []Word `json:"words"`
}

// ListWordsRequest browses words of LanguageID, or of every language when it is empty.
type ListWordsRequest struct {
	LanguageID string `json:"language_id,omitempty"`
}

type ListWordsResponse struct {
	Words []Word `json:"words"`
}

type MeaningInput struct {
	LanguageID string `json:"language_id"`
	Meaning    string `json:"meaning"`
}

type AddWordRequest struct {
	Word       string         `json:"word"`
	LanguageID string         `json:"language_id"`
	Meanings   []MeaningInput `json:"meanings"`
}

type AddWordResponse struct {
	Word     Word     `json:"word"`
	Standing Standing `json:"standing"`
}

type GetWordRequest struct {
	ID string `json:"id"`
}

type GetWordResponse struct {
	Word Word `json:"word"`
}

// ListContributionsRequest lists the ledger of UserID, or of the caller when it is empty.
type ListContributionsRequest struct {
	UserID string `json:"user_id,omitempty"`
}

type ListContributionsResponse struct {
	Contributions []Contribution `json:"contributions"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User User `json:"user"`
}
