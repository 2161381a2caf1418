// Package server provides the Connect RPC handlers of the dictionary service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	apiv1 "github.com/at-ishikawa/wordbridge/internal/api/v1"
	"github.com/at-ishikawa/wordbridge/internal/auth"
	"github.com/at-ishikawa/wordbridge/internal/contribution"
	"github.com/at-ishikawa/wordbridge/internal/dictionary"
	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/ranking"
	"github.com/at-ishikawa/wordbridge/internal/search"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

//go:generate mockgen -source=dictionary_handler.go -destination=../mocks/server/mock_dictionary_handler.go -package=mock_server

// Dictionary is the core the handler delegates to. *dictionary.Service implements it.
type Dictionary interface {
	ListLanguages(ctx context.Context) ([]language.Language, error)
	AddLanguage(ctx context.Context, caller auth.Identity, req dictionary.AddLanguageRequest) (*dictionary.LanguageResult, error)
	Search(ctx context.Context, req dictionary.SearchRequest) ([]search.Result, error)
	ListWords(ctx context.Context, req dictionary.ListWordsRequest) ([]search.Result, error)
	AddWord(ctx context.Context, caller auth.Identity, req dictionary.AddWordRequest) (*dictionary.WordResult, error)
	GetWord(ctx context.Context, id string) (*search.Result, error)
	ListContributions(ctx context.Context, caller auth.Identity, userID string) ([]contribution.Contribution, error)
	GetMe(ctx context.Context, caller auth.Identity) (*user.User, error)
	Register(ctx context.Context, req dictionary.RegisterRequest) (*user.User, error)
}

var _ Dictionary = (*dictionary.Service)(nil)

// DictionaryHandler implements wordbridge.v1.DictionaryService.
// The caller's identity is taken from the request context, where the session middleware put it.
type DictionaryHandler struct {
	dictionary Dictionary
	logger     *slog.Logger
}

func NewDictionaryHandler(d Dictionary, logger *slog.Logger) *DictionaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DictionaryHandler{
		dictionary: d,
		logger:     logger,
	}
}

// ListLanguages returns every registered language.
func (h *DictionaryHandler) ListLanguages(
	ctx context.Context,
	req *connect.Request[apiv1.ListLanguagesRequest],
) (*connect.Response[apiv1.ListLanguagesResponse], error) {
	languages, err := h.dictionary.ListLanguages(ctx)
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	resp := &apiv1.ListLanguagesResponse{Languages: make([]apiv1.Language, 0, len(languages))}
	for _, l := range languages {
		resp.Languages = append(resp.Languages, toLanguage(l))
	}
	return connect.NewResponse(resp), nil
}

// AddLanguage registers a language as a contribution of the caller.
func (h *DictionaryHandler) AddLanguage(
	ctx context.Context,
	req *connect.Request[apiv1.AddLanguageRequest],
) (*connect.Response[apiv1.AddLanguageResponse], error) {
	result, err := h.dictionary.AddLanguage(ctx, auth.FromContext(ctx), dictionary.AddLanguageRequest{
		Code:       req.Msg.Code,
		Name:       req.Msg.Name,
		NativeName: req.Msg.NativeName,
	})
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	return connect.NewResponse(&apiv1.AddLanguageResponse{
		Language: toLanguage(result.Language),
		Standing: toStanding(result.Standing, result.RankedUp),
	}), nil
}

// Search looks words up by text.
func (h *DictionaryHandler) Search(
	ctx context.Context,
	req *connect.Request[apiv1.SearchRequest],
) (*connect.Response[apiv1.SearchResponse], error) {
	results, err := h.dictionary.Search(ctx, dictionary.SearchRequest{
		Word:         req.Msg.Word,
		FromLanguage: req.Msg.FromLanguage,
		ToLanguage:   req.Msg.ToLanguage,
	})
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	resp := &apiv1.SearchResponse{Words: make([]apiv1.Word, 0, len(results))}
	for _, r := range results {
		resp.Words = append(resp.Words, toWord(r))
	}
	return connect.NewResponse(resp), nil
}

// ListWords browses words alphabetically.
func (h *DictionaryHandler) ListWords(
	ctx context.Context,
	req *connect.Request[apiv1.ListWordsRequest],
) (*connect.Response[apiv1.ListWordsResponse], error) {
	results, err := h.dictionary.ListWords(ctx, dictionary.ListWordsRequest{LanguageID: req.Msg.LanguageID})
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	resp := &apiv1.ListWordsResponse{Words: make([]apiv1.Word, 0, len(results))}
	for _, r := range results {
		resp.Words = append(resp.Words, toWord(r))
	}
	return connect.NewResponse(resp), nil
}

// AddWord stores a word with its meanings as a contribution of the caller.
func (h *DictionaryHandler) AddWord(
	ctx context.Context,
	req *connect.Request[apiv1.AddWordRequest],
) (*connect.Response[apiv1.AddWordResponse], error) {
	in := dictionary.AddWordRequest{
		Word:       req.Msg.Word,
		LanguageID: req.Msg.LanguageID,
		Meanings:   make([]dictionary.MeaningInput, 0, len(req.Msg.Meanings)),
	}
	for _, m := range req.Msg.Meanings {
		in.Meanings = append(in.Meanings, dictionary.MeaningInput{LanguageID: m.LanguageID, Meaning: m.Meaning})
	}

	result, err := h.dictionary.AddWord(ctx, auth.FromContext(ctx), in)
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	return connect.NewResponse(&apiv1.AddWordResponse{
		Word:     toWord(result.Word),
		Standing: toStanding(result.Standing, result.RankedUp),
	}), nil
}

// GetWord returns one word.
func (h *DictionaryHandler) GetWord(
	ctx context.Context,
	req *connect.Request[apiv1.GetWordRequest],
) (*connect.Response[apiv1.GetWordResponse], error) {
	result, err := h.dictionary.GetWord(ctx, req.Msg.ID)
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	return connect.NewResponse(&apiv1.GetWordResponse{Word: toWord(*result)}), nil
}

// ListContributions returns a user's ledger, newest first.
func (h *DictionaryHandler) ListContributions(
	ctx context.Context,
	req *connect.Request[apiv1.ListContributionsRequest],
) (*connect.Response[apiv1.ListContributionsResponse], error) {
	entries, err := h.dictionary.ListContributions(ctx, auth.FromContext(ctx), req.Msg.UserID)
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	resp := &apiv1.ListContributionsResponse{Contributions: make([]apiv1.Contribution, 0, len(entries))}
	for _, e := range entries {
		c, err := toContribution(e)
		if err != nil {
			return nil, h.error(req.Spec(), err)
		}
		resp.Contributions = append(resp.Contributions, c)
	}
	return connect.NewResponse(resp), nil
}

// GetMe returns the caller's profile.
func (h *DictionaryHandler) GetMe(
	ctx context.Context,
	req *connect.Request[apiv1.GetMeRequest],
) (*connect.Response[apiv1.GetMeResponse], error) {
	u, err := h.dictionary.GetMe(ctx, auth.FromContext(ctx))
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	return connect.NewResponse(&apiv1.GetMeResponse{User: toUser(u)}), nil
}

// Register creates an account.
func (h *DictionaryHandler) Register(
	ctx context.Context,
	req *connect.Request[apiv1.RegisterRequest],
) (*connect.Response[apiv1.RegisterResponse], error) {
	u, err := h.dictionary.Register(ctx, dictionary.RegisterRequest{
		Username: req.Msg.Username,
		Email:    req.Msg.Email,
		Password: req.Msg.Password,
	})
	if err != nil {
		return nil, h.error(req.Spec(), err)
	}
	return connect.NewResponse(&apiv1.RegisterResponse{User: toUser(u)}), nil
}

func (h *DictionaryHandler) error(spec connect.Spec, err error) error {
	return toConnectError(h.logger, spec.Procedure, err)
}

// NewDictionaryServiceHandler builds the HTTP handler serving every procedure of h.
// The returned path is the prefix to mount it on.
func NewDictionaryServiceHandler(h *DictionaryHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	readOpts := append([]connect.HandlerOption{connect.WithIdempotency(connect.IdempotencyNoSideEffects)}, opts...)

	mux := http.NewServeMux()
	mux.Handle(apiv1.DictionaryServiceListLanguagesProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceListLanguagesProcedure, h.ListLanguages, readOpts...))
	mux.Handle(apiv1.DictionaryServiceAddLanguageProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceAddLanguageProcedure, h.AddLanguage, opts...))
	mux.Handle(apiv1.DictionaryServiceSearchProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceSearchProcedure, h.Search, readOpts...))
	mux.Handle(apiv1.DictionaryServiceListWordsProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceListWordsProcedure, h.ListWords, readOpts...))
	mux.Handle(apiv1.DictionaryServiceAddWordProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceAddWordProcedure, h.AddWord, opts...))
	mux.Handle(apiv1.DictionaryServiceGetWordProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceGetWordProcedure, h.GetWord, readOpts...))
	mux.Handle(apiv1.DictionaryServiceListContributionsProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceListContributionsProcedure, h.ListContributions, readOpts...))
	mux.Handle(apiv1.DictionaryServiceGetMeProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceGetMeProcedure, h.GetMe, readOpts...))
	mux.Handle(apiv1.DictionaryServiceRegisterProcedure,
		connect.NewUnaryHandler(apiv1.DictionaryServiceRegisterProcedure, h.Register, opts...))
	return "/" + apiv1.DictionaryServiceName + "/", mux
}

func toLanguage(l language.Language) apiv1.Language {
	return apiv1.Language{
		ID:         l.ID,
		Code:       l.Code,
		Name:       l.Name,
		NativeName: l.DisplayNativeName(),
		CreatedAt:  l.CreatedAt,
	}
}

func toLanguageRef(r search.LanguageRef) apiv1.LanguageRef {
	return apiv1.LanguageRef{ID: r.ID, Code: r.Code, Name: r.Name}
}

func toWord(r search.Result) apiv1.Word {
	w := apiv1.Word{
		ID:        r.ID,
		Word:      r.Word,
		Language:  toLanguageRef(r.Language),
		Meanings:  make([]apiv1.Meaning, 0, len(r.Meanings)),
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
	for _, m := range r.Meanings {
		w.Meanings = append(w.Meanings, apiv1.Meaning{Language: toLanguageRef(m.Language), Meaning: m.Meaning})
	}
	return w
}

func toStanding(s ranking.Standing, rankedUp bool) apiv1.Standing {
	return apiv1.Standing{
		ContributionCount: s.Count,
		ContributorRank:   s.Rank,
		RankedUp:          rankedUp,
	}
}

func toContribution(c contribution.Contribution) (apiv1.Contribution, error) {
	details, err := json.Marshal(c.Details)
	if err != nil {
		return apiv1.Contribution{}, fmt.Errorf("marshal details of contribution %s: %w", c.ID, err)
	}
	out := apiv1.Contribution{
		ID:               c.ID,
		UserID:           c.UserID,
		ContributionType: string(c.Type),
		ChangeDetails:    details,
		CreatedAt:        c.CreatedAt,
	}
	if c.WordID != nil {
		out.WordID = *c.WordID
	}
	if c.LanguageID != nil {
		out.LanguageID = *c.LanguageID
	}
	return out, nil
}

func toUser(u *user.User) apiv1.User {
	return apiv1.User{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Role:              string(u.Role),
		ContributionCount: u.ContributionCount,
		ContributorRank:   u.ContributorRank,
		CreatedAt:         u.CreatedAt,
	}
}
