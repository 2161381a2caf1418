// Package dictionary is the entry point to the dictionary core. It validates requests,
// applies writes atomically together with their ledger entry, and maps lower-level
// failures onto a small error taxonomy.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/wordbridge/internal/auth"
	"github.com/at-ishikawa/wordbridge/internal/contribution"
	"github.com/at-ishikawa/wordbridge/internal/database"
	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
	"github.com/at-ishikawa/wordbridge/internal/metrics"
	"github.com/at-ishikawa/wordbridge/internal/ranking"
	"github.com/at-ishikawa/wordbridge/internal/search"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

// bcrypt ignores everything after 72 bytes.
const maxPasswordBytes = 72

// Repositories groups the stores the service writes to.
type Repositories struct {
	Languages language.Repository
	Words     lexicon.WordRepository
	Ledger    contribution.Repository
	Users     user.Repository
}

// LanguageResult is a created language and the caller's standing after the contribution.
type LanguageResult struct {
	Language language.Language
	Standing ranking.Standing
	RankedUp bool
}

// WordResult is a created word and the caller's standing after the contribution.
type WordResult struct {
	Word     search.Result
	Standing ranking.Standing
	RankedUp bool
}

type Service struct {
	db        *sqlx.DB
	languages language.Repository
	words     lexicon.WordRepository
	ledger    contribution.Repository
	users     user.Repository
	ranking   *ranking.Engine
	search    *search.Engine
	validate  *validator.Validate
	trans     ut.Translator
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(db *sqlx.DB, repos Repositories, searchLimit int, m *metrics.Metrics, logger *slog.Logger) (*Service, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("newValidator() > %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:        db,
		languages: repos.Languages,
		words:     repos.Words,
		ledger:    repos.Ledger,
		users:     repos.Users,
		ranking:   ranking.NewEngine(db, repos.Users, repos.Ledger, logger),
		search:    search.NewEngine(repos.Words, repos.Languages, searchLimit, m, logger),
		validate:  validate,
		trans:     trans,
		metrics:   m,
		logger:    logger,
	}, nil
}

// ListLanguages returns every language in insertion order.
func (s *Service) ListLanguages(ctx context.Context) ([]language.Language, error) {
	return s.languages.FindAll(ctx, s.db)
}

// AddLanguage registers a language and records it as a contribution of the caller.
func (s *Service) AddLanguage(ctx context.Context, caller auth.Identity, req AddLanguageRequest) (*LanguageResult, error) {
	const operation = "add_language"
	if caller.Anonymous() {
		return nil, ErrUnauthorized
	}

	req.normalize()
	if err := s.validateRequest(req); err != nil {
		return nil, s.fail(operation, err)
	}
	lang, err := language.New(req.Code, req.Name, req.NativeName)
	if err != nil {
		return nil, s.fail(operation, languageFieldError(err))
	}

	var transition ranking.Transition
	err = database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := s.requireUser(ctx, tx, caller); err != nil {
			return err
		}

		exists, err := s.languages.ExistsByCodeOrName(ctx, tx, lang.Code, lang.Name)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrDuplicateLanguage, lang.Code)
		}
		if err := s.languages.Create(ctx, tx, lang); err != nil {
			if errors.Is(err, language.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrDuplicateLanguage, lang.Code)
			}
			return err
		}

		transition, err = s.record(ctx, tx, contribution.ForLanguage(caller.UserID, lang))
		return err
	})
	if err != nil {
		return nil, s.fail(operation, err)
	}

	s.recorded(caller, contribution.TypeAddLanguage, "language_id", lang.ID, transition)
	return &LanguageResult{Language: *lang, Standing: transition.Standing, RankedUp: transition.RankedUp()}, nil
}

// AddWord stores a word with its meanings and records it as a contribution of the caller.
// Every referenced language must exist, otherwise nothing is written.
func (s *Service) AddWord(ctx context.Context, caller auth.Identity, req AddWordRequest) (*WordResult, error) {
	const operation = "add_word"
	if caller.Anonymous() {
		return nil, ErrUnauthorized
	}

	req.normalize()
	if err := s.validateRequest(req); err != nil {
		return nil, s.fail(operation, err)
	}
	meanings := make([]lexicon.Meaning, 0, len(req.Meanings))
	for _, m := range req.Meanings {
		meanings = append(meanings, lexicon.Meaning{LanguageID: m.LanguageID, Meaning: m.Meaning})
	}
	w, err := lexicon.NewWord(req.Word, req.LanguageID, caller.UserID, meanings)
	if err != nil {
		return nil, s.fail(operation, wordFieldError(err))
	}

	var (
		transition ranking.Transition
		result     search.Result
	)
	err = database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := s.requireUser(ctx, tx, caller); err != nil {
			return err
		}

		languages, err := s.resolveLanguages(ctx, tx, w.LanguageIDs())
		if err != nil {
			return err
		}
		if err := s.words.Create(ctx, tx, w); err != nil {
			return wordFieldError(err)
		}

		transition, err = s.record(ctx, tx, contribution.ForWord(caller.UserID, w, languages))
		if err != nil {
			return err
		}

		results, err := s.search.Resolve(ctx, tx, []lexicon.Word{*w})
		if err != nil {
			return err
		}
		result = results[0]
		return nil
	})
	if err != nil {
		return nil, s.fail(operation, err)
	}

	s.recorded(caller, contribution.TypeAddWord, "word_id", w.ID, transition)
	return &WordResult{Word: result, Standing: transition.Standing, RankedUp: transition.RankedUp()}, nil
}

// Search looks words up. Finding nothing returns an empty slice.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]search.Result, error) {
	req.normalize()
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	results, err := s.search.Search(ctx, s.db, search.Query{
		Term:         req.Word,
		FromLanguage: req.FromLanguage,
		ToLanguage:   req.ToLanguage,
	})
	if err != nil {
		if errors.Is(err, search.ErrEmptyTerm) {
			return nil, newValidationError("word", err.Error())
		}
		return nil, err
	}
	return results, nil
}

// ListWords browses words alphabetically, capped by the search limit.
// A language that does not exist simply has no words.
func (s *Service) ListWords(ctx context.Context, req ListWordsRequest) ([]search.Result, error) {
	req.normalize()
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.search.List(ctx, s.db, req.LanguageID)
}

// GetWord returns one word with its meanings.
func (s *Service) GetWord(ctx context.Context, id string) (*search.Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, newValidationError("id", "id is a required field")
	}
	w, err := s.words.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, lexicon.ErrWordNotFound) {
			return nil, fmt.Errorf("%w: word %s", ErrNotFound, id)
		}
		return nil, err
	}
	results, err := s.search.Resolve(ctx, s.db, []lexicon.Word{*w})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// ListContributions returns the contributions of userID, newest first.
// Callers may read their own ledger; moderators and admins may read anyone's.
// An empty userID means the caller.
func (s *Service) ListContributions(ctx context.Context, caller auth.Identity, userID string) ([]contribution.Contribution, error) {
	if caller.Anonymous() {
		return nil, ErrUnauthorized
	}
	me, err := s.requireUser(ctx, s.db, caller)
	if err != nil {
		return nil, err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = me.ID
	}
	if userID != me.ID {
		if !me.Role.Privileged() {
			return nil, ErrForbidden
		}
		if _, err := s.users.FindByID(ctx, s.db, userID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return nil, err
		}
	}
	return s.ledger.FindByUser(ctx, s.db, userID)
}

// GetMe returns the caller's profile including the cached contribution count and rank.
func (s *Service) GetMe(ctx context.Context, caller auth.Identity) (*user.User, error) {
	if caller.Anonymous() {
		return nil, ErrUnauthorized
	}
	return s.requireUser(ctx, s.db, caller)
}

// Register creates an account with the user role and an empty standing.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	const operation = "register"
	req.normalize()
	if err := s.validateRequest(req); err != nil {
		return nil, s.fail(operation, err)
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, s.fail(operation, newValidationError("password", "password must be at most 72 bytes"))
	}

	u, err := user.New(req.Username, req.Email, req.Password, user.RoleUser)
	if err != nil {
		return nil, s.fail(operation, err)
	}
	err = database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		existing, err := s.users.FindByUsernameOrEmail(ctx, tx, u.Username, u.Email)
		if err != nil {
			return err
		}
		verr := &ValidationError{}
		for _, e := range existing {
			if e.Username == u.Username {
				verr.Violations = append(verr.Violations, FieldViolation{Field: "username", Description: "username is already taken"})
			}
			if e.Email == u.Email {
				verr.Violations = append(verr.Violations, FieldViolation{Field: "email", Description: "email is already registered"})
			}
		}
		if len(verr.Violations) > 0 {
			return verr
		}

		if err := s.users.Create(ctx, tx, u); err != nil {
			if errors.Is(err, user.ErrDuplicate) {
				return newValidationError("username", "username or email is already registered")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(operation, err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *Service) requireUser(ctx context.Context, q database.Queryer, caller auth.Identity) (*user.User, error) {
	u, err := s.users.FindByID(ctx, q, caller.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// resolveLanguages loads ids and fails with ErrUnknownLanguage on the first id that does not exist.
func (s *Service) resolveLanguages(ctx context.Context, q database.Queryer, ids []string) (map[string]language.Language, error) {
	languages, err := s.languages.FindByIDs(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]language.Language, len(languages))
	for _, l := range languages {
		byID[l.ID] = l
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
		}
	}
	return byID, nil
}

// record appends c to the ledger and refreshes the contributor's standing.
// Any failure here must abort the enclosing write.
func (s *Service) record(ctx context.Context, q database.Queryer, c *contribution.Contribution) (ranking.Transition, error) {
	if err := s.ledger.Append(ctx, q, c); err != nil {
		return ranking.Transition{}, fmt.Errorf("record contribution: %w", err)
	}
	transition, err := s.ranking.Recompute(ctx, q, c.UserID)
	if err != nil {
		return ranking.Transition{}, fmt.Errorf("recompute standing: %w", err)
	}
	return transition, nil
}

func (s *Service) recorded(caller auth.Identity, t contribution.Type, entityKey, entityID string, transition ranking.Transition) {
	s.metrics.ContributionRecorded(string(t))
	s.logger.Info("contribution recorded",
		"user_id", caller.UserID,
		"type", t,
		entityKey, entityID,
		"count", transition.Standing.Count,
		"rank", transition.Standing.Rank,
	)
	if transition.RankedUp() {
		s.metrics.RankUp()
		s.logger.Info("contributor ranked up",
			"user_id", caller.UserID,
			"previous_rank", transition.PreviousRank,
			"rank", transition.Standing.Rank,
		)
	}
}

func (s *Service) fail(operation string, err error) error {
	s.metrics.WriteFailed(operation)
	return err
}
