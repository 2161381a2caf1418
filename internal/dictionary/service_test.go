package dictionary

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordbridge/internal/auth"
	"github.com/at-ishikawa/wordbridge/internal/contribution"
	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
	mock_contribution "github.com/at-ishikawa/wordbridge/internal/mocks/contribution"
	mock_language "github.com/at-ishikawa/wordbridge/internal/mocks/language"
	mock_lexicon "github.com/at-ishikawa/wordbridge/internal/mocks/lexicon"
	mock_user "github.com/at-ishikawa/wordbridge/internal/mocks/user"
	"github.com/at-ishikawa/wordbridge/internal/ranking"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

type mocks struct {
	languages *mock_language.MockRepository
	words     *mock_lexicon.MockWordRepository
	ledger    *mock_contribution.MockRepository
	users     *mock_user.MockRepository
	sql       sqlmock.Sqlmock
}

func newTestService(t *testing.T) (*Service, *mocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := &mocks{
		languages: mock_language.NewMockRepository(ctrl),
		words:     mock_lexicon.NewMockWordRepository(ctrl),
		ledger:    mock_contribution.NewMockRepository(ctrl),
		users:     mock_user.NewMockRepository(ctrl),
		sql:       sqlMock,
	}
	svc, err := NewService(sqlx.NewDb(db, "mysql"), Repositories{
		Languages: m.languages,
		Words:     m.words,
		Ledger:    m.ledger,
		Users:     m.users,
	}, 100, nil, nil)
	require.NoError(t, err)
	return svc, m
}

var alice = auth.Identity{UserID: "user-1"}

// expectRecompute sets up the standing refresh that follows a ledger append.
func expectRecompute(m *mocks, count, previousRank int) {
	m.users.EXPECT().SyncContributionCount(gomock.Any(), gomock.Any(), "user-1").Return(nil)
	m.users.EXPECT().FindByID(gomock.Any(), gomock.Any(), "user-1").
		Return(&user.User{ID: "user-1", ContributionCount: count, ContributorRank: previousRank}, nil)
	if rank := count / ranking.Step; rank != previousRank {
		m.users.EXPECT().UpdateRank(gomock.Any(), gomock.Any(), "user-1", rank).Return(nil)
	}
}

func expectCaller(m *mocks, role user.Role) {
	m.users.EXPECT().FindByID(gomock.Any(), gomock.Any(), "user-1").
		Return(&user.User{ID: "user-1", Username: "alice", Role: role}, nil)
}

func TestService_AddLanguage(t *testing.T) {
	tests := []struct {
		name      string
		caller    auth.Identity
		req       AddLanguageRequest
		setup     func(m *mocks)
		want      *LanguageResult
		wantErr   error
		wantField string
	}{
		{
			name:   "records the contribution and ranks up on the tenth",
			caller: alice,
			req:    AddLanguageRequest{Code: " FR ", Name: "French", NativeName: "Français"},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				expectCaller(m, user.RoleUser)
				m.languages.EXPECT().ExistsByCodeOrName(gomock.Any(), gomock.Any(), "fr", "French").Return(false, nil)
				m.languages.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, lang *language.Language) error {
						assert.Equal(t, "fr", lang.Code)
						assert.Equal(t, "French", lang.Name)
						assert.Equal(t, "Français", lang.DisplayNativeName())
						return nil
					})
				m.ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, c *contribution.Contribution) error {
						assert.Equal(t, "user-1", c.UserID)
						assert.Equal(t, contribution.TypeAddLanguage, c.Type)
						assert.Nil(t, c.WordID)
						require.NotNil(t, c.Details.Language)
						assert.Equal(t, "fr", c.Details.Language.Code)
						return nil
					})
				expectRecompute(m, 10, 0)
				m.sql.ExpectCommit()
			},
			want: &LanguageResult{
				Language: language.Language{Code: "fr", Name: "French"},
				Standing: ranking.Standing{Count: 10, Rank: 1},
			},
		},
		{
			name:    "anonymous caller",
			req:     AddLanguageRequest{Code: "fr", Name: "French"},
			setup:   func(m *mocks) {},
			wantErr: ErrUnauthorized,
		},
		{
			name:      "code must have two letters",
			caller:    alice,
			req:       AddLanguageRequest{Code: "fra", Name: "French"},
			setup:     func(m *mocks) {},
			wantField: "code",
		},
		{
			name:      "name is required",
			caller:    alice,
			req:       AddLanguageRequest{Code: "fr"},
			setup:     func(m *mocks) {},
			wantField: "name",
		},
		{
			name:   "existing code or name",
			caller: alice,
			req:    AddLanguageRequest{Code: "fr", Name: "French"},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				expectCaller(m, user.RoleUser)
				m.languages.EXPECT().ExistsByCodeOrName(gomock.Any(), gomock.Any(), "fr", "French").Return(true, nil)
				m.sql.ExpectRollback()
			},
			wantErr: ErrDuplicateLanguage,
		},
		{
			name:   "concurrent insert wins the unique index",
			caller: alice,
			req:    AddLanguageRequest{Code: "fr", Name: "French"},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				expectCaller(m, user.RoleUser)
				m.languages.EXPECT().ExistsByCodeOrName(gomock.Any(), gomock.Any(), "fr", "French").Return(false, nil)
				m.languages.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(fmt.Errorf("%w: fr", language.ErrDuplicate))
				m.sql.ExpectRollback()
			},
			wantErr: ErrDuplicateLanguage,
		},
		{
			name:   "caller no longer exists",
			caller: alice,
			req:    AddLanguageRequest{Code: "fr", Name: "French"},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				m.users.EXPECT().FindByID(gomock.Any(), gomock.Any(), "user-1").Return(nil, user.ErrNotFound)
				m.sql.ExpectRollback()
			},
			wantErr: ErrUnauthorized,
		},
		{
			name:   "ledger failure aborts the write",
			caller: alice,
			req:    AddLanguageRequest{Code: "fr", Name: "French"},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				expectCaller(m, user.RoleUser)
				m.languages.EXPECT().ExistsByCodeOrName(gomock.Any(), gomock.Any(), "fr", "French").Return(false, nil)
				m.languages.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(fmt.Errorf("disk full"))
				m.sql.ExpectRollback()
			},
			wantErr: fmt.Errorf("record contribution: disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.setup(m)

			got, err := svc.AddLanguage(context.Background(), tt.caller, tt.req)
			switch {
			case tt.wantField != "":
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				require.NotEmpty(t, verr.Violations)
				assert.Equal(t, tt.wantField, verr.Violations[0].Field)
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, got.Language.ID)
				assert.Equal(t, tt.want.Language.Code, got.Language.Code)
				assert.Equal(t, tt.want.Language.Name, got.Language.Name)
				assert.Equal(t, tt.want.Standing, got.Standing)
				assert.True(t, got.RankedUp)
			}
			assert.NoError(t, m.sql.ExpectationsWereMet())
		})
	}
}

func TestService_AddLanguage_Sentinels(t *testing.T) {
	svc, m := newTestService(t)
	m.sql.ExpectBegin()
	expectCaller(m, user.RoleUser)
	m.languages.EXPECT().ExistsByCodeOrName(gomock.Any(), gomock.Any(), "fr", "French").Return(true, nil)
	m.sql.ExpectRollback()

	_, err := svc.AddLanguage(context.Background(), alice, AddLanguageRequest{Code: "fr", Name: "French"})
	assert.ErrorIs(t, err, ErrDuplicateLanguage)
}

func TestService_AddWord(t *testing.T) {
	fr := language.Language{ID: "lang-fr", Code: "fr", Name: "French"}
	en := language.Language{ID: "lang-en", Code: "en", Name: "English"}

	tests := []struct {
		name      string
		caller    auth.Identity
		req       AddWordRequest
		setup     func(m *mocks)
		wantErr   error
		wantField string
	}{
		{
			name:   "stores the word and its ledger entry",
			caller: alice,
			req: AddWordRequest{
				Word:       "chat",
				LanguageID: "lang-fr",
				Meanings:   []MeaningInput{{LanguageID: "lang-en", Meaning: "cat"}},
			},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				expectCaller(m, user.RoleUser)
				m.languages.EXPECT().FindByIDs(gomock.Any(), gomock.Any(), []string{"lang-fr", "lang-en"}).
					Return([]language.Language{fr, en}, nil)
				m.words.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, w *lexicon.Word) error {
						assert.Equal(t, "chat", w.Word)
						assert.Equal(t, "user-1", w.CreatedBy)
						require.Len(t, w.Meanings, 1)
						return nil
					})
				m.ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, c *contribution.Contribution) error {
						assert.Equal(t, contribution.TypeAddWord, c.Type)
						require.NotNil(t, c.Details.Word)
						assert.Equal(t, "chat", c.Details.Word.Word)
						assert.Equal(t, "fr", c.Details.Word.LanguageCode)
						return nil
					})
				expectRecompute(m, 3, 0)
				m.languages.EXPECT().FindByIDs(gomock.Any(), gomock.Any(), []string{"lang-fr", "lang-en"}).
					Return([]language.Language{fr, en}, nil)
				m.sql.ExpectCommit()
			},
		},
		{
			name:    "anonymous caller",
			req:     AddWordRequest{Word: "chat", LanguageID: "lang-fr", Meanings: []MeaningInput{{LanguageID: "lang-en", Meaning: "cat"}}},
			setup:   func(m *mocks) {},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "no meanings",
			caller:  alice,
			req:     AddWordRequest{Word: "chat", LanguageID: "lang-fr"},
			setup:   func(m *mocks) {},
			wantErr: ErrEmptyContribution,
		},
		{
			name:      "blank word",
			caller:    alice,
			req:       AddWordRequest{Word: "  ", LanguageID: "lang-fr", Meanings: []MeaningInput{{LanguageID: "lang-en", Meaning: "cat"}}},
			setup:     func(m *mocks) {},
			wantField: "word",
		},
		{
			name:      "blank meaning",
			caller:    alice,
			req:       AddWordRequest{Word: "chat", LanguageID: "lang-fr", Meanings: []MeaningInput{{LanguageID: "lang-en"}}},
			setup:     func(m *mocks) {},
			wantField: "meanings[0].meaning",
		},
		{
			name:   "duplicate target language",
			caller: alice,
			req: AddWordRequest{Word: "chat", LanguageID: "lang-fr", Meanings: []MeaningInput{
				{LanguageID: "lang-en", Meaning: "cat"},
				{LanguageID: "lang-en", Meaning: "chat"},
			}},
			setup:     func(m *mocks) {},
			wantField: "meanings[1].language_id",
		},
		{
			name:   "unknown word language leaves no state",
			caller: alice,
			req:    AddWordRequest{Word: "chat", LanguageID: "lang-xx", Meanings: []MeaningInput{{LanguageID: "lang-en", Meaning: "cat"}}},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				expectCaller(m, user.RoleUser)
				m.languages.EXPECT().FindByIDs(gomock.Any(), gomock.Any(), []string{"lang-xx", "lang-en"}).
					Return([]language.Language{en}, nil)
				m.sql.ExpectRollback()
			},
			wantErr: ErrUnknownLanguage,
		},
		{
			name:   "unknown meaning language leaves no state",
			caller: alice,
			req:    AddWordRequest{Word: "chat", LanguageID: "lang-fr", Meanings: []MeaningInput{{LanguageID: "lang-xx", Meaning: "cat"}}},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				expectCaller(m, user.RoleUser)
				m.languages.EXPECT().FindByIDs(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]language.Language{fr}, nil)
				m.sql.ExpectRollback()
			},
			wantErr: ErrUnknownLanguage,
		},
		{
			name:   "ledger failure aborts the write",
			caller: alice,
			req:    AddWordRequest{Word: "chat", LanguageID: "lang-fr", Meanings: []MeaningInput{{LanguageID: "lang-en", Meaning: "cat"}}},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				expectCaller(m, user.RoleUser)
				m.languages.EXPECT().FindByIDs(gomock.Any(), gomock.Any(), gomock.Any()).Return([]language.Language{fr, en}, nil)
				m.words.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(fmt.Errorf("disk full"))
				m.sql.ExpectRollback()
			},
			wantErr: fmt.Errorf("record contribution: disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.setup(m)

			got, err := svc.AddWord(context.Background(), tt.caller, tt.req)
			switch {
			case tt.wantField != "":
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				require.NotEmpty(t, verr.Violations)
				assert.Equal(t, tt.wantField, verr.Violations[0].Field)
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			default:
				require.NoError(t, err)
				assert.Equal(t, "chat", got.Word.Word)
				assert.Equal(t, "French", got.Word.Language.Name)
				require.Len(t, got.Word.Meanings, 1)
				assert.Equal(t, "English", got.Word.Meanings[0].Language.Name)
				assert.Equal(t, "cat", got.Word.Meanings[0].Meaning)
				assert.Equal(t, ranking.Standing{Count: 3, Rank: 0}, got.Standing)
			}
			assert.NoError(t, m.sql.ExpectationsWereMet())
		})
	}
}

func TestService_Search(t *testing.T) {
	t.Run("blank term is a validation error", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Search(context.Background(), SearchRequest{Word: "   "})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "word", verr.Violations[0].Field)
	})

	t.Run("no match is empty", func(t *testing.T) {
		svc, m := newTestService(t)
		m.words.EXPECT().Search(gomock.Any(), gomock.Any(), lexicon.SearchFilter{Term: "zzz", Limit: 100}).Return(nil, nil)

		got, err := svc.Search(context.Background(), SearchRequest{Word: "zzz"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestService_ListWords(t *testing.T) {
	fr := language.Language{ID: "lang-fr", Code: "fr", Name: "French"}

	t.Run("browses one language within the search limit", func(t *testing.T) {
		svc, m := newTestService(t)
		m.words.EXPECT().FindAll(gomock.Any(), gomock.Any(), "lang-fr", 100).Return([]lexicon.Word{
			{ID: "word-1", Word: "chat", LanguageID: "lang-fr"},
		}, nil)
		m.languages.EXPECT().FindByIDs(gomock.Any(), gomock.Any(), []string{"lang-fr"}).Return([]language.Language{fr}, nil)

		got, err := svc.ListWords(context.Background(), ListWordsRequest{LanguageID: " lang-fr "})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "chat", got[0].Word)
		assert.Equal(t, "French", got[0].Language.Name)
	})

	t.Run("every language", func(t *testing.T) {
		svc, m := newTestService(t)
		m.words.EXPECT().FindAll(gomock.Any(), gomock.Any(), "", 100).Return(nil, nil)

		got, err := svc.ListWords(context.Background(), ListWordsRequest{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("overlong language id", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.ListWords(context.Background(), ListWordsRequest{LanguageID: strings.Repeat("x", 37)})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "language_id", verr.Violations[0].Field)
	})
}

func TestService_GetWord(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService(t)
		m.words.EXPECT().FindByID(gomock.Any(), gomock.Any(), "word-1").Return(nil, lexicon.ErrWordNotFound)

		_, err := svc.GetWord(context.Background(), "word-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("blank id", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.GetWord(context.Background(), " ")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "id", verr.Violations[0].Field)
	})
}

func TestService_ListContributions(t *testing.T) {
	entries := []contribution.Contribution{{ID: "c-1", UserID: "user-2"}}

	tests := []struct {
		name    string
		caller  auth.Identity
		subject string
		setup   func(m *mocks)
		wantLen int
		wantErr error
	}{
		{
			name:    "own ledger",
			caller:  alice,
			subject: "",
			setup: func(m *mocks) {
				expectCaller(m, user.RoleUser)
				m.ledger.EXPECT().FindByUser(gomock.Any(), gomock.Any(), "user-1").Return(entries, nil)
			},
			wantLen: 1,
		},
		{
			name:    "moderator reads another user",
			caller:  alice,
			subject: "user-2",
			setup: func(m *mocks) {
				expectCaller(m, user.RoleModerator)
				m.users.EXPECT().FindByID(gomock.Any(), gomock.Any(), "user-2").Return(&user.User{ID: "user-2"}, nil)
				m.ledger.EXPECT().FindByUser(gomock.Any(), gomock.Any(), "user-2").Return(entries, nil)
			},
			wantLen: 1,
		},
		{
			name:    "regular user cannot read another user",
			caller:  alice,
			subject: "user-2",
			setup: func(m *mocks) {
				expectCaller(m, user.RoleContributor)
			},
			wantErr: ErrForbidden,
		},
		{
			name:    "admin asks for a missing user",
			caller:  alice,
			subject: "user-9",
			setup: func(m *mocks) {
				expectCaller(m, user.RoleAdmin)
				m.users.EXPECT().FindByID(gomock.Any(), gomock.Any(), "user-9").Return(nil, user.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:    "anonymous",
			setup:   func(m *mocks) {},
			wantErr: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.setup(m)

			got, err := svc.ListContributions(context.Background(), tt.caller, tt.subject)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_GetMe(t *testing.T) {
	svc, m := newTestService(t)
	m.users.EXPECT().FindByID(gomock.Any(), gomock.Any(), "user-1").
		Return(&user.User{ID: "user-1", ContributionCount: 12, ContributorRank: 1}, nil)

	got, err := svc.GetMe(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, 12, got.ContributionCount)
	assert.Equal(t, 1, got.ContributorRank)

	_, err = svc.GetMe(context.Background(), auth.Identity{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		req        RegisterRequest
		setup      func(m *mocks)
		wantFields []string
	}{
		{
			name: "creates a user with the user role",
			req:  RegisterRequest{Username: "alice", Email: "Alice@Example.com", Password: "correct horse"},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				m.users.EXPECT().FindByUsernameOrEmail(gomock.Any(), gomock.Any(), "alice", "alice@example.com").Return(nil, nil)
				m.users.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, u *user.User) error {
						assert.Equal(t, user.RoleUser, u.Role)
						assert.Zero(t, u.ContributionCount)
						assert.True(t, u.CheckPassword("correct horse"))
						return nil
					})
				m.sql.ExpectCommit()
			},
		},
		{
			name:       "invalid fields",
			req:        RegisterRequest{Username: "a!", Email: "not-an-email", Password: "short"},
			setup:      func(m *mocks) {},
			wantFields: []string{"username", "email", "password"},
		},
		{
			name: "taken username and email",
			req:  RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "correct horse"},
			setup: func(m *mocks) {
				m.sql.ExpectBegin()
				m.users.EXPECT().FindByUsernameOrEmail(gomock.Any(), gomock.Any(), "alice", "alice@example.com").
					Return([]user.User{{Username: "alice", Email: "alice@example.com"}}, nil)
				m.sql.ExpectRollback()
			},
			wantFields: []string{"username", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.setup(m)

			got, err := svc.Register(context.Background(), tt.req)
			if tt.wantFields != nil {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				var fields []string
				for _, v := range verr.Violations {
					fields = append(fields, v.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, fields)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice@example.com", got.Email)
			assert.NoError(t, m.sql.ExpectationsWereMet())
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Violations: []FieldViolation{
		{Field: "code", Description: "code must be 2 characters in length"},
		{Field: "name", Description: "name is a required field"},
	}}
	assert.Equal(t, "invalid request: code: code must be 2 characters in length; name: name is a required field", err.Error())
}
