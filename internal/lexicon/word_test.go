package lexicon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWord(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		languageID   string
		meanings     []Meaning
		want         []Meaning
		wantErr      error
		wantIndex    int
		wantIndexErr bool
	}{
		{
			name:       "keeps meanings in the given order",
			text:       " chat ",
			languageID: "lang-fr",
			meanings: []Meaning{
				{LanguageID: "lang-en", Meaning: " cat "},
				{LanguageID: "lang-de", Meaning: "Katze"},
			},
			want: []Meaning{
				{LanguageID: "lang-en", Meaning: "cat", SortOrder: 0},
				{LanguageID: "lang-de", Meaning: "Katze", SortOrder: 1},
			},
		},
		{
			name:       "accepts a meaning in the word's own language",
			text:       "chat",
			languageID: "lang-fr",
			meanings:   []Meaning{{LanguageID: "lang-fr", Meaning: "animal domestique"}},
			want:       []Meaning{{LanguageID: "lang-fr", Meaning: "animal domestique"}},
		},
		{
			name:       "empty word",
			text:       "  ",
			languageID: "lang-fr",
			meanings:   []Meaning{{LanguageID: "lang-en", Meaning: "cat"}},
			wantErr:    ErrEmptyWord,
		},
		{
			name:       "word too long",
			text:       strings.Repeat("a", 256),
			languageID: "lang-fr",
			meanings:   []Meaning{{LanguageID: "lang-en", Meaning: "cat"}},
			wantErr:    ErrWordTooLong,
		},
		{
			name:    "missing language",
			text:    "chat",
			wantErr: ErrMissingLanguage,
		},
		{
			name:       "no meanings",
			text:       "chat",
			languageID: "lang-fr",
			wantErr:    ErrNoMeanings,
		},
		{
			name:       "blank meaning",
			text:       "chat",
			languageID: "lang-fr",
			meanings: []Meaning{
				{LanguageID: "lang-en", Meaning: "cat"},
				{LanguageID: "lang-de", Meaning: " "},
			},
			wantErr:      ErrEmptyMeaning,
			wantIndex:    1,
			wantIndexErr: true,
		},
		{
			name:         "meaning too long",
			text:         "chat",
			languageID:   "lang-fr",
			meanings:     []Meaning{{LanguageID: "lang-en", Meaning: strings.Repeat("a", 1001)}},
			wantErr:      ErrMeaningTooLong,
			wantIndexErr: true,
		},
		{
			name:         "meaning without language",
			text:         "chat",
			languageID:   "lang-fr",
			meanings:     []Meaning{{Meaning: "cat"}},
			wantErr:      ErrMissingLanguage,
			wantIndexErr: true,
		},
		{
			name:       "duplicate target language",
			text:       "chat",
			languageID: "lang-fr",
			meanings: []Meaning{
				{LanguageID: "lang-en", Meaning: "cat"},
				{LanguageID: "lang-de", Meaning: "Katze"},
				{LanguageID: "lang-en", Meaning: "chat (online)"},
			},
			wantErr:      ErrDuplicateMeaning,
			wantIndex:    2,
			wantIndexErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewWord(tt.text, tt.languageID, "user-1", tt.meanings)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantIndexErr {
					var meaningErr *MeaningError
					require.ErrorAs(t, err, &meaningErr)
					assert.Equal(t, tt.wantIndex, meaningErr.Index)
				}
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, strings.TrimSpace(tt.text), got.Word)
			assert.Equal(t, tt.languageID, got.LanguageID)
			assert.Equal(t, "user-1", got.CreatedBy)
			require.Len(t, got.Meanings, len(tt.want))
			for i, m := range got.Meanings {
				assert.Equal(t, got.ID, m.WordID)
				assert.Equal(t, tt.want[i].LanguageID, m.LanguageID)
				assert.Equal(t, tt.want[i].Meaning, m.Meaning)
				assert.Equal(t, i, m.SortOrder)
			}
		})
	}
}

func TestWord_LanguageIDs(t *testing.T) {
	w := &Word{
		LanguageID: "lang-fr",
		Meanings: []Meaning{
			{LanguageID: "lang-en"},
			{LanguageID: "lang-fr"},
			{LanguageID: "lang-de"},
		},
	}
	assert.Equal(t, []string{"lang-fr", "lang-en", "lang-de"}, w.LanguageIDs())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "100!% sure", escapeLike("100% sure"))
	assert.Equal(t, "snake!_case", escapeLike("snake_case"))
	assert.Equal(t, "wow!!", escapeLike("wow!"))
}
