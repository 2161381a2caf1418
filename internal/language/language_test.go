package language

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		code           string
		langName       string
		nativeName     string
		wantCode       string
		wantName       string
		wantNativeName *string
		wantErr        error
	}{
		{
			name:     "normalizes code",
			code:     " FR ",
			langName: "French",
			wantCode: "fr",
			wantName: "French",
		},
		{
			name:           "keeps native name",
			code:           "ja",
			langName:       "Japanese",
			nativeName:     " 日本語 ",
			wantCode:       "ja",
			wantName:       "Japanese",
			wantNativeName: ptr("日本語"),
		},
		{
			name:     "rejects one letter code",
			code:     "f",
			langName: "French",
			wantErr:  ErrInvalidCode,
		},
		{
			name:     "rejects three letter code",
			code:     "fra",
			langName: "French",
			wantErr:  ErrInvalidCode,
		},
		{
			name:     "rejects non letters",
			code:     "f1",
			langName: "French",
			wantErr:  ErrInvalidCode,
		},
		{
			name:     "rejects blank name",
			code:     "fr",
			langName: "   ",
			wantErr:  ErrInvalidName,
		},
		{
			name:     "rejects long name",
			code:     "fr",
			langName: strings.Repeat("a", 101),
			wantErr:  ErrInvalidName,
		},
		{
			name:       "rejects long native name",
			code:       "fr",
			langName:   "French",
			nativeName: strings.Repeat("é", 101),
			wantErr:    ErrInvalidNativeName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.code, tt.langName, tt.nativeName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantNativeName, got.NativeName)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestLanguage_DisplayNativeName(t *testing.T) {
	assert.Equal(t, "", Language{}.DisplayNativeName())
	assert.Equal(t, "Français", Language{NativeName: ptr("Français")}.DisplayNativeName())
}

func ptr(s string) *string {
	return &s
}
