// Package seed fills an empty database with the default languages and an administrator.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/wordbridge/internal/config"
	"github.com/at-ishikawa/wordbridge/internal/database"
	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

//go:embed languages.yml
var defaultLanguages []byte

type languageEntry struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	NativeName string `yaml:"native_name"`
}

type languageFile struct {
	Languages []languageEntry `yaml:"languages"`
}

// Result is what a seeding run created.
type Result struct {
	LanguagesCreated int
	AdminCreated     bool
}

type Seeder struct {
	db        *sqlx.DB
	languages language.Repository
	users     user.Repository
	logger    *slog.Logger
}

func NewSeeder(db *sqlx.DB, languages language.Repository, users user.Repository, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		db:        db,
		languages: languages,
		users:     users,
		logger:    logger,
	}
}

// Run seeds what is missing. Running it again changes nothing.
// Seeded languages are system data and are not recorded as anyone's contribution.
func (s *Seeder) Run(ctx context.Context, cfg config.SeedConfig) (*Result, error) {
	entries, err := loadLanguages(cfg.LanguagesFile)
	if err != nil {
		return nil, err
	}

	var result Result
	err = database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		existing, err := s.languages.FindAll(ctx, tx)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			for _, e := range entries {
				lang, err := language.New(e.Code, e.Name, e.NativeName)
				if err != nil {
					return fmt.Errorf("seed language %q: %w", e.Code, err)
				}
				if err := s.languages.Create(ctx, tx, lang); err != nil {
					return fmt.Errorf("seed language %q: %w", e.Code, err)
				}
				result.LanguagesCreated++
			}
		}

		created, err := s.seedAdmin(ctx, tx, cfg.Admin)
		if err != nil {
			return err
		}
		result.AdminCreated = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed database: %w", err)
	}

	s.logger.Info("seeded database",
		"languages_created", result.LanguagesCreated,
		"admin_created", result.AdminCreated,
	)
	return &result, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, q database.Queryer, admin config.SeedAdminConfig) (bool, error) {
	if admin.Password == "" {
		return false, nil
	}
	_, err := s.users.FindByUsername(ctx, q, admin.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	u, err := user.New(admin.Username, admin.Email, admin.Password, user.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if err := s.users.Create(ctx, q, u); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}

// loadLanguages reads path, or the embedded defaults when path is empty.
func loadLanguages(path string) ([]languageEntry, error) {
	data := defaultLanguages
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
		}
	}

	var file languageFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode languages file: %w", err)
	}
	if len(file.Languages) == 0 {
		return nil, errors.New("languages file lists no languages")
	}
	return file.Languages, nil
}
