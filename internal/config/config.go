// Package config loads the wordbridge configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Search   SearchConfig   `mapstructure:"search"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Export   ExportConfig   `mapstructure:"export"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
	// Path is the SQLite database file. ":memory:" keeps the database in memory.
	Path          string `mapstructure:"path"`
	ReadyAttempts uint   `mapstructure:"ready_attempts"`
}

type AuthConfig struct {
	SessionSecret       string `mapstructure:"session_secret" validate:"omitempty,min=32"`
	SessionMaxAgeSecond int    `mapstructure:"session_max_age_seconds" validate:"min=0"`
	// SecureCookie restricts the session cookie to HTTPS.
	SecureCookie bool `mapstructure:"secure_cookie"`
}

type SearchConfig struct {
	Limit int `mapstructure:"limit" validate:"min=1,max=1000"`
}

type SeedConfig struct {
	LanguagesFile string          `mapstructure:"languages_file" validate:"omitempty,file"`
	Admin         SeedAdminConfig `mapstructure:"admin"`
}

type SeedAdminConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email" validate:"omitempty,email"`
	Password string `mapstructure:"password"`
}

type ExportConfig struct {
	Directory        string    `mapstructure:"directory"`
	GlossaryTemplate string    `mapstructure:"glossary_template" validate:"omitempty,file"`
	PDF              PDFConfig `mapstructure:"pdf"`
}

type PDFConfig struct {
	PageSize    string `mapstructure:"page_size" validate:"oneof=A3 A4 A5 Letter Legal"`
	Orientation string `mapstructure:"orientation" validate:"oneof=portrait landscape"`
	Theme       string `mapstructure:"theme" validate:"oneof=light dark"`
}

type ClientConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/wordbridge")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.driver", DriverMySQL)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "wordbridge")
	v.SetDefault("database.username", "wordbridge")
	v.SetDefault("database.path", "wordbridge.db")
	v.SetDefault("database.ready_attempts", 5)
	v.SetDefault("auth.session_max_age_seconds", 1800)
	v.SetDefault("search.limit", 100)
	v.SetDefault("seed.admin.username", "admin")
	v.SetDefault("seed.admin.email", "admin@example.com")
	v.SetDefault("export.directory", "exports")
	v.SetDefault("export.pdf.page_size", "A4")
	v.SetDefault("export.pdf.orientation", "portrait")
	v.SetDefault("export.pdf.theme", "light")
	v.SetDefault("client.base_url", "http://localhost:8080")

	// Secrets are bound to environment variables so that they never have to live in the config file
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("auth.session_secret", "WORDBRIDGE_SESSION_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind WORDBRIDGE_SESSION_SECRET environment variable: %w", err)
	}
	if err := v.BindEnv("seed.admin.password", "WORDBRIDGE_ADMIN_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind WORDBRIDGE_ADMIN_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	if cfg.Database.Driver == DriverSQLite && cfg.Database.Path != ":memory:" {
		cfg.Database.Path = filepath.Clean(cfg.Database.Path)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
