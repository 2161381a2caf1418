package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"connectrpc.com/connect"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordbridge/internal/auth"
	"github.com/at-ishikawa/wordbridge/internal/bootstrap"
	"github.com/at-ishikawa/wordbridge/internal/config"
	"github.com/at-ishikawa/wordbridge/internal/contribution"
	"github.com/at-ishikawa/wordbridge/internal/database"
	"github.com/at-ishikawa/wordbridge/internal/dictionary"
	"github.com/at-ishikawa/wordbridge/internal/httpserver"
	"github.com/at-ishikawa/wordbridge/internal/language"
	"github.com/at-ishikawa/wordbridge/internal/lexicon"
	"github.com/at-ishikawa/wordbridge/internal/metrics"
	"github.com/at-ishikawa/wordbridge/internal/seed"
	"github.com/at-ishikawa/wordbridge/internal/server"
	"github.com/at-ishikawa/wordbridge/internal/user"
)

var (
	configFile string
	debugMode  bool
	seedOnBoot bool
)

var errMissingSessionSecret = errors.New("auth.session_secret (WORDBRIDGE_SESSION_SECRET) is required")

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordbridge-server",
		Short:         "Wordbridge dictionary service HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debugMode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&seedOnBoot, "seed", false, "Seed default languages and the admin user before serving")
	return rootCmd
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: true})))
}

func run(ctx context.Context) error {
	logger := slog.Default()
	app := bootstrap.New(logger)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if cfg.Auth.SessionSecret == "" {
		return errMissingSessionSecret
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook("database", func(ctx context.Context) error {
		return db.Close()
	})

	return app.Run(ctx, func(ctx context.Context) error {
		if err := prepareDatabase(ctx, cfg, db, logger); err != nil {
			return err
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		users := user.NewDBRepository()
		service, err := dictionary.NewService(db, dictionary.Repositories{
			Languages: language.NewDBRepository(),
			Words:     lexicon.NewDBWordRepository(),
			Ledger:    contribution.NewDBRepository(),
			Users:     users,
		}, cfg.Search.Limit, metrics.New(registry), logger)
		if err != nil {
			return fmt.Errorf("dictionary.NewService() > %w", err)
		}

		path, rpc := server.NewDictionaryServiceHandler(
			server.NewDictionaryHandler(service, logger),
			connect.WithInterceptors(server.NewLoggingInterceptor(logger)),
		)
		store := auth.NewCookieStore([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionMaxAgeSecond, cfg.Auth.SecureCookie)
		router := httpserver.NewRouter(httpserver.RouterConfig{
			RPCPath:        path,
			RPC:            rpc,
			Authenticator:  auth.NewSessionAuthenticator(store, db, users, logger),
			DB:             db,
			Gatherer:       registry,
			AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
			Logger:         logger,
		})

		srv := httpserver.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), router, logger)
		return srv.Serve(ctx)
	})
}

// prepareDatabase waits for the database, applies migrations and optionally seeds it.
func prepareDatabase(ctx context.Context, cfg *config.Config, db *sqlx.DB, logger *slog.Logger) error {
	if err := database.WaitReady(ctx, db, cfg.Database.ReadyAttempts, logger); err != nil {
		return fmt.Errorf("database.WaitReady() > %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("database.Migrate() > %w", err)
	}
	if !seedOnBoot {
		return nil
	}
	result, err := seed.NewSeeder(db, language.NewDBRepository(), user.NewDBRepository(), logger).Run(ctx, cfg.Seed)
	if err != nil {
		return fmt.Errorf("seeder.Run() > %w", err)
	}
	logger.Info("seeded database", "languages", result.LanguagesCreated, "admin_created", result.AdminCreated)
	return nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
