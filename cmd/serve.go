package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecostudy/internal/config"
	"ecostudy/internal/handlers"
	"ecostudy/internal/llm"
	"ecostudy/internal/logger"
	"ecostudy/internal/repository"
	"ecostudy/internal/server"
	"ecostudy/internal/service"

	"github.com/spf13/cobra"

	_ "ecostudy/docs"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// load config.yml
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	// open store
	repos, closeStore, err := openStore(ctx, cfg.DB, log)
	if err != nil {
		log.Errorw("failed to open store", "driver", cfg.DB.Driver, "err", err)
		return err
	}
	defer closeStore()

	services, err := newServices(cfg, repos, log)
	if err != nil {
		return err
	}

	if cfg.Admin.SeedKey == "" {
		log.Warnw("admin.seed_key is not set; POST /api/admin/seed is open to anyone")
	}
	if cfg.Completion.APIKey == "" {
		log.Warnw("completion.api_key (GEMINI_API_KEY) is not set; every chat will get the fallback answer")
	}

	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		SeedKey:     cfg.Admin.SeedKey,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	// start HTTP server
	srv := &server.Server{WriteTimeout: server.WriteTimeoutFor(cfg.Completion.Timeout)}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("server_started", "port", cfg.Port, "db_driver", cfg.DB.Driver, "model", cfg.Completion.Model)
		if err := srv.Run(cfg.Port, apiHandler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	return waitForShutdown(srv, errCh, log)
}

func newServices(cfg *config.Config, repos *repository.Repository, log *logger.Logger) (*service.Service, error) {
	tokens, err := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	prompts, err := service.NewPromptBuilder(cfg.Tutor.Name, cfg.Tutor.KnowledgeFile)
	if err != nil {
		return nil, err
	}
	completer := llm.NewGeminiClient(cfg.Completion.APIKey, cfg.Completion.Model, cfg.Completion.BaseURL, nil)

	return service.NewService(repos, service.Deps{
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
		Completer:  completer,
		Prompts:    prompts,
		Policy: service.CompletionPolicy{
			Timeout:    cfg.Completion.Timeout,
			MaxRetries: cfg.Completion.MaxRetries,
			RetryBase:  cfg.Completion.RetryBase,
		},
		Logger: log,
	})
}

// waitForShutdown blocks until a termination signal or a server error, then
// drains in-flight requests.
func waitForShutdown(srv *server.Server, errCh <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		log.Errorw("error starting server", "err", err)
		return err
	case <-quit:
	}

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
