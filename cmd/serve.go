package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rubiechat/internal/app/chat"
	"rubiechat/internal/app/db"
	"rubiechat/internal/app/presence"
	"rubiechat/internal/app/session"
	"rubiechat/internal/app/storage"
	"rubiechat/internal/app/user"
	"rubiechat/internal/handler"
	"rubiechat/internal/pkg/logx"
	"rubiechat/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("storage_enabled", cfg.StorageEnabled()).
		Bool("github_enabled", cfg.GitHub.Enabled()).
		Bool("google_enabled", cfg.Google.Enabled()).
		Msg("Configuration loaded successfully")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(pool); err != nil {
			return err
		}
	}

	var storageService storage.StorageService
	if cfg.StorageEnabled() {
		storageService, err = storage.NewStorageService(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
			AssetBaseURL:      cfg.AssetBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	pages, err := web.NewRenderer()
	if err != nil {
		return err
	}

	queries := db.New(pool)
	users := user.NewService(queries)
	active := presence.NewActiveList()

	deps := &handler.AppDeps{
		Config: cfg,
		Users:  users,
		Sessions: session.NewProvider(session.Config{
			Secret:        cfg.JWTSecret,
			SecureCookies: cfg.SecureCookies,
			BaseURL:       cfg.BaseURL,
			GitHub:        cfg.GitHub,
			Google:        cfg.Google,
		}, users),
		Conversations: chat.NewService(queries, active),
		Presence:      active,
		Storage:       storageService,
		Pages:         pages,
	}

	router, stopRouter := handler.Router(deps)
	defer stopRouter()

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logx.Info(fmt.Sprintf("Rubie's Chat Server starting on %s", cfg.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logx.Info("Server gracefully stopped.")
	return nil
}
