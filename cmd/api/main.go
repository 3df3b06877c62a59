package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-api/internal/adapters/auth/introspect"
	"clinic-api/internal/adapters/auth/jwtauth"
	pg "clinic-api/internal/adapters/storage/postgres"
	"clinic-api/internal/config"
	"clinic-api/internal/domain/access"
	"clinic-api/internal/platform/logger"
	"clinic-api/internal/platform/metrics"
	"clinic-api/internal/ports/auth"
	"clinic-api/internal/router"
)

func main() {
	bootLog := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("invalid configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, issuer, err := authFromConfig(cfg, log)
	if err != nil {
		return err
	}

	roles, err := access.DefaultRoleConfig().WithSynonyms(cfg.RoleSynonyms)
	if err != nil {
		return err
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := pg.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("storage: postgres", nil)
	} else {
		log.Warn("storage: in-memory (DB_DSN vacío), los datos no persisten", nil)
	}

	h, err := router.NewRouter(router.Options{
		AuthVerifier:   verifier,
		TokenIssuer:    issuer,
		DB:             db,
		Logger:         log,
		Metrics:        metrics.New(),
		Roles:          roles,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
		SeedDemoUsers:  cfg.SeedDemoUsers,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// authFromConfig elige el modo de autenticación:
// introspección remota, JWT local (verifica y emite) o headers de debug.
func authFromConfig(cfg config.Config, log logger.Logger) (auth.AuthVerifier, auth.TokenIssuer, error) {
	switch {
	case cfg.AuthIntrospectURL != "":
		v, err := introspect.New(introspect.Config{
			BaseURL: cfg.AuthIntrospectURL,
			APIKey:  cfg.AuthIntrospectAPIKey,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("auth: remote introspection", map[string]any{"url": cfg.AuthIntrospectURL})
		return v, nil, nil

	case cfg.JWTSecret != "":
		s, err := jwtauth.New(jwtauth.Config{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			TTL:      cfg.JWTTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("auth: local jwt", map[string]any{"issuer": cfg.JWTIssuer})
		return s, s, nil

	default:
		log.Warn("auth: DEV_AUTH, identidad por headers X-Debug-*", nil)
		return nil, nil, nil
	}
}
