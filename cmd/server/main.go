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

	"log/slog"

	"SpeedReaderwebserver/internal/adminui"
	"SpeedReaderwebserver/internal/auth"
	"SpeedReaderwebserver/internal/config"
	"SpeedReaderwebserver/internal/domain"
	"SpeedReaderwebserver/internal/email"
	"SpeedReaderwebserver/internal/httpapi"
	"SpeedReaderwebserver/internal/service"
	"SpeedReaderwebserver/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.DBDSN == "" {
		logger.Error("APP_DB_DSN is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pgPool, err := postgres.Open(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		logger.Error("db open failed", "err", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	if err := postgres.Migrate(ctx, pgPool); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	accounts := postgres.NewAccountsStore(pgPool)
	adminAccounts := postgres.NewAdminAccountsStore(pgPool)
	drills := postgres.NewDrillsStore(pgPool)
	readings := postgres.NewReadingSessionsStore(pgPool)
	stats := postgres.NewStatsStore(pgPool)
	passageStore := postgres.NewPassagesStore(pgPool)

	if err := bootstrapAdmin(ctx, logger, accounts, adminAccounts, cfg.AdminBootstrapEmail, cfg.AdminBootstrapName, cfg.AdminBootstrapPassword); err != nil {
		logger.Error("bootstrap admin failed", "err", err)
		os.Exit(1)
	}

	passageSvc := &service.PassageService{Passages: passageStore, Logger: logger}
	if err := passageSvc.Seed(ctx); err != nil {
		logger.Error("seed passages failed", "err", err)
		os.Exit(1)
	}

	authSvc := &service.AuthService{
		Accounts:            accounts,
		Statuses:            adminAccounts,
		GoogleClientID:      cfg.GoogleClientID,
		AppleClientID:       cfg.AppleClientID,
		VerifyGoogleIDToken: auth.VerifyGoogleIDToken,
		VerifyAppleIDToken:  auth.VerifyAppleIDToken,
	}
	adminSvc := &service.AdminService{Accounts: adminAccounts}
	recordSvc := &service.RecordService{Drills: drills, Readings: readings}
	statsSvc := &service.StatsService{Stats: stats}

	mailer := &email.Mailer{
		Settings: email.Settings{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			TLSMode:   cfg.SMTP.TLSMode,
			FromEmail: cfg.SMTP.FromEmail,
			FromName:  cfg.SMTP.FromName,
		},
		Timeout: 10 * time.Second,
	}
	if !mailer.Configured() {
		logger.Info("smtp not configured: password reset email disabled")
	}
	resetSvc := &service.PasswordResetService{
		Accounts: accounts,
		Mailer:   mailer,
		Logger:   logger,
		ResetURL: httpapi.ResetURL(cfg.BaseURL()),
	}

	tokens := auth.NewTokenCodec([]byte(cfg.TokenSecret), cfg.SessionTTL)

	apiRouter := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:        logger,
		IsProd:        cfg.IsProd(),
		DBPing:        pgPool.Ping,
		Auth:          authSvc,
		Records:       recordSvc,
		Stats:         statsSvc,
		Passages:      passageSvc,
		Admin:         adminSvc,
		PasswordReset: resetSvc,
		Tokens:        tokens,
		CookieSecure:  cfg.CookieSecure(),
		CORSOrigins:   cfg.CORSOrigins,
	})

	adminRouter := adminui.New(adminui.Opts{
		Logger:        logger,
		Auth:          authSvc,
		Admin:         adminSvc,
		PasswordReset: resetSvc,
		Tokens:        tokens,
		CookieSecure:  cfg.CookieSecure(),
	})

	root := http.NewServeMux()
	root.Handle("/", apiRouter)
	root.Handle("/admin", adminRouter)
	root.Handle("/admin/", adminRouter)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr, "public_url", cfg.BaseURL())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

// bootstrapAdmin makes sure the configured account exists, is active and holds
// the admin role. It is a no-op without a bootstrap password.
func bootstrapAdmin(ctx context.Context, logger *slog.Logger, accounts *postgres.AccountsStore, admin *postgres.AdminAccountsStore, emailAddr, name, password string) error {
	if password == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if len(password) < 12 {
		return errors.New("APP_ADMIN_BOOTSTRAP_PASSWORD: must be at least 12 characters")
	}
	emailAddr = service.NormalizeEmail(emailAddr)
	if emailAddr == "" || name == "" {
		return errors.New("admin bootstrap: email and name are required")
	}

	var id string
	existing, err := accounts.GetAccountByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		id = existing.ID
		logger.Info("admin bootstrap: account already exists", "email", emailAddr)
	case errors.Is(err, domain.ErrNotFound):
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("admin bootstrap: hash password: %w", err)
		}
		created, err := accounts.CreateAccount(ctx, emailAddr, name, hash)
		if err != nil {
			return fmt.Errorf("admin bootstrap: create account: %w", err)
		}
		id = created.ID
		logger.Info("admin bootstrap: created admin account", "email", emailAddr)
	default:
		return fmt.Errorf("admin bootstrap: lookup account: %w", err)
	}

	if _, err := admin.SetStatus(ctx, id, domain.StatusActive); err != nil {
		return fmt.Errorf("admin bootstrap: activate: %w", err)
	}
	if _, err := admin.SetRole(ctx, id, domain.RoleAdmin); err != nil {
		return fmt.Errorf("admin bootstrap: promote: %w", err)
	}
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
