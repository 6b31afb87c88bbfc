package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/crmdesk/crm-system/internal/api"
	"github.com/crmdesk/crm-system/internal/core/domain"
	"github.com/crmdesk/crm-system/internal/core/ports"
	"github.com/crmdesk/crm-system/internal/infrastructure/config"
	mongodb "github.com/crmdesk/crm-system/internal/infrastructure/db/mongo"
	redisdb "github.com/crmdesk/crm-system/internal/infrastructure/db/redis"
	"github.com/crmdesk/crm-system/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New("crm-api", logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx := context.Background()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	invoiceRepo := mongodb.NewInvoiceRepository(db)

	indexCtx, cancelIndex := context.WithTimeout(ctx, 30*time.Second)
	defer cancelIndex()
	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		clientRepo.EnsureIndexes,
		invoiceRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := seedAdmin(ctx, userRepo, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("admin seed failed")
		}
		log.Info().Str("email", cfg.AdminEmail).Msg("admin account ensured")
	}

	e := api.NewRouter(db, rdb, api.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	}, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// seedAdmin creates the administrator account when it does not exist yet.
// Existing accounts are granted the admin role instead of being replaced.
func seedAdmin(ctx context.Context, users ports.UserRepository, email, password string) error {
	probe := domain.NewUser()
	probe.SetEmail(email)

	existing, err := users.FindByEmail(ctx, probe.Email)
	switch {
	case err == nil:
		if existing.HasRole(domain.RoleAdmin) {
			return nil
		}
		existing.AddRole(domain.RoleAdmin)
		return users.Update(ctx, existing)
	case errors.Is(err, domain.ErrUserNotFound):
	default:
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := domain.NewUser()
	admin.SetEmail(email)
	admin.SetFirstName("Admin")
	admin.SetLastName("Account")
	admin.PasswordHash = string(hash)
	admin.IsVerified = true
	admin.AddRole(domain.RoleAdmin)

	if err := admin.Validate(); err != nil {
		return err
	}
	_, err = users.Create(ctx, admin)
	return err
}
