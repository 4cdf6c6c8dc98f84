// Package stubapi assembles an in-memory implementation of the booking API
// that the staybook client can run against.
package stubapi

import (
	"fmt"
	"staybook/internal/stubapi/handler"
	"staybook/internal/stubapi/repository"
	"staybook/internal/stubapi/service"
	"staybook/pkg/app"
	"staybook/pkg/config"

	"github.com/google/uuid"
)

// NewApplication builds the stub server and seeds its administrator account.
// An empty JWT secret is replaced by a random one, so tokens do not survive a
// restart.
func NewApplication(cfg *config.Config) (*app.Application, *service.Service, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		cfg.Log.Warn("JWT_SECRET not set, using a random secret for this run")
	}

	svc := service.New(
		repository.NewMemoryStore(),
		service.NewAuthenticator(secret, cfg.TokenTTL),
		cfg.Log,
	)
	if err := svc.SeedAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, nil, fmt.Errorf("seed admin: %w", err)
	}
	cfg.Log.Info("Admin account ready", "email", cfg.AdminEmail)

	application := app.NewApplication(cfg,
		handler.NewHealthHandler(svc, cfg.Log),
		handler.NewAPIHandler(svc, cfg.Log),
	)
	return application, svc, nil
}
