// internal/server/backend.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"panthers-signup/internal/api/rosterapi"
	"panthers-signup/internal/config"
	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/roster"
	"panthers-signup/internal/domain/signup"
	"panthers-signup/internal/repository"
)

// Backend is the reference roster service the sign-up site talks to.
type Backend struct {
	cfg    *config.BackendConfig
	router *chi.Mux
	db     *pgxpool.Pool
}

func initDB(ctx context.Context, cfg *config.BackendConfig) (*pgxpool.Pool, error) {
	pool, err := repository.NewPool(ctx, cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewBackend connects to Postgres, applies the schema, seeds position limits
// and the bootstrap admin, and builds the API router.
func NewBackend(ctx context.Context, cfg *config.BackendConfig) (*Backend, error) {
	db, err := initDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	fields, err := signup.NewFieldValidator(validate, signup.AgeBounds{Min: cfg.Age.Min, Max: cfg.Age.Max})
	if err != nil {
		db.Close()
		return nil, err
	}
	svc := roster.NewService(
		repository.NewSignUpRepository(db),
		repository.NewUserRepository(db),
		fields,
		auth.NewValidator(validate),
		roster.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
	)

	slots := signup.Slots{Guard: cfg.Capacity.Guard, Forward: cfg.Capacity.Forward, Center: cfg.Capacity.Center}
	if err := svc.SeedCapacity(ctx, slots); err != nil {
		db.Close()
		return nil, err
	}
	if err := svc.Bootstrap(ctx, cfg.BootstrapAdminUser, cfg.BootstrapAdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	rosterapi.NewHandler(svc).Routes(r)

	return &Backend{cfg: cfg, router: r, db: db}, nil
}

func (b *Backend) Start(ctx context.Context) error {
	defer b.db.Close()
	srv := &http.Server{
		Addr:              b.cfg.ServerPort,
		Handler:           b.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv)
}
