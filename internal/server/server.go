// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"panthers-signup/internal/api/handler"
	"panthers-signup/internal/backendclient"
	"panthers-signup/internal/config"
	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/listing"
	"panthers-signup/internal/domain/signup"
	"panthers-signup/internal/realtime"
	"panthers-signup/internal/web"
)

const shutdownTimeout = 10 * time.Second

// Server is the sign-up site.
type Server struct {
	cfg       *config.Config
	router    *chi.Mux
	redis     *redis.Client
	hub       *realtime.Hub
	signups   *handler.SignUpHandler
	dashboard *handler.DashboardHandler
	auth      *handler.AuthHandler
	ws        *handler.WebSocketHandler
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
	})
}

func New(cfg *config.Config) (*Server, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize dependencies
	redisClient := initRedis(cfg)
	validate := validator.New()
	pages, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	fields, err := signup.NewFieldValidator(validate, signup.AgeBounds{Min: cfg.Age.Min, Max: cfg.Age.Max})
	if err != nil {
		return nil, err
	}

	backend := backendclient.New(cfg.BackendURL, cfg.BackendTimeout)
	hub := realtime.NewHub()
	listings := listing.NewListingService(backend, redisClient, cfg.ListingCacheTTL, hub)

	classifier := signup.NewClassifier(signup.Phrases{
		Closed:     cfg.Classifier.Closed,
		Capacity:   cfg.Classifier.Capacity,
		Validation: cfg.Classifier.Validation,
	})
	client := signup.NewClient(backend, classifier, listings, cfg.Age.Min)
	signups := signup.NewService(
		signup.NewFormStore(redisClient, cfg.FormSessionTTL, cfg.SubmitLockTTL),
		client, fields, backend,
		signup.ServiceOptions{
			Slots: signup.Slots{
				Guard:   cfg.Capacity.Guard,
				Forward: cfg.Capacity.Forward,
				Center:  cfg.Capacity.Center,
			},
			Prefetch: cfg.CapacityPrefetch,
		},
	)
	sessions := auth.NewAuthService(backend, auth.NewSessionStore(redisClient), auth.NewValidator(validate), auth.Options{
		SessionTTL: cfg.SessionTTL,
		RetryDelay: cfg.LoginRetryDelay,
	})

	cookies := handler.Cookies{
		Secure:     cfg.SecureCookies,
		FormTTL:    cfg.FormSessionTTL,
		SessionTTL: cfg.SessionTTL,
	}

	s := &Server{
		cfg:       cfg,
		router:    r,
		redis:     redisClient,
		hub:       hub,
		signups:   handler.NewSignUpHandler(signups, pages, cookies, cfg.BackendTimeout),
		dashboard: handler.NewDashboardHandler(listings, sessions, pages, cookies),
		auth:      handler.NewAuthHandler(sessions, listings, pages, cookies),
		ws:        handler.NewWebSocketHandler(hub),
	}
	s.setupRoutes()
	return s, nil
}

// Start serves until ctx ends, then drains requests and closes websocket
// subscribers.
func (s *Server) Start(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		log.Printf("redis %s unreachable: %v", s.cfg.RedisURL, err)
	}
	defer s.redis.Close()

	srv := &http.Server{
		Addr:              s.cfg.ServerPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, s.hub.Run)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.signups.Form)
	s.router.Post("/signup", s.signups.Submit)
	s.router.Post("/validate", s.signups.ValidateField)
	s.router.Post("/reset", s.signups.Reset)
	s.router.Get("/api/capacity", s.signups.Capacity)

	s.router.Get("/signups", s.dashboard.SignUps)
	s.router.Get("/owner", s.dashboard.Owner)
	s.router.Get("/admin", s.dashboard.Admin)
	s.router.Get("/admin/signups/{id}", s.dashboard.Detail)

	s.router.Get("/login", s.auth.LoginForm)
	s.router.Post("/login", s.auth.Login)
	s.router.Post("/logout", s.auth.Logout)

	s.router.Get("/ws", s.ws.HandleConnection)
	s.router.Get("/healthz", handler.Health)
	s.router.Handle("/static/*", web.Static())
}

// serve runs srv alongside workers until ctx ends or any of them fails.
func serve(ctx context.Context, srv *http.Server, workers ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	for _, w := range workers {
		w := w
		g.Go(func() error { return w(ctx) })
	}
	return g.Wait()
}
