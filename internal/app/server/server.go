package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"laborcontract/internal/domain/advice"
	"laborcontract/internal/domain/audit"
	"laborcontract/internal/domain/contract"
	"laborcontract/internal/domain/wage"
	"laborcontract/internal/platform/config"
	"laborcontract/internal/platform/crypto"
	"laborcontract/internal/platform/db"
	"laborcontract/internal/platform/metrics"
	"laborcontract/internal/transport/http/api"
	contracthandler "laborcontract/internal/transport/http/handlers/contracts"
	dashboardhandler "laborcontract/internal/transport/http/handlers/dashboard"
	wagehandler "laborcontract/internal/transport/http/handlers/wages"
	"laborcontract/internal/transport/http/middleware"
)

type App struct {
	Config    config.Config
	DB        *pgxpool.Pool
	Router    http.Handler
	Metrics   *metrics.Collector
	Contracts *contract.Service
	Audit     audit.Recorder

	store       contract.StoreAPI
	stopWatcher context.CancelFunc
}

// New wires the application for cfg. With STORE_DRIVER=memory no database
// is opened and state lives for the life of the process.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Metrics: metrics.New()}

	var idem middleware.IdempotencyBackend
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		app.store = contract.NewMemoryStore()
		app.Audit = audit.NewMemory()
		idem = middleware.NewMemoryIdempotencyStore()
		zap.L().Warn("using in-memory store; data is lost on restart")
	default:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		app.DB = pool
		if cfg.RunMigrations {
			if _, err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		sealer, err := crypto.New(cfg.DataEncryptionKey)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if !sealer.Configured() {
			zap.L().Warn("DATA_ENCRYPTION_KEY not set; signatures are stored unencrypted")
		}
		app.store = contract.NewStore(pool, sealer)
		app.Audit = audit.NewStore(pool)
		idem = middleware.NewIdempotencyStore(pool)
	}

	advisor, err := newAdvisor(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var wages wage.Schedule = wage.DefaultTable()
	if cfg.MinimumWageFile != "" {
		live, err := wage.NewLiveTable(cfg.MinimumWageFile)
		if err != nil {
			app.Close()
			return nil, err
		}
		watchCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
		app.stopWatcher = stop
		go func() {
			if err := live.Watch(watchCtx); err != nil {
				zap.L().Warn("minimum wage table will not be reloaded", zap.Error(err))
			}
		}()
		wages = live
	}

	app.Contracts = contract.NewService(app.store, wages, app.Audit)
	adviceSvc := advice.NewService(advisor, cfg.AdviceTimeout)
	app.Router = app.routes(wages, adviceSvc, idem)
	return app, nil
}

func newAdvisor(ctx context.Context, cfg config.Config) (advice.Advisor, error) {
	switch cfg.AdviceProvider {
	case config.AdviceProviderNone:
		return advice.Disabled{}, nil
	case config.AdviceProviderGemini:
		if cfg.AdviceAPIKey == "" {
			zap.L().Warn("ADVICE_API_KEY not set; contract advice disabled")
			return advice.Disabled{}, nil
		}
		return advice.NewGeminiAdvisor(ctx, cfg.AdviceAPIKey, cfg.AdviceModel)
	default:
		if cfg.AdviceAPIKey == "" {
			zap.L().Warn("ADVICE_API_KEY not set; contract advice disabled")
			return advice.Disabled{}, nil
		}
		return advice.NewGatewayAdvisor(advice.GatewayConfig{
			APIKey:  cfg.AdviceAPIKey,
			BaseURL: cfg.AdviceBaseURL,
			Model:   cfg.AdviceModel,
			Timeout: cfg.AdviceTimeout,
		}), nil
	}
}

func (a *App) routes(wages wage.Schedule, adviceSvc *advice.Service, idem middleware.IdempotencyBackend) http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.CostlyOperationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		wagehandler.NewHandler(wages).RegisterRoutes(r)
		contracthandler.NewHandler(a.Contracts, adviceSvc, a.Metrics, cfg.PublicBaseURL, cfg.DocumentFontPath).RegisterRoutes(r)
		dashboardhandler.NewHandler(a.Contracts, a.Metrics, idem).RegisterRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
	})
	return router
}

func (a *App) Close() {
	if a.stopWatcher != nil {
		a.stopWatcher()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      a.Config.AdviceTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("labor contract server listening", zap.String("addr", a.Config.Addr), zap.String("store", a.Config.StoreDriver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	zap.L().Info("shutting down server")
	return srv.Shutdown(shutdownCtx)
}
