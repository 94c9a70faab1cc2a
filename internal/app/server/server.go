package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shifthub/internal/domain/budget"
	"shifthub/internal/domain/directory"
	"shifthub/internal/domain/notifications"
	"shifthub/internal/domain/overtime"
	"shifthub/internal/domain/qrcode"
	"shifthub/internal/domain/shift"
	"shifthub/internal/platform/clock"
	"shifthub/internal/platform/config"
	"shifthub/internal/platform/db"
	"shifthub/internal/platform/email"
	"shifthub/internal/platform/jobs"
	"shifthub/internal/platform/metrics"
	"shifthub/internal/transport/http/api"
	budgethandler "shifthub/internal/transport/http/handlers/budget"
	directoryhandler "shifthub/internal/transport/http/handlers/directory"
	notificationshandler "shifthub/internal/transport/http/handlers/notifications"
	overtimehandler "shifthub/internal/transport/http/handlers/overtime"
	qrhandler "shifthub/internal/transport/http/handlers/qr"
	shifthandler "shifthub/internal/transport/http/handlers/shifts"
	"shifthub/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service
}

// New wires the whole application: pool, migrations, stores, services
// and the HTTP router. The caller owns the pool and shuts it down.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	clk := clock.System()
	collector := metrics.New()

	notifyStore := notifications.NewStore(pool)
	var mailer notifications.Mailer
	if cfg.EmailEnabled {
		mailer = email.New(cfg)
	}
	notifySvc := notifications.New(notifyStore, mailer, cfg.EmailFrom)

	directoryStore := directory.NewStore(pool)
	shiftStore := shift.NewStore(pool)
	shiftSvc := shift.NewService(shiftStore, notifySvc)

	qrStore := qrcode.NewStore(pool)
	qrSvc := qrcode.NewService(qrStore, shiftSvc, notifySvc, cfg.AdmissionValidity, cfg.ProofValidity)

	overtimeStore := overtime.NewStore(pool)
	overtimeSvc := overtime.NewService(overtimeStore, shiftStore, directoryStore, notifySvc, cfg.OvertimeQRValidity, cfg.ProofValidity)

	budgetStore := budget.NewStore(pool)
	budgetSvc := budget.NewService(budgetStore, notifySvc)

	jobsSvc := jobs.New(pool, cfg, clk, collector, qrSvc, shiftSvc, overtimeSvc, budgetSvc, directoryStore)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		qrHandler := qrhandler.NewHandler(qrSvc, clk)
		qrHandler.RegisterRoutes(r)

		overtimeHandler := overtimehandler.NewHandler(overtimeSvc, qrSvc, clk)
		overtimeHandler.RegisterRoutes(r)

		shiftHandler := shifthandler.NewHandler(shiftSvc, clk)
		shiftHandler.RegisterRoutes(r)

		budgetHandler := budgethandler.NewHandler(budgetSvc, jobsSvc)
		budgetHandler.RegisterRoutes(r)

		directoryHandler := directoryhandler.NewHandler(directoryStore, jobsSvc)
		directoryHandler.RegisterRoutes(r)

		notificationsHandler := notificationshandler.NewHandler(notifySvc)
		notificationsHandler.RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router, Jobs: jobsSvc}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	app.Jobs.Start(ctx)

	log.Printf("shifthub server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
