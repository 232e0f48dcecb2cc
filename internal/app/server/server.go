package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/reports"
	"hrportal/internal/platform/config"
	cryptoutil "hrportal/internal/platform/crypto"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/storage"
	apihandler "hrportal/internal/transport/http/handlers/api"
	attendancehandler "hrportal/internal/transport/http/handlers/attendance"
	audithandler "hrportal/internal/transport/http/handlers/audit"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	corehandler "hrportal/internal/transport/http/handlers/core"
	reportshandler "hrportal/internal/transport/http/handlers/reports"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/web"
	"hrportal/migrations"
)

const (
	FeatureClient        = web.FeatureClient
	FeatureEmployeeInput = web.FeatureEmployeeInput
	FeatureAdmin         = web.FeatureAdmin
)

var knownFeatures = []string{FeatureClient, FeatureEmployeeInput, FeatureAdmin}

// App is the application context: configuration, the pool and the router
// built from them. It is created once at startup and passed explicitly.
type App struct {
	Config   config.Config
	DB       *pgxpool.Pool
	Router   http.Handler
	Features map[string]bool
	Metrics  *metrics.Collector
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app := &App{
		Config:   cfg,
		DB:       pool,
		Features: ResolveFeatures(cfg.Features),
		Metrics:  metrics.New(),
	}
	router, err := app.routes(loc)
	if err != nil {
		pool.Close()
		return nil, err
	}
	app.Router = router
	return app, nil
}

func (a *App) Close() {
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
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("hr portal listening", "addr", a.Config.Addr, "env", a.Config.Environment)
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

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ResolveFeatures turns the configured feature names into a lookup table.
// Unknown names are logged once and ignored.
func ResolveFeatures(names []string) map[string]bool {
	known := map[string]bool{}
	for _, name := range knownFeatures {
		known[name] = true
	}
	out := map[string]bool{}
	var unknown []string
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
			continue
		}
		out[name] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		slog.Warn("ignoring unknown features", "features", unknown, "known", knownFeatures)
	}
	return out
}

func (a *App) routes(loc *time.Location) (http.Handler, error) {
	cfg := a.Config
	collector := a.Metrics

	sealer, err := cryptoutil.NewSealer(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("data encryption key: %w", err)
	}
	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	rd, err := web.NewRenderer(loc, a.Features)
	if err != nil {
		return nil, err
	}
	loginLimit, err := middleware.LoginRateLimit(cfg.LoginRateLimit, rd)
	if err != nil {
		return nil, fmt.Errorf("login rate limit %q: %w", cfg.LoginRateLimit, err)
	}

	authSvc := auth.NewService(auth.NewStore(a.DB), cfg.SessionSecret, cfg.SessionTTL)
	registry := core.NewService(core.NewStore(a.DB, sealer), core.Options{
		EmployeePassword: cfg.DefaultEmployeePassword,
		ClientPassword:   cfg.DefaultClientPassword,
		Now:              func() time.Time { return time.Now().In(loc) },
	})
	attendanceSvc := attendance.NewService(attendance.NewStore(a.DB), loc)
	attendanceSvc.OnClock(collector.RecordClock)
	reportsSvc := reports.NewService(registry, attendanceSvc)
	auditSvc := audit.New(a.DB)

	adminTools := a.Features[FeatureAdmin]
	var exposed *metrics.Collector
	if adminTools && cfg.MetricsEnabled {
		exposed = collector
	}

	authHandler := authhandler.NewHandler(authSvc, auditSvc, rd, cfg.CookieSecure, loginLimit)
	coreHandler := corehandler.NewHandler(registry, attendanceSvc, files, auditSvc, rd)
	attendanceHandler := attendancehandler.NewHandler(attendanceSvc, registry, files, auditSvc, rd)
	reportsHandler := reportshandler.NewHandler(reportsSvc, authSvc, exposed, rd)
	auditHandler := audithandler.NewHandler(auditSvc, rd)
	apiHandler := apihandler.NewHandler(attendanceSvc, registry, auditSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer(rd))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxUploadBytes+1<<20, rd))
	router.Use(middleware.Session(authSvc, cfg.CookieSecure, rd))
	router.NotFound(rd.NotFound)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("/static/*", web.Static("/static"))
	router.With(middleware.RequireRoles(auth.Roles(auth.RoleHR), collector)).
		Handle("/uploads/documents/*", files.Handler("/uploads", storage.KindDocuments))
	router.With(middleware.RequireRoles(auth.Roles(auth.AllRoles...), collector)).
		Handle("/uploads/*", files.Handler("/uploads", storage.KindPhotos, storage.KindActivities))

	authHandler.RegisterRoutes(router)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRoles(auth.Roles(auth.RoleAdmin), collector))
		reportsHandler.RegisterAdminRoutes(r)
		if adminTools {
			authHandler.RegisterAdminRoutes(r)
			auditHandler.RegisterRoutes(r)
		}
	})

	router.Route("/hr", func(r chi.Router) {
		r.Use(middleware.RequireRoles(auth.Roles(auth.RoleAdmin, auth.RoleHR), collector))
		reportsHandler.RegisterHRRoutes(r)
		coreHandler.RegisterRoutes(r)
		attendanceHandler.RegisterHRRoutes(r)
		if a.Features[FeatureEmployeeInput] {
			coreHandler.RegisterInputRoutes(r)
		}
	})

	router.Route("/employee", func(r chi.Router) {
		r.Use(middleware.RequireRoles(auth.Roles(auth.RoleEmployee), collector))
		attendanceHandler.RegisterEmployeeRoutes(r)
	})

	if a.Features[FeatureClient] {
		router.Route("/client", func(r chi.Router) {
			r.Use(middleware.RequireRoles(auth.Roles(auth.RoleClient), collector))
			reportsHandler.RegisterClientRoutes(r)
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireRolesJSON(auth.Roles(auth.RoleEmployee), collector))
		apiHandler.RegisterRoutes(r)
	})

	return router, nil
}
