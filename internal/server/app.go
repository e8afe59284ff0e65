// Package server wires the gophfit backend together: storage, domain
// services, the gRPC API, the HTTP endpoints and housekeeping jobs.
package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/server/config"
	gs "github.com/dmitrijs2005/gophfit/internal/server/grpc"
	"github.com/dmitrijs2005/gophfit/internal/server/httpapi"
	"github.com/dmitrijs2005/gophfit/internal/server/jobs"
	"github.com/dmitrijs2005/gophfit/internal/server/metrics"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophfit/internal/server/services"
)

// Seams for tests.
var (
	openDB         = sql.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	grpcServer runner
	httpServer runner
	scheduler  runner
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	users := services.NewUserService(db, rm, cfg)
	fitness := services.NewFitnessService(db, rm)
	payments := services.NewPaymentService(fitness, collector, logger, cfg)
	photos := services.NewPhotoService(cfg)

	limiter := gs.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)

	grpcServer := gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, gs.Services{
		Users:    users,
		Fitness:  fitness,
		Payments: payments,
		Photos:   photos,
	}, cfg.SecretKey, gs.WithInterceptors(collector.UnaryInterceptor), gs.WithRateLimiter(limiter))

	router := httpapi.NewRouter(&httpapi.RouterDeps{
		Logger:   logger,
		Payments: payments,
		Metrics:  metrics.Handler(reg),
	})

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		grpcServer: grpcServer,
		httpServer: httpapi.NewServer(cfg.EndpointAddrHTTP, router, logger),
		scheduler:  jobs.NewScheduler(cfg.TokenCleanupSpec, users, collector, limiter, logger),
	}, nil
}

// Run serves until ctx is cancelled or one of the servers fails, then
// stops the rest and closes the database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range []runner{app.grpcServer, app.httpServer, app.scheduler} {
		g.Go(func() error { return r.Run(gctx) })
	}

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "Closing database", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
