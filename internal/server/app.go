// Package server assembles the feedback portal backend: database, services,
// the REST API and the gRPC health endpoint, with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
	"github.com/dmitrijs2005/feedbackportal/internal/server/config"
	"github.com/dmitrijs2005/feedbackportal/internal/server/httpapi"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/feedbackportal/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/feedbackportal/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	repos  repomanager.RepositoryManager
	cache  *ristretto.Cache[string, *models.User]
	http   *http.Server
	health *gs.HealthServer
}

func NewApp(c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	cache, err := httpapi.NewUserCache()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	fb := services.NewFeedbackService(db, rm)
	svc := httpapi.Services{
		Users:      services.NewUserService(db, rm, c),
		Teams:      services.NewTeamService(db, rm),
		Feedback:   fb,
		Dashboards: services.NewDashboardService(db, rm, fb),
		Requests:   services.NewRequestService(db, rm),
		Tags:       services.NewTagService(db, rm),
		Exports:    services.NewExportService(fb, rm, c, logger),
	}

	router := httpapi.NewRouter(svc, httpapi.Options{
		Logger:             logger,
		Cache:              cache,
		CacheTTL:           c.TokenCacheTTL,
		Metrics:            httpapi.NewMetrics(),
		CORSOrigins:        c.CORSOrigins,
		MaxBodyBytes:       c.MaxBodyBytes,
		LoginRatePerSecond: c.LoginRatePerSecond,
		LoginBurst:         c.LoginBurst,
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		repos:  rm,
		cache:  cache,
		http: &http.Server{
			Addr:              c.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: gs.NewHealthServer(c.HealthAddr, logger, db, c.DBPingInterval),
	}, nil
}

// Run migrates the schema and serves until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {

	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(gctx, "Starting HTTP server", "address", app.config.HTTPAddr)
		if err := app.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return app.health.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		app.health.SetNotServing()
		app.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		return app.http.Shutdown(sctx)
	})

	return g.Wait()
}

func (app *App) close() {
	app.cache.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
