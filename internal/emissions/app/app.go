package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/emission-report/internal/emissions/config"
	"github.com/yungbote/emission-report/internal/emissions/httpapi"
	"github.com/yungbote/emission-report/internal/emissions/report"
	"github.com/yungbote/emission-report/internal/emissions/upstream"
	"github.com/yungbote/emission-report/internal/emissions/upstream/httpclient"
	"github.com/yungbote/emission-report/internal/observability"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

type App struct {
	Log     *logger.Logger
	Config  *config.Config
	Reports *report.Service

	server        *http.Server
	traceShutdown observability.ShutdownFunc
}

// New wires the service from configuration on disk and in the environment.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	traceShutdown, err := observability.InitTracing(context.Background(), log, cfg.Env, cfg.Version, cfg.Tracing)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	client, err := httpclient.New(cfg.Upstream, log)
	if err != nil {
		_ = traceShutdown(context.Background())
		log.Sync()
		return nil, fmt.Errorf("init upstream client: %w", err)
	}

	return NewWithClient(cfg, log, client, traceShutdown), nil
}

// NewWithClient assembles the app around an existing upstream client.
func NewWithClient(cfg *config.Config, log *logger.Logger, client upstream.Client, traceShutdown observability.ShutdownFunc) *App {
	reports := report.NewService(log, client, report.Options{
		ExportDir:       cfg.Export.Dir,
		WriteOnOutliers: cfg.Export.WriteOnOutliers,
	})

	serviceName := ""
	if cfg.Tracing.Enabled {
		serviceName = cfg.Tracing.ServiceName
	}
	router := httpapi.NewRouter(log, httpapi.RouterConfig{
		ReportHandler:   httpapi.NewReportHandler(log, reports),
		RecordHandler:   httpapi.NewRecordHandler(log, client),
		ServiceName:     serviceName,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
	})

	return &App{
		Log:           log,
		Config:        cfg,
		Reports:       reports,
		server:        httpapi.NewServer(cfg, router),
		traceShutdown: traceShutdown,
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("http server listening", "addr", a.server.Addr, "upstream", a.Config.Upstream.BaseURL)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout.Duration)
		defer cancel()
		a.Log.Info("http server shutting down")
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.traceShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout.Duration)
		defer cancel()
		if err := a.traceShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
