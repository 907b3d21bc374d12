package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/emission-report/internal/emissions/config"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

type RouterConfig struct {
	ReportHandler *ReportHandler
	RecordHandler *RecordHandler

	ServiceName     string
	CORSOrigins     []string
	MaxRequestBytes int64
}

func NewRouter(log *logger.Logger, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(recoverer(log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(traceContext())
	r.Use(requestLogger(log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(corsMiddleware(cfg.CORSOrigins))
	}

	r.GET("/healthcheck", healthCheck)

	api := r.Group("/api/emissions")
	if cfg.ReportHandler != nil {
		api.GET("/material", cfg.ReportHandler.ByMaterialNo)
		api.GET("/country", cfg.ReportHandler.ByCountryCode)
		api.GET("/category", cfg.ReportHandler.ByCategoryID)
		api.GET("/range", cfg.ReportHandler.ByRange)
		api.GET("/outliers", cfg.ReportHandler.Outliers)
		api.GET("/summary", cfg.ReportHandler.Summary)
	}
	if cfg.RecordHandler != nil {
		writes := api.Group("", maxBody(cfg.MaxRequestBytes))
		writes.POST("", cfg.RecordHandler.Create)
		writes.PUT("/material", cfg.RecordHandler.Update)
	}

	return r
}

func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
	}
}
