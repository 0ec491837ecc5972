package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/book-catalog/internal/config"
	"github.com/snnyvrz/book-catalog/internal/docs"
	"github.com/snnyvrz/book-catalog/internal/handler"
	"github.com/snnyvrz/book-catalog/internal/metrics"
	"github.com/snnyvrz/book-catalog/internal/middleware"
	"github.com/snnyvrz/book-catalog/internal/repository"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const APIBasePath = "/api/v1"

type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     repository.BookStore
	Metrics   *metrics.Metrics
	StartTime time.Time
	Version   string
	// Now overrides the clock used for export filenames. Optional.
	Now func() time.Time
}

// NewRouter wires middleware, operational endpoints and the books API.
func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config

	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}

	e := gin.New()

	if err := e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	}); err != nil {
		return nil, err
	}

	e.Use(
		middleware.RequestID(log),
		middleware.Logger(log),
		middleware.Recovery(log),
		m.Middleware(),
		middleware.CORS(cfg.CORS.AllowOrigin),
	)
	if cfg.RateLimitEnabled() {
		e.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}

	healthHandler := handler.NewHealthHandler(d.Store, cfg.DB.Driver, d.StartTime, d.Version)
	healthHandler.RegisterRoutes(e)

	e.GET("/metrics", gin.WrapH(m.Handler()))

	if !cfg.AppEnv.IsProduction() {
		docs.SwaggerInfo.BasePath = APIBasePath
		e.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	opts := []handler.Option{
		handler.WithDuplicateCheck(cfg.DuplicateCheckEnabled()),
		handler.WithLogger(log),
		handler.WithMetrics(m),
	}
	if d.Now != nil {
		opts = append(opts, handler.WithClock(d.Now))
	}

	api := e.Group(APIBasePath)
	{
		bookHandler := handler.NewBookHandler(d.Store, cfg.AppEnv, opts...)
		bookHandler.RegisterRoutes(api)
	}

	return e, nil
}
