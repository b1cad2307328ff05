package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/digcfo/stats-service/internal/config"
	"github.com/digcfo/stats-service/internal/http/middleware"
	"github.com/digcfo/stats-service/internal/logger"
	"github.com/digcfo/stats-service/internal/metrics"
	"github.com/digcfo/stats-service/internal/repository"
	"github.com/digcfo/stats-service/internal/stats"
	"github.com/digcfo/stats-service/internal/util"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, registrationDB, financeDataDB *sqlx.DB, rds *redis.Client) *Server {
	// repos
	registrationRepo := repository.NewRegistrationRepository(registrationDB)
	financeDataRepo := repository.NewFinanceDataRepository(financeDataDB)

	// service
	statsSvc := stats.NewService(registrationRepo, financeDataRepo, logger.Log)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(
		echoMid.Recover(),
		echoMid.Logger(),
		echoMid.RequestIDWithConfig(echoMid.RequestIDConfig{Generator: util.NewRequestID}),
	)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	g := e.Group("/stats", rlMW)
	g.GET("", getSummaryHandler(statsSvc))
	g.GET("/customers", listCustomersHandler(statsSvc))
	g.GET("/customers/lookup", lookupOrganizationHandler(statsSvc))
	g.GET("/customers/deleted-flags", deletedFlagsHandler(statsSvc))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
