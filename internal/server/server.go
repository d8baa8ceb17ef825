package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/royalty/internal/catalog"
	"github.com/smallbiznis/royalty/internal/charge"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/smallbiznis/royalty/internal/config"
	"github.com/smallbiznis/royalty/internal/lock"
	"github.com/smallbiznis/royalty/internal/observability"
	obsmiddleware "github.com/smallbiznis/royalty/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/royalty/internal/observability/metrics"
	obstracing "github.com/smallbiznis/royalty/internal/observability/tracing"
	"github.com/smallbiznis/royalty/internal/payoutmethod"
	"github.com/smallbiznis/royalty/internal/statement"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	lock.Module,
	payoutmethod.Module,
	catalog.Module,
	charge.Module,
	statement.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	log       *zap.Logger
	chargeSvc chargedomain.Service
	renderer  statement.Renderer
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	Log       *zap.Logger
	ChargeSvc chargedomain.Service
	Renderer  statement.Renderer
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		log:       p.Log.Named("http"),
		chargeSvc: p.ChargeSvc,
		renderer:  p.Renderer,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Events --------
	api.POST("/events/sales", s.RecordSale)
	api.POST("/events/plays", s.RecordPlayCount)

	// -------- Charges --------
	api.GET("/charges", s.ListCharges)
	api.GET("/charges/:id", s.GetCharge)

	// -------- Owners --------
	owners := api.Group("/owners/:owner_id", OwnerContext())
	owners.GET("/charges/monthly", s.MonthlySummary)
	owners.GET("/statements/:year/:month", s.GetStatement)
	owners.POST("/settlements", s.SettleOwner)

	// -------- Settlements --------
	api.POST("/settlements", s.SettleSpecific)
	api.POST("/settlements/run", s.SettleAllPending)
}
