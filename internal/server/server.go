// Package server wires the HTTP API: invoice totals and PDF rendering,
// shipping estimates, training-data uploads, and price recommendations.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labsupply/smartpricing/internal/clock"
	"github.com/labsupply/smartpricing/internal/config"
	"github.com/labsupply/smartpricing/internal/importer"
	importerdomain "github.com/labsupply/smartpricing/internal/importer/domain"
	"github.com/labsupply/smartpricing/internal/invoice"
	invoicedomain "github.com/labsupply/smartpricing/internal/invoice/domain"
	"github.com/labsupply/smartpricing/internal/migration"
	"github.com/labsupply/smartpricing/internal/observability"
	obsmiddleware "github.com/labsupply/smartpricing/internal/observability/logger"
	obstracing "github.com/labsupply/smartpricing/internal/observability/tracing"
	"github.com/labsupply/smartpricing/internal/providers/competitor"
	"github.com/labsupply/smartpricing/internal/providers/pdf"
	"github.com/labsupply/smartpricing/internal/recommendation"
	recdomain "github.com/labsupply/smartpricing/internal/recommendation/domain"
	"github.com/labsupply/smartpricing/internal/scheduler"
	"github.com/labsupply/smartpricing/internal/shipping"
	shippingdomain "github.com/labsupply/smartpricing/internal/shipping/domain"
	"github.com/labsupply/smartpricing/pkg/db"
	"github.com/labsupply/smartpricing/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	telemetry.Module,
	clock.Module,
	db.Module,
	migration.Module,
	pdf.Module,
	competitor.Module,
	invoice.Module,
	shipping.Module,
	importer.Module,
	recommendation.Module,
	scheduler.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, metrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(telemetry.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, metrics *telemetry.Metrics) *gin.Engine {
	return NewEngine(obsCfg, metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine            *gin.Engine
	cfg               config.Config
	db                *gorm.DB
	invoiceSvc        invoicedomain.Service
	shippingSvc       shippingdomain.Service
	importerSvc       importerdomain.Service
	recommendationSvc recdomain.Service
	metrics           *telemetry.Metrics
}

type ServerParams struct {
	fx.In

	Gin               *gin.Engine
	Cfg               config.Config
	DB                *gorm.DB
	InvoiceSvc        invoicedomain.Service
	ShippingSvc       shippingdomain.Service
	ImporterSvc       importerdomain.Service
	RecommendationSvc recdomain.Service
	Metrics           *telemetry.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:            p.Gin,
		cfg:               p.Cfg,
		db:                p.DB,
		invoiceSvc:        p.InvoiceSvc,
		shippingSvc:       p.ShippingSvc,
		importerSvc:       p.ImporterSvc,
		recommendationSvc: p.RecommendationSvc,
		metrics:           p.Metrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/shipping/estimate", s.EstimateShipping)

	api.POST("/invoices/totals", s.ComputeInvoiceTotals)
	api.POST("/invoices/pdf", s.RenderInvoicePDF)

	api.GET("/pricing/recommendations", s.ListRecommendations)
	api.POST("/pricing/recommendations", s.TrackProduct)
	api.POST("/pricing/invoice", s.PriceInvoice)
	api.GET("/pricing/competitors", s.LookupCompetitors)

	api.POST("/pricing/upload", s.UploadTrainingData)
	api.POST("/pricing/retrain", s.StartRetrain)
	api.GET("/pricing/template", s.DownloadTemplate)
}
