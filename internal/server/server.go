// Package server exposes the HTTP API. Handlers bind requests, delegate to
// domain services and translate domain errors to HTTP statuses.
package server

import (
	"context"
	"errors"
	"net/http"

	apikeyservice "github.com/X-CodesTech/wassel-api/internal/apikey/service"
	attachmentdomain "github.com/X-CodesTech/wassel-api/internal/attachment/domain"
	auditservice "github.com/X-CodesTech/wassel-api/internal/audit/service"
	"github.com/X-CodesTech/wassel-api/internal/config"
	locationdomain "github.com/X-CodesTech/wassel-api/internal/location/domain"
	"github.com/X-CodesTech/wassel-api/internal/observability/logger"
	"github.com/X-CodesTech/wassel-api/internal/observability/metrics"
	orderdomain "github.com/X-CodesTech/wassel-api/internal/order/domain"
	pricelistdomain "github.com/X-CodesTech/wassel-api/internal/pricelist/domain"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
	vendorcostdomain "github.com/X-CodesTech/wassel-api/internal/vendorcost/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HeaderOrg is rejected on API-key authenticated routes: organization
// identity comes from the key, never from the caller.
const HeaderOrg = "X-Org-Id"

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterAPIRoutes() }),
	fx.Invoke(RunHTTP),
)

type ServerParam struct {
	fx.In

	Cfg *config.Config
	DB  *gorm.DB
	Log *zap.Logger

	SubActivitySvc subactivitydomain.Service
	LocationSvc    locationdomain.Service
	PriceListSvc   pricelistdomain.Service
	OrderSvc       orderdomain.Service
	AttachmentSvc  attachmentdomain.Service
	VendorCostSvc  vendorcostdomain.Service
	APIKeySvc      apikeyservice.Service
	AuditSvc       auditservice.Service

	Engine *gin.Engine
}

type Server struct {
	cfg    *config.Config
	db     *gorm.DB
	log    *zap.Logger
	engine *gin.Engine

	subActivitySvc subactivitydomain.Service
	locationSvc    locationdomain.Service
	priceListSvc   pricelistdomain.Service
	orderSvc       orderdomain.Service
	attachmentSvc  attachmentdomain.Service
	vendorCostSvc  vendorcostdomain.Service
	apiKeySvc      apikeyservice.Service
	auditSvc       auditservice.Service

	limiter *rateLimiter
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:            p.Cfg,
		db:             p.DB,
		log:            p.Log.Named("server"),
		engine:         p.Engine,
		subActivitySvc: p.SubActivitySvc,
		locationSvc:    p.LocationSvc,
		priceListSvc:   p.PriceListSvc,
		orderSvc:       p.OrderSvc,
		attachmentSvc:  p.AttachmentSvc,
		vendorCostSvc:  p.VendorCostSvc,
		apiKeySvc:      p.APIKeySvc,
		auditSvc:       p.AuditSvc,
		limiter:        newRateLimiter(p.Cfg.RateLimit.Limit, p.Cfg.RateLimit.Window),
	}
}

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(cfg *config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(httpMetrics))
	return engine
}

// RegisterAPIRoutes mounts every route. All /api routes require an API key;
// mutations additionally pass the rate limiter.
func (s *Server) RegisterAPIRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.Use(s.APIKeyRequired())

	limited := api.Group("")
	limited.Use(s.RateLimited())

	api.GET("/sub-activities", s.ListSubActivities)
	api.GET("/sub-activities/:id", s.GetSubActivity)
	limited.POST("/sub-activities", s.CreateSubActivity)
	limited.PATCH("/sub-activities/:id", s.UpdateSubActivity)
	limited.POST("/sub-activities/:id/archive", s.ArchiveSubActivity)

	api.GET("/locations", s.ListLocations)
	api.GET("/locations/:id", s.GetLocation)

	api.GET("/price-lists", s.ListPriceLists)
	api.GET("/price-lists/:id", s.GetPriceList)
	limited.POST("/price-lists", s.CreatePriceList)
	limited.POST("/price-lists/:id/lines", s.AddPriceLine)
	limited.PATCH("/price-lists/:id/lines/:lineId", s.UpdatePriceLine)
	limited.DELETE("/price-lists/:id/lines/:lineId", s.DeletePriceLine)

	api.GET("/vendor-costs", s.GetVendorCosts)

	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	limited.POST("/orders", s.CreateOrder)
	limited.PATCH("/orders/:id", s.UpdateOrder)
	limited.POST("/orders/:id/transition", s.TransitionOrder)

	api.GET("/orders/:id/attachments", s.ListOrderAttachments)
	limited.POST("/orders/:id/attachments", s.RequestAttachmentUpload)
	limited.POST("/attachments/:id/confirm", s.ConfirmAttachment)
	api.GET("/attachments/:id/download", s.DownloadAttachment)
	limited.DELETE("/attachments/:id", s.DeleteAttachment)

	api.GET("/api-keys", s.ListAPIKeys)
	limited.POST("/api-keys", s.IssueAPIKey)
	limited.DELETE("/api-keys/:id", s.RevokeAPIKey)

	api.GET("/audit-logs", s.ListAuditLogs)

	if !s.cfg.IsProduction() {
		limited.POST("/test/cleanup", s.TestCleanup)
	}
}

// RateLimited applies the fixed-window limiter keyed by authenticated
// API key, falling back to client IP.
func (s *Server) RateLimited() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(contextAPIKeyIDKey)
		if key == "" {
			key = c.ClientIP()
		}
		if !s.limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "rate_limited",
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
