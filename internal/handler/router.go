package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/middleware"
	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/service"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/config"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/logger"
	corsmiddleware "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/middleware/cors"
	reqidmiddleware "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/middleware/requestid"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Tokens   middleware.TokenValidator
	Entities *EntityHandler
	Probes   *MetricsHandler
}

// NewRouter builds the gin engine with middlewares and every route registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", deps.Probes.Health)
	r.GET("/ready", deps.Probes.Ready)
	r.GET("/metrics", deps.Probes.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix, middleware.JWT(deps.Tokens), middleware.WithResponseMeta())
	api.GET("/metrics/snapshot", middleware.RequireUserTypes(models.UserTypeAdmin), deps.Probes.Snapshot)

	h := deps.Entities
	staff := middleware.RequireStaff()
	entities := api.Group("/entities")
	entities.GET("", h.Kinds)
	entities.POST("/:kind/validate", h.Validate)
	entities.POST("/:kind/normalize", h.Normalize)
	entities.GET("/:kind", h.List)
	entities.GET("/:kind/export", staff, h.Export)
	entities.POST("/:kind", staff, h.Create)
	entities.GET("/:kind/:id", h.Get)
	entities.PUT("/:kind/:id", staff, h.Update)
	entities.DELETE("/:kind/:id", staff, middleware.RequireAdminFor(IsHardDelete), h.Delete)
	entities.POST("/:kind/:id/restore", staff, h.Restore)

	return r
}
