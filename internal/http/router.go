package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hrdesk/backend/internal/audit"
	"github.com/hrdesk/backend/internal/config"
	"github.com/hrdesk/backend/internal/http/handlers"
	"github.com/hrdesk/backend/internal/http/middleware"

	_ "github.com/hrdesk/backend/docs"
)

func Router(cfg config.Config, chat handlers.ChatService, auditor *audit.Auditor, verifier middleware.TokenVerifier, gatherer prometheus.Gatherer, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Correlation())
	r.Use(middleware.Authenticate(verifier, logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Audit(auditor))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.CorrelationIDHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.CorrelationIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Chat:           chat,
		Auditor:        auditor,
		Validator:      validator.New(),
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
	}

	r.GET("/healthz", h.Healthz)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.POST("/chat", h.ChatMessage)
		api.GET("/me", h.Me)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole("admin"))
	{
		admin.GET("/audit/:correlation_id", h.AuditTrail)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
