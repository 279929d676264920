package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/gorm"

	"github.com/edumart/server-go/internal/features/course"
	"github.com/edumart/server-go/internal/features/educator"
	"github.com/edumart/server-go/internal/features/progress"
	"github.com/edumart/server-go/internal/features/purchase"
	"github.com/edumart/server-go/internal/features/user"
	"github.com/edumart/server-go/internal/features/webhook"
	"github.com/edumart/server-go/internal/middleware"
	"github.com/edumart/server-go/pkg/cache"
	"github.com/edumart/server-go/pkg/config"
	"github.com/edumart/server-go/pkg/health"
	"github.com/edumart/server-go/pkg/identity"
	"github.com/edumart/server-go/pkg/media"
	pkgmiddleware "github.com/edumart/server-go/pkg/middleware"
	"github.com/edumart/server-go/pkg/payments"
)

const catalogCacheTTL = 5 * time.Minute

// Register wires all feature routes onto the engine.
func Register(
	engine *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	logger *slog.Logger,
	idClient *identity.Client,
	mediaClient *media.Client,
	cacheClient *cache.Client,
	provider payments.Provider,
	stripeClient *payments.StripeClient,
	mpClient *payments.MercadoPagoClient,
	clerkVerifier *svix.Webhook,
) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, cacheClient, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.VersionInfo)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Webhook endpoints stay off the /api group: they authenticate with
	// payload signatures, not session tokens.
	webhookHandler := webhook.NewHandler(db, logger, stripeClient, mpClient, clerkVerifier)
	webhook.RegisterRoutes(engine, webhookHandler)

	api := engine.Group("/api")

	auth := []gin.HandlerFunc{middleware.AuthMiddleware(idClient, logger)}
	educatorOnly := append(auth, middleware.RequireEducator(idClient, logger))

	var catalogCache []gin.HandlerFunc
	if cacheClient.Enabled() {
		catalogCache = []gin.HandlerFunc{pkgmiddleware.ResponseCache(cacheClient, catalogCacheTTL)}
	}

	courseHandler := course.NewHandler(db, logger)
	course.RegisterRoutes(api, courseHandler, catalogCache)

	userHandler := user.NewHandler(db, logger)
	user.RegisterRoutes(api, userHandler, auth)

	purchaseHandler := purchase.NewHandler(db, logger, provider, cfg.Currency, cfg.ClientOrigin)
	purchase.RegisterRoutes(api, purchaseHandler, auth)

	progressHandler := progress.NewHandler(db, logger)
	progress.RegisterRoutes(api, progressHandler, auth)

	educatorHandler := educator.NewHandler(db, logger, idClient, mediaClient, cacheClient)
	educator.RegisterRoutes(api, educatorHandler, auth, educatorOnly)
}
