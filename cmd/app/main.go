package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/edumart/server-go/internal/http/routes"
	"github.com/edumart/server-go/pkg/cache"
	"github.com/edumart/server-go/pkg/config"
	"github.com/edumart/server-go/pkg/database"
	"github.com/edumart/server-go/pkg/identity"
	"github.com/edumart/server-go/pkg/logger"
	"github.com/edumart/server-go/pkg/media"
	"github.com/edumart/server-go/pkg/metrics"
	"github.com/edumart/server-go/pkg/middleware"
	"github.com/edumart/server-go/pkg/payments"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("database close failed", slog.String("error", err.Error()))
		}
	}()

	// Response cache is optional; an empty REDIS_ADDR disables it.
	cacheClient, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Error("cache connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cacheClient.Close()

	idClient := identity.New(cfg.Clerk.SecretKey)

	mediaClient, err := media.New(cfg.Cloudinary.URL)
	if err != nil {
		appLogger.Error("media client initialization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var clerkVerifier *svix.Webhook
	if cfg.Clerk.WebhookSecret != "" {
		clerkVerifier, err = svix.NewWebhook(cfg.Clerk.WebhookSecret)
		if err != nil {
			appLogger.Error("clerk webhook verifier initialization failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var stripeClient *payments.StripeClient
	if cfg.Stripe.SecretKey != "" {
		stripeClient = payments.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	}

	var mpClient *payments.MercadoPagoClient
	if cfg.MercadoPago.AccessToken != "" {
		mpClient, err = payments.NewMercadoPagoClient(cfg.MercadoPago.AccessToken, cfg.MercadoPago.WebhookSecret)
		if err != nil {
			appLogger.Error("mercado pago client initialization failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var provider payments.Provider
	switch cfg.PaymentProvider {
	case config.ProviderStripe:
		if stripeClient == nil {
			log.Fatalf("payment provider is stripe but STRIPE_SECRET_KEY is not set")
		}
		provider = stripeClient
	case config.ProviderMercadoPago:
		if mpClient == nil {
			log.Fatalf("payment provider is mercadopago but MERCADOPAGO_ACCESS_TOKEN is not set")
		}
		provider = mpClient
	default:
		log.Fatalf("unknown payment provider %q", cfg.PaymentProvider)
	}

	router := gin.New()

	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(10 * 1024 * 1024)) // 10MB limit
	router.Use(metrics.Middleware())

	// Rate limiting (100 requests per minute per IP)
	rateLimiter := middleware.NewRateLimiter(100, time.Minute)
	router.Use(rateLimiter.Middleware())

	routes.Register(router, cfg, db, appLogger, idClient, mediaClient, cacheClient, provider, stripeClient, mpClient, clerkVerifier)

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("provider", provider.Name()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}
