package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hireloop/marketplace/api"
	"github.com/hireloop/marketplace/cache"
	"github.com/hireloop/marketplace/config"
	"github.com/hireloop/marketplace/db"
	"github.com/hireloop/marketplace/middleware"
	"github.com/hireloop/marketplace/providers"
	"github.com/hireloop/marketplace/security"
	"github.com/hireloop/marketplace/services"
	"github.com/hireloop/marketplace/stores"
	"github.com/joho/godotenv"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func printBanner() {
	fmt.Printf("%s%s", colorCyan, colorBold)
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                                                              ║")
	fmt.Println("║  Hireloop Booking Ledger                                     ║")
	fmt.Println("║                                                              ║")
	fmt.Println("║  Bookings, earnings and payout reconciliation                ║")
	fmt.Println("║                                                              ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("%s", colorReset)
}

func printStep(step, message string) {
	fmt.Printf("%s[%s]%s %s%s%s\n", colorBlue, step, colorReset, colorBold, message, colorReset)
}

func printSuccess(message string) {
	fmt.Printf("%s✓%s %s\n", colorGreen, colorReset, message)
}

func printWarning(message string) {
	fmt.Printf("%s⚠%s %s\n", colorYellow, colorReset, message)
}

func printError(message string) {
	fmt.Printf("%s✗%s %s\n", colorRed, colorReset, message)
}

func printInfo(message string) {
	fmt.Printf("%sℹ%s %s\n", colorCyan, colorReset, message)
}

func main() {
	printBanner()
	fmt.Println()

	_ = godotenv.Load()

	printStep("1/8", "Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError(fmt.Sprintf("Configuration validation failed: %v", err))
		os.Exit(1)
	}
	printSuccess("Configuration loaded and validated")

	printStep("2/8", "Connecting to database...")
	database, err := db.Connect(cfg)
	if err != nil {
		printError(fmt.Sprintf("Failed to connect to database: %v", err))
		os.Exit(1)
	}
	defer db.Close(database)
	printSuccess(fmt.Sprintf("Connected to PostgreSQL at %s:%d", cfg.Database.Host, cfg.Database.Port))

	printStep("3/8", "Running migrations...")
	if err := db.Migrate(database); err != nil {
		printError(fmt.Sprintf("Migration failed: %v", err))
		os.Exit(1)
	}
	printSuccess("Schema is up to date")

	printStep("4/8", "Connecting to Redis...")
	var kv cache.Store
	redisCache, err := cache.CreateRedisCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	})
	if err != nil {
		printWarning(fmt.Sprintf("Failed to connect to Redis: %v (falling back to in-process store)", err))
		memory := cache.CreateMemoryStore()
		defer memory.Close()
		kv = memory
	} else {
		defer redisCache.Close()
		kv = redisCache
		printSuccess(fmt.Sprintf("Connected to Redis at %s:%d", cfg.Redis.Host, cfg.Redis.Port))
	}

	printStep("5/8", "Initializing payment processor...")
	stripeProvider := providers.NewStripeProvider(cfg.Stripe.Secret, cfg.Stripe.WebhookSecret)
	printSuccess("Stripe processor ready")

	printStep("6/8", "Initializing repositories...")
	bookingRepo := stores.CreateBookingRepository(database)
	earningRepo := stores.CreateEarningRepository(database)
	refundRepo := stores.CreateRefundRepository(database)
	payoutRepo := stores.CreatePayoutRepository(database)
	planRepo := stores.CreatePlanRepository(database)
	providerRepo := stores.CreateProviderRepository(database)
	idempotencyStore := stores.CreateIdempotencyStore(kv)
	printSuccess("Repositories initialized")

	printStep("7/8", "Initializing services...")
	var rateLimiter *security.RateLimiter
	if cfg.Security.RateLimitEnabled {
		rateLimiter = security.CreateRateLimiter(kv)
	} else {
		printWarning("Rate limiting is disabled")
	}
	transitionLimit := security.RateLimitConfig{
		Limit:  cfg.Security.RateLimitCount,
		Window: cfg.Security.RateLimitWindow,
	}

	earningService := services.CreateEarningService(bookingRepo, earningRepo, providerRepo, planRepo, cfg.Platform.GSTBps)
	refundService := services.CreateRefundService(bookingRepo, earningRepo, refundRepo)
	bookingService := services.CreateBookingService(bookingRepo, providerRepo, earningService, rateLimiter, transitionLimit)
	reconcilerService := services.CreateReconcilerService(bookingRepo, earningRepo, payoutRepo, providerRepo, planRepo, cfg.Platform.GSTBps)
	eventService := services.CreateProcessorEventService(bookingRepo, earningService, refundService, payoutRepo, earningRepo, providerRepo, idempotencyStore, cfg.Platform.IdempotencyTTL)
	printSuccess("Services initialized")

	printStep("8/8", "Setting up HTTP server...")
	bookingHandler := api.CreateBookingHandler(bookingService, refundService)
	providerHandler := api.CreateProviderHandler(reconcilerService)
	webhookHandler := api.CreateWebhookHandler(stripeProvider, eventService)

	router := mux.NewRouter()
	router.Use(middleware.CorrelationMiddleware)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.RecoveryMiddleware)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/health", api.HealthCheckHandler).Methods("GET")

	apiRouter.HandleFunc("/bookings", bookingHandler.HandleCreate).Methods("POST")
	apiRouter.HandleFunc("/bookings/{id}", bookingHandler.HandleGet).Methods("GET")
	apiRouter.HandleFunc("/bookings/{id}/transition", bookingHandler.HandleTransition).Methods("POST")
	apiRouter.HandleFunc("/bookings/{id}/refunds", bookingHandler.HandleRefund).Methods("POST")

	apiRouter.HandleFunc("/providers/{id}/earnings", providerHandler.HandleEarningsSummary).Methods("GET")

	webhookRouter := router.PathPrefix("/api/v1/webhooks").Subrouter()
	webhookRouter.HandleFunc("/stripe", webhookHandler.HandleStripeWebhook).Methods("POST")

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	printSuccess("HTTP server configured")

	fmt.Println()
	fmt.Printf("%s%sHireloop ledger is ready!%s\n", colorGreen, colorBold, colorReset)
	fmt.Println()
	fmt.Printf("%s%sAPI Endpoints:%s\n", colorPurple, colorBold, colorReset)
	fmt.Printf("  %s•%s Health:    %shttp://localhost:%s/api/v1/health%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Bookings:  %shttp://localhost:%s/api/v1/bookings%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Earnings:  %shttp://localhost:%s/api/v1/providers/{id}/earnings%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Webhooks:  %shttp://localhost:%s/api/v1/webhooks/stripe%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Println()
	fmt.Printf("%s%sEnvironment:%s %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Environment, colorReset)
	fmt.Printf("%s%sServer Port:%s %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("%s%sDatabase:%s %s%s:%d%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Database.Host, cfg.Database.Port, colorReset)
	fmt.Println()
	fmt.Printf("%s%sPress Ctrl+C to stop the server%s\n", colorYellow, colorBold, colorReset)
	fmt.Println()

	go func() {
		printInfo(fmt.Sprintf("Starting HTTP server on port %s...", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			printError(fmt.Sprintf("Server failed to start: %v", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println()
	printWarning("Shutting down Hireloop server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		printError(fmt.Sprintf("Server forced to shutdown: %v", err))
		os.Exit(1)
	}

	printSuccess("Hireloop server stopped gracefully")
}
