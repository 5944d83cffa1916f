package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amrahulsaini/casebuddy-sub000/controllers"
	"github.com/amrahulsaini/casebuddy-sub000/database"
	"github.com/amrahulsaini/casebuddy-sub000/events"
	"github.com/amrahulsaini/casebuddy-sub000/mailer"
	"github.com/amrahulsaini/casebuddy-sub000/providers"
	"github.com/amrahulsaini/casebuddy-sub000/repository"
	"github.com/amrahulsaini/casebuddy-sub000/routes"
	servicepkg "github.com/amrahulsaini/casebuddy-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if err := database.Connect(logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close() //nolint:errcheck

	// SNS (non-fatal)
	var snsClient events.SNSPublisher
	if awsCfg, awsErr := events.LoadAWSConfig(context.Background()); awsErr != nil {
		logger.Warn("AWS config unavailable, SNS disabled", zap.Error(awsErr))
	} else {
		snsClient = events.NewSNSClient(awsCfg)
	}

	// SMTP (non-fatal: the reconciler still applies transitions without mail)
	var emailSender mailer.EmailSender
	if smtp, smtpErr := mailer.NewSMTPSender(); smtpErr != nil {
		logger.Warn("SMTP unavailable, email notifications disabled", zap.Error(smtpErr))
	} else {
		emailSender = smtp
	}

	// Providers and DI chain
	gateway := providers.NewCashfreeProvider(cfg.CashfreeBaseURL, cfg.CashfreeClientID, cfg.CashfreeClientSecret)
	carrier := providers.NewShiprocketProvider(cfg.ShiprocketBaseURL, cfg.ShiprocketToken)

	orderRepo := repository.NewGormOrderRepository(database.DB)
	shipmentRepo := repository.NewGormShipmentRepository(database.DB)
	productRepo := repository.NewGormProductRepository(database.DB)

	paymentService := servicepkg.NewPaymentService(
		orderRepo,
		productRepo,
		gateway,
		emailSender,
		snsClient,
		cfg.OrderSNSTopicARN,
		cfg.WebhookSecret,
		cfg.AdminEmail,
		logger,
	)
	syncService := servicepkg.NewSyncService(
		shipmentRepo,
		orderRepo,
		carrier,
		emailSender,
		snsClient,
		cfg.OrderSNSTopicARN,
		logger,
	)

	paymentController := controllers.NewPaymentController(paymentService, logger)
	syncController := controllers.NewSyncController(syncService)
	orderController := controllers.NewOrderController(orderRepo, shipmentRepo)

	r := gin.New()
	r.Use(gin.Recovery())

	// Global request-logging middleware
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})

	// 30-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "order-reconciler"})
	})

	routes.RegisterRoutes(r, paymentController, syncController, orderController, cfg.AdminAPIToken, cfg.SyncSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Order reconciler started", zap.String("port", cfg.Port))
	<-quit
	logger.Info("Shutting down order reconciler...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited cleanly")
}
