package main

import (
	"context"
	"log"
	"strings"

	"payment-callback-service/config"
	"payment-callback-service/controllers"
	"payment-callback-service/database"
	"payment-callback-service/kafka"
	"payment-callback-service/logger"
	"payment-callback-service/middleware"
	"payment-callback-service/models"
	"payment-callback-service/repository"
	"payment-callback-service/routes"
	"payment-callback-service/services"

	awspkg "payment-callback-service/aws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CallbackService] ❌ Failed to load config:", err)
	}

	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("[CallbackService] ❌ Failed to connect to DB:", err)
	}

	if err := db.AutoMigrate(&models.Payment{}, &models.Order{}, &models.User{}); err != nil {
		log.Fatal("[CallbackService] ❌ Failed to migrate models:", err)
	}

	// Initialize logger
	zapLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("[CallbackService] ❌ Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	paymentRepo := repository.NewGormPaymentRepo(db)
	orderRepo := repository.NewGormOrderRepo(db)
	userRepo := repository.NewGormUserRepo(db)

	// Kafka producer for payment events
	paymentProducer := kafka.NewPaymentEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.PaymentTopic)
	defer paymentProducer.Close()

	// SNS mirror is best-effort; the service runs without it
	var snsClient awspkg.SNSPublisher
	if cfg.PaymentSNSTopicARN != "" {
		awsCfg, err := awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			zapLogger.Warn("SNS disabled, AWS config load failed", zap.Error(err))
		} else {
			snsClient = awspkg.NewSNSClient(awsCfg)
		}
	}

	identityClient := services.NewIdentityClient(cfg.IdentityServiceURL)

	reconcileSvc := services.NewReconcileService(
		paymentRepo,
		orderRepo,
		paymentProducer,
		snsClient,
		cfg.PaymentSNSTopicARN,
		zapLogger,
	)
	adminSvc := services.NewAdminService(identityClient, userRepo, zapLogger)

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zapLogger))

	cc := controllers.NewCallbackController(reconcileSvc, zapLogger)
	ac := controllers.NewAdminController(adminSvc, zapLogger)
	routes.RegisterRoutes(r, cc, ac, []byte(cfg.JWTSecret))

	log.Println("[CallbackService] ✅ Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[CallbackService] ❌ Server failed:", err)
	}
}
