// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/owlnest/owlnest-backend/internal/config"
	"github.com/owlnest/owlnest-backend/internal/handlers"
	"github.com/owlnest/owlnest-backend/internal/middleware"
	"github.com/owlnest/owlnest-backend/internal/repository"
	"github.com/owlnest/owlnest-backend/internal/services"
	"github.com/owlnest/owlnest-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize repositories
	keyRepo := repository.NewKeyRepository(db)
	activationRepo := repository.NewActivationRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	registryService := services.NewRegistryService(keyRepo)
	activationService := services.NewActivationService(
		registryService,
		activationRepo,
		services.DisplayTokenMode(cfg.Keys.DisplayTokenMode),
	)
	verificationService := services.NewVerificationService(registryService, activationRepo)
	orderService := services.NewOrderService(orderRepo, cfg.Webhook)
	identityVerifier := services.NewIdentityVerifier(cfg.Auth)

	// Initialize handlers
	activationHandler := handlers.NewActivationHandler(activationService)
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	webhookHandler := handlers.NewWebhookHandler(orderService)

	// Initialize Gin router
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware. Recovery keeps every fault inside the JSON taxonomy;
	// clients never see a stack trace or a bare 500.
	r.Use(gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		logrus.WithField("panic", err).Error("request panicked")
		utils.BusinessError(c, string(services.CodeException), "Server error")
		c.Abort()
	}))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.GeneralRateLimit())

	r.NoMethod(utils.MethodNotAllowed)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Public verification: anonymous pre-check for the landing page
		v1.POST("/verify", verificationHandler.Verify)

		// Key activation: identity gate ahead of the only mutating route
		keys := v1.Group("/keys")
		keys.Use(middleware.ActivationRateLimit(), middleware.IdentityGate(identityVerifier))
		{
			keys.POST("/activate", activationHandler.Activate)
		}

		// Cart provider webhooks
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/orders", webhookHandler.HandleOrderEvent)
		}
	}

	return r
}
