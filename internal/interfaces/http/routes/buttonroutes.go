package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/ratelimit"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/handlers"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/middleware"
)

// ButtonRouteConfig holds dependencies for the owner-facing button routes.
type ButtonRouteConfig struct {
	ButtonHandler *handlers.ButtonHandler
	Auth          *middleware.AuthMiddleware
	RateLimit     *middleware.RateLimitMiddleware
	// CreateLimit is the budget for creation-class endpoints (create, update,
	// upload). Reads share the looser resolve budget applied globally.
	CreateLimit ratelimit.Limit
}

// SetupButtonRoutes configures the button management routes. Everything is
// owner-scoped and requires a wallet session.
func SetupButtonRoutes(engine *gin.Engine, cfg *ButtonRouteConfig) {
	buttons := engine.Group("/buttons")
	buttons.Use(cfg.Auth.RequireAuth())
	{
		buttons.GET("", cfg.ButtonHandler.ListButtons)

		writes := buttons.Group("")
		writes.Use(cfg.RateLimit.Limit("create", cfg.CreateLimit))
		{
			writes.POST("", cfg.ButtonHandler.CreateButton)
			writes.PUT("/:id", cfg.ButtonHandler.UpdateButton)
			writes.POST("/:id/archive", cfg.ButtonHandler.ArchiveButton)
			writes.POST("/:id/unarchive", cfg.ButtonHandler.UnarchiveButton)
			writes.DELETE("/:id", cfg.ButtonHandler.DeleteButton)
			writes.POST("/images", cfg.ButtonHandler.UploadImage)
		}
	}
}
