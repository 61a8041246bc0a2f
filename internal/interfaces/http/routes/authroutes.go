package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/handlers"
)

// AuthRouteConfig holds dependencies for the wallet sign-in routes.
type AuthRouteConfig struct {
	AuthHandler *handlers.AuthHandler
}

// SetupAuthRoutes configures the challenge/verify handshake.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/challenge", cfg.AuthHandler.Challenge)
		auth.POST("/verify", cfg.AuthHandler.Verify)
	}
}
