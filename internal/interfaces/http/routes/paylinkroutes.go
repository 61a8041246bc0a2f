package routes

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/ratelimit"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/handlers"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/middleware"
)

// PayLinkRouteConfig holds dependencies for the payer-facing routes.
type PayLinkRouteConfig struct {
	PayLinkHandler *handlers.PayLinkHandler
	RateLimit      *middleware.RateLimitMiddleware
	// ShortLinkBasePath is the public path prefix of short links, e.g. "/p".
	ShortLinkBasePath string
	ResolveLimit      ratelimit.Limit
	PayLimit          ratelimit.Limit
}

// SetupPayLinkRoutes configures link resolution and payment execution.
// These routes are public: the payer side of a link needs no session.
func SetupPayLinkRoutes(engine *gin.Engine, cfg *PayLinkRouteConfig) {
	basePath := "/" + strings.Trim(cfg.ShortLinkBasePath, "/")
	engine.GET(basePath+"/:id",
		cfg.RateLimit.Limit("resolve", cfg.ResolveLimit),
		cfg.PayLinkHandler.ResolveShort)

	links := engine.Group("/links")
	links.Use(cfg.RateLimit.Limit("resolve", cfg.ResolveLimit))
	{
		links.POST("/resolve", cfg.PayLinkHandler.ResolveLink)
	}

	engine.POST("/pay",
		cfg.RateLimit.Limit("pay", cfg.PayLimit),
		cfg.PayLinkHandler.Pay)
}
