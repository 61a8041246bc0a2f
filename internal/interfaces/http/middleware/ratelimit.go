package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/ratelimit"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/utils"
)

// RateLimitMiddleware throttles an endpoint class per caller. Authenticated
// requests are keyed by wallet so one wallet cannot dodge its budget by
// rotating IPs; anonymous requests fall back to the client IP.
type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter ratelimit.RateLimiter, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit enforces the given budget for one endpoint class.
func (m *RateLimitMiddleware) Limit(class string, limit ratelimit.Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := class + ":"
		if wallet, ok := WalletFromContext(c); ok {
			key += wallet
		} else {
			key += c.ClientIP()
		}

		allowed, err := m.limiter.Allow(key, limit)
		if err != nil {
			// A limiter outage must not take the API down with it.
			m.logger.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
