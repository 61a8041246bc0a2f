package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/auth"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/utils"
)

// ContextWalletAddress is the gin context key carrying the authenticated
// wallet address (lowercase).
const ContextWalletAddress = "wallet_address"

type AuthMiddleware struct {
	sessions *auth.WalletAuthService
	logger   logger.Interface
}

func NewAuthMiddleware(sessions *auth.WalletAuthService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// RequireAuth verifies the Bearer session token and binds the proven wallet
// address to the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing session token")
			c.Abort()
			return
		}

		address, err := m.sessions.VerifySession(token)
		if err != nil {
			m.logger.Warnw("failed to verify session", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ContextWalletAddress, address)
		c.Next()
	}
}

// OptionalAuth binds the wallet address when a valid session is presented
// and lets the request through either way.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if address, err := m.sessions.VerifySession(token); err == nil {
				c.Set(ContextWalletAddress, address)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// WalletFromContext returns the authenticated wallet address, if any.
func WalletFromContext(c *gin.Context) (string, bool) {
	address, exists := c.Get(ContextWalletAddress)
	if !exists {
		return "", false
	}
	s, ok := address.(string)
	return s, ok && s != ""
}
