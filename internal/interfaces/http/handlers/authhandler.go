package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/utils"
)

// walletAuthService is the slice of the auth service the handler needs.
type walletAuthService interface {
	IssueChallenge(ctx context.Context, address string) (string, error)
	VerifySignature(ctx context.Context, address, signature string) (string, error)
}

// AuthHandler runs the wallet sign-in handshake over HTTP.
type AuthHandler struct {
	auth   walletAuthService
	logger logger.Interface
}

func NewAuthHandler(auth walletAuthService, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

type ChallengeRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

type ChallengeResponse struct {
	// Message is the exact text the wallet must sign with personal_sign.
	Message string `json:"message"`
}

// Challenge issues a single-use sign-in message for the wallet.
func (h *AuthHandler) Challenge(c *gin.Context) {
	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	message, err := h.auth.IssueChallenge(c.Request.Context(), req.WalletAddress)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "challenge issued", ChallengeResponse{Message: message})
}

type VerifyRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

type VerifyResponse struct {
	Token string `json:"token"`
}

// Verify checks the signed challenge and returns a session token.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	token, err := h.auth.VerifySignature(c.Request.Context(), req.WalletAddress, req.Signature)
	if err != nil {
		h.logger.Warnw("wallet sign-in failed", "wallet", req.WalletAddress, "error", err)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "wallet verified", VerifyResponse{Token: token})
}
