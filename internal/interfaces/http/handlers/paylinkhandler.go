package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/linkcodec"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/usecases"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/utils"
)

type resolveLinkUseCase interface {
	Execute(ctx context.Context, cmd usecases.ResolveLinkCommand) (*usecases.ResolveLinkResult, error)
}

type executePaymentUseCase interface {
	Execute(ctx context.Context, cmd usecases.ExecutePaymentCommand) (*usecases.ExecutePaymentResult, error)
}

// PayLinkHandler serves the payer-facing side: resolving incoming links and
// executing payments with the configured paying wallet.
type PayLinkHandler struct {
	resolveUC resolveLinkUseCase
	payUC     executePaymentUseCase
	// shortLinkPrefix is origin plus base path, e.g. "https://pay.example.com/p".
	shortLinkPrefix string
	// payerAddress is the paying wallet; empty when no key is configured and
	// payment execution is disabled.
	payerAddress string
	logger       logger.Interface
}

func NewPayLinkHandler(
	resolveUC resolveLinkUseCase,
	payUC executePaymentUseCase,
	shortLinkPrefix string,
	payerAddress string,
	logger logger.Interface,
) *PayLinkHandler {
	return &PayLinkHandler{
		resolveUC:       resolveUC,
		payUC:           payUC,
		shortLinkPrefix: strings.TrimSuffix(shortLinkPrefix, "/"),
		payerAddress:    payerAddress,
		logger:          logger,
	}
}

type ResolveLinkRequest struct {
	URL string `json:"url" binding:"required"`
}

// PaymentDataResponse is the renderable field set of a resolved link.
type PaymentDataResponse struct {
	LinkID          string   `json:"link_id,omitempty"`
	Recipient       string   `json:"recipient"`
	Amount          string   `json:"amount"`
	Concept         string   `json:"concept,omitempty"`
	ItemName        string   `json:"item_name,omitempty"`
	ItemDescription string   `json:"item_description,omitempty"`
	ItemImages      []string `json:"item_images,omitempty"`
	ButtonText      string   `json:"button_text"`
	ButtonColor     string   `json:"button_color"`
	Token           string   `json:"token"`
}

type ResolveLinkResponse struct {
	Payment PaymentDataResponse `json:"payment"`
	// Stored is false for self-contained long links; they track no usage.
	Stored bool `json:"stored"`
	// CanPay and State are only meaningful when Stored is true.
	CanPay      bool   `json:"can_pay"`
	State       string `json:"state,omitempty"`
	CurrentUses int    `json:"current_uses,omitempty"`
}

// ResolveLink resolves a full payment URL, short or long form.
func (h *PayLinkHandler) ResolveLink(c *gin.Context) {
	var req ResolveLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	h.resolve(c, req.URL)
}

// ResolveShort resolves a short link by its id segment.
func (h *PayLinkHandler) ResolveShort(c *gin.Context) {
	h.resolve(c, h.shortLinkPrefix+"/"+c.Param("id"))
}

func (h *PayLinkHandler) resolve(c *gin.Context, url string) {
	result, err := h.resolveUC.Execute(c.Request.Context(), usecases.ResolveLinkCommand{URL: url})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	response := ResolveLinkResponse{
		Payment: toPaymentDataResponse(result.Data),
		Stored:  result.View != nil,
		// Long-form links carry no usage policy, so payment is always open.
		CanPay: true,
	}
	if result.View != nil {
		response.CanPay = result.View.CanPay()
		response.State = string(result.View.Button.State())
		response.CurrentUses = result.View.ConfirmedUses
	}

	utils.SuccessResponse(c, http.StatusOK, "link resolved", response)
}

func toPaymentDataResponse(data *linkcodec.PaymentData) PaymentDataResponse {
	return PaymentDataResponse{
		LinkID:          data.LinkID,
		Recipient:       data.Recipient,
		Amount:          data.Amount,
		Concept:         data.Concept,
		ItemName:        data.ItemName,
		ItemDescription: data.ItemDescription,
		ItemImages:      data.ItemImages,
		ButtonText:      data.ButtonText,
		ButtonColor:     data.ButtonColor,
		Token:           data.Token,
	}
}

// PayRequest selects the payment target: a stored link id, or the explicit
// long-form fields when link_id is empty.
type PayRequest struct {
	LinkID    string `json:"link_id"`
	Recipient string `json:"recipient"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
	// ProposedAmount overrides the configured amount where the button allows it.
	ProposedAmount string `json:"proposed_amount"`
}

type PayResponse struct {
	Status      string `json:"status"`
	TxHash      string `json:"tx_hash,omitempty"`
	Amount      string `json:"amount,omitempty"`
	TokenSymbol string `json:"token_symbol,omitempty"`
	State       string `json:"state,omitempty"`
}

// Pay executes a payment from the configured paying wallet.
func (h *PayLinkHandler) Pay(c *gin.Context) {
	if h.payerAddress == "" {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "payment execution is not configured")
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.payUC.Execute(c.Request.Context(), usecases.ExecutePaymentCommand{
		LinkID:         req.LinkID,
		Recipient:      req.Recipient,
		Token:          req.Token,
		Amount:         req.Amount,
		PayerAddress:   h.payerAddress,
		ProposedAmount: req.ProposedAmount,
	})
	if err != nil {
		h.logger.Warnw("payment attempt failed", "link_id", req.LinkID, "error", err)
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "payment processed", PayResponse{
		Status:      string(result.Status),
		TxHash:      result.TxHash,
		Amount:      result.Amount,
		TokenSymbol: result.TokenSymbol,
		State:       string(result.State),
	})
}
