package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/usecases"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/interfaces/http/middleware"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/utils"
)

// ButtonHandler exposes the owner-facing button management endpoints. Every
// operation acts on behalf of the authenticated wallet.
type ButtonHandler struct {
	createUC    createButtonUseCase
	listUC      listButtonsUseCase
	updateUC    updateButtonUseCase
	archiveUC   archiveButtonUseCase
	unarchiveUC archiveButtonUseCase
	deleteUC    deleteButtonUseCase
	uploadUC    uploadImageUseCase
	logger      logger.Interface
}

func NewButtonHandler(
	createUC createButtonUseCase,
	listUC listButtonsUseCase,
	updateUC updateButtonUseCase,
	archiveUC archiveButtonUseCase,
	unarchiveUC archiveButtonUseCase,
	deleteUC deleteButtonUseCase,
	uploadUC uploadImageUseCase,
	logger logger.Interface,
) *ButtonHandler {
	return &ButtonHandler{
		createUC:    createUC,
		listUC:      listUC,
		updateUC:    updateUC,
		archiveUC:   archiveUC,
		unarchiveUC: unarchiveUC,
		deleteUC:    deleteUC,
		uploadUC:    uploadUC,
		logger:      logger,
	}
}

type CreateButtonRequest struct {
	Amount          string   `json:"amount" binding:"required"`
	TokenAddress    string   `json:"token_address" binding:"required"`
	PaymentType     string   `json:"payment_type" binding:"required,oneof=fixed editable"`
	UsageType       string   `json:"usage_type" binding:"required,oneof=single_use unlimited limited"`
	MaxUses         int      `json:"max_uses"`
	ItemName        string   `json:"item_name"`
	ItemDescription string   `json:"item_description"`
	ItemImages      []string `json:"item_images"`
	ButtonText      string   `json:"button_text"`
	ButtonColor     string   `json:"button_color"`
}

type CreateButtonResponse struct {
	Button   *ButtonResponse `json:"button,omitempty"`
	ShortURL string          `json:"short_url,omitempty"`
	LongURL  string          `json:"long_url"`
	// Persisted is false when the link degraded to its self-contained long
	// form and no record was stored.
	Persisted bool `json:"persisted"`
}

// CreateButton builds a button for the authenticated wallet and returns its
// shareable link.
func (h *ButtonHandler) CreateButton(c *gin.Context) {
	owner, ok := middleware.WalletFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "wallet not authenticated")
		return
	}

	var req CreateButtonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cmd := usecases.CreateButtonCommand{
		OwnerAddress:    owner,
		Amount:          req.Amount,
		TokenAddress:    req.TokenAddress,
		PaymentType:     req.PaymentType,
		UsageType:       req.UsageType,
		MaxUses:         req.MaxUses,
		ItemName:        req.ItemName,
		ItemDescription: req.ItemDescription,
		ItemImages:      req.ItemImages,
		ButtonText:      req.ButtonText,
		ButtonColor:     req.ButtonColor,
	}

	result, err := h.createUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	response := CreateButtonResponse{
		ShortURL:  result.ShortURL,
		LongURL:   result.LongURL,
		Persisted: result.Persisted,
	}
	if result.Button != nil {
		response.Button = ToButtonResponse(result.Button)
	}

	utils.CreatedResponse(c, response, "button created")
}

// ListButtons returns one archival partition of the wallet's buttons.
func (h *ButtonHandler) ListButtons(c *gin.Context) {
	owner, ok := middleware.WalletFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "wallet not authenticated")
		return
	}

	archived := c.Query("archived") == "true"
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListButtonsCommand{
		OwnerAddress: owner,
		Archived:     archived,
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "buttons retrieved", utils.ListResponse{
		Items:  ToButtonResponses(result.Buttons),
		Total:  result.Total,
		Offset: offset,
		Limit:  limit,
	})
}

type UpdateButtonRequest struct {
	Amount          *string   `json:"amount"`
	PaymentType     *string   `json:"payment_type"`
	ItemName        *string   `json:"item_name"`
	ItemDescription *string   `json:"item_description"`
	ItemImages      *[]string `json:"item_images"`
	ButtonText      *string   `json:"button_text"`
	ButtonColor     *string   `json:"button_color"`
}

// UpdateButton patches the mutable fields of a button the wallet owns.
func (h *ButtonHandler) UpdateButton(c *gin.Context) {
	owner, ok := middleware.WalletFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "wallet not authenticated")
		return
	}

	var req UpdateButtonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.updateUC.Execute(c.Request.Context(), usecases.UpdateButtonCommand{
		ID:              c.Param("id"),
		OwnerAddress:    owner,
		Amount:          req.Amount,
		PaymentType:     req.PaymentType,
		ItemName:        req.ItemName,
		ItemDescription: req.ItemDescription,
		ItemImages:      req.ItemImages,
		ButtonText:      req.ButtonText,
		ButtonColor:     req.ButtonColor,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "button updated", ToButtonResponse(result.Button))
}

// ArchiveButton soft-deletes a button; the record and its usage counters
// survive and short links to it keep resolving.
func (h *ButtonHandler) ArchiveButton(c *gin.Context) {
	h.setArchival(c, h.archiveUC, "button archived")
}

// UnarchiveButton restores an archived button.
func (h *ButtonHandler) UnarchiveButton(c *gin.Context) {
	h.setArchival(c, h.unarchiveUC, "button restored")
}

func (h *ButtonHandler) setArchival(c *gin.Context, uc archiveButtonUseCase, message string) {
	owner, ok := middleware.WalletFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "wallet not authenticated")
		return
	}

	err := uc.Execute(c.Request.Context(), usecases.ArchiveButtonCommand{
		ID:           c.Param("id"),
		OwnerAddress: owner,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, nil)
}

// DeleteButton permanently removes a button and its hosted item images.
func (h *ButtonHandler) DeleteButton(c *gin.Context) {
	owner, ok := middleware.WalletFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "wallet not authenticated")
		return
	}

	err := h.deleteUC.Execute(c.Request.Context(), usecases.DeleteButtonCommand{
		ID:           c.Param("id"),
		OwnerAddress: owner,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type UploadImageResponse struct {
	URL string `json:"url"`
}

// UploadImage stores an item image and returns its public URL. The file
// arrives as the "image" part of a multipart form.
func (h *ButtonHandler) UploadImage(c *gin.Context) {
	owner, ok := middleware.WalletFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "wallet not authenticated")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "image file is required")
		return
	}
	if fileHeader.Size > usecases.MaxImageBytes {
		utils.ErrorResponse(c, http.StatusBadRequest, "image exceeds the size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, usecases.MaxImageBytes+1))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read image file")
		return
	}

	result, err := h.uploadUC.Execute(c.Request.Context(), usecases.UploadImageCommand{
		OwnerAddress: owner,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, UploadImageResponse{URL: result.URL}, "image uploaded")
}
