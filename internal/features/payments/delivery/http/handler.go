package http

import (
	"io"
	"net/http"
	"strconv"

	apperrors "novelhub-backend/internal/common/errors"
	"novelhub-backend/internal/common/middleware"
	"novelhub-backend/internal/features/payments/models"
	"novelhub-backend/internal/features/payments/service"

	"github.com/gin-gonic/gin"
)

// Signature header used by Coinbase Commerce.
const HeaderWebhookSignature = "X-CC-Webhook-Signature"

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/coinbase", h.HandleCoinbaseWebhook)
	}

	me := router.Group("/profiles/me")
	me.Use(middleware.RequireUser())
	{
		me.POST("/spend", h.Spend)
		me.GET("/ledger", h.ListLedger)
	}
}

// @Summary Coinbase webhook
// @Description Ingest a signed payment-provider event. Redeliveries and irrelevant event types are acknowledged without effect.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-CC-Webhook-Signature header string true "Hex HMAC-SHA256 of the raw body"
// @Success 200 {object} models.WebhookAck "Event acknowledged"
// @Failure 400 {object} map[string]string "Invalid signature or malformed payload"
// @Failure 404 {object} middleware.ErrorResponse "Target profile not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /webhooks/coinbase [post]
func (h *PaymentHandler) HandleCoinbaseWebhook(c *gin.Context) {
	// The signature covers the exact raw bytes; read them before anything
	// can parse the body.
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	ack, err := h.service.ProcessWebhook(c.Request.Context(), rawBody, c.GetHeader(HeaderWebhookSignature))
	if err != nil {
		// Provider contract: signature and schema failures come back as a
		// plain 400 so its retry loop treats them as permanent.
		if appErr, ok := apperrors.AsAppError(err); ok {
			switch appErr.Code {
			case apperrors.ErrCodeInvalidSignature, apperrors.ErrCodeMalformedPayload:
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
				return
			}
		}
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ack)
}

// @Summary Spend coins
// @Description Debit coins from the authenticated profile, e.g. for a chapter unlock. The balance never goes negative.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body models.SpendRequest true "Debit to apply"
// @Success 200 {object} models.SpendResponse "Balance after the debit"
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Failure 401 {object} middleware.ErrorResponse "Missing authenticated profile"
// @Failure 404 {object} middleware.ErrorResponse "Profile not found"
// @Failure 409 {object} middleware.ErrorResponse "Insufficient coins"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /profiles/me/spend [post]
func (h *PaymentHandler) Spend(c *gin.Context) {
	var input models.SpendRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.service.Spend(c.Request.Context(), middleware.UserID(c), input.Coins, input.Reason)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List ledger entries
// @Description List the authenticated profile's coin ledger, newest first
// @Tags payments
// @Accept json
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.LedgerEntry "Ledger entries"
// @Failure 401 {object} middleware.ErrorResponse "Missing authenticated profile"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /profiles/me/ledger [get]
func (h *PaymentHandler) ListLedger(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.service.ListLedger(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
