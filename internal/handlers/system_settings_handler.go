package handlers

import (
	"net/http"

	"github.com/ArowuTest/lottery-rounds/internal/middleware"
	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/gin-gonic/gin"
)

// SystemSettingsHandler handles system settings-related HTTP requests
type SystemSettingsHandler struct {
	lottery services.LotteryService
}

// NewSystemSettingsHandler creates a new SystemSettingsHandler
func NewSystemSettingsHandler(lottery services.LotteryService) *SystemSettingsHandler {
	return &SystemSettingsHandler{lottery: lottery}
}

// GetSettings handles GET /settings
func (h *SystemSettingsHandler) GetSettings(c *gin.Context) {
	recipient, err := h.lottery.FeeRecipient(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := h.lottery.RoundCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feeRecipient": recipient, "roundCount": count})
}

// UpdateFeeRecipient handles PUT /settings/fee-recipient
func (h *SystemSettingsHandler) UpdateFeeRecipient(c *gin.Context) {
	var request struct {
		Recipient models.Address `json:"recipient" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lottery.SetFeeRecipient(c.Request.Context(), middleware.CallerAddress(c), request.Recipient); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feeRecipient": request.Recipient})
}
