package handlers

import (
	"net/http"

	"github.com/ArowuTest/lottery-rounds/internal/middleware"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/gin-gonic/gin"
)

// ClaimHandler handles prize claims
type ClaimHandler struct {
	lottery services.LotteryService
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(lottery services.LotteryService) *ClaimHandler {
	return &ClaimHandler{lottery: lottery}
}

// Claim handles POST /rounds/:id/claim
func (h *ClaimHandler) Claim(c *gin.Context) {
	id, ok := roundID(c)
	if !ok {
		return
	}
	payout, err := h.lottery.Claim(c.Request.Context(), middleware.CallerAddress(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}
