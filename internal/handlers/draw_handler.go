package handlers

import (
	"net/http"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/ArowuTest/lottery-rounds/pkg/vrf"
	"github.com/gin-gonic/gin"
)

// ProofSource exposes the proofs of a verifiable oracle
type ProofSource interface {
	Proof(requestID string) (*vrf.Proof, bool)
}

// DrawHandler handles draw-related HTTP requests
type DrawHandler struct {
	lottery services.LotteryService
	oracle  models.Address
	proofs  ProofSource
}

// NewDrawHandler creates a new DrawHandler. oracle is the identity oracle
// callbacks are fulfilled as. proofs may be nil.
func NewDrawHandler(lottery services.LotteryService, oracle models.Address, proofs ProofSource) *DrawHandler {
	return &DrawHandler{lottery: lottery, oracle: oracle, proofs: proofs}
}

type OracleCallbackRequest struct {
	RequestID   string  `json:"requestId" binding:"required"`
	RandomValue *uint64 `json:"randomValue" binding:"required"`
}

// TriggerDraw handles POST /rounds/:id/draw
func (h *DrawHandler) TriggerDraw(c *gin.Context) {
	id, ok := roundID(c)
	if !ok {
		return
	}
	requestID, err := h.lottery.TriggerDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"roundId": id, "requestId": requestID})
}

// GetRoundDraw handles GET /rounds/:id/draw
func (h *DrawHandler) GetRoundDraw(c *gin.Context) {
	id, ok := roundID(c)
	if !ok {
		return
	}
	req, err := h.lottery.GetDrawRequestForRound(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// GetRequestStatus handles GET /draws/:requestId
func (h *DrawHandler) GetRequestStatus(c *gin.Context) {
	status, err := h.lottery.GetRequestStatus(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetProof handles GET /draws/:requestId/proof
func (h *DrawHandler) GetProof(c *gin.Context) {
	if h.proofs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Oracle does not publish proofs"})
		return
	}
	proof, ok := h.proofs.Proof(c.Param("requestId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proof not found"})
		return
	}
	c.JSON(http.StatusOK, proof)
}

// OracleCallback handles POST /oracle/callback, the delivery of a random
// value by the remote oracle
func (h *DrawHandler) OracleCallback(c *gin.Context) {
	var request OracleCallbackRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.lottery.FulfillRandomness(c.Request.Context(), h.oracle, request.RequestID, *request.RandomValue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requestId": request.RequestID, "fulfilled": true})
}
