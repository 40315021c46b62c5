package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/middleware"
	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/gin-gonic/gin"
)

// RoundHandler handles round-related HTTP requests
type RoundHandler struct {
	lottery services.LotteryService
}

// NewRoundHandler creates a new RoundHandler
func NewRoundHandler(lottery services.LotteryService) *RoundHandler {
	return &RoundHandler{lottery: lottery}
}

// maxDurationSeconds is the longest round window a time.Duration can hold
const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

type CreateRoundRequest struct {
	DurationSeconds int64  `json:"durationSeconds"`
	FeePercent      uint64 `json:"feePercent"`
	MaxEntries      uint64 `json:"maxEntries"`
	EntryPrice      uint64 `json:"entryPrice"`
}

type PurchaseEntriesRequest struct {
	Count      uint64 `json:"count"`
	PaidAmount uint64 `json:"paidAmount"`
}

// CreateRound handles POST /rounds
func (h *RoundHandler) CreateRound(c *gin.Context) {
	var request CreateRoundRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.DurationSeconds < 0 || request.DurationSeconds > maxDurationSeconds {
		c.JSON(http.StatusBadRequest, gin.H{"error": "durationSeconds is out of range"})
		return
	}

	duration := time.Duration(request.DurationSeconds) * time.Second
	id, err := h.lottery.CreateRound(c.Request.Context(), middleware.CallerAddress(c),
		duration, request.FeePercent, request.MaxEntries, request.EntryPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	round, err := h.lottery.GetRound(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, round)
}

// ListRounds handles GET /rounds
func (h *RoundHandler) ListRounds(c *gin.Context) {
	rounds, err := h.lottery.ListRounds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": rounds, "count": len(rounds)})
}

// GetRound handles GET /rounds/:id
func (h *RoundHandler) GetRound(c *gin.Context) {
	id, ok := roundID(c)
	if !ok {
		return
	}
	round, err := h.lottery.GetRound(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// GetEntries handles GET /rounds/:id/entries
func (h *RoundHandler) GetEntries(c *gin.Context) {
	id, ok := roundID(c)
	if !ok {
		return
	}
	entries, err := h.lottery.GetEntries(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roundId": id, "entries": entries})
}

// EntriesOf handles GET /rounds/:id/entries/:address
func (h *RoundHandler) EntriesOf(c *gin.Context) {
	id, ok := roundID(c)
	if !ok {
		return
	}
	addr := models.Address(c.Param("address"))
	n, err := h.lottery.EntriesOf(c.Request.Context(), id, addr)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roundId": id, "address": addr, "entries": n})
}

// PurchaseEntries handles POST /rounds/:id/entries
func (h *RoundHandler) PurchaseEntries(c *gin.Context) {
	id, ok := roundID(c)
	if !ok {
		return
	}
	var request PurchaseEntriesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.lottery.PurchaseEntries(c.Request.Context(), caller, id, request.Count, request.PaidAmount); err != nil {
		respondError(c, err)
		return
	}
	n, err := h.lottery.EntriesOf(c.Request.Context(), id, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"roundId": id, "address": caller, "entries": n})
}
