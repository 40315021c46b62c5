package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/gin-gonic/gin"
)

const defaultEventLimit = 100

// Subscriber streams live events
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan *models.Event, error)
}

// EventHandler serves the lottery event log
type EventHandler struct {
	lottery services.LotteryService
	bus     Subscriber
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(lottery services.LotteryService, bus Subscriber) *EventHandler {
	return &EventHandler{lottery: lottery, bus: bus}
}

// ListEvents handles GET /events?after=&limit=
func (h *EventHandler) ListEvents(c *gin.Context) {
	after, err := strconv.ParseUint(c.DefaultQuery("after", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid after sequence"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEventLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	events, err := h.lottery.ListEvents(c.Request.Context(), after, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// StreamEvents handles GET /events/stream as server-sent events
func (h *EventHandler) StreamEvents(c *gin.Context) {
	events, err := h.bus.Subscribe(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent(string(event.Type), event)
		return true
	})
}
