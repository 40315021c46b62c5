package mongodb

import (
	"math"
	"testing"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/stretchr/testify/require"
)

func TestDocumentsKeepUnsignedHighBit(t *testing.T) {
	t.Run("draw request", func(t *testing.T) {
		req := &models.DrawRequest{
			RequestID:   "req-1",
			RoundID:     3,
			RandomValue: math.MaxUint64 - 6,
			Fulfilled:   true,
		}
		doc := newDrawRequestDocument(req)
		require.Less(t, doc.RandomValue, int64(0))
		require.Equal(t, req, doc.toModel())
	})

	t.Run("round", func(t *testing.T) {
		now := time.Now().UTC()
		round := &models.Round{
			ID:         1,
			MaxEntries: 10,
			FeePercent: 100,
			ClosesAt:   now,
			EntryPrice: math.MaxUint64,
			Entries:    []models.Address{"0xaa", "0xbb"},
			Winner:     "0xbb",
		}
		require.Equal(t, round, newRoundDocument(round).toModel())
	})

	t.Run("event", func(t *testing.T) {
		event := models.NewDrawResolved("req-1", 2, math.MaxUint64)
		event.Seq = 9
		require.Equal(t, event, newEventDocument(event).toModel())
	})
}
