package mongodb

import (
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
)

// The bson encoder refuses uint64 values above math.MaxInt64, so amounts and
// random values are stored as int64 holding the same bits.

type roundDocument struct {
	ID            int64     `bson:"_id"`
	MaxEntries    int64     `bson:"maxEntries"`
	FeePercent    int64     `bson:"feePercent"`
	ClosesAt      time.Time `bson:"closesAt"`
	EntryPrice    int64     `bson:"entryPrice"`
	Entries       []string  `bson:"entries"`
	Winner        string    `bson:"winner,omitempty"`
	Claimed       bool      `bson:"claimed"`
	FeePaid       bool      `bson:"feePaid"`
	DrawRequestID string    `bson:"drawRequestId,omitempty"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func newRoundDocument(round *models.Round) *roundDocument {
	entries := make([]string, 0, len(round.Entries))
	for _, e := range round.Entries {
		entries = append(entries, string(e))
	}
	return &roundDocument{
		ID:            int64(round.ID),
		MaxEntries:    int64(round.MaxEntries),
		FeePercent:    int64(round.FeePercent),
		ClosesAt:      round.ClosesAt,
		EntryPrice:    int64(round.EntryPrice),
		Entries:       entries,
		Winner:        string(round.Winner),
		Claimed:       round.Claimed,
		FeePaid:       round.FeePaid,
		DrawRequestID: round.DrawRequestID,
		CreatedAt:     round.CreatedAt,
		UpdatedAt:     round.UpdatedAt,
	}
}

func (d *roundDocument) toModel() *models.Round {
	entries := make([]models.Address, 0, len(d.Entries))
	for _, e := range d.Entries {
		entries = append(entries, models.Address(e))
	}
	return &models.Round{
		ID:            uint64(d.ID),
		MaxEntries:    uint64(d.MaxEntries),
		FeePercent:    uint64(d.FeePercent),
		ClosesAt:      d.ClosesAt,
		EntryPrice:    uint64(d.EntryPrice),
		Entries:       entries,
		Winner:        models.Address(d.Winner),
		Claimed:       d.Claimed,
		FeePaid:       d.FeePaid,
		DrawRequestID: d.DrawRequestID,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type drawRequestDocument struct {
	RequestID   string    `bson:"_id"`
	RoundID     int64     `bson:"roundId"`
	RandomValue int64     `bson:"randomValue"`
	Fulfilled   bool      `bson:"fulfilled"`
	RequestedAt time.Time `bson:"requestedAt"`
	FulfilledAt time.Time `bson:"fulfilledAt,omitempty"`
}

func newDrawRequestDocument(req *models.DrawRequest) *drawRequestDocument {
	return &drawRequestDocument{
		RequestID:   req.RequestID,
		RoundID:     int64(req.RoundID),
		RandomValue: int64(req.RandomValue),
		Fulfilled:   req.Fulfilled,
		RequestedAt: req.RequestedAt,
		FulfilledAt: req.FulfilledAt,
	}
}

func (d *drawRequestDocument) toModel() *models.DrawRequest {
	return &models.DrawRequest{
		RequestID:   d.RequestID,
		RoundID:     uint64(d.RoundID),
		RandomValue: uint64(d.RandomValue),
		Fulfilled:   d.Fulfilled,
		RequestedAt: d.RequestedAt,
		FulfilledAt: d.FulfilledAt,
	}
}

type eventDocument struct {
	Seq             int64     `bson:"_id"`
	Type            string    `bson:"type"`
	RoundID         int64     `bson:"roundId,omitempty"`
	RequestID       string    `bson:"requestId,omitempty"`
	MaxEntries      int64     `bson:"maxEntries,omitempty"`
	FeePercent      int64     `bson:"feePercent,omitempty"`
	ClosesAt        time.Time `bson:"closesAt,omitempty"`
	EntryPrice      int64     `bson:"entryPrice,omitempty"`
	Address         string    `bson:"address,omitempty"`
	PreviousAddress string    `bson:"previousAddress,omitempty"`
	Count           int64     `bson:"count,omitempty"`
	Amount          int64     `bson:"amount,omitempty"`
	RandomValue     int64     `bson:"randomValue,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
}

func newEventDocument(e *models.Event) *eventDocument {
	return &eventDocument{
		Seq:             int64(e.Seq),
		Type:            string(e.Type),
		RoundID:         int64(e.RoundID),
		RequestID:       e.RequestID,
		MaxEntries:      int64(e.MaxEntries),
		FeePercent:      int64(e.FeePercent),
		ClosesAt:        e.ClosesAt,
		EntryPrice:      int64(e.EntryPrice),
		Address:         string(e.Address),
		PreviousAddress: string(e.PreviousAddress),
		Count:           int64(e.Count),
		Amount:          int64(e.Amount),
		RandomValue:     int64(e.RandomValue),
		CreatedAt:       e.CreatedAt,
	}
}

func (d *eventDocument) toModel() *models.Event {
	return &models.Event{
		Seq:             uint64(d.Seq),
		Type:            models.EventType(d.Type),
		RoundID:         uint64(d.RoundID),
		RequestID:       d.RequestID,
		MaxEntries:      uint64(d.MaxEntries),
		FeePercent:      uint64(d.FeePercent),
		ClosesAt:        d.ClosesAt,
		EntryPrice:      uint64(d.EntryPrice),
		Address:         models.Address(d.Address),
		PreviousAddress: models.Address(d.PreviousAddress),
		Count:           uint64(d.Count),
		Amount:          uint64(d.Amount),
		RandomValue:     uint64(d.RandomValue),
		CreatedAt:       d.CreatedAt,
	}
}
