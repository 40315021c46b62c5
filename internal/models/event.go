package models

import (
	"time"
)

type EventType string

const (
	EventRoundCreated        EventType = "RoundCreated"
	EventEntriesPurchased    EventType = "EntriesPurchased"
	EventDrawRequested       EventType = "DrawRequested"
	EventDrawResolved        EventType = "DrawResolved"
	EventClaimed             EventType = "Claimed"
	EventFeeRecipientChanged EventType = "FeeRecipientChanged"
)

// Event is one record of the append-only lottery log. Only the fields
// relevant to the event type are populated.
type Event struct {
	Seq       uint64    `bson:"seq" json:"seq"`
	Type      EventType `bson:"type" json:"type"`
	RoundID   uint64    `bson:"roundId,omitempty" json:"roundId,omitempty"`
	RequestID string    `bson:"requestId,omitempty" json:"requestId,omitempty"`

	// RoundCreated
	MaxEntries uint64    `bson:"maxEntries,omitempty" json:"maxEntries,omitempty"`
	FeePercent uint64    `bson:"feePercent,omitempty" json:"feePercent,omitempty"`
	ClosesAt   time.Time `bson:"closesAt,omitempty" json:"closesAt,omitempty"`
	EntryPrice uint64    `bson:"entryPrice,omitempty" json:"entryPrice,omitempty"`

	// EntriesPurchased, Claimed, FeeRecipientChanged
	Address         Address `bson:"address,omitempty" json:"address,omitempty"`
	PreviousAddress Address `bson:"previousAddress,omitempty" json:"previousAddress,omitempty"`
	Count           uint64  `bson:"count,omitempty" json:"count,omitempty"`
	Amount          uint64  `bson:"amount,omitempty" json:"amount,omitempty"`

	// DrawResolved
	RandomValue uint64 `bson:"randomValue,omitempty" json:"randomValue,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func NewRoundCreated(round *Round) *Event {
	return &Event{
		Type:       EventRoundCreated,
		RoundID:    round.ID,
		MaxEntries: round.MaxEntries,
		FeePercent: round.FeePercent,
		ClosesAt:   round.ClosesAt,
		EntryPrice: round.EntryPrice,
	}
}

func NewEntriesPurchased(buyer Address, roundID, count uint64) *Event {
	return &Event{Type: EventEntriesPurchased, Address: buyer, RoundID: roundID, Count: count}
}

func NewDrawRequested(requestID string, roundID uint64) *Event {
	return &Event{Type: EventDrawRequested, RequestID: requestID, RoundID: roundID}
}

func NewDrawResolved(requestID string, roundID, randomValue uint64) *Event {
	return &Event{Type: EventDrawResolved, RequestID: requestID, RoundID: roundID, RandomValue: randomValue}
}

func NewClaimed(winner Address, roundID, amount uint64) *Event {
	return &Event{Type: EventClaimed, Address: winner, RoundID: roundID, Amount: amount}
}

func NewFeeRecipientChanged(previous, next Address) *Event {
	return &Event{Type: EventFeeRecipientChanged, PreviousAddress: previous, Address: next}
}
