package models

import (
	"time"
)

// RoundStatus represents the phase a round is in
type RoundStatus string

const (
	RoundStatusOpen          RoundStatus = "OPEN"
	RoundStatusClosed        RoundStatus = "CLOSED"
	RoundStatusDrawRequested RoundStatus = "DRAW_REQUESTED"
	RoundStatusDrawn         RoundStatus = "DRAWN"
	RoundStatusClaimed       RoundStatus = "CLAIMED"
)

// Round represents a single time-boxed lottery round
type Round struct {
	ID            uint64    `bson:"_id" json:"id"`
	MaxEntries    uint64    `bson:"maxEntries" json:"maxEntries"`
	FeePercent    uint64    `bson:"feePercent" json:"feePercent"`
	ClosesAt      time.Time `bson:"closesAt" json:"closesAt"`
	EntryPrice    uint64    `bson:"entryPrice" json:"entryPrice"`
	Entries       []Address `bson:"entries" json:"entries"`
	Winner        Address   `bson:"winner,omitempty" json:"winner,omitempty"`
	Claimed       bool      `bson:"claimed" json:"claimed"`
	FeePaid       bool      `bson:"feePaid" json:"feePaid"`
	DrawRequestID string    `bson:"drawRequestId,omitempty" json:"drawRequestId,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Status derives the round phase at the given instant.
func (r *Round) Status(now time.Time) RoundStatus {
	switch {
	case r.Claimed:
		return RoundStatusClaimed
	case r.Winner != "":
		return RoundStatusDrawn
	case r.DrawRequestID != "":
		return RoundStatusDrawRequested
	case !now.Before(r.ClosesAt):
		return RoundStatusClosed
	default:
		return RoundStatusOpen
	}
}

// IsOpen reports whether entries are still accepted at the given instant
func (r *Round) IsOpen(now time.Time) bool {
	return now.Before(r.ClosesAt)
}

// EntriesOf counts the entries held by an address
func (r *Round) EntriesOf(addr Address) uint64 {
	var n uint64
	for _, e := range r.Entries {
		if e == addr {
			n++
		}
	}
	return n
}

// RoundView is the read model returned to API clients
type RoundView struct {
	*Round
	Status     RoundStatus `json:"status"`
	EntryCount int         `json:"entryCount"`
	Pool       uint64      `json:"pool"`
}
