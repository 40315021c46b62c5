package models

import (
	"time"
)

// DrawRequest is the pending randomness request issued for a round.
// It becomes terminal once Fulfilled is set.
type DrawRequest struct {
	RequestID   string    `bson:"_id" json:"requestId"`
	RoundID     uint64    `bson:"roundId" json:"roundId"`
	RandomValue uint64    `bson:"randomValue" json:"randomValue"`
	Fulfilled   bool      `bson:"fulfilled" json:"fulfilled"`
	RequestedAt time.Time `bson:"requestedAt" json:"requestedAt"`
	FulfilledAt time.Time `bson:"fulfilledAt,omitempty" json:"fulfilledAt,omitempty"`
}

// DrawRequestStatus is the answer to a request status query
type DrawRequestStatus struct {
	RequestID   string  `json:"requestId"`
	Fulfilled   bool    `json:"fulfilled"`
	RandomValue *uint64 `json:"randomValue,omitempty"`
}
