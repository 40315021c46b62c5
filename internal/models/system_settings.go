package models

import (
	"time"
)

// SystemSettings holds the process-wide lottery state that is not owned by a round
type SystemSettings struct {
	FeeRecipient Address   `bson:"feeRecipient" json:"feeRecipient"`
	RoundCount   uint64    `bson:"roundCount" json:"roundCount"` // last assigned round id
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy    Address   `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}
