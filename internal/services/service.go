package services

import (
	"context"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
)

// RoundLedger owns rounds: their configuration, entry sequence and the
// process-wide fee recipient
type RoundLedger interface {
	// CreateRound opens a new round closing duration from now. Admin only.
	CreateRound(ctx context.Context, caller models.Address, duration time.Duration, feePercent, maxEntries, entryPrice uint64) (uint64, error)

	// PurchaseEntries appends count entries for caller. paidAmount must equal count*EntryPrice exactly.
	PurchaseEntries(ctx context.Context, caller models.Address, roundID, count, paidAmount uint64) error

	// GetEntries returns the ordered entry sequence of a round
	GetEntries(ctx context.Context, roundID uint64) ([]models.Address, error)

	// EntriesOf counts the entries held by addr in a round
	EntriesOf(ctx context.Context, roundID uint64, addr models.Address) (uint64, error)

	// SetFeeRecipient replaces the fee recipient. Admin only.
	SetFeeRecipient(ctx context.Context, caller, recipient models.Address) error

	FeeRecipient(ctx context.Context) (models.Address, error)

	RoundCount(ctx context.Context) (uint64, error)

	GetRound(ctx context.Context, roundID uint64) (*models.RoundView, error)

	ListRounds(ctx context.Context) ([]*models.RoundView, error)
}

// DrawCoordinator runs the request/fulfilment handshake with the randomness oracle
type DrawCoordinator interface {
	// TriggerDraw requests randomness for a closed round without waiting for it
	TriggerDraw(ctx context.Context, roundID uint64) (string, error)

	// FulfillRandomness resolves a pending request and picks the winner. Oracle only.
	FulfillRandomness(ctx context.Context, caller models.Address, requestID string, randomValue uint64) error

	GetRequestStatus(ctx context.Context, requestID string) (*models.DrawRequestStatus, error)

	GetDrawRequestForRound(ctx context.Context, roundID uint64) (*models.DrawRequest, error)
}

// PayoutEngine pays the winner and the fee recipient exactly once per round
type PayoutEngine interface {
	Claim(ctx context.Context, caller models.Address, roundID uint64) (*Payout, error)
}

// EventLog exposes the append-only lottery event log
type EventLog interface {
	ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]*models.Event, error)
}

// LotteryService is the full lottery core
type LotteryService interface {
	RoundLedger
	DrawCoordinator
	PayoutEngine
	EventLog
}

// --- Collaborators ---

// AccessControl decides who administers the lottery
type AccessControl interface {
	IsAdmin(caller models.Address) bool
}

// FundsTransport moves currency to an address. The receiver may execute
// code, including calling back into the lottery, before Transfer returns.
type FundsTransport interface {
	Transfer(ctx context.Context, to models.Address, amount uint64) error
}

// RandomnessOracle accepts draw requests and later delivers exactly one value
// per request through DrawCoordinator.FulfillRandomness
type RandomnessOracle interface {
	RequestRandomness(ctx context.Context) (string, error)
	// Address is the identity the oracle fulfils as
	Address() models.Address
}

// EventPublisher fans committed events out to live subscribers
type EventPublisher interface {
	Publish(event *models.Event) error
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock reads the wall clock in UTC
var SystemClock Clock = systemClock{}
