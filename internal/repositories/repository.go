package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/lottery-rounds/internal/models"
)

// ErrNotFound is returned by every implementation when a keyed lookup misses
var ErrNotFound = errors.New("record not found")

// RoundRepository defines the interface for round data operations
type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	FindByID(ctx context.Context, id uint64) (*models.Round, error)
	Update(ctx context.Context, round *models.Round) error
	FindAll(ctx context.Context) ([]*models.Round, error) // ordered by id
}

// DrawRequestRepository defines the interface for pending draw request operations
type DrawRequestRepository interface {
	Create(ctx context.Context, req *models.DrawRequest) error
	FindByRequestID(ctx context.Context, requestID string) (*models.DrawRequest, error)
	FindByRoundID(ctx context.Context, roundID uint64) (*models.DrawRequest, error)
	Update(ctx context.Context, req *models.DrawRequest) error
}

// EventRepository is the append-only lottery event log
type EventRepository interface {
	// Append assigns the next sequence number to the event and stores it
	Append(ctx context.Context, event *models.Event) error
	// FindAfter returns events with Seq > afterSeq in ascending order.
	// A non-positive limit returns everything.
	FindAfter(ctx context.Context, afterSeq uint64, limit int) ([]*models.Event, error)
}

// SystemSettingsRepository defines the interface for the settings singleton
type SystemSettingsRepository interface {
	// GetSettings returns the zero settings when nothing has been stored yet
	GetSettings(ctx context.Context) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, settings *models.SystemSettings) error
}

// Store groups the repositories backed by one storage engine
type Store interface {
	Rounds() RoundRepository
	DrawRequests() DrawRequestRepository
	Events() EventRepository
	Settings() SystemSettingsRepository
	Close() error
}
