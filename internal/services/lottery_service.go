package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// Dependencies are the collaborators of the lottery core. Publisher and
// Clock are optional.
type Dependencies struct {
	Store     repositories.Store
	Access    AccessControl
	Oracle    RandomnessOracle
	Transport FundsTransport
	Publisher EventPublisher
	Clock     Clock
}

// lotteryService serializes every mutation through mu. Reads share it.
type lotteryService struct {
	mu sync.RWMutex

	rounds   repositories.RoundRepository
	requests repositories.DrawRequestRepository
	events   repositories.EventRepository
	settings repositories.SystemSettingsRepository

	access    AccessControl
	oracle    RandomnessOracle
	transport FundsTransport
	publisher EventPublisher
	clock     Clock
	logger    *log.Entry
}

// NewLotteryService creates the lottery core on top of a store
func NewLotteryService(deps Dependencies) LotteryService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &lotteryService{
		rounds:    deps.Store.Rounds(),
		requests:  deps.Store.DrawRequests(),
		events:    deps.Store.Events(),
		settings:  deps.Store.Settings(),
		access:    deps.Access,
		oracle:    deps.Oracle,
		transport: deps.Transport,
		publisher: deps.Publisher,
		clock:     clock,
		logger:    log.WithField("component", "lottery"),
	}
}

func (s *lotteryService) ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]*models.Event, error) {
	return s.events.FindAfter(ctx, afterSeq, limit)
}

// loadRound must be called with mu held
func (s *lotteryService) loadRound(ctx context.Context, roundID uint64) (*models.Round, error) {
	round, err := s.rounds.FindByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrRoundNotFound, roundID)
		}
		return nil, fmt.Errorf("failed to load round %d: %w", roundID, err)
	}
	return round, nil
}

// emit appends the event to the log and publishes it. State is already
// committed at this point so failures are logged, not returned.
func (s *lotteryService) emit(ctx context.Context, event *models.Event) {
	event.CreatedAt = s.clock.Now()
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event", event.Type).Error("failed to append event")
		return
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(event); err != nil {
		s.logger.WithError(err).WithField("event", event.Type).Warn("failed to publish event")
	}
}

func (s *lotteryService) reject(op string, err error, fields log.Fields) error {
	s.logger.WithFields(fields).WithError(err).Warnf("%s rejected", op)
	return err
}
