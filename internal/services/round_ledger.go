package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	log "github.com/sirupsen/logrus"
)

// MaxEntriesLimit caps the entries a round may hold. Every entry is stored
// and loaded with its round.
const MaxEntriesLimit = 1_000_000

func validateRoundConfig(duration time.Duration, feePercent, maxEntries, entryPrice uint64) error {
	if maxEntries == 0 {
		return invalidConfiguration(ErrTicketsAreZero)
	}
	if maxEntries > MaxEntriesLimit {
		return invalidConfiguration(ErrTooManyTickets)
	}
	if feePercent == 0 {
		return invalidConfiguration(ErrFeeIsZero)
	}
	if feePercent > 100 {
		return invalidConfiguration(ErrFeeAboveHundred)
	}
	if duration <= 0 {
		return invalidConfiguration(ErrDurationIsZero)
	}
	if entryPrice == 0 {
		return invalidConfiguration(ErrTicketPriceIsZero)
	}
	return nil
}

func (s *lotteryService) CreateRound(
	ctx context.Context, caller models.Address, duration time.Duration, feePercent, maxEntries, entryPrice uint64,
) (uint64, error) {
	fields := log.Fields{"caller": caller}
	if !s.access.IsAdmin(caller) {
		return 0, s.reject("create round", fmt.Errorf("%w: %s may not create rounds", ErrUnauthorized, caller), fields)
	}
	if err := validateRoundConfig(duration, feePercent, maxEntries, entryPrice); err != nil {
		return 0, s.reject("create round", err, fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load settings: %w", err)
	}

	now := s.clock.Now()
	round := &models.Round{
		ID:         settings.RoundCount + 1,
		MaxEntries: maxEntries,
		FeePercent: feePercent,
		ClosesAt:   now.Add(duration),
		EntryPrice: entryPrice,
		Entries:    []models.Address{},
		CreatedAt:  now,
	}
	// the counter moves first so a stored round never reuses an issued id
	settings.RoundCount = round.ID
	if err := s.settings.UpdateSettings(ctx, settings); err != nil {
		return 0, fmt.Errorf("failed to advance round counter: %w", err)
	}
	if err := s.rounds.Create(ctx, round); err != nil {
		settings.RoundCount = round.ID - 1
		if rbErr := s.settings.UpdateSettings(ctx, settings); rbErr != nil {
			s.logger.WithError(rbErr).WithField("round", round.ID).Error("failed to roll back round counter")
		}
		return 0, fmt.Errorf("failed to create round: %w", err)
	}

	s.emit(ctx, models.NewRoundCreated(round))
	s.logger.WithFields(log.Fields{
		"round":      round.ID,
		"closesAt":   round.ClosesAt,
		"maxEntries": maxEntries,
		"feePercent": feePercent,
		"entryPrice": entryPrice,
	}).Info("round created")
	return round.ID, nil
}

func (s *lotteryService) PurchaseEntries(
	ctx context.Context, caller models.Address, roundID, count, paidAmount uint64,
) error {
	caller = caller.Normalize()
	fields := log.Fields{"caller": caller, "round": roundID, "count": count, "paid": paidAmount}
	if caller.IsZero() {
		return s.reject("purchase", ErrZeroAddress, fields)
	}
	if count == 0 {
		return s.reject("purchase", ErrZeroQuantity, fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.loadRound(ctx, roundID)
	if err != nil {
		return err
	}

	required, ok := mulAmount(count, round.EntryPrice)
	if !ok || paidAmount != required {
		return s.reject("purchase", fmt.Errorf("%w: paid %d for %d entries at %d", ErrPaymentMismatch, paidAmount, count, round.EntryPrice), fields)
	}
	held := uint64(len(round.Entries))
	if count > round.MaxEntries-held {
		return s.reject("purchase", fmt.Errorf("%w: %d of %d taken", ErrCapacityExceeded, held, round.MaxEntries), fields)
	}
	// the whole pool must stay representable for the payout split
	if _, ok := mulAmount(held+count, round.EntryPrice); !ok {
		return s.reject("purchase", fmt.Errorf("%w: pool would overflow", ErrCapacityExceeded), fields)
	}
	if !round.IsOpen(s.clock.Now()) {
		return s.reject("purchase", ErrRoundClosed, fields)
	}

	for i := uint64(0); i < count; i++ {
		round.Entries = append(round.Entries, caller)
	}
	if err := s.rounds.Update(ctx, round); err != nil {
		return fmt.Errorf("failed to store entries: %w", err)
	}

	s.emit(ctx, models.NewEntriesPurchased(caller, roundID, count))
	s.logger.WithFields(fields).Info("entries purchased")
	return nil
}

func (s *lotteryService) GetEntries(ctx context.Context, roundID uint64) ([]models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	round, err := s.loadRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	entries := make([]models.Address, len(round.Entries))
	copy(entries, round.Entries)
	return entries, nil
}

func (s *lotteryService) EntriesOf(ctx context.Context, roundID uint64, addr models.Address) (uint64, error) {
	addr = addr.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	round, err := s.loadRound(ctx, roundID)
	if err != nil {
		return 0, err
	}
	return round.EntriesOf(addr), nil
}

func (s *lotteryService) SetFeeRecipient(ctx context.Context, caller, recipient models.Address) error {
	caller, recipient = caller.Normalize(), recipient.Normalize()
	fields := log.Fields{"caller": caller, "recipient": recipient}
	if !s.access.IsAdmin(caller) {
		return s.reject("set fee recipient", fmt.Errorf("%w: %s may not change the fee recipient", ErrUnauthorized, caller), fields)
	}
	if recipient.IsZero() {
		return s.reject("set fee recipient", ErrZeroAddress, fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	previous := settings.FeeRecipient
	settings.FeeRecipient = recipient
	settings.UpdatedBy = caller
	if err := s.settings.UpdateSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to store fee recipient: %w", err)
	}

	s.emit(ctx, models.NewFeeRecipientChanged(previous, recipient))
	s.logger.WithFields(fields).WithField("previous", previous).Info("fee recipient changed")
	return nil
}

func (s *lotteryService) FeeRecipient(ctx context.Context) (models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.FeeRecipient, nil
}

// RoundCount is the id of the most recently created round
func (s *lotteryService) RoundCount(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.RoundCount, nil
}

func (s *lotteryService) GetRound(ctx context.Context, roundID uint64) (*models.RoundView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	round, err := s.loadRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return s.view(round), nil
}

func (s *lotteryService) ListRounds(ctx context.Context) ([]*models.RoundView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rounds, err := s.rounds.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*models.RoundView, 0, len(rounds))
	for _, round := range rounds {
		views = append(views, s.view(round))
	}
	return views, nil
}

func (s *lotteryService) view(round *models.Round) *models.RoundView {
	// purchases keep the pool representable, so the product cannot overflow
	pool, _ := mulAmount(uint64(len(round.Entries)), round.EntryPrice)
	return &models.RoundView{
		Round:      round,
		Status:     round.Status(s.clock.Now()),
		EntryCount: len(round.Entries),
		Pool:       pool,
	}
}
