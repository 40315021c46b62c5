package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	log "github.com/sirupsen/logrus"
)

func (s *lotteryService) TriggerDraw(ctx context.Context, roundID uint64) (string, error) {
	fields := log.Fields{"round": roundID}

	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.loadRound(ctx, roundID)
	if err != nil {
		return "", err
	}
	now := s.clock.Now()
	if round.IsOpen(now) {
		return "", s.reject("trigger draw", fmt.Errorf("%w: closes at %s", ErrRoundStillOpen, round.ClosesAt), fields)
	}
	if round.Winner != "" || round.DrawRequestID != "" {
		return "", s.reject("trigger draw", ErrWinnerAlreadyDrawn, fields)
	}

	requestID, err := s.oracle.RequestRandomness(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to request randomness: %w", err)
	}

	req := &models.DrawRequest{
		RequestID:   requestID,
		RoundID:     roundID,
		RequestedAt: now,
	}
	// link first: an unlinked round can be triggered again, an orphan request
	// would block its round id forever
	round.DrawRequestID = requestID
	if err := s.rounds.Update(ctx, round); err != nil {
		return "", fmt.Errorf("failed to link draw request: %w", err)
	}
	if err := s.requests.Create(ctx, req); err != nil {
		round.DrawRequestID = ""
		if rbErr := s.rounds.Update(ctx, round); rbErr != nil {
			s.logger.WithFields(fields).WithError(rbErr).Error("failed to unlink draw request")
		}
		return "", fmt.Errorf("failed to store draw request: %w", err)
	}

	s.emit(ctx, models.NewDrawRequested(requestID, roundID))
	s.logger.WithFields(fields).WithField("request", requestID).Info("draw requested")
	return requestID, nil
}

func (s *lotteryService) FulfillRandomness(
	ctx context.Context, caller models.Address, requestID string, randomValue uint64,
) error {
	fields := log.Fields{"caller": caller, "request": requestID}
	if caller.Normalize() != s.oracle.Address().Normalize() {
		return s.reject("fulfill", fmt.Errorf("%w: %s is not the oracle", ErrUnauthorized, caller), fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.requests.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return s.reject("fulfill", fmt.Errorf("%w: %s", ErrUnknownRequest, requestID), fields)
		}
		return fmt.Errorf("failed to load draw request: %w", err)
	}
	if req.Fulfilled {
		return s.reject("fulfill", ErrAlreadyFulfilled, fields)
	}

	round, err := s.loadRound(ctx, req.RoundID)
	if err != nil {
		return err
	}
	fields["round"] = round.ID
	if len(round.Entries) == 0 {
		return s.reject("fulfill", ErrNoEntries, fields)
	}
	if round.Winner != "" {
		return s.reject("fulfill", ErrWinnerAlreadyDrawn, fields)
	}

	winnerIndex := randomValue % uint64(len(round.Entries))
	round.Winner = round.Entries[winnerIndex]
	if err := s.rounds.Update(ctx, round); err != nil {
		return fmt.Errorf("failed to store winner: %w", err)
	}

	req.Fulfilled = true
	req.RandomValue = randomValue
	req.FulfilledAt = s.clock.Now()
	if err := s.requests.Update(ctx, req); err != nil {
		round.Winner = ""
		if rbErr := s.rounds.Update(ctx, round); rbErr != nil {
			s.logger.WithFields(fields).WithError(rbErr).Error("failed to roll back winner")
		}
		return fmt.Errorf("failed to mark draw request fulfilled: %w", err)
	}

	s.emit(ctx, models.NewDrawResolved(requestID, round.ID, randomValue))
	s.logger.WithFields(fields).WithFields(log.Fields{
		"index":  winnerIndex,
		"winner": round.Winner,
	}).Info("draw resolved")
	return nil
}

func (s *lotteryService) GetRequestStatus(ctx context.Context, requestID string) (*models.DrawRequestStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, err := s.requests.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRequest, requestID)
		}
		return nil, err
	}

	status := &models.DrawRequestStatus{RequestID: req.RequestID, Fulfilled: req.Fulfilled}
	if req.Fulfilled {
		value := req.RandomValue
		status.RandomValue = &value
	}
	return status, nil
}

func (s *lotteryService) GetDrawRequestForRound(ctx context.Context, roundID uint64) (*models.DrawRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.loadRound(ctx, roundID); err != nil {
		return nil, err
	}
	req, err := s.requests.FindByRoundID(ctx, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no draw requested for round %d", ErrUnknownRequest, roundID)
		}
		return nil, err
	}
	return req, nil
}
