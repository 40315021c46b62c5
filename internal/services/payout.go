package services

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	log "github.com/sirupsen/logrus"
)

// Payout is the split of a round pool
type Payout struct {
	RoundID      uint64         `json:"roundId"`
	Pool         uint64         `json:"pool"`
	Fee          uint64         `json:"fee"`
	WinnerAmount uint64         `json:"winnerAmount"`
	Winner       models.Address `json:"winner"`
	FeeRecipient models.Address `json:"feeRecipient,omitempty"`
}

// mulAmount multiplies two amounts and reports whether the product fits
func mulAmount(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// SplitPool computes pool = entries*price, fee = floor(pool*feePercent/100)
// and winnerAmount = pool - fee. The remainder of the division is paid to
// nobody. feePercent must be at most 100.
func SplitPool(entries, price, feePercent uint64) (pool, fee, winnerAmount uint64, err error) {
	pool, ok := mulAmount(entries, price)
	if !ok {
		return 0, 0, 0, fmt.Errorf("pool of %d entries at %d overflows", entries, price)
	}
	if feePercent > 100 {
		return 0, 0, 0, invalidConfiguration(ErrFeeAboveHundred)
	}
	// pool*feePercent fits in 128 bits with hi < 100, so Div64 cannot panic
	hi, lo := bits.Mul64(pool, feePercent)
	fee, _ = bits.Div64(hi, lo, 100)
	return pool, fee, pool - fee, nil
}

// Claim pays the fee recipient and then the winner. A failed transfer rolls
// Claimed back, but a fee transfer that already went through is not reversed:
// the rollback is partial, and FeePaid makes a retried claim pay only the winner.
func (s *lotteryService) Claim(ctx context.Context, caller models.Address, roundID uint64) (*Payout, error) {
	caller = caller.Normalize()
	fields := log.Fields{"caller": caller, "round": roundID}

	payout, feeAlreadyPaid, err := s.beginClaim(ctx, caller, roundID)
	if err != nil {
		return nil, err
	}

	// The lock is released for the transfers. Claimed is already committed,
	// so a receiver calling back into the service gets ErrAlreadyClaimed.
	if !feeAlreadyPaid && !payout.FeeRecipient.IsZero() {
		if err := s.transport.Transfer(ctx, payout.FeeRecipient, payout.Fee); err != nil {
			s.rollbackClaim(ctx, roundID)
			return nil, s.reject("claim", fmt.Errorf("%w: fee to %s: %v", ErrTransferFailed, payout.FeeRecipient, err), fields)
		}
		s.markFeePaid(ctx, roundID)
	}

	if err := s.transport.Transfer(ctx, caller, payout.WinnerAmount); err != nil {
		s.rollbackClaim(ctx, roundID)
		return nil, s.reject("claim", fmt.Errorf("%w: prize to %s: %v", ErrTransferFailed, caller, err), fields)
	}

	s.mu.Lock()
	s.emit(ctx, models.NewClaimed(caller, roundID, payout.WinnerAmount))
	s.mu.Unlock()

	s.logger.WithFields(fields).WithFields(log.Fields{
		"pool":   payout.Pool,
		"fee":    payout.Fee,
		"amount": payout.WinnerAmount,
	}).Info("prize claimed")
	return payout, nil
}

// beginClaim validates the claim and commits Claimed=true before any funds move
func (s *lotteryService) beginClaim(ctx context.Context, caller models.Address, roundID uint64) (*Payout, bool, error) {
	fields := log.Fields{"caller": caller, "round": roundID}

	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.loadRound(ctx, roundID)
	if err != nil {
		return nil, false, err
	}
	if round.Winner == "" || round.Winner != caller {
		return nil, false, s.reject("claim", ErrNotWinner, fields)
	}
	if round.Claimed {
		return nil, false, s.reject("claim", ErrAlreadyClaimed, fields)
	}

	pool, fee, winnerAmount, err := SplitPool(uint64(len(round.Entries)), round.EntryPrice, round.FeePercent)
	if err != nil {
		return nil, false, err
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load settings: %w", err)
	}
	if !round.FeePaid && fee > 0 && settings.FeeRecipient.IsZero() {
		return nil, false, s.reject("claim", fmt.Errorf("%w: no fee recipient for a fee of %d: %w", ErrTransferFailed, fee, ErrZeroAddress), fields)
	}

	round.Claimed = true
	if err := s.rounds.Update(ctx, round); err != nil {
		return nil, false, fmt.Errorf("failed to mark round claimed: %w", err)
	}

	return &Payout{
		RoundID:      roundID,
		Pool:         pool,
		Fee:          fee,
		WinnerAmount: winnerAmount,
		Winner:       caller,
		FeeRecipient: settings.FeeRecipient,
	}, round.FeePaid, nil
}

func (s *lotteryService) rollbackClaim(ctx context.Context, roundID uint64) {
	s.updateRound(ctx, roundID, "roll back claim", func(round *models.Round) { round.Claimed = false })
}

// markFeePaid keeps a retried claim from paying the fee a second time
func (s *lotteryService) markFeePaid(ctx context.Context, roundID uint64) {
	s.updateRound(ctx, roundID, "mark fee paid", func(round *models.Round) { round.FeePaid = true })
}

func (s *lotteryService) updateRound(ctx context.Context, roundID uint64, op string, mutate func(*models.Round)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.loadRound(ctx, roundID)
	if err == nil {
		mutate(round)
		err = s.rounds.Update(ctx, round)
	}
	if err != nil {
		s.logger.WithError(err).WithField("round", roundID).Errorf("failed to %s", op)
	}
}
