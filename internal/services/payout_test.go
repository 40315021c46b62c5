package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSplitPool(t *testing.T) {
	fixtures := []struct {
		name                string
		entries, price, fee uint64
		pool, feeAmount     uint64
		winnerAmount        uint64
	}{
		{"fee floors to zero", 3, 1, 10, 3, 0, 3},
		{"exact percentage", 10, 10, 10, 100, 10, 90},
		{"remainder is dropped", 10, 7, 15, 70, 10, 60},
		{"whole pool as fee", 4, 5, 100, 20, 20, 0},
		{"one percent of one", 1, 1, 1, 1, 0, 1},
		{"no entries", 0, 5, 50, 0, 0, 0},
		{"pool near max", 1, math.MaxUint64, 100, math.MaxUint64, math.MaxUint64, 0},
		{"wide product", 1, math.MaxUint64, 50, math.MaxUint64, math.MaxUint64 / 2, math.MaxUint64 - math.MaxUint64/2},
	}
	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			pool, fee, winnerAmount, err := services.SplitPool(f.entries, f.price, f.fee)
			require.NoError(t, err)
			require.Equal(t, f.pool, pool)
			require.Equal(t, f.feeAmount, fee)
			require.Equal(t, f.winnerAmount, winnerAmount)
		})
	}

	t.Run("overflow", func(t *testing.T) {
		_, _, _, err := services.SplitPool(2, math.MaxUint64, 10)
		require.Error(t, err)
	})

	t.Run("fee above hundred", func(t *testing.T) {
		_, _, _, err := services.SplitPool(2, 2, 101)
		require.ErrorIs(t, err, services.ErrInvalidConfiguration)
	})
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("three entries drawn with seven", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.SetFeeRecipient(ctx, admin, feeTo))
		id := f.openRound(t, 10, 10, 1)
		f.buy(t, alice, id, 1)
		f.buy(t, alice, id, 1)
		f.buy(t, alice, id, 1)

		entries, err := f.svc.GetEntries(ctx, id)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		f.draw(t, id, "req-1", 7)
		round, err := f.svc.GetRound(ctx, id)
		require.NoError(t, err)
		require.Equal(t, alice, round.Winner)

		f.transport.On("Transfer", mock.Anything, feeTo, uint64(0)).Return(nil).Once()
		f.transport.On("Transfer", mock.Anything, alice, uint64(3)).Return(nil).Once()

		payout, err := f.svc.Claim(ctx, alice, id)
		require.NoError(t, err)
		require.Equal(t, uint64(3), payout.Pool)
		require.Equal(t, uint64(0), payout.Fee)
		require.Equal(t, uint64(3), payout.WinnerAmount)
		f.transport.AssertExpectations(t)

		round, err = f.svc.GetRound(ctx, id)
		require.NoError(t, err)
		require.True(t, round.Claimed)
		require.Equal(t, models.RoundStatusClaimed, round.Status)

		_, err = f.svc.Claim(ctx, alice, id)
		require.ErrorIs(t, err, services.ErrAlreadyClaimed)
		f.transport.AssertNumberOfCalls(t, "Transfer", 2)

		events, err := f.svc.ListEvents(ctx, 0, 0)
		require.NoError(t, err)
		last := events[len(events)-1]
		require.Equal(t, models.EventClaimed, last.Type)
		require.Equal(t, alice, last.Address)
		require.Equal(t, uint64(3), last.Amount)
	})

	t.Run("fee is split by floor division", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.SetFeeRecipient(ctx, admin, feeTo))
		id := f.openRound(t, 15, 10, 7)
		f.buy(t, bob, id, 10)
		f.draw(t, id, "req-1", 3)

		f.transport.On("Transfer", mock.Anything, feeTo, uint64(10)).Return(nil).Once()
		f.transport.On("Transfer", mock.Anything, bob, uint64(60)).Return(nil).Once()

		payout, err := f.svc.Claim(ctx, bob, id)
		require.NoError(t, err)
		require.Equal(t, uint64(70), payout.Pool)
		f.transport.AssertExpectations(t)
	})

	t.Run("only the winner claims", func(t *testing.T) {
		f := newFixture(t)
		id := f.openRound(t, 10, 10, 1)
		f.buy(t, alice, id, 1)

		_, err := f.svc.Claim(ctx, alice, id)
		require.ErrorIs(t, err, services.ErrNotWinner)

		f.draw(t, id, "req-1", 0)
		_, err = f.svc.Claim(ctx, bob, id)
		require.ErrorIs(t, err, services.ErrNotWinner)

		_, err = f.svc.Claim(ctx, alice, 99)
		require.ErrorIs(t, err, services.ErrRoundNotFound)
		f.transport.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fee transfer failure rolls back", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.SetFeeRecipient(ctx, admin, feeTo))
		id := f.openRound(t, 50, 10, 2)
		f.buy(t, alice, id, 2)
		f.draw(t, id, "req-1", 1)

		f.transport.On("Transfer", mock.Anything, feeTo, uint64(2)).Return(errors.New("rejected")).Once()

		_, err := f.svc.Claim(ctx, alice, id)
		require.ErrorIs(t, err, services.ErrTransferFailed)

		round, err := f.svc.GetRound(ctx, id)
		require.NoError(t, err)
		require.False(t, round.Claimed)
		require.False(t, round.FeePaid)

		f.transport.On("Transfer", mock.Anything, feeTo, uint64(2)).Return(nil).Once()
		f.transport.On("Transfer", mock.Anything, alice, uint64(2)).Return(nil).Once()
		_, err = f.svc.Claim(ctx, alice, id)
		require.NoError(t, err)
		f.transport.AssertExpectations(t)
	})

	t.Run("winner transfer failure does not repay fee", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.SetFeeRecipient(ctx, admin, feeTo))
		id := f.openRound(t, 50, 10, 2)
		f.buy(t, alice, id, 2)
		f.draw(t, id, "req-1", 1)

		f.transport.On("Transfer", mock.Anything, feeTo, uint64(2)).Return(nil).Once()
		f.transport.On("Transfer", mock.Anything, alice, uint64(2)).Return(errors.New("reverted")).Once()

		_, err := f.svc.Claim(ctx, alice, id)
		require.ErrorIs(t, err, services.ErrTransferFailed)

		round, err := f.svc.GetRound(ctx, id)
		require.NoError(t, err)
		require.False(t, round.Claimed)
		require.True(t, round.FeePaid)

		f.transport.On("Transfer", mock.Anything, alice, uint64(2)).Return(nil).Once()
		_, err = f.svc.Claim(ctx, alice, id)
		require.NoError(t, err)
		f.transport.AssertExpectations(t)
		f.transport.AssertNumberOfCalls(t, "Transfer", 3)
	})

	t.Run("missing fee recipient", func(t *testing.T) {
		f := newFixture(t)
		id := f.openRound(t, 50, 10, 2)
		f.buy(t, alice, id, 2)
		f.draw(t, id, "req-1", 1)

		_, err := f.svc.Claim(ctx, alice, id)
		require.ErrorIs(t, err, services.ErrTransferFailed)
		require.ErrorIs(t, err, services.ErrZeroAddress)

		round, err := f.svc.GetRound(ctx, id)
		require.NoError(t, err)
		require.False(t, round.Claimed)
		f.transport.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("winner claims in any casing", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.SetFeeRecipient(ctx, admin, feeTo))
		id := f.openRound(t, 10, 10, 1)
		f.buy(t, "0xA1", id, 2)
		f.draw(t, id, "req-1", 1)

		f.transport.On("Transfer", mock.Anything, feeTo, uint64(0)).Return(nil).Once()
		f.transport.On("Transfer", mock.Anything, alice, uint64(2)).Return(nil).Once()

		payout, err := f.svc.Claim(ctx, "0xa1", id)
		require.NoError(t, err)
		require.Equal(t, alice, payout.Winner)
		f.transport.AssertExpectations(t)
	})

	t.Run("reentrant claim sees claimed", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.SetFeeRecipient(ctx, admin, feeTo))
		id := f.openRound(t, 10, 10, 1)
		f.buy(t, alice, id, 3)
		f.draw(t, id, "req-1", 2)

		var reentrantErr error
		f.transport.On("Transfer", mock.Anything, feeTo, uint64(0)).Return(nil).Once()
		f.transport.On("Transfer", mock.Anything, alice, uint64(3)).
			Run(func(args mock.Arguments) {
				_, reentrantErr = f.svc.Claim(ctx, alice, id)
			}).
			Return(nil).Once()

		_, err := f.svc.Claim(ctx, alice, id)
		require.NoError(t, err)
		require.ErrorIs(t, reentrantErr, services.ErrAlreadyClaimed)
		f.transport.AssertNumberOfCalls(t, "Transfer", 2)
	})
}
