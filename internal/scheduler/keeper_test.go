package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/scheduler"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type lotteryMock struct {
	mock.Mock
}

func (m *lotteryMock) TriggerDraw(ctx context.Context, roundID uint64) (string, error) {
	args := m.Called(ctx, roundID)
	return args.String(0), args.Error(1)
}

func (m *lotteryMock) ListRounds(ctx context.Context) ([]*models.RoundView, error) {
	args := m.Called(ctx)
	var res []*models.RoundView
	if r := args.Get(0); r != nil {
		res = r.([]*models.RoundView)
	}
	return res, args.Error(1)
}

func TestKeeper(t *testing.T) {
	lottery := &lotteryMock{}
	now := time.Now().UTC()

	pending := []*models.RoundView{
		{Round: &models.Round{ID: 1, ClosesAt: now.Add(-time.Minute)}, Status: models.RoundStatusClosed},
		{Round: &models.Round{ID: 2, ClosesAt: now.Add(-time.Minute), Winner: "0xa1"}, Status: models.RoundStatusDrawn},
	}
	lottery.On("ListRounds", mock.Anything).Return(pending, nil).Once()

	triggered := make(chan uint64, 4)
	lottery.On("TriggerDraw", mock.Anything, uint64(1)).
		Run(func(args mock.Arguments) { triggered <- 1 }).
		Return("req-1", nil).Once()
	lottery.On("TriggerDraw", mock.Anything, uint64(3)).
		Run(func(args mock.Arguments) { triggered <- 3 }).
		Return("", services.ErrWinnerAlreadyDrawn).Once()

	keeper := scheduler.NewKeeper(lottery, nil)
	events := make(chan *models.Event, 1)
	require.NoError(t, keeper.Start(context.Background(), events))
	t.Cleanup(keeper.Stop)

	events <- &models.Event{Type: models.EventEntriesPurchased, RoundID: 9}
	events <- models.NewRoundCreated(&models.Round{ID: 3, ClosesAt: now})
	close(events)

	got := map[uint64]bool{}
	for len(got) < 2 {
		select {
		case id := <-triggered:
			got[id] = true
		case <-time.After(5 * time.Second):
			t.Fatalf("draws triggered so far: %v", got)
		}
	}
	require.Equal(t, map[uint64]bool{1: true, 3: true}, got)
	lottery.AssertNotCalled(t, "TriggerDraw", mock.Anything, uint64(2))
	lottery.AssertNotCalled(t, "TriggerDraw", mock.Anything, uint64(9))
}
