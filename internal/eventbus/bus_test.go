package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/eventbus"
	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	bus := eventbus.NewBus()
	t.Cleanup(func() {
		//nolint:errcheck
		bus.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	published := []*models.Event{
		{Seq: 1, Type: models.EventRoundCreated, RoundID: 1, EntryPrice: ^uint64(0)},
		{Seq: 2, Type: models.EventEntriesPurchased, RoundID: 1, Address: "0xa1", Count: 2},
		{Seq: 3, Type: models.EventDrawRequested, RoundID: 1, RequestID: "req-1"},
	}
	for _, e := range published {
		require.NoError(t, bus.Publish(e))
	}

	for _, want := range published {
		select {
		case got := <-events:
			require.Equal(t, want.Seq, got.Seq)
			require.Equal(t, want.Type, got.Type)
			require.Equal(t, want.EntryPrice, got.EntryPrice)
			require.Equal(t, want.Address, got.Address)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for event %d", want.Seq)
		}
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}
