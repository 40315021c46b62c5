package payout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	require.NoError(t, ledger.Transfer(ctx, "0xa1", 3))
	require.NoError(t, ledger.Transfer(ctx, "0xa1", 0))
	require.Equal(t, uint64(3), ledger.Balance("0xa1"))

	t.Run("overflow", func(t *testing.T) {
		require.NoError(t, ledger.Transfer(ctx, "0xbig", ^uint64(0)))
		require.Error(t, ledger.Transfer(ctx, "0xbig", 1))
		require.Equal(t, ^uint64(0), ledger.Balance("0xbig"))
	})

	t.Run("rejecting receiver", func(t *testing.T) {
		ledger.OnReceive("0xb0", func(context.Context, uint64) error {
			return errors.New("revert")
		})
		require.Error(t, ledger.Transfer(ctx, "0xb0", 5))
		require.Zero(t, ledger.Balance("0xb0"))
	})

	t.Run("receiver re-enters", func(t *testing.T) {
		var seen uint64
		ledger.OnReceive("0xc3", func(ctx context.Context, amount uint64) error {
			seen = ledger.Balance("0xc3")
			return ledger.Transfer(ctx, "0xa1", 0)
		})
		require.NoError(t, ledger.Transfer(ctx, "0xc3", 7))
		require.Equal(t, uint64(7), seen)
	})
}

func TestGateway(t *testing.T) {
	var got transferRequest
	status := statusCompleted
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transfers", r.URL.Path)
		require.Equal(t, "key", r.Header.Get("X-API-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		//nolint:errcheck
		json.NewEncoder(w).Encode(transferResponse{Reference: got.Reference, Status: status})
	}))
	defer server.Close()

	gateway := NewGateway(server.URL, "key")
	require.NoError(t, gateway.Transfer(context.Background(), "0xa1", ^uint64(0)))
	require.Equal(t, models.Address("0xa1"), got.To)
	require.Equal(t, ^uint64(0), got.Amount)
	require.NotEmpty(t, got.Reference)

	status = "FAILED"
	require.Error(t, gateway.Transfer(context.Background(), "0xa1", 1))

	server.Close()
	require.Error(t, gateway.Transfer(context.Background(), "0xa1", 1))
}
