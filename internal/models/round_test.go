package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRoundStatus(t *testing.T) {
	closesAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	before := closesAt.Add(-time.Nanosecond)

	fixtures := []struct {
		name  string
		round Round
		now   time.Time
		want  RoundStatus
	}{
		{"open", Round{ClosesAt: closesAt}, before, RoundStatusOpen},
		{"closed at the deadline", Round{ClosesAt: closesAt}, closesAt, RoundStatusClosed},
		{"draw requested", Round{ClosesAt: closesAt, DrawRequestID: "req"}, closesAt, RoundStatusDrawRequested},
		{"drawn", Round{ClosesAt: closesAt, DrawRequestID: "req", Winner: "0xa1"}, closesAt, RoundStatusDrawn},
		{"claimed", Round{ClosesAt: closesAt, Winner: "0xa1", Claimed: true}, closesAt, RoundStatusClaimed},
	}
	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			require.Equal(t, f.want, f.round.Status(f.now))
		})
	}

	r := Round{ClosesAt: closesAt}
	require.True(t, r.IsOpen(before))
	require.False(t, r.IsOpen(closesAt))
}

func TestRoundEntriesOf(t *testing.T) {
	r := Round{Entries: []Address{"0xa1", "0xb0", "0xa1"}}
	require.Equal(t, uint64(2), r.EntriesOf("0xa1"))
	require.Equal(t, uint64(1), r.EntriesOf("0xb0"))
	require.Zero(t, r.EntriesOf("0xc3"))
}

func TestAddressIsZero(t *testing.T) {
	for _, a := range []Address{"", "0x", "0x0000", "000", " 0X00 "} {
		require.True(t, a.IsZero(), "%q", a)
	}
	for _, a := range []Address{"0xa1", "alice", "0x0001"} {
		require.False(t, a.IsZero(), "%q", a)
	}
}
