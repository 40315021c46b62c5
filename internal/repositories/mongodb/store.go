package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	mongoclient "github.com/ArowuTest/lottery-rounds/pkg/mongodb"
)

type store struct {
	client *mongoclient.Client

	rounds   repositories.RoundRepository
	requests repositories.DrawRequestRepository
	events   repositories.EventRepository
	settings repositories.SystemSettingsRepository
}

// NewStore wires the mongo repositories on top of an open client
func NewStore(ctx context.Context, client *mongoclient.Client, database string) (repositories.Store, error) {
	db := client.Database(database)

	requests := NewDrawRequestRepository(db)
	if err := requests.(*DrawRequestRepository).EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	return &store{
		client:   client,
		rounds:   NewRoundRepository(db),
		requests: requests,
		events:   NewEventRepository(db),
		settings: NewSystemSettingsRepository(db),
	}, nil
}

func (s *store) Rounds() repositories.RoundRepository { return s.rounds }
func (s *store) DrawRequests() repositories.DrawRequestRepository { return s.requests }
func (s *store) Events() repositories.EventRepository { return s.events }
func (s *store) Settings() repositories.SystemSettingsRepository { return s.settings }

func (s *store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
