package sqlitedb

import (
	"database/sql"
	"fmt"

	"github.com/ArowuTest/lottery-rounds/internal/repositories"
)

type store struct {
	db *sql.DB

	rounds   repositories.RoundRepository
	requests repositories.DrawRequestRepository
	events   repositories.EventRepository
	settings repositories.SystemSettingsRepository
}

// NewStore opens (creating if needed) the sqlite database at dbPath and
// brings its schema up to date.
func NewStore(dbPath string) (repositories.Store, error) {
	db, err := openDb(dbPath)
	if err != nil {
		return nil, err
	}
	if err := migrateDb(db); err != nil {
		//nolint:errcheck
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &store{
		db:       db,
		rounds:   &roundRepository{db: db},
		requests: &drawRequestRepository{db: db},
		events:   &eventRepository{db: db},
		settings: &systemSettingsRepository{db: db},
	}, nil
}

func (s *store) Rounds() repositories.RoundRepository { return s.rounds }
func (s *store) DrawRequests() repositories.DrawRequestRepository { return s.requests }
func (s *store) Events() repositories.EventRepository { return s.events }
func (s *store) Settings() repositories.SystemSettingsRepository { return s.settings }

func (s *store) Close() error {
	return s.db.Close()
}
