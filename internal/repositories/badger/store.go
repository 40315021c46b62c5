package badgerdb

import (
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/timshannon/badgerhold/v4"
)

type store struct {
	db   *badgerhold.Store
	done chan struct{}

	rounds   repositories.RoundRepository
	requests repositories.DrawRequestRepository
	events   repositories.EventRepository
	settings repositories.SystemSettingsRepository
}

// NewStore opens a badger backed store in dbDir. An empty dbDir keeps
// everything in memory.
func NewStore(dbDir string, logger badger.Logger) (repositories.Store, error) {
	s := &store{done: make(chan struct{})}

	db, err := s.createDB(dbDir, logger)
	if err != nil {
		return nil, err
	}
	s.db = db
	s.rounds = &roundRepository{store: db}
	s.requests = &drawRequestRepository{store: db}
	s.events = newEventRepository(db)
	s.settings = &systemSettingsRepository{store: db}
	return s, nil
}

func (s *store) Rounds() repositories.RoundRepository { return s.rounds }
func (s *store) DrawRequests() repositories.DrawRequestRepository { return s.requests }
func (s *store) Events() repositories.EventRepository { return s.events }
func (s *store) Settings() repositories.SystemSettingsRepository { return s.settings }

func (s *store) Close() error {
	close(s.done)
	return s.db.Close()
}

func (s *store) createDB(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-s.done:
					return
				case <-ticker.C:
					if err := db.Badger().RunValueLogGC(0.5); err != nil && err != badger.ErrNoRewrite && logger != nil {
						logger.Errorf("%s", err)
					}
				}
			}
		}()
	}

	return db, nil
}
