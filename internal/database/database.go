package database

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ArowuTest/lottery-rounds/internal/config"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	badgerdb "github.com/ArowuTest/lottery-rounds/internal/repositories/badger"
	"github.com/ArowuTest/lottery-rounds/internal/repositories/mongodb"
	sqlitedb "github.com/ArowuTest/lottery-rounds/internal/repositories/sqlite"
	mongoclient "github.com/ArowuTest/lottery-rounds/pkg/mongodb"
	log "github.com/sirupsen/logrus"
)

const (
	sqliteDbFile = "lottery.db"
	badgerDir    = "badger"
)

type storeFactory func(ctx context.Context, cfg *config.Config) (repositories.Store, error)

var storeTypes = map[string]storeFactory{
	config.StorageMongoDB: newMongoStore,
	config.StorageBadger:  newBadgerStore,
	config.StorageSQLite:  newSQLiteStore,
}

// NewStore opens the storage engine selected by cfg.Storage.Type
func NewStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	factory, ok := storeTypes[cfg.Storage.Type]
	if !ok {
		return nil, fmt.Errorf("invalid storage type: %s", cfg.Storage.Type)
	}

	store, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Type, err)
	}

	log.WithField("storage", cfg.Storage.Type).Info("store opened")
	return store, nil
}

func newMongoStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	client, err := mongoclient.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		return nil, err
	}
	store, err := mongodb.NewStore(ctx, client, cfg.MongoDB.Database)
	if err != nil {
		//nolint:errcheck
		client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

func newBadgerStore(_ context.Context, cfg *config.Config) (repositories.Store, error) {
	dir := ""
	if cfg.Storage.DataDir != "" {
		dir = filepath.Join(cfg.Storage.DataDir, badgerDir)
	}
	return badgerdb.NewStore(dir, log.WithField("component", "badger"))
}

func newSQLiteStore(_ context.Context, cfg *config.Config) (repositories.Store, error) {
	if cfg.Storage.DataDir == "" {
		return nil, fmt.Errorf("sqlite storage needs a data directory")
	}
	return sqlitedb.NewStore(filepath.Join(cfg.Storage.DataDir, sqliteDbFile))
}
