package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	"github.com/timshannon/badgerhold/v4"
)

type roundRepository struct {
	store *badgerhold.Store
}

func (r *roundRepository) Create(_ context.Context, round *models.Round) error {
	round.UpdatedAt = time.Now()
	if err := r.store.Insert(round.ID, *round); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("round %d already exists", round.ID)
		}
		return err
	}
	return nil
}

func (r *roundRepository) FindByID(_ context.Context, id uint64) (*models.Round, error) {
	var round models.Round
	if err := r.store.Get(id, &round); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) Update(_ context.Context, round *models.Round) error {
	round.UpdatedAt = time.Now()
	if err := r.store.Update(round.ID, *round); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return repositories.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *roundRepository) FindAll(_ context.Context) ([]*models.Round, error) {
	var rounds []models.Round
	if err := r.store.Find(&rounds, nil); err != nil {
		return nil, err
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].ID < rounds[j].ID })

	result := make([]*models.Round, 0, len(rounds))
	for i := range rounds {
		result = append(result, &rounds[i])
	}
	return result, nil
}
