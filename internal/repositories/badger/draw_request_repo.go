package badgerdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	"github.com/timshannon/badgerhold/v4"
)

type drawRequestRepository struct {
	store *badgerhold.Store
}

func (r *drawRequestRepository) Create(_ context.Context, req *models.DrawRequest) error {
	if err := r.store.Insert(req.RequestID, *req); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("draw request %s already exists", req.RequestID)
		}
		return err
	}
	return nil
}

func (r *drawRequestRepository) FindByRequestID(_ context.Context, requestID string) (*models.DrawRequest, error) {
	var req models.DrawRequest
	if err := r.store.Get(requestID, &req); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *drawRequestRepository) FindByRoundID(_ context.Context, roundID uint64) (*models.DrawRequest, error) {
	var reqs []models.DrawRequest
	query := badgerhold.Where("RoundID").Eq(roundID)
	if err := r.store.Find(&reqs, query); err != nil {
		return nil, err
	}
	if len(reqs) <= 0 {
		return nil, repositories.ErrNotFound
	}
	return &reqs[0], nil
}

func (r *drawRequestRepository) Update(_ context.Context, req *models.DrawRequest) error {
	if err := r.store.Update(req.RequestID, *req); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return repositories.ErrNotFound
		}
		return err
	}
	return nil
}
