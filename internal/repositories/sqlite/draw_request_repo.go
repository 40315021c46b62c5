package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
)

const selectDrawRequest = `SELECT request_id, round_id, random_value, fulfilled,
	requested_at, fulfilled_at FROM draw_requests`

type drawRequestRepository struct {
	db *sql.DB
}

func (r *drawRequestRepository) Create(ctx context.Context, req *models.DrawRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO draw_requests (request_id, round_id, random_value, fulfilled, requested_at, fulfilled_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		req.RequestID, toDbInt(req.RoundID), toDbInt(req.RandomValue), req.Fulfilled,
		toUnix(req.RequestedAt), toUnix(req.FulfilledAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert draw request %s: %w", req.RequestID, err)
	}
	return nil
}

func (r *drawRequestRepository) FindByRequestID(ctx context.Context, requestID string) (*models.DrawRequest, error) {
	row := r.db.QueryRowContext(ctx, selectDrawRequest+` WHERE request_id = ?`, requestID)
	return scanDrawRequest(row)
}

func (r *drawRequestRepository) FindByRoundID(ctx context.Context, roundID uint64) (*models.DrawRequest, error) {
	row := r.db.QueryRowContext(ctx, selectDrawRequest+` WHERE round_id = ?`, toDbInt(roundID))
	return scanDrawRequest(row)
}

func (r *drawRequestRepository) Update(ctx context.Context, req *models.DrawRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE draw_requests SET random_value = ?, fulfilled = ?, fulfilled_at = ? WHERE request_id = ?`,
		toDbInt(req.RandomValue), req.Fulfilled, toUnix(req.FulfilledAt), req.RequestID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func scanDrawRequest(row *sql.Row) (*models.DrawRequest, error) {
	var (
		requestID                string
		roundID, randomValue     int64
		fulfilled                bool
		requestedAt, fulfilledAt int64
	)
	if err := row.Scan(&requestID, &roundID, &randomValue, &fulfilled, &requestedAt, &fulfilledAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &models.DrawRequest{
		RequestID:   requestID,
		RoundID:     fromDbInt(roundID),
		RandomValue: fromDbInt(randomValue),
		Fulfilled:   fulfilled,
		RequestedAt: fromUnix(requestedAt),
		FulfilledAt: fromUnix(fulfilledAt),
	}, nil
}
