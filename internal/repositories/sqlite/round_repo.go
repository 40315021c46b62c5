package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
)

const selectRound = `SELECT id, max_entries, fee_percent, closes_at, entry_price, winner,
	claimed, fee_paid, draw_request_id, created_at, updated_at FROM rounds`

type roundRepository struct {
	db *sql.DB
}

func (r *roundRepository) Create(ctx context.Context, round *models.Round) error {
	round.UpdatedAt = time.Now()
	return execTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rounds (id, max_entries, fee_percent, closes_at, entry_price, winner,
				claimed, fee_paid, draw_request_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			toDbInt(round.ID), toDbInt(round.MaxEntries), toDbInt(round.FeePercent),
			toDbTime(round.ClosesAt), toDbInt(round.EntryPrice), string(round.Winner),
			round.Claimed, round.FeePaid, round.DrawRequestID,
			toUnix(round.CreatedAt), toUnix(round.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert round %d: %w", round.ID, err)
		}
		return insertEntries(ctx, tx, round.ID, 0, round.Entries)
	})
}

func (r *roundRepository) FindByID(ctx context.Context, id uint64) (*models.Round, error) {
	row := r.db.QueryRowContext(ctx, selectRound+` WHERE id = ?`, toDbInt(id))
	round, err := scanRound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	if round.Entries, err = r.findEntries(ctx, round.ID); err != nil {
		return nil, err
	}
	return round, nil
}

func (r *roundRepository) Update(ctx context.Context, round *models.Round) error {
	round.UpdatedAt = time.Now()
	return execTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE rounds SET max_entries = ?, fee_percent = ?, closes_at = ?, entry_price = ?,
				winner = ?, claimed = ?, fee_paid = ?, draw_request_id = ?, updated_at = ?
			WHERE id = ?`,
			toDbInt(round.MaxEntries), toDbInt(round.FeePercent), toDbTime(round.ClosesAt),
			toDbInt(round.EntryPrice), string(round.Winner), round.Claimed, round.FeePaid,
			round.DrawRequestID, toUnix(round.UpdatedAt), toDbInt(round.ID),
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return repositories.ErrNotFound
		}

		// entries are append-only, only the tail beyond what is stored is written
		var stored int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM round_entries WHERE round_id = ?`, toDbInt(round.ID),
		).Scan(&stored); err != nil {
			return err
		}
		if stored > len(round.Entries) {
			return fmt.Errorf("round %d: entries cannot shrink from %d to %d", round.ID, stored, len(round.Entries))
		}
		return insertEntries(ctx, tx, round.ID, stored, round.Entries[stored:])
	})
}

func (r *roundRepository) FindAll(ctx context.Context) ([]*models.Round, error) {
	rows, err := r.db.QueryContext(ctx, selectRound+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// entries are loaded once the cursor is closed, the pool holds one connection
	rows.Close()

	for _, round := range rounds {
		if round.Entries, err = r.findEntries(ctx, round.ID); err != nil {
			return nil, err
		}
	}
	return rounds, nil
}

func (r *roundRepository) findEntries(ctx context.Context, roundID uint64) ([]models.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT buyer FROM round_entries WHERE round_id = ? ORDER BY position`, toDbInt(roundID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.Address, 0)
	for rows.Next() {
		var buyer string
		if err := rows.Scan(&buyer); err != nil {
			return nil, err
		}
		entries = append(entries, models.Address(buyer))
	}
	return entries, rows.Err()
}

func insertEntries(ctx context.Context, tx *sql.Tx, roundID uint64, offset int, entries []models.Address) error {
	if len(entries) <= 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO round_entries (round_id, position, buyer) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, buyer := range entries {
		if _, err := stmt.ExecContext(ctx, toDbInt(roundID), offset+i, string(buyer)); err != nil {
			return fmt.Errorf("failed to insert entry %d of round %d: %w", offset+i, roundID, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(row scanner) (*models.Round, error) {
	var (
		id, maxEntries, feePercent, entryPrice int64
		createdAt, updatedAt                   int64
		closesAt, winner, drawRequestID        string
		claimed, feePaid                       bool
	)
	if err := row.Scan(
		&id, &maxEntries, &feePercent, &closesAt, &entryPrice, &winner,
		&claimed, &feePaid, &drawRequestID, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	closes, err := fromDbTime(closesAt)
	if err != nil {
		return nil, err
	}
	return &models.Round{
		ID:            fromDbInt(id),
		MaxEntries:    fromDbInt(maxEntries),
		FeePercent:    fromDbInt(feePercent),
		ClosesAt:      closes,
		EntryPrice:    fromDbInt(entryPrice),
		Entries:       []models.Address{},
		Winner:        models.Address(winner),
		Claimed:       claimed,
		FeePaid:       feePaid,
		DrawRequestID: drawRequestID,
		CreatedAt:     fromUnix(createdAt),
		UpdatedAt:     fromUnix(updatedAt),
	}, nil
}
