package sqlitedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
)

type eventRepository struct {
	db *sql.DB
}

func (r *eventRepository) Append(ctx context.Context, event *models.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (type, round_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		string(event.Type), toDbInt(event.RoundID), string(payload), toUnix(event.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return err
	}
	event.Seq = fromDbInt(seq)
	return nil
}

func (r *eventRepository) FindAfter(ctx context.Context, afterSeq uint64, limit int) ([]*models.Event, error) {
	query := `SELECT seq, payload FROM events WHERE seq > ? ORDER BY seq`
	args := []any{toDbInt(afterSeq)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		var (
			seq     int64
			payload string
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, err
		}
		var event models.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, fmt.Errorf("failed to decode event %d: %w", seq, err)
		}
		event.Seq = fromDbInt(seq)
		events = append(events, &event)
	}
	return events, rows.Err()
}
