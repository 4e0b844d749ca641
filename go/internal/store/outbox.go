package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/outbox"
	"github.com/mcdev12/dynastycap/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

func (q *Queries) InsertOutboxEvent(ctx context.Context, e outbox.Event) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO cap_outbox (id, league_id, event_type, payload, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		e.ID, e.LeagueID, e.EventType,
		pqtype.NullRawMessage{RawMessage: e.Payload, Valid: len(e.Payload) > 0},
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// FetchUnsentOutbox claims up to limit unsent events, skipping rows another relay holds.
func (q *Queries) FetchUnsentOutbox(ctx context.Context, limit int) ([]outbox.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, league_id, event_type, payload, created_at, sent_at
		FROM cap_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var (
			e       outbox.Event
			payload pqtype.NullRawMessage
			sentAt  sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.LeagueID, &e.EventType, &payload, &e.CreatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		if payload.Valid {
			e.Payload = payload.RawMessage
		}
		e.SentAt = sqlutil.FromSqlTime(sentAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (q *Queries) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	res, err := q.db.ExecContext(ctx, `UPDATE cap_outbox SET sent_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event sent: %w", err)
	}
	return expectOne(res, "outbox event", id)
}
