package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/upandey0/eval-sys/internal/models"
)

// createdAtExpr resolves the session creation time across the alias fields
// older writers used. Records carry exactly one of them.
const createdAtExpr = `COALESCE(
	(payload->>'created_at')::timestamptz,
	(payload->>'createdAt')::timestamptz,
	(payload->>'timestamp')::timestamptz,
	(payload->>'date')::timestamptz
)`

// FindByDateRange returns the raw session payloads created inside the
// window, oldest first. The sessions table stores each recorded session as
// one JSONB payload column.
func (db *DB) FindByDateRange(ctx context.Context, rng models.DateRange) ([]models.Record, error) {
	query := fmt.Sprintf(`
		SELECT payload
		FROM sessions
		WHERE %s BETWEEN $1 AND $2
		ORDER BY %s ASC, id ASC`, createdAtExpr, createdAtExpr)

	rows, err := db.Pool.Query(ctx, query, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan session payload: %w", err)
		}

		var rec models.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode session payload: %w", err)
		}
		sessions = append(sessions, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	db.logger.Debug().
		Int("sessions", len(sessions)).
		Time("from", rng.From).
		Time("to", rng.To).
		Msg("sessions fetched")

	return sessions, nil
}
