package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"clubpulse/server/internal/model"
)

const eventColumns = `
	id, title, description, date, start_time, end_time, legacy_time, venue,
	status, created_at, updated_at`

func scanEvent(row pgx.Row) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&e.StartTime,
		&e.EndTime,
		&e.Time,
		&e.Venue,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func (s *Store) CreateEvent(ctx context.Context, e model.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (
			id, title, description, date, start_time, end_time, legacy_time,
			venue, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, e.ID, e.Title, e.Description, e.Date, e.StartTime, e.EndTime, e.Time,
		e.Venue, e.Status, e.CreatedAt, e.UpdatedAt)
	return err
}

func (s *Store) GetEvent(ctx context.Context, id string) (model.Event, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// EventUpdate carries the mutable event fields; nil means leave as-is.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *string
	StartTime   *string
	EndTime     *string
	Venue       *string
}

func (s *Store) UpdateEvent(ctx context.Context, id string, update EventUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("title", update.Title)
	add("description", update.Description)
	add("date", update.Date)
	add("start_time", update.StartTime)
	add("end_time", update.EndTime)
	add("venue", update.Venue)
	if len(sets) == 0 {
		_, err := s.GetEvent(ctx, id)
		return err
	}
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(
		`UPDATE events SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateEventStatus persists the cached status column; readers still derive
// the live value.
func (s *Store) UpdateEventStatus(ctx context.Context, id, status string) error {
	_, err := s.pool.Exec(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	return err
}
