package repository

import (
	"context"

	"clubpulse/server/internal/model"
)

func (s *Store) HasTeamAttendance(ctx context.Context, eventID, uniqueID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM team_attendance WHERE event_id = $1 AND unique_id = $2
		)
	`, eventID, uniqueID).Scan(&exists)
	return exists, err
}

// CreateTeamAttendance inserts one check-in row. The unique constraint on
// (event_id, unique_id) is the authoritative duplicate guard; callers should
// check IsUniqueViolation on the returned error.
func (s *Store) CreateTeamAttendance(ctx context.Context, a model.TeamAttendance) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO team_attendance (
			id, event_id, unique_id, name, class_name, roll_no, team_name,
			entry_date, entry_time, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, a.EventID, a.UniqueID, a.Name, a.ClassName, a.RollNo, a.TeamName,
		a.EntryDate, a.EntryTime, a.CreatedAt)
	return err
}

func (s *Store) CreateGuestAttendance(ctx context.Context, a model.GuestAttendance) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO guest_attendance (
			id, event_id, name, class_name, year, roll_no, email,
			entry_date, entry_time, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, a.EventID, a.Name, a.ClassName, a.Year, a.RollNo, a.Email,
		a.EntryDate, a.EntryTime, a.CreatedAt)
	return err
}

func (s *Store) ListTeamAttendance(ctx context.Context, eventID string) ([]model.TeamAttendance, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, event_id, unique_id, name, class_name, roll_no, team_name,
		       entry_date, entry_time, created_at
		FROM team_attendance
		WHERE event_id = $1
		ORDER BY created_at
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.TeamAttendance
	for rows.Next() {
		var a model.TeamAttendance
		if err := rows.Scan(&a.ID, &a.EventID, &a.UniqueID, &a.Name, &a.ClassName,
			&a.RollNo, &a.TeamName, &a.EntryDate, &a.EntryTime, &a.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (s *Store) ListGuestAttendance(ctx context.Context, eventID string) ([]model.GuestAttendance, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, event_id, name, class_name, year, roll_no, email,
		       entry_date, entry_time, created_at
		FROM guest_attendance
		WHERE event_id = $1
		ORDER BY created_at
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.GuestAttendance
	for rows.Next() {
		var a model.GuestAttendance
		if err := rows.Scan(&a.ID, &a.EventID, &a.Name, &a.ClassName, &a.Year,
			&a.RollNo, &a.Email, &a.EntryDate, &a.EntryTime, &a.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
