package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"clubpulse/server/internal/model"
)

const teamColumns = `id, name, description, members, created_at, updated_at`

func scanTeam(row pgx.Row) (model.Team, error) {
	var t model.Team
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Members, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) CreateTeam(ctx context.Context, t model.Team) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO teams (id, name, description, members, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.Name, t.Description, t.Members, t.CreatedAt, t.UpdatedAt)
	return err
}

func (s *Store) GetTeam(ctx context.Context, name string) (model.Team, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE name = $1`, name)
	return scanTeam(row)
}

func (s *Store) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *Store) ListTeamNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM teams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (s *Store) GetTeamRoster(ctx context.Context, name string) ([]string, error) {
	var members []string
	err := s.pool.QueryRow(ctx, `SELECT members FROM teams WHERE name = $1`, name).Scan(&members)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return members, err
}

func (s *Store) SetTeamRoster(ctx context.Context, name string, uids []string) error {
	if uids == nil {
		uids = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE teams SET members = $1, updated_at = $2 WHERE name = $3
	`, uids, time.Now().UTC(), name)
	return err
}
