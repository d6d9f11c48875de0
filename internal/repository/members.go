package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"clubpulse/server/internal/model"
)

const memberColumns = `
	uid, name, login_email, email, phone, class_name, roll_no, year,
	team_name, position, role, unique_id, password_hash, claims_updated_at,
	join_date, created_at, updated_at`

func scanMember(row pgx.Row) (model.Member, error) {
	var m model.Member
	err := row.Scan(
		&m.UID,
		&m.Name,
		&m.LoginEmail,
		&m.Email,
		&m.Phone,
		&m.ClassName,
		&m.RollNo,
		&m.Year,
		&m.TeamName,
		&m.Position,
		&m.Role,
		&m.UniqueID,
		&m.PasswordHash,
		&m.ClaimsUpdatedAt,
		&m.JoinDate,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (s *Store) CreateMember(ctx context.Context, m model.Member) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO members (
			uid, name, login_email, email, phone, class_name, roll_no, year,
			team_name, position, role, unique_id, password_hash, claims_updated_at,
			join_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, m.UID, m.Name, m.LoginEmail, m.Email, m.Phone, m.ClassName, m.RollNo, m.Year,
		m.TeamName, m.Position, m.Role, m.UniqueID, m.PasswordHash, m.ClaimsUpdatedAt,
		m.JoinDate, m.CreatedAt, m.UpdatedAt)
	return err
}

func (s *Store) GetMember(ctx context.Context, uid string) (model.Member, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE uid = $1`, uid)
	return scanMember(row)
}

func (s *Store) GetMemberByLoginEmail(ctx context.Context, loginEmail string) (model.Member, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE login_email = $1`, loginEmail)
	return scanMember(row)
}

func (s *Store) ListMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// MemberUpdate carries the mutable profile fields; nil means leave as-is.
type MemberUpdate struct {
	Name      *string
	Email     *string
	Phone     *string
	ClassName *string
	RollNo    *string
	Year      *string
	TeamName  *string
	Position  *string
	Role      *string
	UniqueID  *string
}

// UpdateMember applies the non-nil fields of update to one row. Returns
// pgx.ErrNoRows when the member does not exist.
func (s *Store) UpdateMember(ctx context.Context, uid string, update MemberUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", update.Name)
	add("email", update.Email)
	add("phone", update.Phone)
	add("class_name", update.ClassName)
	add("roll_no", update.RollNo)
	add("year", update.Year)
	add("team_name", update.TeamName)
	add("position", update.Position)
	add("role", update.Role)
	add("unique_id", update.UniqueID)
	if len(sets) == 0 {
		// Nothing to change; still verify the row exists.
		_, err := s.GetMember(ctx, uid)
		return err
	}
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, uid)

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(
		`UPDATE members SET %s WHERE uid = $%d`, strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteMember(ctx context.Context, uid string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM members WHERE uid = $1`, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM members WHERE role = 'admin')`).Scan(&exists)
	return exists, err
}

func (s *Store) UpdateMemberPassword(ctx context.Context, uid, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE members SET password_hash = $1, updated_at = $2 WHERE uid = $3
	`, passwordHash, time.Now().UTC(), uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TouchClaims marks that role or team changed so issued tokens can be
// treated as stale by clients that compare timestamps.
func (s *Store) TouchClaims(ctx context.Context, uid string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE members SET claims_updated_at = $1 WHERE uid = $2`, at, uid)
	return err
}

// ListMemberUIDsByTeam feeds roster reconciliation from the registry side.
func (s *Store) ListMemberUIDsByTeam(ctx context.Context, teamName string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT uid FROM members WHERE team_name = $1`, teamName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStrings(rows)
}

// ListValidMemberUIDs returns the uids a roster entry may legitimately point
// at: rows that still have a name and a profile email.
func (s *Store) ListValidMemberUIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT uid FROM members
		WHERE name <> '' AND email IS NOT NULL AND email <> ''
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	valid := make(map[string]bool)
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		valid[uid] = true
	}
	return valid, rows.Err()
}

func collectStrings(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
