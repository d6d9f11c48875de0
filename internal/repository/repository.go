// Package repository is the PostgreSQL persistence layer. All SQL lives
// here; callers work with model structs and plain errors (pgx.ErrNoRows for
// missing rows, IsUniqueViolation for constraint conflicts).
package repository

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// IsUniqueViolation reports whether err is a unique constraint conflict,
// which handlers translate to 409.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable client-facing id from a display name.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
