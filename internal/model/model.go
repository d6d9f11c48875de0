package model

import "time"

// Member is a registered club member. The row doubles as the login account:
// LoginEmail is the canonical sign-in identifier and PasswordHash the bcrypt
// credential. Email holds the profile address the member supplied, if any.
type Member struct {
	UID             string
	Name            string
	LoginEmail      string
	Email           *string
	Phone           *string
	ClassName       *string
	RollNo          *string
	Year            *string
	TeamName        *string
	Position        *string
	Role            string
	UniqueID        string
	PasswordHash    string
	ClaimsUpdatedAt *time.Time
	JoinDate        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Team is keyed by its display name; ID is a derived slug kept for clients.
// Members is the roster of member UIDs maintained by roster.Syncer.
type Team struct {
	ID          string
	Name        string
	Description *string
	Members     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event date and times are stored as entered: Date is YYYY-MM-DD, StartTime
// and EndTime are HH:mm with a tolerated legacy h:mm AM/PM form. Time is the
// legacy single time field older records carry instead of StartTime.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        string
	StartTime   string
	EndTime     string
	Time        string
	Venue       string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamAttendance is a member check-in for an event. Profile fields are a
// snapshot taken at check-in time. At most one record exists per
// (EventID, UniqueID).
type TeamAttendance struct {
	ID        string
	EventID   string
	UniqueID  string
	Name      string
	ClassName string
	RollNo    string
	TeamName  string
	EntryDate string
	EntryTime string
	CreatedAt time.Time
}

// GuestAttendance is a walk-in check-in with self-reported contact fields.
// Guests are not deduplicated.
type GuestAttendance struct {
	ID        string
	EventID   string
	Name      string
	ClassName string
	Year      string
	RollNo    string
	Email     string
	EntryDate string
	EntryTime string
	CreatedAt time.Time
}

type RefreshSession struct {
	ID        string
	UID       string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
