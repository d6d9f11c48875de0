// Package checkin implements the rotating QR payload used for event
// check-ins. A displayed code is kind|eventId|epochMinute and is regenerated
// by the displaying client once per minute; validation is pure arithmetic on
// the embedded minute, so no server-side session or nonce store is needed.
package checkin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Kind string

const (
	KindTeam  Kind = "team"
	KindGuest Kind = "guest"
)

// TeamSkewMinutes is the accepted clock skew for member codes. Guest codes
// tolerate none: the form is filled after the scan, so the scan itself must
// hit the current minute.
const TeamSkewMinutes = 1

var (
	ErrInvalidCode = errors.New("invalid code")
	ErrExpiredCode = errors.New("expired code")
)

type Code struct {
	Kind    Kind
	EventID string
	Minute  int64
}

// EpochMinute quantizes a wall-clock instant to the QR rotation unit.
func EpochMinute(t time.Time) int64 {
	return t.UnixMilli() / 60000
}

// FormatCode renders the payload a displaying client embeds in the QR image.
func FormatCode(kind Kind, eventID string, minute int64) string {
	return fmt.Sprintf("%s|%s|%d", kind, eventID, minute)
}

func ParseCode(raw string) (Code, error) {
	parts := strings.Split(strings.TrimSpace(raw), "|")
	if len(parts) != 3 {
		return Code{}, ErrInvalidCode
	}
	kind := Kind(parts[0])
	if kind != KindTeam && kind != KindGuest {
		return Code{}, ErrInvalidCode
	}
	if parts[1] == "" {
		return Code{}, ErrInvalidCode
	}
	minute, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Code{}, ErrInvalidCode
	}
	return Code{Kind: kind, EventID: parts[1], Minute: minute}, nil
}

// ValidateAt checks the code's embedded minute against the validator's
// current epoch minute.
func (c Code) ValidateAt(nowMinute int64) error {
	delta := c.Minute - nowMinute
	if delta < 0 {
		delta = -delta
	}
	switch c.Kind {
	case KindGuest:
		if delta != 0 {
			return ErrExpiredCode
		}
	case KindTeam:
		if delta > TeamSkewMinutes {
			return ErrExpiredCode
		}
	default:
		return ErrInvalidCode
	}
	return nil
}
