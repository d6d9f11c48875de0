package checkin

import (
	"errors"
	"testing"
	"time"
)

func TestParseCode(t *testing.T) {
	code, err := ParseCode("team|evt-1|12345")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if code.Kind != KindTeam || code.EventID != "evt-1" || code.Minute != 12345 {
		t.Fatalf("unexpected code: %+v", code)
	}

	invalid := []string{
		"",
		"team|evt-1",
		"team|evt-1|12|extra",
		"visitor|evt-1|12345",
		"team||12345",
		"team|evt-1|notanumber",
	}
	for _, raw := range invalid {
		if _, err := ParseCode(raw); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("expected invalid code for %q, got %v", raw, err)
		}
	}
}

func TestGuestCodeExactMinute(t *testing.T) {
	code := Code{Kind: KindGuest, EventID: "evt-1", Minute: 1000}
	if err := code.ValidateAt(1000); err != nil {
		t.Fatalf("expected exact minute to validate, got %v", err)
	}
	for _, now := range []int64{999, 1001} {
		if err := code.ValidateAt(now); !errors.Is(err, ErrExpiredCode) {
			t.Fatalf("expected expired at minute %d, got %v", now, err)
		}
	}
}

func TestTeamCodeSkewWindow(t *testing.T) {
	code := Code{Kind: KindTeam, EventID: "evt-1", Minute: 1000}
	for _, now := range []int64{999, 1000, 1001} {
		if err := code.ValidateAt(now); err != nil {
			t.Fatalf("expected minute %d inside window, got %v", now, err)
		}
	}
	for _, now := range []int64{998, 1002} {
		if err := code.ValidateAt(now); !errors.Is(err, ErrExpiredCode) {
			t.Fatalf("expected expired at minute %d, got %v", now, err)
		}
	}
}

func TestEpochMinute(t *testing.T) {
	at := time.UnixMilli(60000 * 77)
	if got := EpochMinute(at); got != 77 {
		t.Fatalf("expected minute 77, got %d", got)
	}
	if got := EpochMinute(at.Add(59 * time.Second)); got != 77 {
		t.Fatalf("expected minute 77 just before rollover, got %d", got)
	}
	if got := EpochMinute(at.Add(time.Minute)); got != 78 {
		t.Fatalf("expected minute 78 after rollover, got %d", got)
	}
}

func TestFormatCodeRoundTrip(t *testing.T) {
	raw := FormatCode(KindGuest, "evt-9", 424242)
	code, err := ParseCode(raw)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if code.Kind != KindGuest || code.EventID != "evt-9" || code.Minute != 424242 {
		t.Fatalf("unexpected round trip: %+v", code)
	}
}
