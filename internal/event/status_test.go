package event

import (
	"testing"
	"time"

	"clubpulse/server/internal/model"
)

func localTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func TestClassifyScenario(t *testing.T) {
	cases := map[string]struct {
		now  time.Time
		want Status
	}{
		"before start":  {localTime(2024, 5, 1, 8, 0), StatusUpcoming},
		"mid window":    {localTime(2024, 5, 1, 10, 0), StatusLive},
		"after end":     {localTime(2024, 5, 1, 12, 0), StatusExpired},
		"exactly start": {localTime(2024, 5, 1, 9, 0), StatusLive},
		"exactly end":   {localTime(2024, 5, 1, 11, 0), StatusExpired},
	}
	for name, tc := range cases {
		if got := Classify("2024-05-01", "09:00", "11:00", tc.now); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", name, tc.want, got)
		}
	}
}

func TestClassifyPartition(t *testing.T) {
	start, end, ok := Window("2024-05-01", "09:00", "11:00")
	if !ok {
		t.Fatalf("expected window to resolve")
	}
	for now := start.Add(-2 * time.Hour); now.Before(end.Add(2 * time.Hour)); now = now.Add(7 * time.Minute) {
		got := Classify("2024-05-01", "09:00", "11:00", now)
		var want Status
		switch {
		case now.Before(start):
			want = StatusUpcoming
		case now.Before(end):
			want = StatusLive
		default:
			want = StatusExpired
		}
		if got != want {
			t.Fatalf("at %s expected %s, got %s", now, want, got)
		}
	}
}

func TestClassifyLegacyAMPM(t *testing.T) {
	if got := Classify("2024-05-01", "9:00 AM", "2:30 PM", localTime(2024, 5, 1, 13, 0)); got != StatusLive {
		t.Fatalf("expected Live inside AM/PM window, got %s", got)
	}
	if got := Classify("2024-05-01", "12:00 AM", "1:00 AM", localTime(2024, 5, 1, 0, 30)); got != StatusLive {
		t.Fatalf("expected 12 AM to mean midnight, got %s", got)
	}
	if got := Classify("2024-05-01", "12:30 PM", "", localTime(2024, 5, 1, 13, 0)); got != StatusLive {
		t.Fatalf("expected noon start with default end, got %s", got)
	}
}

func TestClassifyDefaults(t *testing.T) {
	// No end: one hour after start.
	if got := Classify("2024-05-01", "09:00", "", localTime(2024, 5, 1, 9, 30)); got != StatusLive {
		t.Fatalf("expected Live within default hour, got %s", got)
	}
	if got := Classify("2024-05-01", "09:00", "", localTime(2024, 5, 1, 10, 30)); got != StatusExpired {
		t.Fatalf("expected Expired past default hour, got %s", got)
	}
	// No times at all: full day.
	if got := Classify("2024-05-01", "", "", localTime(2024, 5, 1, 18, 0)); got != StatusLive {
		t.Fatalf("expected all-day event to be Live, got %s", got)
	}
	if got := Classify("2024-05-01", "", "", localTime(2024, 5, 2, 0, 30)); got != StatusExpired {
		t.Fatalf("expected all-day event to expire next day, got %s", got)
	}
	// Bad date: Upcoming.
	if got := Classify("someday", "09:00", "11:00", localTime(2024, 5, 1, 10, 0)); got != StatusUpcoming {
		t.Fatalf("expected Upcoming for unparseable date, got %s", got)
	}
}

func TestStatusOfLegacyTimeField(t *testing.T) {
	ev := model.Event{Date: "2024-05-01", Time: "09:00"}
	if got := StatusOf(ev, localTime(2024, 5, 1, 9, 30)); got != StatusLive {
		t.Fatalf("expected legacy time field to set the window, got %s", got)
	}
	if got := StatusOf(ev, localTime(2024, 5, 1, 10, 30)); got != StatusExpired {
		t.Fatalf("expected legacy window to expire, got %s", got)
	}
}
