package domain

import (
	"testing"
	"time"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"iso date", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"us slash", "01/15/2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"uk slash falls through", "15/01/2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"ambiguous slash is month-first", "03/04/2025", time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), false},
		{"iso datetime", "2025-01-15 13:45:00", time.Date(2025, 1, 15, 13, 45, 0, 0, time.UTC), false},
		{"garbage", "next tuesday", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlexibleDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFlexibleDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("ParseFlexibleDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFlexibleDate_AmbiguousOrder(t *testing.T) {
	// "03/04/2025" matches both slash formats; the first (MM/DD) must win.
	got, err := ParseFlexibleDate("03/04/2025")
	if err != nil {
		t.Fatal(err)
	}
	if got.Month() != time.March || got.Day() != 4 {
		t.Errorf("expected March 4, got %v", got)
	}
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-06-01", false},
		{"2025-06-01T09:30:00", false},
		{"2025-06-01T09:30:00Z", false},
		{"06/01/2025", true}, // slash formats only accepted on bulk import
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseISODate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseISODate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	d := time.Date(2025, 1, 31, 14, 22, 5, 0, time.UTC)

	start := StartOfDay(d)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("StartOfDay = %v, want midnight", start)
	}

	end := EndOfDay(d)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("EndOfDay = %v, want 23:59:59", end)
	}
	if end.Day() != 31 {
		t.Errorf("EndOfDay moved to day %d, want 31", end.Day())
	}
}
