package datefmt

import "testing"

func TestDayLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		tz   string
		want string
	}{
		{"plain date in UTC", "2024-03-15", "auto", "Fri Mar 15"},
		{"empty timezone means UTC", "2024-03-15", "", "Fri Mar 15"},
		{"named zone keeps wall date", "2024-03-15", "America/Los_Angeles", "Fri Mar 15"},
		{"invalid date returned unchanged", "not-a-date", "auto", "not-a-date"},
		{"invalid zone returned unchanged", "2024-03-15", "Mars/Olympus", "2024-03-15"},
		{"empty input returned unchanged", "", "auto", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayLabel(tt.raw, tt.tz); got != tt.want {
				t.Errorf("DayLabel(%q, %q) = %q, want %q", tt.raw, tt.tz, got, tt.want)
			}
		})
	}
}

func TestHourLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		tz   string
		want string
	}{
		{"minute-resolution local time", "2024-03-15T15:00", "auto", "Fri Mar 15 3 PM"},
		{"morning hour", "2024-03-15T09:00", "", "Fri Mar 15 9 AM"},
		{"local time is not shifted", "2024-03-15T15:00", "America/New_York", "Fri Mar 15 3 PM"},
		{"rfc3339 converts to zone", "2024-03-15T15:00:00Z", "Etc/GMT-2", "Fri Mar 15 5 PM"},
		{"garbage returned unchanged", "soon", "auto", "soon"},
		{"invalid zone returned unchanged", "2024-03-15T15:00", "Nowhere/Here", "2024-03-15T15:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HourLabel(tt.raw, tt.tz); got != tt.want {
				t.Errorf("HourLabel(%q, %q) = %q, want %q", tt.raw, tt.tz, got, tt.want)
			}
		})
	}
}

// TestDayLabel_Idempotent verifies that feeding a failed result back in
// still returns it unchanged.
func TestDayLabel_Idempotent(t *testing.T) {
	raw := "definitely not a date"
	once := DayLabel(raw, "auto")
	twice := DayLabel(once, "auto")
	if once != raw || twice != raw {
		t.Errorf("DayLabel not idempotent on bad input: %q -> %q -> %q", raw, once, twice)
	}
}
