package timezone

import (
	"testing"
	"time"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{
			name:    "UTC",
			tz:      "UTC",
			wantErr: false,
		},
		{
			name:    "empty string defaults to UTC",
			tz:      "",
			wantErr: false,
		},
		{
			name:    "Asia/Shanghai",
			tz:      "Asia/Shanghai",
			wantErr: false,
		},
		{
			name:    "America/New_York",
			tz:      "America/New_York",
			wantErr: false,
		},
		{
			name:    "invalid timezone",
			tz:      "Invalid/Timezone",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimezone() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if loc == nil {
				t.Errorf("ParseTimezone() returned nil location")
			}
		})
	}
}

func TestIsValidTimezone(t *testing.T) {
	if !IsValidTimezone("") || !IsValidTimezone("UTC") || !IsValidTimezone("Europe/London") {
		t.Errorf("expected valid timezones to be accepted")
	}
	if IsValidTimezone("Not/AZone") {
		t.Errorf("expected invalid timezone to be rejected")
	}
}

func TestStartOfDay(t *testing.T) {
	loc := MustParseTimezone("America/New_York")
	// 2025-08-30 01:30 UTC is still 2025-08-29 in New York.
	ts := time.Date(2025, time.August, 30, 1, 30, 0, 0, time.UTC)

	got := StartOfDay(ts, loc)
	if got.Year() != 2025 || got.Month() != time.August || got.Day() != 29 {
		t.Errorf("StartOfDay() = %v, want 2025-08-29 in %v", got, loc)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("StartOfDay() = %v, want midnight", got)
	}
}
