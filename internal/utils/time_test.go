package utils

import (
	"sort"
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone Asia/Tokyo",
			timezone: "Asia/Tokyo",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestDayKeyIn(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		t    time.Time
		loc  *time.Location
		want string
	}{
		{
			name: "utc midday",
			t:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: "2024-01-01",
		},
		{
			name: "late utc is next day in tokyo",
			t:    time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC),
			loc:  tokyo,
			want: "2024-01-02",
		},
		{
			name: "nil location falls back to local",
			t:    time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local),
			loc:  nil,
			want: "2024-03-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKeyIn(tt.t, tt.loc); got != tt.want {
				t.Errorf("DayKeyIn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayKeySameDay(t *testing.T) {
	morning := time.Date(2024, 6, 10, 0, 0, 1, 0, time.Local)
	night := time.Date(2024, 6, 10, 23, 59, 59, 0, time.Local)
	if DayKey(morning) != DayKey(night) {
		t.Errorf("instants on the same local day produced %q and %q", DayKey(morning), DayKey(night))
	}
}

func TestDayKeyOrdering(t *testing.T) {
	base := time.Date(2023, 12, 28, 12, 0, 0, 0, time.UTC)
	var keys []string
	for i := 0; i < 40; i++ {
		keys = append(keys, DayKeyIn(base.AddDate(0, 0, i), time.UTC))
	}
	if !sort.StringsAreSorted(keys) {
		t.Errorf("chronological keys are not lexicographically sorted: %v", keys)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		key     string
		n       int
		want    string
		wantErr bool
	}{
		{key: "2024-01-01", n: -1, want: "2023-12-31"},
		{key: "2024-02-28", n: 1, want: "2024-02-29"},
		{key: "2024-03-10", n: 1, want: "2024-03-11"},
		{key: "2024-12-31", n: 1, want: "2025-01-01"},
		{key: "2024/01/01", n: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := AddDays(tt.key, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddDays() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AddDays(%q, %d) = %q, want %q", tt.key, tt.n, got, tt.want)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	// Wednesday
	wed := time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC)

	start, end := WeekRange(wed, time.UTC, 0)
	if start != "2023-12-31" || end != "2024-01-06" {
		t.Errorf("WeekRange() = %s..%s, want 2023-12-31..2024-01-06", start, end)
	}

	start, end = WeekRange(wed, time.UTC, -1)
	if start != "2023-12-24" || end != "2023-12-30" {
		t.Errorf("WeekRange(-1) = %s..%s, want 2023-12-24..2023-12-30", start, end)
	}
}

func TestValidateTimeFormat(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"07:30", true},
		{"23:59", true},
		{"24:00", false},
		{"7pm", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateTimeFormat(tt.in); got != tt.want {
			t.Errorf("ValidateTimeFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
