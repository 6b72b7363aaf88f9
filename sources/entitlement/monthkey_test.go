package entitlement

import (
	"testing"
	"time"
)

func TestMonthKeyFor(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "double digit month", at: time.Date(2026, 11, 30, 23, 59, 59, 0, time.UTC), want: "2026-11"},
		{name: "single digit month is padded", at: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), want: "2026-03"},
		{name: "first instant of month", at: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), want: "2027-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthKeyFor(tt.at).String(); got != tt.want {
				t.Errorf("MonthKeyFor(%v) = %q, want %q", tt.at, got, tt.want)
			}
		})
	}
}
