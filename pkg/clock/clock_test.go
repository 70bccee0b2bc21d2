package clock

import (
	"testing"
	"time"
)

func TestIsPastDate(t *testing.T) {
	now := time.Date(2025, 11, 20, 14, 0, 0, 0, time.UTC)
	c := Fixed{T: now}

	tests := []struct {
		date string
		want bool
	}{
		{"2025-11-19", true},
		{"2025-11-20", false}, // today is not past
		{"2025-11-21", false},
		{"2024-12-31", true},
	}

	for _, tt := range tests {
		got, err := IsPastDate(c, tt.date)
		if err != nil {
			t.Fatalf("IsPastDate(%q) unexpected error: %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("IsPastDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}

	if _, err := IsPastDate(c, "not-a-date"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestCanModify_CutoffBoundary(t *testing.T) {
	now := time.Date(2025, 11, 20, 17, 0, 0, 0, time.UTC)
	c := Fixed{T: now}
	cutoff := 2 * time.Hour

	tests := []struct {
		name  string
		date  string
		start string
		want  bool
	}{
		{name: "starts in 1h59m", date: "2025-11-20", start: "18:59", want: false},
		{name: "starts in exactly 2h", date: "2025-11-20", start: "19:00", want: true},
		{name: "starts in 2h01m", date: "2025-11-20", start: "19:01", want: true},
		{name: "starts tomorrow", date: "2025-11-21", start: "12:00", want: true},
		{name: "already started", date: "2025-11-20", start: "16:00", want: false},
		{name: "started yesterday", date: "2025-11-19", start: "19:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanModify(c, tt.date, tt.start, cutoff)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanModify(%s %s) = %v, want %v", tt.date, tt.start, got, tt.want)
			}
		})
	}
}
