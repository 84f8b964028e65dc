package scraper

import (
	"testing"
	"time"
)

func TestTermString(t *testing.T) {
	tests := []struct {
		term     Term
		expected string
	}{
		{Term{Year: 2025, Code: 30}, "202530"},
		{Term{Year: 2024, Code: 10}, "202410"},
		{Term{Year: 2025, Code: 5}, "20255"},
	}

	for _, tt := range tests {
		if got := tt.term.String(); got != tt.expected {
			t.Errorf("Term%+v.String() = %s, expected %s", tt.term, got, tt.expected)
		}
	}
}

func TestParseTerm(t *testing.T) {
	term, err := ParseTerm("202530")
	if err != nil {
		t.Fatalf("ParseTerm failed: %v", err)
	}
	if term.Year != 2025 || term.Code != 30 {
		t.Errorf("unexpected term %+v", term)
	}
	if term.Season() != "Fall" {
		t.Errorf("expected Fall, got %s", term.Season())
	}

	for _, bad := range []string{"", "2025", "20a530", "2025xx"} {
		if _, err := ParseTerm(bad); err == nil {
			t.Errorf("expected ParseTerm(%q) to fail", bad)
		}
	}
}

func TestCurrentTerm(t *testing.T) {
	tests := []struct {
		month    time.Month
		expected int
	}{
		{time.January, Spring},
		{time.April, Spring},
		{time.May, Summer},
		{time.August, Summer},
		{time.September, Fall},
		{time.December, Fall},
	}

	for _, tt := range tests {
		got := CurrentTerm(time.Date(2026, tt.month, 15, 12, 0, 0, 0, time.UTC))
		if got.Year != 2026 || got.Code != tt.expected {
			t.Errorf("CurrentTerm(%s) = %+v, expected code %d", tt.month, got, tt.expected)
		}
	}
}
