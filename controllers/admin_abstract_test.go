package controllers

import (
	"testing"
	"time"
)

func TestParseDueDateAcceptsRFC3339(t *testing.T) {
	got, err := parseDueDate("2025-07-15T17:00:00+07:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 7, 15, 17, 0, 0, 0, time.FixedZone("", 7*3600))
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseDueDateBareDateMeansEndOfDay(t *testing.T) {
	got, err := parseDueDate("2025-07-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 {
		t.Fatalf("expected end of day, got %v", got)
	}
	if got.Day() != 15 {
		t.Fatalf("expected same day, got %v", got)
	}
}

func TestParseDueDateRejectsGarbage(t *testing.T) {
	if _, err := parseDueDate("next tuesday"); err == nil {
		t.Fatal("expected parse error")
	}
}
