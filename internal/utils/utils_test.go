package utils

import (
	"testing"
	"time"
)

func TestFormatRWF(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "RWF 0"},
		{500, "RWF 500"},
		{7000, "RWF 7,000"},
		{14000, "RWF 14,000"},
		{1234567, "RWF 1,234,567"},
		{-7000, "-RWF 7,000"},
	}
	for _, c := range cases {
		if got := FormatRWF(c.amount); got != c.want {
			t.Fatalf("FormatRWF(%d) = %q, want %q", c.amount, got, c.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"alice@example.com", " bob@mail.rw ", "a.b+c@sub.domain.org"}
	for _, s := range valid {
		if !ValidEmail(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "no-at-sign", "two@@example.com", "trailing@dotless", "spaces in@example.com"}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"0780000001", "+250780000001", "078 000 0001", "078-000-0001"}
	for _, s := range valid {
		if !ValidPhone(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "12345", "phone", "+", "12345678901234567890"}
	for _, s := range invalid {
		if ValidPhone(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-03-02 ")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 2 {
		t.Fatalf("parsed wrong date: %v", d)
	}
	if _, err := ParseDate("02/03/2026"); err == nil {
		t.Fatal("expected parse error for wrong layout")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Fatal("expected same day")
	}
	if SameDay(a, a.Add(2*time.Minute)) {
		t.Fatal("expected different day across midnight")
	}
	// Offsets collapse to UTC before comparing.
	kigali := time.FixedZone("CAT", 2*60*60)
	c := time.Date(2026, 3, 3, 1, 0, 0, 0, kigali) // 2026-03-02 23:00 UTC
	if !SameDay(a, c) {
		t.Fatal("expected same UTC day despite zone offset")
	}
}
