package core

import "testing"

func TestParseSignedCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"42.50", 4250, true},
		{"42,50", 4250, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"-12,34", -1234, true},
		{"+3.5", 350, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"12a", 0, false},
		{".5", 50, true},
		{"", 0, false},
		{"-", 0, false},
		{"+", 0, false},
		{".", 0, false},
		{"-.", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseSignedCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCoercePriceCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"4.2", 420},
		{"$4.20", 420},
		{"3,5", 3500}, // comma is stripped, not a separator here
		{"abc", 0},
		{"", 0},
		{"1.2.3", 0},
		{"12", 1200},
	}
	for _, tc := range cases {
		if got := CoercePriceCents(tc.in); got != tc.out {
			t.Fatalf("%q expected %d, got %d", tc.in, tc.out, got)
		}
	}
}

func TestMoneyExpense(t *testing.T) {
	if got := (Money{Cents: 4250}).Expense(); got.Cents != -4250 {
		t.Fatalf("expected -4250, got %d", got.Cents)
	}
	if got := (Money{Cents: -4250}).Expense(); got.Cents != -4250 {
		t.Fatalf("expected -4250, got %d", got.Cents)
	}
	if got := (Money{}).Expense(); got.Cents != 0 {
		t.Fatalf("expected 0, got %d", got.Cents)
	}
}

func TestMoneyFloatRoundTrip(t *testing.T) {
	m := Money{Cents: -7530}
	if got := MoneyFromFloat(m.Float64()); got != m {
		t.Fatalf("round trip mismatch: %v != %v", got, m)
	}
	if got := MoneyFromFloat(75.305); got.Cents != 7531 {
		t.Fatalf("expected 7531, got %d", got.Cents)
	}
}
