package sheets

import "testing"

func TestParseRow(t *testing.T) {
	cases := []struct {
		name string
		row  []any
		id   string
		cent int64
		ok   bool
	}{
		{"full row", []any{"row-2", "Grocery Store", "-75.3", "shopping-bag", "2025-01-01T00:00:00Z"}, "row-2", -7530, true},
		{"numeric amount", []any{"row-3", "Salary", 3200.0, "dollar-sign"}, "row-3", 320000, true},
		{"comma decimal", []any{"row-4", "Café", "-5,5"}, "row-4", -550, true},
		{"missing id", []any{"", "x", "1"}, "", 0, false},
		{"short row", []any{"row-5"}, "", 0, false},
		{"bad amount", []any{"row-6", "x", "abc"}, "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, ok := parseRow(tc.row)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if !ok {
				return
			}
			if tx.ID != tc.id || tx.Amount.Cents != tc.cent {
				t.Errorf("unexpected transaction: %+v", tx)
			}
		})
	}
}

func TestParseRowFallbacks(t *testing.T) {
	tx, ok := parseRow([]any{"row-9", "", "-1.00"})
	if !ok {
		t.Fatal("expected ok")
	}
	if tx.Label == "" || tx.Icon == "" {
		t.Errorf("expected fallback label and icon, got %+v", tx)
	}
}
