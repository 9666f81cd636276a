package core

import "testing"

func TestTransactionValidate(t *testing.T) {
	good := Transaction{ID: "1", Icon: "coffee", Label: "Café", Amount: Money{Cents: -550}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{ID: "", Label: "x"},
		{ID: "1", Label: ""},
		{ID: " ", Label: "x"},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestOcrItemValidate(t *testing.T) {
	good := OcrItem{ID: "a", Description: "Milk", Price: Money{Cents: 350}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (OcrItem{ID: "a", Description: "Milk", Price: Money{Cents: -1}}).Validate(); err == nil {
		t.Fatalf("expected error for negative price")
	}
	if err := (OcrItem{ID: "a", Description: "", Price: Money{Cents: 1}}).Validate(); err == nil {
		t.Fatalf("expected error for empty description")
	}
}

func TestTransactionNormalize(t *testing.T) {
	tx := Transaction{ID: "1", Amount: Money{Cents: -100}}.Normalize()
	if tx.Icon != DefaultIcon {
		t.Errorf("expected default icon, got %q", tx.Icon)
	}
	if tx.Label != DefaultLabel {
		t.Errorf("expected default label, got %q", tx.Label)
	}

	tx = Transaction{ID: "1", Icon: "home", Label: "Rent", Amount: Money{Cents: -100}}.Normalize()
	if tx.Icon != "home" || tx.Label != "Rent" {
		t.Errorf("normalize must not touch populated fields: %+v", tx)
	}
}

func TestCategorySetValidate(t *testing.T) {
	if err := DefaultCategories().Validate(); err != nil {
		t.Fatalf("default categories must validate: %v", err)
	}

	cases := []struct {
		name string
		cs   CategorySet
	}{
		{"empty", CategorySet{}},
		{"sum under 100", CategorySet{{ID: "a", Percent: 40}, {ID: "b", Percent: 40}}},
		{"sum over 100", CategorySet{{ID: "a", Percent: 60}, {ID: "b", Percent: 60}}},
		{"duplicate id", CategorySet{{ID: "a", Percent: 50}, {ID: "a", Percent: 50}}},
		{"blank id", CategorySet{{ID: " ", Percent: 100}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cs.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestTotals(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Label: "Grocery", Amount: Money{Cents: -7530}},
		{ID: "2", Label: "Salary", Amount: Money{Cents: 320000}},
		{ID: "3", Label: "Café", Amount: Money{Cents: -550}},
	}
	if got := TotalExpenses(txs); got.Cents != 8080 {
		t.Errorf("expenses: expected 8080, got %d", got.Cents)
	}
	if got := TotalIncome(txs); got.Cents != 320000 {
		t.Errorf("income: expected 320000, got %d", got.Cents)
	}
	if got := Balance(txs); got.Cents != 311920 {
		t.Errorf("balance: expected 311920, got %d", got.Cents)
	}

	sum := Summarize(txs)
	if sum.Balance.Cents != 311920 || sum.Income.Cents != 320000 || sum.Expenses.Cents != 8080 {
		t.Errorf("summary: unexpected figures %+v", sum)
	}
}

func TestBreakdown(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Amount: Money{Cents: -10000}},
		{ID: "2", Amount: Money{Cents: 50000}}, // income, not part of the breakdown
		{ID: "3", Amount: Money{Cents: -2345}},
	}
	slices := Breakdown(DefaultCategories(), txs)
	if len(slices) != 4 {
		t.Fatalf("expected 4 slices, got %d", len(slices))
	}

	var sum int64
	for _, s := range slices {
		if s.Amount.Cents < 0 {
			t.Errorf("slice %s is negative: %d", s.Category.ID, s.Amount.Cents)
		}
		sum += s.Amount.Cents
	}
	if want := TotalExpenses(txs).Cents; sum != want {
		t.Errorf("slices sum to %d, want total expenses %d", sum, want)
	}

	// First slice is an exact share, no rounding involved.
	if slices[0].Amount.Cents != 12345*25/100 {
		t.Errorf("housing slice = %d, want %d", slices[0].Amount.Cents, 12345*25/100)
	}
}
