package core

import (
	"errors"
	"fmt"
	"strings"
)

// Category is static reference data for the expense breakdown donut. Percent
// is the category's share of expenses, 0-100.
type Category struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Percent int    `json:"percent"`
	Color   string `json:"color"`
}

// CategorySet is an ordered set of categories whose percentages cover the
// whole breakdown.
type CategorySet []Category

var ErrEmptyCategorySet = errors.New("empty category set")

// Validate checks ids are present and unique and that the shares sum to 100.
func (cs CategorySet) Validate() error {
	if len(cs) == 0 {
		return ErrEmptyCategorySet
	}
	seen := make(map[string]struct{}, len(cs))
	sum := 0
	for _, c := range cs {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return ErrEmptyID
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate category id %q", id)
		}
		seen[id] = struct{}{}
		if c.Percent < 0 || c.Percent > 100 {
			return fmt.Errorf("category %q: percent %d out of range", id, c.Percent)
		}
		sum += c.Percent
	}
	if sum != 100 {
		return fmt.Errorf("category percentages sum to %d, want 100", sum)
	}
	return nil
}

// ByID returns the category with the given id, if present.
func (cs CategorySet) ByID(id string) (Category, bool) {
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// DefaultCategories is the shipped breakdown reference data.
func DefaultCategories() CategorySet {
	return CategorySet{
		{ID: "housing", Label: "Housing", Percent: 25, Color: "#1f6f4d"},
		{ID: "food", Label: "Food", Percent: 30, Color: "#2f8e58"},
		{ID: "transport", Label: "Transport", Percent: 22, Color: "#4da673"},
		{ID: "fun", Label: "Fun", Percent: 23, Color: "#72c68f"},
	}
}

// Summary carries the header figures of the screen.
type Summary struct {
	Balance  Money `json:"balance"`
	Income   Money `json:"income"`
	Expenses Money `json:"expenses"`
}

// Summarize computes the header figures over the list.
func Summarize(txs []Transaction) Summary {
	return Summary{
		Balance:  Balance(txs),
		Income:   TotalIncome(txs),
		Expenses: TotalExpenses(txs),
	}
}

// TotalExpenses sums the negative amounts of the list as a magnitude.
func TotalExpenses(txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		if t.Amount.Cents < 0 {
			cents += -t.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// TotalIncome sums the positive amounts of the list.
func TotalIncome(txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		if t.Amount.Cents > 0 {
			cents += t.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// Balance is income minus expenses over the list.
func Balance(txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		cents += t.Amount.Cents
	}
	return Money{Cents: cents}
}

// Slice is one segment of the expense breakdown donut.
type Slice struct {
	Category Category `json:"category"`
	Amount   Money    `json:"amount"`
}

// Breakdown splits the total expenses of the list across the category set by
// its static shares. Rounding remainders land on the last slice, so the
// amounts always sum back to the total.
func Breakdown(cs CategorySet, txs []Transaction) []Slice {
	total := TotalExpenses(txs).Cents
	slices := make([]Slice, len(cs))
	var allocated int64
	for i, c := range cs {
		amount := total * int64(c.Percent) / 100
		if i == len(cs)-1 {
			amount = total - allocated
		}
		allocated += amount
		slices[i] = Slice{Category: c, Amount: Money{Cents: amount}}
	}
	return slices
}
