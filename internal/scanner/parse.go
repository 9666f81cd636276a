package scanner

import (
	"regexp"
	"strings"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
)

var (
	// A trailing price at the end of a receipt line, with optional currency
	// marker and dotted leaders between description and amount.
	lineRe = regexp.MustCompile(`^(.*?)[\s.]*(?:฿|\$|€)?\s*([0-9]+[.,][0-9]{1,2})\s*$`)

	// Aggregate lines are not line items.
	skipWords = []string{"total", "subtotal", "cash", "change", "balance", "tax", "tip"}
)

// ParseReceiptText turns raw OCR text into candidate line items, one per
// line that ends in a price. Aggregate lines (totals, change due) are
// skipped. Descriptions are capped and blank ones left for the ledger to
// default.
func ParseReceiptText(text string) []Candidate {
	var items []Candidate
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if line == "" || isAggregate(line) {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		price := core.CoercePriceCents(strings.ReplaceAll(m[2], ",", "."))
		items = append(items, Candidate{
			Description: truncate(strings.TrimSpace(m[1]), 64),
			Price:       core.Money{Cents: price},
		})
	}
	return items
}

func isAggregate(line string) bool {
	l := strings.ToLower(line)
	for _, w := range skipWords {
		if strings.Contains(l, w) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
