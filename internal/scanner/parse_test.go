package scanner

import "testing"

func TestParseReceiptText(t *testing.T) {
	text := "SuperMart\nMilk 3.50\nBread ..... 2,10\nTOTAL 5.60\nCASH 10.00\nCHANGE 4.40\n"
	items := ParseReceiptText(text)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Description != "Milk" || items[0].Price.Cents != 350 {
		t.Errorf("item 0 mismatch: %+v", items[0])
	}
	if items[1].Description != "Bread" || items[1].Price.Cents != 210 {
		t.Errorf("item 1 mismatch: %+v", items[1])
	}
}

func TestParseReceiptTextCurrencyMarkers(t *testing.T) {
	items := ParseReceiptText("Coffee $4.20\nCroissant € 2.80")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Price.Cents != 420 || items[1].Price.Cents != 280 {
		t.Errorf("unexpected prices: %+v", items)
	}
}

func TestParseReceiptTextEmpty(t *testing.T) {
	if items := ParseReceiptText(""); len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
	// Lines without a trailing price are not items.
	if items := ParseReceiptText("THANK YOU\nCOME AGAIN"); len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func TestParseReceiptTextBlankDescription(t *testing.T) {
	items := ParseReceiptText("9.99")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Description != "" {
		t.Errorf("expected blank description for the ledger to default, got %q", items[0].Description)
	}
	if items[0].Price.Cents != 999 {
		t.Errorf("unexpected price: %+v", items[0])
	}
}
