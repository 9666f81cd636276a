package scanner

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T, handler http.Handler) *HTTPService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s, err := NewHTTPService(HTTPConfig{Endpoint: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func TestScanReceiptItems(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"srv-1","description":"Milk","price":3.5},{"description":"","price":-1}]}`))
	}))

	res, err := s.ScanReceipt(context.Background(), testImage(t))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	if res.Items[0].ID != "srv-1" || res.Items[0].Price.Cents != 350 {
		t.Errorf("item 0 mismatch: %+v", res.Items[0])
	}
	// Negative prices are clamped to zero.
	if res.Items[1].Price.Cents != 0 {
		t.Errorf("expected clamped price, got %+v", res.Items[1])
	}
}

func TestScanReceiptRawText(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"Milk 3.50\nTOTAL 3.50"}`))
	}))

	res, err := s.ScanReceipt(context.Background(), testImage(t))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Description != "Milk" {
		t.Fatalf("unexpected items: %+v", res.Items)
	}
}

func TestScanReceiptEmptyResult(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":""}`))
	}))

	res, err := s.ScanReceipt(context.Background(), testImage(t))
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if len(res.Items) != 0 {
		t.Fatalf("expected zero items, got %+v", res.Items)
	}
}

func TestScanReceiptFailures(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))

	_, err := s.ScanReceipt(context.Background(), testImage(t))
	var serr *ScanError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ScanError, got %v", err)
	}

	// Undecodable image bytes fail before the round trip.
	_, err = s.ScanReceipt(context.Background(), []byte("not an image"))
	if !errors.As(err, &serr) {
		t.Fatalf("expected ScanError for bad image, got %v", err)
	}
}

func TestUnavailableScanner(t *testing.T) {
	_, err := Unavailable{}.ScanReceipt(context.Background(), nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
