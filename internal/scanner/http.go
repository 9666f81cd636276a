package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
)

// HTTPService sends the captured image to a text-recognition service and
// parses the returned text into candidate line items.
type HTTPService struct {
	endpoint string
	hc       *http.Client
}

var _ Scanner = (*HTTPService)(nil)

type HTTPConfig struct {
	// Endpoint is the OCR service URL, e.g. http://localhost:9000/v1/ocr
	Endpoint string
	// HTTPClient overrides the default, mainly for tests.
	HTTPClient *http.Client
}

func NewHTTPService(cfg HTTPConfig) (*HTTPService, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("missing OCR endpoint")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPService{endpoint: cfg.Endpoint, hc: hc}, nil
}

// ocrResponse is the service's reply: either pre-split items or raw text to
// be parsed locally.
type ocrResponse struct {
	Items []struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	} `json:"items"`
	Text string `json:"text"`
}

// ScanReceipt validates the image bytes, submits them, and returns the
// candidates. A scan that recognizes nothing is a success with zero items.
func (s *HTTPService) ScanReceipt(ctx context.Context, img []byte) (Result, error) {
	if len(img) == 0 {
		return Result{}, &ScanError{Err: errors.New("empty image")}
	}
	// Reject undecodable bytes before the round trip.
	if _, _, err := image.Decode(bytes.NewReader(img)); err != nil {
		return Result{}, &ScanError{Err: fmt.Errorf("decode image: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(img))
	if err != nil {
		return Result{}, &ScanError{Err: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.hc.Do(req)
	if err != nil {
		return Result{}, &ScanError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Result{}, &ScanError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, &ScanError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var out ocrResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Result{}, &ScanError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(out.Items) > 0 {
		items := make([]Candidate, len(out.Items))
		for i, it := range out.Items {
			price := core.MoneyFromFloat(it.Price)
			if price.Cents < 0 {
				price.Cents = 0
			}
			items[i] = Candidate{
				ID:          it.ID,
				Description: it.Description,
				Price:       price,
			}
		}
		return Result{Items: items}, nil
	}

	return Result{Items: ParseReceiptText(out.Text)}, nil
}
