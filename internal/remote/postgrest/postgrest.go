// Package postgrest talks to a Supabase-style PostgREST endpoint. This is the
// adapter the mobile build uses: the same anon-key REST surface the
// handheld client queries, so both ends see identical rows.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
	"github.com/jamtero2001/FINANCE-APP/internal/remote"
)

const defaultTable = "transactions"

type Config struct {
	// BaseURL is the project URL, e.g. https://xyzcompany.supabase.co
	BaseURL string
	// APIKey is the anon (publishable) key sent as apikey and bearer token.
	APIKey string
	// Table defaults to "transactions".
	Table string
	// HTTPClient overrides the pooled default, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	apiKey  string
	table   string
	hc      *http.Client
}

var _ remote.Store = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("missing base URL")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing API key")
	}
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = newPooledClient()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		table:   table,
		hc:      hc,
	}, nil
}

// newPooledClient returns an HTTP client with connection pooling and
// timeouts tuned for a small REST API.
func newPooledClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}
}

func (c *Client) Available() bool { return true }

// row mirrors the PostgREST JSON shape. Supabase ids can be bigints or
// uuids, so the id field tolerates both.
type row struct {
	ID     flexID  `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Icon   string  `json:"icon"`
}

type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", data)
	}
	*f = flexID(n.String())
	return nil
}

func (r row) transaction() core.Transaction {
	return core.Transaction{
		ID:     string(r.ID),
		Icon:   r.Icon,
		Label:  r.Label,
		Amount: core.MoneyFromFloat(r.Amount),
	}.Normalize()
}

// ListRecent queries the table ordered by transaction time descending with a
// result cap. Transient failures (network, 5xx) are retried; the read is
// idempotent so retrying is safe.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]core.Transaction, error) {
	url := fmt.Sprintf("%s/rest/v1/%s?select=id,label,amount,icon,transaction_at&order=transaction_at.desc.nullslast&limit=%d",
		c.baseURL, c.table, limit)

	var rows []row
	err := retry.Do(
		func() error {
			body, err := c.get(ctx, url)
			if err != nil {
				return err
			}
			rows = rows[:0]
			if err := json.Unmarshal(body, &rows); err != nil {
				return permanent(fmt.Errorf("decode rows: %w", err))
			}
			return nil
		},
		retry.RetryIf(func(err error) bool {
			if ctx.Err() != nil {
				return false
			}
			var p permanentError
			return !errors.As(err, &p)
		}),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, remote.NewError("list", err)
	}

	txs := make([]core.Transaction, len(rows))
	for i, r := range rows {
		txs[i] = r.transaction()
	}
	return txs, nil
}

// Insert posts a single row and returns the stored representation. Not
// retried: the write is not idempotent.
func (c *Client) Insert(ctx context.Context, draft core.Draft) (core.Transaction, error) {
	payload := map[string]any{
		"label":  draft.Label,
		"amount": draft.Amount.Float64(),
		"icon":   draft.Icon,
	}
	if draft.CategoryID != "" {
		payload["category_id"] = draft.CategoryID
	} else {
		payload["category_id"] = nil
	}
	if !draft.OccurredAt.IsZero() {
		payload["transaction_at"] = draft.OccurredAt.UTC().Format(time.RFC3339)
	} else {
		payload["transaction_at"] = nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return core.Transaction{}, remote.NewError("insert", err)
	}

	url := fmt.Sprintf("%s/rest/v1/%s?select=id,label,amount,icon", c.baseURL, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return core.Transaction{}, remote.NewError("insert", err)
	}
	c.auth(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.hc.Do(req)
	if err != nil {
		return core.Transaction{}, remote.NewError("insert", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return core.Transaction{}, remote.NewError("insert", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.Transaction{}, remote.NewError("insert", httpError(resp.StatusCode, respBody))
	}

	// PostgREST returns the representation as a one-element array.
	var rows []row
	if err := json.Unmarshal(respBody, &rows); err != nil || len(rows) == 0 {
		return core.Transaction{}, remote.NewError("insert", fmt.Errorf("unexpected insert response: %s", respBody))
	}
	return rows[0].transaction(), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanent(err)
	}
	c.auth(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 500 {
		return nil, httpError(resp.StatusCode, body)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, permanent(httpError(resp.StatusCode, body))
	}
	return body, nil
}

func (c *Client) auth(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func httpError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("status %d: %s", status, msg)
}

// permanentError marks failures that retrying cannot fix (4xx, bad JSON).
type permanentError struct {
	err error
}

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

func permanent(err error) error {
	return permanentError{err: err}
}
