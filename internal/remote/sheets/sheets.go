// Package sheets keeps the transaction ledger in a Google Sheet. Rows are
// appended in arrival order, so "recent" is the tail of the sheet read back
// in reverse. The row number doubles as the assigned identity.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
	"github.com/jamtero2001/FINANCE-APP/internal/remote"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ remote.Store = (*Client)(nil)

// NewFromEnv creates a Sheets-backed store using environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Optional: LEDGER_SHEET_NAME (default
// "Transactions"). Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("LEDGER_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) Available() bool { return true }

// Insert appends a row and returns the stored transaction with the row
// number as its identity.
func (c *Client) Insert(ctx context.Context, draft core.Draft) (core.Transaction, error) {
	if c.svc == nil {
		return core.Transaction{}, remote.NewError("insert", errors.New("sheets service not initialized"))
	}

	// Next empty row: current dimension of column A plus one.
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.Transaction{}, remote.NewError("insert", fmt.Errorf("get sheet dimensions: %w", err))
	}
	nextRow := len(resp.Values) + 1
	id := fmt.Sprintf("row-%d", nextRow)

	recordedAt := draft.OccurredAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	tx := core.Transaction{
		ID:     id,
		Icon:   draft.Icon,
		Label:  draft.Label,
		Amount: draft.Amount,
	}.Normalize()

	dataRange := fmt.Sprintf("%s!A%d:E%d", c.sheetName, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		tx.ID, tx.Label, tx.Amount.Float64(), tx.Icon, recordedAt.UTC().Format(time.RFC3339),
	}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return core.Transaction{}, remote.NewError("insert", fmt.Errorf("update %s: %w", dataRange, err))
	}

	return tx, nil
}

// ListRecent reads the tail of the sheet and returns it newest first.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, remote.NewError("list", errors.New("sheets service not initialized"))
	}

	rng := fmt.Sprintf("%s!A2:E", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, remote.NewError("list", fmt.Errorf("read %s: %w", rng, err))
	}

	rows := resp.Values
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	txs := make([]core.Transaction, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		tx, ok := parseRow(rows[i])
		if !ok {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// parseRow maps a sheet row [id, label, amount, icon, recorded_at] to a
// transaction. Rows with no id or an unparseable amount are skipped rather
// than failing the whole read.
func parseRow(row []any) (core.Transaction, bool) {
	if len(row) < 3 {
		return core.Transaction{}, false
	}
	id := strings.TrimSpace(fmt.Sprint(row[0]))
	if id == "" {
		return core.Transaction{}, false
	}
	label := strings.TrimSpace(fmt.Sprint(row[1]))
	amount, err := strconv.ParseFloat(strings.ReplaceAll(fmt.Sprint(row[2]), ",", "."), 64)
	if err != nil {
		return core.Transaction{}, false
	}
	icon := ""
	if len(row) > 3 {
		icon = strings.TrimSpace(fmt.Sprint(row[3]))
	}
	return core.Transaction{
		ID:     id,
		Icon:   icon,
		Label:  label,
		Amount: core.MoneyFromFloat(amount),
	}.Normalize(), true
}
