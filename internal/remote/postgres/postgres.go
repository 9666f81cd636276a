// Package postgres is the direct-connection adapter for deployments that
// talk to the underlying Postgres database instead of the REST surface.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jamtero2001/FINANCE-APP/internal/core"
	"github.com/jamtero2001/FINANCE-APP/internal/remote"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ remote.Store = (*Store)(nil)

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Available() bool { return true }

func (s *Store) ListRecent(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, COALESCE(label, ''), amount::float8, COALESCE(icon, '')
		FROM transactions
		ORDER BY transaction_at DESC NULLS LAST
		LIMIT $1`, limit)
	if err != nil {
		return nil, remote.NewError("list", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			id, label, icon string
			amount          float64
		)
		if err := rows.Scan(&id, &label, &amount, &icon); err != nil {
			return nil, remote.NewError("list", err)
		}
		txs = append(txs, core.Transaction{
			ID:     id,
			Icon:   icon,
			Label:  label,
			Amount: core.MoneyFromFloat(amount),
		}.Normalize())
	}
	if err := rows.Err(); err != nil {
		return nil, remote.NewError("list", err)
	}
	return txs, nil
}

func (s *Store) Insert(ctx context.Context, draft core.Draft) (core.Transaction, error) {
	var categoryID any
	if draft.CategoryID != "" {
		categoryID = draft.CategoryID
	}
	var occurredAt any
	if !draft.OccurredAt.IsZero() {
		occurredAt = draft.OccurredAt.UTC()
	}

	var (
		id, label, icon string
		amount          float64
	)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO transactions (label, amount, icon, category_id, transaction_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text, label, amount::float8, COALESCE(icon, '')`,
		draft.Label, draft.Amount.Float64(), draft.Icon, categoryID, occurredAt,
	).Scan(&id, &label, &amount, &icon)
	if err != nil {
		return core.Transaction{}, remote.NewError("insert", err)
	}

	return core.Transaction{
		ID:     id,
		Icon:   icon,
		Label:  label,
		Amount: core.MoneyFromFloat(amount),
	}.Normalize(), nil
}
