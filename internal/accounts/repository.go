package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/drif-ai/finance/internal/ledger"
	"github.com/drif-ai/finance/internal/shared"
)

// Repository abstracts chart of accounts persistence.
type Repository interface {
	Insert(ctx context.Context, account ledger.Account) error
	List(ctx context.Context) ([]ledger.Account, error)
	Get(ctx context.Context, code string) (ledger.Account, error)
	Update(ctx context.Context, code string, name string, isActive bool) error
	Delete(ctx context.Context, code string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Insert(ctx context.Context, a ledger.Account) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO accounts (code, name, type, balance, contra_asset, cash_equivalent, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.Code, a.Name, string(a.Type), a.Balance.String(), a.ContraAsset, a.CashEquivalent, a.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]ledger.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name, type, balance::text, contra_asset, cash_equivalent, is_active, created_at, updated_at
FROM accounts ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []ledger.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) Get(ctx context.Context, code string) (ledger.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name, type, balance::text, contra_asset, cash_equivalent, is_active, created_at, updated_at
FROM accounts WHERE code=$1`, code)
	if err != nil {
		return ledger.Account{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ledger.Account{}, err
		}
		return ledger.Account{}, shared.ErrNotFound
	}
	return scanAccount(rows)
}

func (r *repository) Update(ctx context.Context, code string, name string, isActive bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE accounts SET name=$2, is_active=$3, updated_at=NOW() WHERE code=$1`,
		code, name, isActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, code string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE code=$1`, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanAccount(rows pgx.Rows) (ledger.Account, error) {
	var a ledger.Account
	var balance string
	if err := rows.Scan(&a.Code, &a.Name, &a.Type, &balance, &a.ContraAsset, &a.CashEquivalent, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return ledger.Account{}, err
	}
	var err error
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return ledger.Account{}, err
	}
	return a, nil
}
