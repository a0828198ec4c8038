package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/drif-ai/finance/internal/ledger"
)

// Loader reads the full snapshot a report build needs. Reports never trust
// stored balances; everything derives from the journal.
type Loader interface {
	Snapshot(ctx context.Context) ([]ledger.Account, []ledger.Transaction, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Postgres-backed Loader.
func NewRepository(pool *pgxpool.Pool) Loader {
	return &repository{pool: pool}
}

func (r *repository) Snapshot(ctx context.Context) ([]ledger.Account, []ledger.Transaction, error) {
	accounts, err := r.loadAccounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	transactions, err := r.loadTransactions(ctx)
	if err != nil {
		return nil, nil, err
	}
	return accounts, transactions, nil
}

func (r *repository) loadAccounts(ctx context.Context) ([]ledger.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name, type, balance::text, contra_asset, cash_equivalent, is_active, created_at, updated_at
FROM accounts ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []ledger.Account
	for rows.Next() {
		var a ledger.Account
		var balance string
		if err := rows.Scan(&a.Code, &a.Name, &a.Type, &balance, &a.ContraAsset, &a.CashEquivalent, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) loadTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, date, description, ref, created_at, updated_at
FROM transactions ORDER BY date, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var txns []ledger.Transaction
	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var t ledger.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.Ref, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		byID[t.ID] = len(txns)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entryRows, err := r.pool.Query(ctx, `SELECT transaction_id, account_code, debit::text, credit::text
FROM journal_entries ORDER BY transaction_id, id`)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var txID uuid.UUID
		var entry ledger.Entry
		var debit, credit string
		if err := entryRows.Scan(&txID, &entry.AccountCode, &debit, &credit); err != nil {
			return nil, err
		}
		if entry.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, err
		}
		if entry.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, err
		}
		if idx, ok := byID[txID]; ok {
			txns[idx].Entries = append(txns[idx].Entries, entry)
		}
	}
	return txns, entryRows.Err()
}
