package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/drif-ai/finance/internal/ledger"
	"github.com/drif-ai/finance/internal/platform/db"
	"github.com/drif-ai/finance/internal/shared"
)

// RepositoryPort abstracts the persistence surface the service needs.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context) ([]ledger.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (ledger.Transaction, error)
}

// TxRepository exposes the operations available inside one DB transaction.
type TxRepository interface {
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	InsertTransaction(ctx context.Context, tx ledger.Transaction) error
	InsertEntries(ctx context.Context, txID uuid.UUID, entries []ledger.Entry) error
	ApplyBalanceDelta(ctx context.Context, code string, delta decimal.Decimal) error
	GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, date time.Time, ref, description string) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// Repository persists journal transactions in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx executes fn within a repeatable-read transaction. Header, entries,
// and balance deltas commit as one unit or not at all.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("journal repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// List returns all transactions with their entries, newest first.
func (r *Repository) List(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, date, description, ref, created_at, updated_at
FROM transactions ORDER BY date DESC, created_at DESC`)
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

// Get returns one transaction with its entries.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	return getTransaction(ctx, r.pool, id)
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	return scanAccounts(ctx, r.tx)
}

func (r *txRepository) InsertTransaction(ctx context.Context, tx ledger.Transaction) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO transactions (id, date, description, ref) VALUES ($1,$2,$3,$4)`,
		tx.ID, tx.Date, tx.Description, tx.Ref)
	return err
}

func (r *txRepository) InsertEntries(ctx context.Context, txID uuid.UUID, entries []ledger.Entry) error {
	for _, e := range entries {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_entries (transaction_id, account_code, debit, credit)
VALUES ($1,$2,$3,$4)`, txID, e.AccountCode, e.Debit.String(), e.Credit.String()); err != nil {
			return err
		}
	}
	return nil
}

// ApplyBalanceDelta adds a signed delta to the stored balance. The update is
// expressed as an atomic increment, never read-modify-write, so concurrent
// writers cannot lose updates.
func (r *txRepository) ApplyBalanceDelta(ctx context.Context, code string, delta decimal.Decimal) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE accounts SET balance = balance + $2, updated_at = NOW() WHERE code = $1`,
		code, delta.String())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	return getTransaction(ctx, r.tx, id)
}

func (r *txRepository) UpdateHeader(ctx context.Context, id uuid.UUID, date time.Time, ref, description string) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE transactions SET date=$2, ref=$3, description=$4, updated_at=NOW() WHERE id=$1`,
		id, date, ref, description)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrTransactionNotFound
	}
	return nil
}

func (r *txRepository) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM journal_entries WHERE transaction_id=$1`, id); err != nil {
		return err
	}
	cmd, err := r.tx.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrTransactionNotFound
	}
	return nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getTransaction(ctx context.Context, q queryer, id uuid.UUID) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := q.QueryRow(ctx, `SELECT id, date, description, ref, created_at, updated_at FROM transactions WHERE id=$1`, id).
		Scan(&t.ID, &t.Date, &t.Description, &t.Ref, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Transaction{}, shared.ErrTransactionNotFound
		}
		return ledger.Transaction{}, err
	}
	rows, err := q.Query(ctx, `SELECT account_code, debit::text, credit::text FROM journal_entries WHERE transaction_id=$1 ORDER BY id`, id)
	if err != nil {
		return ledger.Transaction{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var entry ledger.Entry
		var debit, credit string
		if err := rows.Scan(&entry.AccountCode, &debit, &credit); err != nil {
			return ledger.Transaction{}, err
		}
		if entry.Debit, err = decimal.NewFromString(debit); err != nil {
			return ledger.Transaction{}, err
		}
		if entry.Credit, err = decimal.NewFromString(credit); err != nil {
			return ledger.Transaction{}, err
		}
		t.Entries = append(t.Entries, entry)
	}
	return t, rows.Err()
}

func scanAccounts(ctx context.Context, q queryer) ([]ledger.Account, error) {
	rows, err := q.Query(ctx, `SELECT code, name, type, balance::text, contra_asset, cash_equivalent, is_active, created_at, updated_at
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
