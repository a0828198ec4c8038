package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/drif-ai/finance/internal/ledger"
	"github.com/drif-ai/finance/internal/shared"
	_ "github.com/drif-ai/finance/testing"
)

type fakeRepository struct {
	accounts map[string]ledger.Account
	txns     map[uuid.UUID]ledger.Transaction
	applied  []appliedDelta
}

type appliedDelta struct {
	code  string
	delta decimal.Decimal
}

func newFakeRepository(accounts ...ledger.Account) *fakeRepository {
	repo := &fakeRepository{
		accounts: make(map[string]ledger.Account),
		txns:     make(map[uuid.UUID]ledger.Transaction),
	}
	for _, a := range accounts {
		repo.accounts[a.Code] = a
	}
	return repo
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	// Snapshot state so a failed callback leaves nothing applied, matching
	// the all-or-nothing behavior of the real DB transaction.
	accounts := make(map[string]ledger.Account, len(f.accounts))
	for k, v := range f.accounts {
		accounts[k] = v
	}
	txns := make(map[uuid.UUID]ledger.Transaction, len(f.txns))
	for k, v := range f.txns {
		txns[k] = v
	}
	applied := append([]appliedDelta(nil), f.applied...)

	if err := fn(ctx, (*fakeTxRepository)(f)); err != nil {
		f.accounts, f.txns, f.applied = accounts, txns, applied
		return err
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context) ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0, len(f.txns))
	for _, tx := range f.txns {
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeRepository) Get(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	tx, ok := f.txns[id]
	if !ok {
		return ledger.Transaction{}, shared.ErrTransactionNotFound
	}
	return tx, nil
}

func (f *fakeRepository) balance(code string) decimal.Decimal {
	return f.accounts[code].Balance
}

type fakeTxRepository fakeRepository

func (f *fakeTxRepository) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	out := make([]ledger.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeTxRepository) InsertTransaction(ctx context.Context, tx ledger.Transaction) error {
	f.txns[tx.ID] = ledger.Transaction{
		ID:          tx.ID,
		Date:        tx.Date,
		Description: tx.Description,
		Ref:         tx.Ref,
	}
	return nil
}

func (f *fakeTxRepository) InsertEntries(ctx context.Context, txID uuid.UUID, entries []ledger.Entry) error {
	tx, ok := f.txns[txID]
	if !ok {
		return shared.ErrTransactionNotFound
	}
	tx.Entries = append(tx.Entries, entries...)
	f.txns[txID] = tx
	return nil
}

func (f *fakeTxRepository) ApplyBalanceDelta(ctx context.Context, code string, delta decimal.Decimal) error {
	account, ok := f.accounts[code]
	if !ok {
		return shared.ErrNotFound
	}
	account.Balance = account.Balance.Add(delta)
	f.accounts[code] = account
	f.applied = append(f.applied, appliedDelta{code: code, delta: delta})
	return nil
}

func (f *fakeTxRepository) GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	tx, ok := f.txns[id]
	if !ok {
		return ledger.Transaction{}, shared.ErrTransactionNotFound
	}
	return tx, nil
}

func (f *fakeTxRepository) UpdateHeader(ctx context.Context, id uuid.UUID, date time.Time, ref, description string) error {
	tx, ok := f.txns[id]
	if !ok {
		return shared.ErrTransactionNotFound
	}
	tx.Date, tx.Ref, tx.Description = date, ref, description
	f.txns[id] = tx
	return nil
}

func (f *fakeTxRepository) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.txns[id]; !ok {
		return shared.ErrTransactionNotFound
	}
	delete(f.txns, id)
	return nil
}

type fakeBuster struct {
	calls int
}

func (f *fakeBuster) Bust(ctx context.Context) error {
	f.calls++
	return nil
}

func serviceAccounts() []ledger.Account {
	return []ledger.Account{
		{Code: "1200", Name: "Bank", Type: ledger.AccountTypeAsset, IsActive: true, CashEquivalent: true},
		{Code: "1510", Name: "Accumulated Depreciation", Type: ledger.AccountTypeAsset, ContraAsset: true, IsActive: true},
		{Code: "3100", Name: "Retained Earnings", Type: ledger.AccountTypeEquity, IsActive: true},
		{Code: "4100", Name: "Sales", Type: ledger.AccountTypeRevenue, IsActive: true},
	}
}

func TestServicePostAppliesNettedDeltas(t *testing.T) {
	repo := newFakeRepository(serviceAccounts()...)
	buster := &fakeBuster{}
	svc := NewService(repo, nil, buster)

	tx := ledger.Transaction{
		Date:        time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC),
		Description: "cash sale",
		Entries: []ledger.Entry{
			{AccountCode: "1200", Debit: decimal.NewFromInt(700)},
			{AccountCode: "1200", Debit: decimal.NewFromInt(300)},
			{AccountCode: "4100", Credit: decimal.NewFromInt(1000)},
		},
	}

	posted, err := svc.Post(context.Background(), tx)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, posted.ID)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), posted.Date)

	// Bank is debit-normal, revenue credit-normal; both end up +1000. The
	// two bank lines net into a single applied delta.
	require.True(t, repo.balance("1200").Equal(decimal.NewFromInt(1000)))
	require.True(t, repo.balance("4100").Equal(decimal.NewFromInt(1000)))
	require.Len(t, repo.applied, 2)
	require.Equal(t, 1, buster.calls)
}

func TestServicePostContraAssetCreditNormal(t *testing.T) {
	repo := newFakeRepository(serviceAccounts()...)
	svc := NewService(repo, nil, nil)

	_, err := svc.Post(context.Background(), ledger.Transaction{
		Date: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Entries: []ledger.Entry{
			{AccountCode: "3100", Debit: decimal.NewFromInt(500)},
			{AccountCode: "1510", Credit: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)

	// Crediting a contra-asset grows its stored balance.
	require.True(t, repo.balance("1510").Equal(decimal.NewFromInt(500)))
}

func TestServicePostRejectsUnknownAccount(t *testing.T) {
	repo := newFakeRepository(serviceAccounts()...)
	buster := &fakeBuster{}
	svc := NewService(repo, nil, buster)

	_, err := svc.Post(context.Background(), ledger.Transaction{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Entries: []ledger.Entry{
			{AccountCode: "1200", Debit: decimal.NewFromInt(100)},
			{AccountCode: "9999", Credit: decimal.NewFromInt(100)},
		},
	})
	require.ErrorIs(t, err, ledger.ErrUnknownAccount)

	// Nothing persisted, nothing applied, cache untouched.
	require.Empty(t, repo.txns)
	require.Empty(t, repo.applied)
	require.True(t, repo.balance("1200").IsZero())
	require.Equal(t, 0, buster.calls)
}

func TestServicePostRejectsInvalidTransaction(t *testing.T) {
	repo := newFakeRepository(serviceAccounts()...)
	svc := NewService(repo, nil, nil)

	_, err := svc.Post(context.Background(), ledger.Transaction{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Entries: []ledger.Entry{
			{AccountCode: "1200", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4100", Credit: decimal.NewFromInt(90)},
		},
	})
	require.ErrorIs(t, err, ledger.ErrUnbalanced)
	require.Empty(t, repo.txns)
}

func TestServiceDeleteRestoresBalances(t *testing.T) {
	repo := newFakeRepository(serviceAccounts()...)
	svc := NewService(repo, nil, nil)

	posted, err := svc.Post(context.Background(), ledger.Transaction{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Entries: []ledger.Entry{
			{AccountCode: "1200", Debit: decimal.NewFromInt(250)},
			{AccountCode: "4100", Credit: decimal.NewFromInt(250)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), posted.ID))

	require.True(t, repo.balance("1200").IsZero())
	require.True(t, repo.balance("4100").IsZero())
	require.Empty(t, repo.txns)
}

func TestServiceDeleteMissingTransaction(t *testing.T) {
	repo := newFakeRepository(serviceAccounts()...)
	svc := NewService(repo, nil, nil)

	err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, shared.ErrTransactionNotFound)
}

func TestServiceUpdateHeaderLeavesBalancesUntouched(t *testing.T) {
	repo := newFakeRepository(serviceAccounts()...)
	buster := &fakeBuster{}
	svc := NewService(repo, nil, buster)

	posted, err := svc.Post(context.Background(), ledger.Transaction{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Ref:  "INV-1",
		Entries: []ledger.Entry{
			{AccountCode: "1200", Debit: decimal.NewFromInt(250)},
			{AccountCode: "4100", Credit: decimal.NewFromInt(250)},
		},
	})
	require.NoError(t, err)
	appliedBefore := len(repo.applied)

	newDate := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	newRef := "INV-1-REV"
	updated, err := svc.UpdateHeader(context.Background(), posted.ID, HeaderUpdate{Date: &newDate, Ref: &newRef})
	require.NoError(t, err)
	require.Equal(t, newDate, updated.Date)
	require.Equal(t, newRef, updated.Ref)

	require.Len(t, repo.applied, appliedBefore)
	require.True(t, repo.balance("1200").Equal(decimal.NewFromInt(250)))
	// The date moved, so cached report periods may have shifted.
	require.Equal(t, 2, buster.calls)
}

func TestServicePostSurfacesRepositoryError(t *testing.T) {
	repo := newFakeRepository() // no accounts at all
	svc := NewService(repo, nil, nil)

	_, err := svc.Post(context.Background(), ledger.Transaction{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Entries: []ledger.Entry{
			{AccountCode: "1200", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4100", Credit: decimal.NewFromInt(100)},
		},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ledger.ErrUnknownAccount))
}
