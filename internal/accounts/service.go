package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drif-ai/finance/internal/ledger"
	"github.com/drif-ai/finance/internal/shared"
)

// Poster posts an already-built journal transaction. Satisfied by the
// journal service; opening balances go through it so they leave the same
// trail as any other transaction.
type Poster interface {
	Post(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error)
}

// Service manages the chart of accounts.
type Service struct {
	repo       Repository
	poster     Poster
	classifier ledger.Classifier
	equityCode string
	now        func() time.Time
}

// NewService constructs the accounts service. equityCode names the equity
// account that counter-balances opening-balance seeds.
func NewService(repo Repository, poster Poster, classifier ledger.Classifier, equityCode string) *Service {
	return &Service{
		repo:       repo,
		poster:     poster,
		classifier: classifier,
		equityCode: equityCode,
		now:        time.Now,
	}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns all accounts sorted by code.
func (s *Service) List(ctx context.Context) ([]ledger.Account, error) {
	return s.repo.List(ctx)
}

// Get returns one account by code.
func (s *Service) Get(ctx context.Context, code string) (ledger.Account, error) {
	return s.repo.Get(ctx, code)
}

// Create inserts a new account. ContraAsset and CashEquivalent flags are
// derived from name and type here, once; later renames never reclassify.
// A nonzero opening balance is seeded as one balanced transaction against
// the configured equity account, dated today.
func (s *Service) Create(ctx context.Context, account ledger.Account, opening decimal.Decimal) (ledger.Account, error) {
	if !account.Type.Valid() {
		return ledger.Account{}, fmt.Errorf("%w: %q", ledger.ErrInvalidAccountType, account.Type)
	}
	if !opening.IsZero() && account.Code == s.equityCode {
		return ledger.Account{}, fmt.Errorf("accounts: %s is the opening-balance counter account and cannot seed itself", account.Code)
	}

	account.Balance = decimal.Zero
	account.IsActive = true
	s.classifier.Classify(&account)

	if err := s.repo.Insert(ctx, account); err != nil {
		return ledger.Account{}, err
	}

	if !opening.IsZero() {
		if _, err := s.poster.Post(ctx, s.openingTransaction(account, opening)); err != nil {
			return ledger.Account{}, fmt.Errorf("accounts: seed opening balance: %w", err)
		}
		account.Balance = opening
	}
	return account, nil
}

// openingTransaction builds the seed entry pair. A positive opening grows
// the account in its normal direction; a negative opening swaps the sides
// so entry amounts stay non-negative.
func (s *Service) openingTransaction(account ledger.Account, opening decimal.Decimal) ledger.Transaction {
	amount := opening.Abs()
	accountEntry := ledger.Entry{AccountCode: account.Code, Credit: amount}
	equityEntry := ledger.Entry{AccountCode: s.equityCode, Debit: amount}
	if account.NormalDebit() == opening.IsPositive() {
		accountEntry = ledger.Entry{AccountCode: account.Code, Debit: amount}
		equityEntry = ledger.Entry{AccountCode: s.equityCode, Credit: amount}
	}
	return ledger.Transaction{
		Date:        ledger.DateOf(s.now()),
		Description: fmt.Sprintf("Opening balance %s %s", account.Code, account.Name),
		Ref:         "OPENING-" + account.Code,
		Entries:     []ledger.Entry{accountEntry, equityEntry},
	}
}

// Update renames or (de)activates an account. Classification flags are
// left as computed at creation.
func (s *Service) Update(ctx context.Context, code string, name string, isActive bool) (ledger.Account, error) {
	if err := s.repo.Update(ctx, code, name, isActive); err != nil {
		return ledger.Account{}, err
	}
	return s.repo.Get(ctx, code)
}

// Delete removes an account. Refused while the stored balance is nonzero;
// journal history referencing the code is kept, and later reads of those
// entries skip the missing account.
func (s *Service) Delete(ctx context.Context, code string) error {
	account, err := s.repo.Get(ctx, code)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: %s", shared.ErrAccountInUse, code)
	}
	return s.repo.Delete(ctx, code)
}
