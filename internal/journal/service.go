package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drif-ai/finance/internal/ledger"
	"github.com/drif-ai/finance/internal/shared"
)

// AuditPort records ledger events.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBuster invalidates cached report responses after a mutation.
type CacheBuster interface {
	Bust(ctx context.Context) error
}

// Service coordinates posting, deleting, and editing journal transactions.
// Transaction creation and deletion are the only mutators of stored account
// balances; both run inside a single DB transaction together with the
// journal rows themselves.
type Service struct {
	repo   RepositoryPort
	audit  AuditPort
	buster CacheBuster
	now    func() time.Time
}

// NewService constructs the journal service.
func NewService(repo RepositoryPort, audit AuditPort, buster CacheBuster) *Service {
	return &Service{repo: repo, audit: audit, buster: buster, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns all transactions with entries.
func (s *Service) List(ctx context.Context) ([]ledger.Transaction, error) {
	return s.repo.List(ctx)
}

// Get returns one transaction with entries.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	return s.repo.Get(ctx, id)
}

// Post validates and persists a new transaction, applying netted balance
// deltas to every affected account. Unknown account codes are rejected
// before anything is written.
func (s *Service) Post(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	if err := ledger.ValidateTransaction(tx); err != nil {
		return ledger.Transaction{}, err
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.Date = ledger.DateOf(tx.Date)

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo TxRepository) error {
		accounts, err := repo.ListAccounts(ctx)
		if err != nil {
			return err
		}
		index := ledger.AccountIndex(accounts)
		for _, e := range tx.Entries {
			if _, ok := index[e.AccountCode]; !ok {
				return fmt.Errorf("%w: %s", ledger.ErrUnknownAccount, e.AccountCode)
			}
		}
		if err := repo.InsertTransaction(ctx, tx); err != nil {
			return err
		}
		if err := repo.InsertEntries(ctx, tx.ID, tx.Entries); err != nil {
			return err
		}
		deltas := ledger.Deltas(index, tx)
		for _, code := range ledger.SortedCodes(deltas) {
			if err := repo.ApplyBalanceDelta(ctx, code, deltas[code]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ledger.Transaction{}, err
	}

	s.record(ctx, "transaction.post", tx.ID, map[string]any{
		"date":    tx.Date.Format("2006-01-02"),
		"ref":     tx.Ref,
		"entries": len(tx.Entries),
	})
	s.bust(ctx)
	return tx, nil
}

// Delete removes a transaction and reverses its balance effect. The inverse
// deltas are re-derived from the stored entries by swapping debit and
// credit, never read from account balances. Entries referencing an account
// that no longer exists are skipped, mirroring the lenient read path.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo TxRepository) error {
		tx, err := repo.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		accounts, err := repo.ListAccounts(ctx)
		if err != nil {
			return err
		}
		deltas := ledger.InverseDeltas(ledger.AccountIndex(accounts), tx)
		if err := repo.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		for _, code := range ledger.SortedCodes(deltas) {
			if err := repo.ApplyBalanceDelta(ctx, code, deltas[code]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record(ctx, "transaction.delete", id, nil)
	s.bust(ctx)
	return nil
}

// HeaderUpdate carries the editable header fields. Entries are immutable
// once persisted; only date, ref, and description may change.
type HeaderUpdate struct {
	Date        *time.Time
	Ref         *string
	Description *string
}

// UpdateHeader edits a persisted transaction's header fields without
// touching entries or balances.
func (s *Service) UpdateHeader(ctx context.Context, id uuid.UUID, update HeaderUpdate) (ledger.Transaction, error) {
	var result ledger.Transaction
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo TxRepository) error {
		tx, err := repo.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if update.Date != nil {
			tx.Date = ledger.DateOf(*update.Date)
		}
		if update.Ref != nil {
			tx.Ref = *update.Ref
		}
		if update.Description != nil {
			tx.Description = *update.Description
		}
		if err := repo.UpdateHeader(ctx, id, tx.Date, tx.Ref, tx.Description); err != nil {
			return err
		}
		result = tx
		return nil
	})
	if err != nil {
		return ledger.Transaction{}, err
	}

	s.record(ctx, "transaction.edit", id, nil)
	// A date change can move the transaction across period boundaries.
	s.bust(ctx)
	return result, nil
}

func (s *Service) record(ctx context.Context, action string, id uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "transaction",
		EntityID: id.String(),
		Meta:     meta,
		At:       s.now(),
	})
}

func (s *Service) bust(ctx context.Context) {
	if s.buster != nil {
		_ = s.buster.Bust(ctx)
	}
}
