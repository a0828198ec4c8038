package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateTransaction enforces the posting invariants: at least two entries,
// non-negative one-sided amounts, balanced debit and credit sums, and a
// nonzero total. Violations are reported before any mutation happens.
func ValidateTransaction(tx Transaction) error {
	if len(tx.Entries) < 2 {
		return ErrTooFewEntries
	}
	debit := decimal.Zero
	credit := decimal.Zero
	for idx, e := range tx.Entries {
		if e.AccountCode == "" {
			return fmt.Errorf("ledger: entry %d missing account code", idx)
		}
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return fmt.Errorf("entry %d: %w", idx, ErrNegativeAmount)
		}
		if e.Debit.IsPositive() && e.Credit.IsPositive() {
			return fmt.Errorf("entry %d: %w", idx, ErrTwoSided)
		}
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debit %s credit %s", ErrUnbalanced, debit.String(), credit.String())
	}
	if debit.IsZero() {
		return ErrZeroAmount
	}
	return nil
}
