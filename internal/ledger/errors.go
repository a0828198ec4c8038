package ledger

import "errors"

var (
	// ErrUnbalanced indicates debit sum != credit sum.
	ErrUnbalanced = errors.New("ledger: transaction entries must balance")
	// ErrTooFewEntries indicates less than two entries.
	ErrTooFewEntries = errors.New("ledger: transaction requires at least two entries")
	// ErrZeroAmount indicates a transaction whose entries sum to zero.
	ErrZeroAmount = errors.New("ledger: transaction total must be greater than zero")
	// ErrNegativeAmount indicates a negative debit or credit.
	ErrNegativeAmount = errors.New("ledger: entry amounts must be non-negative")
	// ErrTwoSided indicates an entry carrying both a debit and a credit.
	ErrTwoSided = errors.New("ledger: entry cannot carry both debit and credit")
	// ErrUnknownAccount indicates an entry referencing a code with no account.
	ErrUnknownAccount = errors.New("ledger: unknown account code")
	// ErrInvalidPeriod indicates an empty or inverted reporting period.
	ErrInvalidPeriod = errors.New("ledger: period start must not be after end")
	// ErrInvalidAccountType indicates a type outside the closed enum.
	ErrInvalidAccountType = errors.New("ledger: invalid account type")
)
