package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether the type is one of the closed enum values.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Account models a chart of accounts node. Balance is the persisted running
// balance expressed in the account's own normal-balance convention.
// ContraAsset and CashEquivalent are computed once at creation time by the
// Classifier; report logic reads the flags, never the name.
type Account struct {
	Code           string
	Name           string
	Type           AccountType
	Balance        decimal.Decimal
	ContraAsset    bool
	CashEquivalent bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalDebit reports whether the account accumulates value on the debit
// side. Assets and expenses are debit-normal except contra-assets.
func (a Account) NormalDebit() bool {
	switch a.Type {
	case AccountTypeAsset:
		return !a.ContraAsset
	case AccountTypeExpense:
		return true
	}
	return false
}

// Entry is one debit-or-credit line within a transaction. At most one of
// Debit/Credit is nonzero.
type Entry struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Transaction groups two or more entries posted on a single date. The sum of
// debits across entries equals the sum of credits.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time
	Description string
	Ref         string
	Entries     []Entry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Period is an inclusive date range used for reporting. Times are compared
// at calendar-date granularity.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod builds a Period from date-normalized bounds.
func NewPeriod(start, end time.Time) Period {
	return Period{Start: DateOf(start), End: DateOf(end)}
}

// Valid reports whether Start <= End.
func (p Period) Valid() bool {
	return !p.Start.After(p.End)
}

// Contains reports whether the date falls inside the period, inclusive on
// both ends.
func (p Period) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

// DateOf strips the time component, keeping the calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AccountIndex builds a code-keyed lookup over the supplied accounts.
func AccountIndex(accounts []Account) map[string]Account {
	idx := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		idx[a.Code] = a
	}
	return idx
}
