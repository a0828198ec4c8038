package ledger

import "github.com/shopspring/decimal"

// BalanceSet carries per-account opening balances, period movements, and
// closing balances for one reporting period. All values are raw
// debit-positive sums of (debit - credit); no normal-balance adjustment is
// applied here.
type BalanceSet struct {
	Opening map[string]decimal.Decimal
	Change  map[string]decimal.Decimal
	Closing map[string]decimal.Decimal
}

// ComputeBalances aggregates the full transaction history against the chart
// of accounts for the given period. Every known account appears in all three
// maps, with zero when it has no matching entries. Entries referencing a
// code with no account are skipped; the write path rejects those up front,
// so this only matters for historical data.
//
// The computation is pure: same inputs, same output, no side effects.
func ComputeBalances(accounts []Account, transactions []Transaction, period Period) BalanceSet {
	set := BalanceSet{
		Opening: make(map[string]decimal.Decimal, len(accounts)),
		Change:  make(map[string]decimal.Decimal, len(accounts)),
		Closing: make(map[string]decimal.Decimal, len(accounts)),
	}
	for _, a := range accounts {
		set.Opening[a.Code] = decimal.Zero
		set.Change[a.Code] = decimal.Zero
	}

	for _, tx := range transactions {
		date := DateOf(tx.Date)
		opening := date.Before(period.Start)
		inPeriod := !opening && !date.After(period.End)
		if !opening && !inPeriod {
			continue
		}
		for _, e := range tx.Entries {
			if _, ok := set.Change[e.AccountCode]; !ok {
				continue
			}
			raw := e.Debit.Sub(e.Credit)
			if opening {
				set.Opening[e.AccountCode] = set.Opening[e.AccountCode].Add(raw)
			} else {
				set.Change[e.AccountCode] = set.Change[e.AccountCode].Add(raw)
			}
		}
	}

	for code, open := range set.Opening {
		set.Closing[code] = open.Add(set.Change[code])
	}
	return set
}
