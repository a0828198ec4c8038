package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Deltas computes the netted per-account balance effect of a transaction,
// expressed in each account's normal-balance convention: (debit - credit)
// for debit-normal accounts, (credit - debit) otherwise. Entries touching
// the same account are netted so the store sees a single update per account.
// Entries referencing an unknown account code are skipped.
func Deltas(accounts map[string]Account, tx Transaction) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal)
	for _, e := range tx.Entries {
		acc, ok := accounts[e.AccountCode]
		if !ok {
			continue
		}
		var d decimal.Decimal
		if acc.NormalDebit() {
			d = e.Debit.Sub(e.Credit)
		} else {
			d = e.Credit.Sub(e.Debit)
		}
		deltas[e.AccountCode] = deltas[e.AccountCode].Add(d)
	}
	return deltas
}

// InverseDeltas computes the deltas that undo a transaction's balance
// effect. The inverse is re-derived by swapping each entry's debit and
// credit and running the same formula, never by inspecting stored balances.
func InverseDeltas(accounts map[string]Account, tx Transaction) map[string]decimal.Decimal {
	reversed := Transaction{Date: tx.Date, Entries: make([]Entry, len(tx.Entries))}
	for i, e := range tx.Entries {
		reversed.Entries[i] = Entry{AccountCode: e.AccountCode, Debit: e.Credit, Credit: e.Debit}
	}
	return Deltas(accounts, reversed)
}

// SortedCodes returns the delta keys in lexicographic order so balance
// updates are applied in a deterministic sequence.
func SortedCodes(deltas map[string]decimal.Decimal) []string {
	codes := make([]string, 0, len(deltas))
	for code := range deltas {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
