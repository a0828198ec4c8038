package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/drif-ai/finance/testing"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func entry(code string, debit, credit int64) Entry {
	return Entry{AccountCode: code, Debit: amount(debit), Credit: amount(credit)}
}

func testAccounts() []Account {
	return []Account{
		{Code: "1200", Name: "Bank", Type: AccountTypeAsset, CashEquivalent: true},
		{Code: "2100", Name: "Accounts Payable", Type: AccountTypeLiability},
		{Code: "3100", Name: "Owner Equity", Type: AccountTypeEquity},
		{Code: "4100", Name: "Sales Revenue", Type: AccountTypeRevenue},
		{Code: "5100", Name: "Office Expense", Type: AccountTypeExpense},
	}
}

func TestComputeBalancesSplitsOpeningAndPeriod(t *testing.T) {
	accounts := testAccounts()
	txns := []Transaction{
		{Date: date("2023-12-20"), Entries: []Entry{entry("1200", 500, 0), entry("3100", 0, 500)}},
		{Date: date("2024-01-01"), Entries: []Entry{entry("1200", 300, 0), entry("4100", 0, 300)}},
		{Date: date("2024-01-31"), Entries: []Entry{entry("5100", 100, 0), entry("1200", 0, 100)}},
		{Date: date("2024-02-01"), Entries: []Entry{entry("1200", 999, 0), entry("4100", 0, 999)}},
	}
	period := NewPeriod(date("2024-01-01"), date("2024-01-31"))

	set := ComputeBalances(accounts, txns, period)

	if got := set.Opening["1200"]; !got.Equal(amount(500)) {
		t.Fatalf("opening 1200: got %s want 500", got)
	}
	if got := set.Change["1200"]; !got.Equal(amount(200)) {
		t.Fatalf("change 1200: got %s want 200", got)
	}
	if got := set.Closing["1200"]; !got.Equal(amount(700)) {
		t.Fatalf("closing 1200: got %s want 700", got)
	}
	// Transaction after the period end must not count anywhere.
	if got := set.Change["4100"]; !got.Equal(amount(-300)) {
		t.Fatalf("change 4100: got %s want -300", got)
	}
}

func TestComputeBalancesZeroForUntouchedAccounts(t *testing.T) {
	accounts := testAccounts()
	set := ComputeBalances(accounts, nil, NewPeriod(date("2024-01-01"), date("2024-12-31")))
	for _, acc := range accounts {
		for name, m := range map[string]map[string]decimal.Decimal{
			"opening": set.Opening, "change": set.Change, "closing": set.Closing,
		} {
			got, ok := m[acc.Code]
			if !ok {
				t.Fatalf("%s missing entry for %s", name, acc.Code)
			}
			if !got.IsZero() {
				t.Fatalf("%s[%s]: got %s want 0", name, acc.Code, got)
			}
		}
	}
}

func TestComputeBalancesSkipsUnknownAccounts(t *testing.T) {
	accounts := testAccounts()
	txns := []Transaction{
		{Date: date("2023-06-01"), Entries: []Entry{entry("9999", 100, 0), entry("3100", 0, 100)}},
	}
	set := ComputeBalances(accounts, txns, NewPeriod(date("2024-01-01"), date("2024-12-31")))
	if _, ok := set.Opening["9999"]; ok {
		t.Fatalf("unknown account must not appear in result")
	}
	if got := set.Opening["3100"]; !got.Equal(amount(-100)) {
		t.Fatalf("opening 3100: got %s want -100", got)
	}
}

func TestComputeBalancesAdditivity(t *testing.T) {
	accounts := testAccounts()
	txns := []Transaction{
		{Date: date("2023-11-05"), Entries: []Entry{entry("1200", 1000, 0), entry("3100", 0, 1000)}},
		{Date: date("2024-01-10"), Entries: []Entry{entry("5100", 250, 0), entry("1200", 0, 250)}},
		{Date: date("2024-03-15"), Entries: []Entry{entry("1200", 400, 0), entry("4100", 0, 400)}},
	}
	set := ComputeBalances(accounts, txns, NewPeriod(date("2024-01-01"), date("2024-06-30")))
	for code := range set.Closing {
		want := set.Opening[code].Add(set.Change[code])
		if !set.Closing[code].Equal(want) {
			t.Fatalf("closing[%s]: got %s want opening+change=%s", code, set.Closing[code], want)
		}
	}
}

func TestComputeBalancesIdempotent(t *testing.T) {
	accounts := testAccounts()
	txns := []Transaction{
		{Date: date("2024-01-15"), Entries: []Entry{entry("1200", 750, 0), entry("4100", 0, 750)}},
	}
	period := NewPeriod(date("2024-01-01"), date("2024-01-31"))
	first := ComputeBalances(accounts, txns, period)
	second := ComputeBalances(accounts, txns, period)
	for code := range first.Closing {
		if !first.Closing[code].Equal(second.Closing[code]) {
			t.Fatalf("closing[%s] differs between runs: %s vs %s", code, first.Closing[code], second.Closing[code])
		}
	}
}
