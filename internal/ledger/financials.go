package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// balanceTolerance absorbs rounding drift when checking the accounting
// identity.
var balanceTolerance = decimal.NewFromFloat(0.01)

// AccountAmount is one report row: an account with its displayed balance.
type AccountAmount struct {
	Code   string
	Name   string
	Amount decimal.Decimal
}

// Section groups report rows with their total.
type Section struct {
	Label    string
	Accounts []AccountAmount
	Total    decimal.Decimal
}

// CashFlow is the simplified cash summary over cash-equivalent accounts.
type CashFlow struct {
	StartCash decimal.Decimal
	EndCash   decimal.Decimal
	NetChange decimal.Decimal
}

// FinancialReport bundles the income statement, balance sheet, and cash flow
// summary for one period.
type FinancialReport struct {
	Period Period

	Revenue   Section
	Expense   Section
	NetIncome decimal.Decimal

	Assets       Section
	Liabilities  Section
	Equity       Section
	EquityWithPL Section

	TotalAssets               decimal.Decimal
	TotalLiabilities          decimal.Decimal
	TotalEquityWithPL         decimal.Decimal
	TotalLiabilitiesAndEquity decimal.Decimal
	IsBalanced                bool

	CashFlow CashFlow
}

// BuildFinancials derives the full financial report from scratch for the
// given period. Display conventions: debit-normal balances are reported
// as-is, credit-normal balances (liabilities, equity, revenue,
// contra-assets) are sign-flipped so that credit accumulation shows
// positive. Contra-asset rows appear in the assets section as positive
// offsets and are subtracted from the assets total.
//
// retainedEarningsCode names the equity account that absorbs the period's
// net income in the EquityWithPL view used for the balance sheet; the plain
// Equity section excludes that adjustment.
func BuildFinancials(accounts []Account, transactions []Transaction, period Period, retainedEarningsCode string) FinancialReport {
	balances := ComputeBalances(accounts, transactions, period)

	report := FinancialReport{
		Period:      period,
		Revenue:     Section{Label: "Revenue"},
		Expense:     Section{Label: "Expenses"},
		Assets:      Section{Label: "Assets"},
		Liabilities: Section{Label: "Liabilities"},
		Equity:      Section{Label: "Equity"},
	}

	sorted := append([]Account(nil), accounts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	for _, acc := range sorted {
		closing := balances.Closing[acc.Code]
		change := balances.Change[acc.Code]

		switch acc.Type {
		case AccountTypeRevenue:
			row := AccountAmount{Code: acc.Code, Name: acc.Name, Amount: change.Neg()}
			report.Revenue.Accounts = append(report.Revenue.Accounts, row)
			report.Revenue.Total = report.Revenue.Total.Add(row.Amount)
		case AccountTypeExpense:
			row := AccountAmount{Code: acc.Code, Name: acc.Name, Amount: change}
			report.Expense.Accounts = append(report.Expense.Accounts, row)
			report.Expense.Total = report.Expense.Total.Add(row.Amount)
		case AccountTypeAsset:
			row := AccountAmount{Code: acc.Code, Name: acc.Name, Amount: closing}
			if acc.ContraAsset {
				row.Amount = closing.Neg()
				report.TotalAssets = report.TotalAssets.Sub(row.Amount)
			} else {
				report.TotalAssets = report.TotalAssets.Add(row.Amount)
			}
			report.Assets.Accounts = append(report.Assets.Accounts, row)
			if acc.CashEquivalent {
				report.CashFlow.StartCash = report.CashFlow.StartCash.Add(balances.Opening[acc.Code])
				report.CashFlow.EndCash = report.CashFlow.EndCash.Add(closing)
			}
		case AccountTypeLiability:
			row := AccountAmount{Code: acc.Code, Name: acc.Name, Amount: closing.Neg()}
			report.Liabilities.Accounts = append(report.Liabilities.Accounts, row)
			report.Liabilities.Total = report.Liabilities.Total.Add(row.Amount)
		case AccountTypeEquity:
			row := AccountAmount{Code: acc.Code, Name: acc.Name, Amount: closing.Neg()}
			report.Equity.Accounts = append(report.Equity.Accounts, row)
			report.Equity.Total = report.Equity.Total.Add(row.Amount)
		}
	}

	report.Assets.Total = report.TotalAssets
	report.NetIncome = report.Revenue.Total.Sub(report.Expense.Total)
	report.EquityWithPL = equityWithPL(report.Equity, report.NetIncome, retainedEarningsCode)
	report.TotalLiabilities = report.Liabilities.Total
	report.TotalEquityWithPL = report.EquityWithPL.Total
	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquityWithPL)
	report.IsBalanced = report.TotalAssets.Sub(report.TotalLiabilitiesAndEquity).Abs().LessThan(balanceTolerance)
	report.CashFlow.NetChange = report.CashFlow.EndCash.Sub(report.CashFlow.StartCash)
	return report
}

// equityWithPL copies the equity section and folds net income into the
// retained-earnings row. When the chart has no account under that code yet,
// a synthetic row keeps the balance sheet closed.
func equityWithPL(equity Section, netIncome decimal.Decimal, retainedEarningsCode string) Section {
	out := Section{Label: "Equity", Total: decimal.Zero}
	out.Accounts = make([]AccountAmount, len(equity.Accounts))
	copy(out.Accounts, equity.Accounts)

	found := false
	for i := range out.Accounts {
		if out.Accounts[i].Code == retainedEarningsCode {
			out.Accounts[i].Amount = out.Accounts[i].Amount.Add(netIncome)
			found = true
			break
		}
	}
	if !found && !netIncome.IsZero() {
		out.Accounts = append(out.Accounts, AccountAmount{
			Code:   retainedEarningsCode,
			Name:   "Current Period Earnings",
			Amount: netIncome,
		})
	}
	for _, row := range out.Accounts {
		out.Total = out.Total.Add(row.Amount)
	}
	return out
}
