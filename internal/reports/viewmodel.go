package reports

import (
	"github.com/drif-ai/finance/internal/ledger"
)

const dateLayout = "2006-01-02"

// ReportRow is one account line in a rendered section.
type ReportRow struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// ReportSection is a labelled group of rows plus the section total.
type ReportSection struct {
	Label string      `json:"label"`
	Rows  []ReportRow `json:"rows"`
	Total string      `json:"total"`
}

// CashFlowView is the rendered cash summary.
type CashFlowView struct {
	StartCash string `json:"start_cash"`
	EndCash   string `json:"end_cash"`
	NetChange string `json:"net_change"`
}

// ReportView is the transport form of a financial report. Amounts are
// decimal strings so cached copies round-trip losslessly.
type ReportView struct {
	Start string `json:"start"`
	End   string `json:"end"`

	Revenue   ReportSection `json:"revenue"`
	Expense   ReportSection `json:"expense"`
	NetIncome string        `json:"net_income"`

	Assets       ReportSection `json:"assets"`
	Liabilities  ReportSection `json:"liabilities"`
	Equity       ReportSection `json:"equity"`
	EquityWithPL ReportSection `json:"equity_with_pl"`

	TotalAssets               string `json:"total_assets"`
	TotalLiabilities          string `json:"total_liabilities"`
	TotalEquityWithPL         string `json:"total_equity_with_pl"`
	TotalLiabilitiesAndEquity string `json:"total_liabilities_and_equity"`
	IsBalanced                bool   `json:"is_balanced"`

	CashFlow CashFlowView `json:"cash_flow"`
}

// NewReportView renders a domain report for transport.
func NewReportView(report ledger.FinancialReport) ReportView {
	return ReportView{
		Start:        report.Period.Start.Format(dateLayout),
		End:          report.Period.End.Format(dateLayout),
		Revenue:      newSection(report.Revenue),
		Expense:      newSection(report.Expense),
		NetIncome:    report.NetIncome.String(),
		Assets:       newSection(report.Assets),
		Liabilities:  newSection(report.Liabilities),
		Equity:       newSection(report.Equity),
		EquityWithPL: newSection(report.EquityWithPL),

		TotalAssets:               report.TotalAssets.String(),
		TotalLiabilities:          report.TotalLiabilities.String(),
		TotalEquityWithPL:         report.TotalEquityWithPL.String(),
		TotalLiabilitiesAndEquity: report.TotalLiabilitiesAndEquity.String(),
		IsBalanced:                report.IsBalanced,

		CashFlow: CashFlowView{
			StartCash: report.CashFlow.StartCash.String(),
			EndCash:   report.CashFlow.EndCash.String(),
			NetChange: report.CashFlow.NetChange.String(),
		},
	}
}

func newSection(s ledger.Section) ReportSection {
	out := ReportSection{Label: s.Label, Total: s.Total.String(), Rows: make([]ReportRow, 0, len(s.Accounts))}
	for _, row := range s.Accounts {
		out.Rows = append(out.Rows, ReportRow{Code: row.Code, Name: row.Name, Amount: row.Amount.String()})
	}
	return out
}
