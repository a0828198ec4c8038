package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/drif-ai/finance/internal/ledger"
	_ "github.com/drif-ai/finance/testing"
)

type staticLoader struct {
	accounts     []ledger.Account
	transactions []ledger.Transaction
}

func (s *staticLoader) Snapshot(ctx context.Context) ([]ledger.Account, []ledger.Transaction, error) {
	return s.accounts, s.transactions, nil
}

type captureMetrics struct {
	drifted  int
	orphaned int
}

func (c *captureMetrics) SetLedgerDrift(drifted, orphaned int) {
	c.drifted, c.orphaned = drifted, orphaned
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIntegrityCleanLedger(t *testing.T) {
	loader := &staticLoader{
		accounts: []ledger.Account{
			{Code: "1200", Name: "Bank", Type: ledger.AccountTypeAsset, Balance: decimal.NewFromInt(100)},
			{Code: "4100", Name: "Sales", Type: ledger.AccountTypeRevenue, Balance: decimal.NewFromInt(100)},
		},
		transactions: []ledger.Transaction{{
			Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Entries: []ledger.Entry{
				{AccountCode: "1200", Debit: decimal.NewFromInt(100)},
				{AccountCode: "4100", Credit: decimal.NewFromInt(100)},
			},
		}},
	}
	metrics := &captureMetrics{drifted: -1, orphaned: -1}
	checker := NewIntegrityChecker(loader, metrics, discardLogger())

	drifted, orphaned, err := checker.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, drifted)
	require.Zero(t, orphaned)
	require.Zero(t, metrics.drifted)
	require.Zero(t, metrics.orphaned)
}

func TestIntegrityDetectsDriftAndOrphans(t *testing.T) {
	loader := &staticLoader{
		accounts: []ledger.Account{
			// Stored balance disagrees with the journal-derived 100.
			{Code: "1200", Name: "Bank", Type: ledger.AccountTypeAsset, Balance: decimal.NewFromInt(150)},
			{Code: "4100", Name: "Sales", Type: ledger.AccountTypeRevenue, Balance: decimal.NewFromInt(100)},
		},
		transactions: []ledger.Transaction{{
			Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Entries: []ledger.Entry{
				{AccountCode: "1200", Debit: decimal.NewFromInt(100)},
				{AccountCode: "4100", Credit: decimal.NewFromInt(100)},
			},
		}, {
			// References an account that was deleted.
			Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			Entries: []ledger.Entry{
				{AccountCode: "9999", Debit: decimal.NewFromInt(10)},
			},
		}},
	}
	metrics := &captureMetrics{}
	checker := NewIntegrityChecker(loader, metrics, discardLogger())

	drifted, orphaned, err := checker.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, drifted)
	require.Equal(t, 1, orphaned)
	require.Equal(t, 1, metrics.drifted)
	require.Equal(t, 1, metrics.orphaned)

	err = checker.Handle(context.Background(), NewLedgerIntegrityTask())
	require.Error(t, err)
}
