package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/drif-ai/finance/internal/ledger"
	_ "github.com/drif-ai/finance/testing"
)

type recordingPoster struct {
	posted []ledger.Transaction
}

func (p *recordingPoster) Post(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	if err := ledger.ValidateTransaction(tx); err != nil {
		return ledger.Transaction{}, err
	}
	p.posted = append(p.posted, tx)
	return tx, nil
}

func balancedTuple(ref string, amount int64) ledger.Transaction {
	return ledger.Transaction{
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Ref:  ref,
		Entries: []ledger.Entry{
			{AccountCode: "1200", Debit: decimal.NewFromInt(amount)},
			{AccountCode: "4100", Credit: decimal.NewFromInt(amount)},
		},
	}
}

func TestApplyPostsEveryTuple(t *testing.T) {
	poster := &recordingPoster{}
	svc := NewService(poster)

	result, err := svc.Apply(context.Background(), []ledger.Transaction{
		balancedTuple("A", 100),
		balancedTuple("B", 250),
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Applied)
	require.Nil(t, result.Failed)
	require.Len(t, poster.posted, 2)
}

func TestApplyStopsAtMalformedTuple(t *testing.T) {
	poster := &recordingPoster{}
	svc := NewService(poster)

	bad := balancedTuple("B", 100)
	bad.Entries[1].Credit = decimal.NewFromInt(90)

	result, err := svc.Apply(context.Background(), []ledger.Transaction{
		balancedTuple("A", 100),
		bad,
		balancedTuple("C", 50),
	})
	require.ErrorIs(t, err, ledger.ErrUnbalanced)
	require.Equal(t, 1, result.Applied)
	require.NotNil(t, result.Failed)
	require.Equal(t, 1, result.Failed.Index)

	// The failing tuple and everything after it stay unapplied.
	require.Len(t, poster.posted, 1)
	require.Equal(t, "A", poster.posted[0].Ref)
}

func TestApplyFillsMissingRef(t *testing.T) {
	poster := &recordingPoster{}
	svc := NewService(poster)

	tuple := balancedTuple("", 100)
	result, err := svc.Apply(context.Background(), []ledger.Transaction{tuple})
	require.NoError(t, err)
	require.Equal(t, 1, result.Applied)
	require.True(t, strings.HasPrefix(poster.posted[0].Ref, "IMPORT-"))
}

func TestParseCSVGroupsByRef(t *testing.T) {
	input := strings.Join([]string{
		"date,ref,description,account_code,debit,credit",
		"2025-03-10,INV-1,Cash sale,1200,1000,",
		"2025-03-10,INV-1,Cash sale,4100,,1000",
		"2025-03-12,INV-2,Rent,5100,400,",
		"2025-03-12,INV-2,Rent,1200,,400",
	}, "\n")

	txns, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	require.Equal(t, "INV-1", txns[0].Ref)
	require.Equal(t, "Cash sale", txns[0].Description)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), txns[0].Date)
	require.Len(t, txns[0].Entries, 2)
	require.True(t, txns[0].Entries[0].Debit.Equal(decimal.NewFromInt(1000)))

	require.Equal(t, "INV-2", txns[1].Ref)
	require.Len(t, txns[1].Entries, 2)
}

func TestParseCSVRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"wrong header":  "when,ref,description,account_code,debit,credit\n2025-03-10,A,x,1200,1,",
		"missing ref":   "date,ref,description,account_code,debit,credit\n2025-03-10,,x,1200,1,",
		"bad date":      "date,ref,description,account_code,debit,credit\nMarch,A,x,1200,1,",
		"bad amount":    "date,ref,description,account_code,debit,credit\n2025-03-10,A,x,1200,one,",
		"missing code":  "date,ref,description,account_code,debit,credit\n2025-03-10,A,x,,1,",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(input))
			require.Error(t, err)
		})
	}
}
