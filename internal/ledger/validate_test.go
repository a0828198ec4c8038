package ledger

import (
	"errors"
	"testing"

	_ "github.com/drif-ai/finance/testing"
)

func TestValidateTransactionAccepted(t *testing.T) {
	tx := Transaction{
		Date:    date("2024-01-15"),
		Entries: []Entry{entry("1200", 1000, 0), entry("4100", 0, 1000)},
	}
	if err := ValidateTransaction(tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateTransactionUnbalanced(t *testing.T) {
	tx := Transaction{
		Date:    date("2024-01-15"),
		Entries: []Entry{entry("1200", 500000, 0), entry("4100", 0, 400000)},
	}
	if err := ValidateTransaction(tx); !errors.Is(err, ErrUnbalanced) {
		t.Fatalf("got %v want ErrUnbalanced", err)
	}
}

func TestValidateTransactionTooFewEntries(t *testing.T) {
	tx := Transaction{Date: date("2024-01-15"), Entries: []Entry{entry("1200", 100, 0)}}
	if err := ValidateTransaction(tx); !errors.Is(err, ErrTooFewEntries) {
		t.Fatalf("got %v want ErrTooFewEntries", err)
	}
}

func TestValidateTransactionZeroTotal(t *testing.T) {
	tx := Transaction{
		Date:    date("2024-01-15"),
		Entries: []Entry{entry("1200", 0, 0), entry("4100", 0, 0)},
	}
	if err := ValidateTransaction(tx); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("got %v want ErrZeroAmount", err)
	}
}

func TestValidateTransactionTwoSidedEntry(t *testing.T) {
	tx := Transaction{
		Date: date("2024-01-15"),
		Entries: []Entry{
			{AccountCode: "1200", Debit: amount(100), Credit: amount(100)},
			entry("4100", 0, 0),
		},
	}
	if err := ValidateTransaction(tx); !errors.Is(err, ErrTwoSided) {
		t.Fatalf("got %v want ErrTwoSided", err)
	}
}

func TestValidateTransactionNegativeAmount(t *testing.T) {
	tx := Transaction{
		Date: date("2024-01-15"),
		Entries: []Entry{
			{AccountCode: "1200", Debit: amount(-100)},
			entry("4100", 0, 100),
		},
	}
	if err := ValidateTransaction(tx); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("got %v want ErrNegativeAmount", err)
	}
}
