package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drif-ai/finance/internal/ledger"
)

const dateLayout = "2006-01-02"

// EntryInput is one journal line in a posting request. Amounts are decimal
// strings; at most one of debit/credit may be nonzero.
type EntryInput struct {
	AccountCode string `json:"account_code" validate:"required,max=20"`
	Debit       string `json:"debit" validate:"omitempty"`
	Credit      string `json:"credit" validate:"omitempty"`
}

// PostTransactionRequest creates a new journal transaction.
type PostTransactionRequest struct {
	Date        string       `json:"date" validate:"required"`
	Description string       `json:"description" validate:"max=500"`
	Ref         string       `json:"ref" validate:"max=100"`
	Entries     []EntryInput `json:"entries" validate:"required,min=2,dive"`
}

// ToTransaction parses the request into a domain transaction.
func (r PostTransactionRequest) ToTransaction() (ledger.Transaction, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("journal: invalid date %q", r.Date)
	}
	tx := ledger.Transaction{
		Date:        date,
		Description: r.Description,
		Ref:         r.Ref,
		Entries:     make([]ledger.Entry, 0, len(r.Entries)),
	}
	for idx, in := range r.Entries {
		entry := ledger.Entry{AccountCode: in.AccountCode, Debit: decimal.Zero, Credit: decimal.Zero}
		if in.Debit != "" {
			if entry.Debit, err = decimal.NewFromString(in.Debit); err != nil {
				return ledger.Transaction{}, fmt.Errorf("journal: entry %d invalid debit %q", idx, in.Debit)
			}
		}
		if in.Credit != "" {
			if entry.Credit, err = decimal.NewFromString(in.Credit); err != nil {
				return ledger.Transaction{}, fmt.Errorf("journal: entry %d invalid credit %q", idx, in.Credit)
			}
		}
		tx.Entries = append(tx.Entries, entry)
	}
	return tx, nil
}

// UpdateHeaderRequest edits header fields of a persisted transaction.
type UpdateHeaderRequest struct {
	Date        *string `json:"date,omitempty"`
	Ref         *string `json:"ref,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ToHeaderUpdate parses the request into a domain header update.
func (r UpdateHeaderRequest) ToHeaderUpdate() (HeaderUpdate, error) {
	update := HeaderUpdate{Ref: r.Ref, Description: r.Description}
	if r.Date != nil {
		date, err := time.Parse(dateLayout, *r.Date)
		if err != nil {
			return HeaderUpdate{}, fmt.Errorf("journal: invalid date %q", *r.Date)
		}
		update.Date = &date
	}
	return update, nil
}

// EntryResponse mirrors one journal line.
type EntryResponse struct {
	AccountCode string `json:"account_code"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

// TransactionResponse is the JSON view of a transaction.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Ref         string          `json:"ref"`
	Entries     []EntryResponse `json:"entries"`
}

// NewTransactionResponse converts a domain transaction for transport.
func NewTransactionResponse(tx ledger.Transaction) TransactionResponse {
	out := TransactionResponse{
		ID:          tx.ID.String(),
		Date:        tx.Date.Format(dateLayout),
		Description: tx.Description,
		Ref:         tx.Ref,
		Entries:     make([]EntryResponse, 0, len(tx.Entries)),
	}
	for _, e := range tx.Entries {
		out.Entries = append(out.Entries, EntryResponse{
			AccountCode: e.AccountCode,
			Debit:       e.Debit.String(),
			Credit:      e.Credit.String(),
		})
	}
	return out
}
