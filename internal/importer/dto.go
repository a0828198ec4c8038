package importer

import (
	"github.com/drif-ai/finance/internal/journal"
	"github.com/drif-ai/finance/internal/ledger"
)

// BatchRequest posts a batch of transaction tuples as JSON.
type BatchRequest struct {
	Items []journal.PostTransactionRequest `json:"items" validate:"required,min=1,dive"`
}

// ToTransactions parses every tuple up front; parse failures reject the
// batch before anything is posted.
func (r BatchRequest) ToTransactions() ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0, len(r.Items))
	for _, item := range r.Items {
		tx, err := item.ToTransaction()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// BatchResponse is the JSON view of an import run.
type BatchResponse struct {
	BatchID string       `json:"batch_id"`
	Applied int          `json:"applied"`
	Failed  *FailedView  `json:"failed,omitempty"`
}

// FailedView describes the tuple that stopped the batch.
type FailedView struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// NewBatchResponse converts a batch result for transport.
func NewBatchResponse(result BatchResult) BatchResponse {
	out := BatchResponse{BatchID: result.BatchID.String(), Applied: result.Applied}
	if result.Failed != nil {
		out.Failed = &FailedView{Index: result.Failed.Index, Error: result.Failed.Err.Error()}
	}
	return out
}
