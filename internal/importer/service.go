package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/drif-ai/finance/internal/ledger"
)

// Poster posts one journal transaction atomically. Satisfied by the journal
// service, so every imported tuple gets the same validation and
// all-or-nothing persistence as a hand-posted transaction.
type Poster interface {
	Post(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error)
}

// BatchResult summarises one import run. Applied counts tuples committed
// before the batch stopped; a failed tuple never applies partially.
type BatchResult struct {
	BatchID uuid.UUID
	Applied int
	Failed  *FailedTuple
}

// FailedTuple identifies the tuple that stopped the batch.
type FailedTuple struct {
	Index int
	Err   error
}

// Service applies transaction batches tuple by tuple.
type Service struct {
	poster Poster
}

// NewService constructs the importer service.
func NewService(poster Poster) *Service {
	return &Service{poster: poster}
}

// Apply posts the tuples in order, stopping at the first failure. Tuples
// committed before the failure stay committed; the failing tuple applies
// zero deltas.
func (s *Service) Apply(ctx context.Context, transactions []ledger.Transaction) (BatchResult, error) {
	result := BatchResult{BatchID: uuid.New()}
	for i, tx := range transactions {
		if tx.Ref == "" {
			tx.Ref = fmt.Sprintf("IMPORT-%s-%d", result.BatchID, i)
		}
		if _, err := s.poster.Post(ctx, tx); err != nil {
			result.Failed = &FailedTuple{Index: i, Err: err}
			return result, fmt.Errorf("importer: tuple %d: %w", i, err)
		}
		result.Applied++
	}
	return result, nil
}
