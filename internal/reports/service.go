package reports

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/drif-ai/finance/internal/ledger"
)

// Service builds financial reports. Each build recomputes from the full
// journal; the redis cache and singleflight keep repeated identical
// requests from stampeding the database.
type Service struct {
	loader           Loader
	cache            *Cache
	retainedEarnings string
	group            singleflight.Group
}

// NewService constructs the reports service. cache may be nil.
func NewService(loader Loader, cache *Cache, retainedEarningsCode string) *Service {
	return &Service{loader: loader, cache: cache, retainedEarnings: retainedEarningsCode}
}

// Financials builds the report for an inclusive date period.
func (s *Service) Financials(ctx context.Context, period ledger.Period) (ReportView, error) {
	if !period.Valid() {
		return ReportView{}, ledger.ErrInvalidPeriod
	}
	if view, ok := s.cache.Get(ctx, period); ok {
		return view, nil
	}

	key := fmt.Sprintf("%s:%s", period.Start.Format(dateLayout), period.End.Format(dateLayout))
	resultChan := s.group.DoChan(key, func() (any, error) {
		accounts, transactions, err := s.loader.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		report := ledger.BuildFinancials(accounts, transactions, period, s.retainedEarnings)
		view := NewReportView(report)
		s.cache.Set(ctx, period, view)
		return view, nil
	})
	select {
	case <-ctx.Done():
		return ReportView{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return ReportView{}, res.Err
		}
		return res.Val.(ReportView), nil
	}
}
