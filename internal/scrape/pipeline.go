package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lxuuryy/aussie-dashboard-sub004/internal/metrics"
	"github.com/lxuuryy/aussie-dashboard-sub004/internal/port"
)

// Service runs the whole per-port pipeline: concurrent listing fan-out,
// sequential pagination within each listing, final deduplication.
type Service struct {
	fetcher   PageFetcher
	pageDelay time.Duration
	logger    *zap.Logger
}

// NewService builds the pipeline service.
func NewService(fetcher PageFetcher, pageDelay time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, pageDelay: pageDelay, logger: logger}
}

// Collect fetches every listing of the port concurrently and returns the
// merged raw records. Each listing builds its own accumulator; a failing
// listing degrades to an empty list without affecting its siblings.
func (s *Service) Collect(ctx context.Context, profile port.Profile) (Records, error) {
	loc, err := profile.Location()
	if err != nil {
		return Records{}, fmt.Errorf("port %s: %w", profile.Slug, err)
	}
	normalizer := NewTimeNormalizer(loc, s.logger)

	start := time.Now()
	results := make([]Records, len(profile.Listings))
	var wg sync.WaitGroup
	for i, listing := range profile.Listings {
		wg.Add(1)
		go func(i int, listing port.Listing) {
			defer wg.Done()
			parser := NewParser(profile, normalizer, s.logger)
			paginator := NewPaginator(s.fetcher, parser, s.pageDelay, s.logger)
			results[i] = paginator.Run(ctx, profile.Slug, listing)
		}(i, listing)
	}
	wg.Wait()

	var all Records
	for _, recs := range results {
		all.Merge(recs)
	}
	all.PortCalls = DedupePortCalls(all.PortCalls)

	metrics.ObserveReport(profile.Slug, time.Since(start))
	s.logger.Info("port collection finished",
		zap.String("port", profile.Slug),
		zap.Int("in_port", len(all.InPort)),
		zap.Int("expected", len(all.Expected)),
		zap.Int("port_calls", len(all.PortCalls)),
		zap.Int("schedule", len(all.Schedule)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return all, nil
}

// FilterAndAggregate applies request filters per listing, re-deduplicates
// the surviving port calls and rebuilds the report.
func FilterAndAggregate(profile port.Profile, recs Records, filters Filters) (Records, ProcessedReport) {
	filtered := filters.Apply(recs)
	filtered.PortCalls = DedupePortCalls(filtered.PortCalls)
	return filtered, Aggregate(profile, filtered)
}
