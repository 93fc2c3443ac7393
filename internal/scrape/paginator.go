package scrape

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lxuuryy/aussie-dashboard-sub004/internal/metrics"
	"github.com/lxuuryy/aussie-dashboard-sub004/internal/port"
)

// Paginator drives Fetcher+Parser across successive pages of one listing.
// Pages are fetched strictly sequentially with a politeness delay between
// them; the remote source sees at most one request per delay interval.
type Paginator struct {
	fetcher PageFetcher
	parser  *Parser
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewPaginator builds a paginator. delay is the politeness interval between
// successive page fetches within the listing.
func NewPaginator(fetcher PageFetcher, parser *Parser, delay time.Duration, logger *zap.Logger) *Paginator {
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Paginator{
		fetcher: fetcher,
		parser:  parser,
		limiter: limiter,
		logger:  logger,
	}
}

// Run fetches pages 1..cap, stopping on an empty page or a missing next-page
// link. A missing next link on page 2 alone does not stop pagination; the
// first results page renders it inconsistently. Returns the concatenation of
// all pages' records in fetch order.
func (pg *Paginator) Run(ctx context.Context, portSlug string, listing port.Listing) Records {
	var all Records

	for page := 1; page <= listing.PageCap; page++ {
		if err := pg.wait(ctx); err != nil {
			return all
		}

		url, err := listing.PageURL(page)
		if err != nil {
			pg.logger.Warn("bad listing url",
				zap.String("listing", string(listing.Kind)),
				zap.Error(err),
			)
			return all
		}

		body := pg.fetcher.Fetch(ctx, url)
		metrics.ObservePage(portSlug, string(listing.Kind), pageStatus(body), len(body))

		recs, hasNext := pg.parser.ParsePage(listing.Kind, body)
		if recs.Len() == 0 {
			return all
		}
		metrics.ObserveRecords(portSlug, string(listing.Kind), "page", recs.Len())
		all.Merge(recs)

		// One-page grace: the site renders the Next link inconsistently on
		// the first results page, so a missing link on page 2 alone does
		// not stop pagination.
		if !hasNext && page != 2 {
			return all
		}
	}

	pg.logger.Debug("page cap reached",
		zap.String("port", portSlug),
		zap.String("listing", string(listing.Kind)),
		zap.Int("cap", listing.PageCap),
	)
	return all
}

func (pg *Paginator) wait(ctx context.Context) error {
	start := time.Now()
	if err := pg.limiter.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObservePageDelay(waited)
	}
	return nil
}

func pageStatus(body []byte) string {
	if len(body) == 0 {
		return "empty"
	}
	return "ok"
}
