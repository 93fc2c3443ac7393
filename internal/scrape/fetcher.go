package scrape

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// PageFetcher retrieves one HTML page. Implementations must treat every
// failure as "page has no rows" and return nil rather than an error, so the
// paginator never has to distinguish fetch failure from an empty listing.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) []byte
}

// FetcherConfig controls collector behavior.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// Fetcher implements PageFetcher using a Colly collector with browser-like
// headers and a freshness-window body cache.
type Fetcher struct {
	cfg           FetcherConfig
	baseCollector *colly.Collector
	cache         *pageCache
	logger        *zap.Logger
}

// NewFetcher builds a Fetcher.
func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 300 * time.Second
	}

	c := colly.NewCollector(colly.Async(false))
	// Clones share the visited-URL store; listing pages are re-fetched
	// every time the cache window lapses.
	c.AllowURLRevisit = true
	c.WithTransport(newHTTPTransport())

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		cache:         newPageCache(cfg.CacheTTL),
		logger:        logger,
	}
}

// Fetch executes a single GET. A body fetched within the freshness window is
// reused without touching the remote site. Non-2xx responses and transport
// errors are logged and collapse to nil.
func (f *Fetcher) Fetch(ctx context.Context, url string) []byte {
	if body, ok := f.cache.get(url); ok {
		return body
	}

	var (
		body     []byte
		status   int
		fetchErr error
	)

	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-AU,en;q=0.9")
		r.Headers.Set("Cache-Control", "max-age=300")
	})
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	if err := f.visit(ctx, collector, url); err != nil {
		f.logger.Warn("page fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	if fetchErr != nil || status < 200 || status >= 300 {
		f.logger.Warn("page fetch returned no data",
			zap.String("url", url),
			zap.Int("status", status),
			zap.Error(fetchErr),
		)
		return nil
	}

	f.cache.set(url, body)
	return body
}

func (f *Fetcher) visit(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

// pageCache holds fetched bodies for the freshness window. The key space is
// the small fixed set of listing page URLs, so entries are never evicted,
// only refreshed.
type pageCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	body      []byte
	fetchedAt time.Time
}

func newPageCache(ttl time.Duration) *pageCache {
	return &pageCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *pageCache) get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[url]
	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.body, true
}

func (c *pageCache) set(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{body: body, fetchedAt: time.Now()}
}
