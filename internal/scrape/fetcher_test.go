package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{UserAgent: "Mozilla/5.0 (test)"}, nil)
	body := f.Fetch(context.Background(), srv.URL)

	require.Equal(t, "<html><body>ok</body></html>", string(body))
	require.Equal(t, "Mozilla/5.0 (test)", gotUA)
	require.Contains(t, gotAccept, "text/html")
}

func TestFetcher_NonOKCollapsesToNil(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{}, nil)
	require.Nil(t, f.Fetch(context.Background(), srv.URL))
}

func TestFetcher_UnreachableCollapsesToNil(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewFetcher(FetcherConfig{}, nil)
	require.Nil(t, f.Fetch(context.Background(), url))
}

func TestFetcher_CacheServesWithinWindow(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("cached page"))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{CacheTTL: time.Minute}, nil)
	first := f.Fetch(context.Background(), srv.URL)
	second := f.Fetch(context.Background(), srv.URL)

	require.Equal(t, first, second)
	require.Equal(t, int32(1), hits.Load(), "the second fetch must come from cache")
}

func TestFetcher_FailedFetchIsNotCached(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{CacheTTL: time.Minute}, nil)
	require.Nil(t, f.Fetch(context.Background(), srv.URL))
	require.Equal(t, "recovered", string(f.Fetch(context.Background(), srv.URL)))
}

func TestPageCache_Expiry(t *testing.T) {
	t.Parallel()
	c := newPageCache(10 * time.Millisecond)
	c.set("u", []byte("body"))

	body, ok := c.get("u")
	require.True(t, ok)
	require.Equal(t, "body", string(body))

	time.Sleep(20 * time.Millisecond)
	_, ok = c.get("u")
	require.False(t, ok, "entries past the window are misses")
}