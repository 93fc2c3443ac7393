// Package port defines the per-port configuration driving the scrape pipeline.
//
// The four supported ports share one pipeline; everything that differs between
// them (timezone, classification rules, listing URLs, page caps, report
// subsets) lives in a Profile value.
package port

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ListingKind identifies one of the upstream page families.
type ListingKind string

// Listing kinds scraped per port.
const (
	ListingInPort    ListingKind = "in_port"
	ListingExpected  ListingKind = "expected_arrivals"
	ListingPortCalls ListingKind = "port_calls"
	ListingSchedule  ListingKind = "schedule"
)

// Listing is one paginated upstream source.
type Listing struct {
	Kind    ListingKind
	BaseURL string
	PageCap int
}

// PageURL renders the URL for a given 1-based page number. Page 1 uses the
// base URL untouched; later pages carry an explicit page parameter.
func (l Listing) PageURL(page int) (string, error) {
	if page <= 1 {
		return l.BaseURL, nil
	}
	u, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse listing url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ClassRule is one ordered classification predicate. A rule matches when the
// vessel name contains any keyword (case-insensitive), or when MinDWT is set
// and the parsed deadweight tonnage reaches it.
type ClassRule struct {
	Category string
	Keywords []string
	MinDWT   int
}

// CategorySubset names a report section collecting vessels of the given types.
type CategorySubset struct {
	Key   string
	Types []string
}

// Profile is the full per-port configuration.
type Profile struct {
	Slug       string
	Name       string
	Timezone   string
	Listings   []Listing
	Rules      []ClassRule
	Categories []CategorySubset
}

// Listing returns the listing of the given kind, if configured.
func (p Profile) Listing(kind ListingKind) (Listing, bool) {
	for _, l := range p.Listings {
		if l.Kind == kind {
			return l, true
		}
	}
	return Listing{}, false
}

// HasSchedule reports whether the port has a secondary schedule source.
func (p Profile) HasSchedule() bool {
	_, ok := p.Listing(ListingSchedule)
	return ok
}

// Location resolves the port's civil timezone.
func (p Profile) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", p.Timezone, err)
	}
	return loc, nil
}
