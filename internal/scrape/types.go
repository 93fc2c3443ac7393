// Package scrape implements the vessel movement scraping and normalization
// pipeline: fetch, parse, classify, paginate, deduplicate, aggregate.
package scrape

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownValue is the sentinel the tracking site renders for missing numeric
// fields. It is preserved in raw records and excluded from numeric rankings.
const UnknownValue = "---"

// EventKind distinguishes port-call arrivals from departures.
type EventKind string

// Port-call event kinds.
const (
	EventArrival   EventKind = "arrival"
	EventDeparture EventKind = "departure"
)

// VesselMovement is one in-port roster record.
type VesselMovement struct {
	Name    string `json:"vessel_name"`
	Arrived string `json:"arrived"`
	DWT     string `json:"dwt"`
	GRT     string `json:"grt"`
	Built   string `json:"built"`
	Size    string `json:"size"`
	Type    string `json:"vessel_type"`
	Status  string `json:"status"`
}

// ExpectedArrival is one expected-arrivals record. Rows without a numeric
// MMSI never become ExpectedArrivals.
type ExpectedArrival struct {
	MMSI        string `json:"mmsi"`
	Name        string `json:"vessel_name"`
	Flag        string `json:"flag"`
	Destination string `json:"destination"`
	ETA         string `json:"eta"`
	Type        string `json:"vessel_type"`
}

// PortCallEvent is one arrivals/departures history record.
type PortCallEvent struct {
	Name     string    `json:"vessel_name"`
	MMSI     string    `json:"mmsi,omitempty"`
	IMO      string    `json:"imo,omitempty"`
	Flag     string    `json:"flag"`
	Event    EventKind `json:"event"`
	Time     string    `json:"time"`
	Port     string    `json:"port"`
	Type     string    `json:"vessel_type"`
	IconHint string    `json:"icon_hint,omitempty"`
}

// ScheduledMovement is one row of a secondary official schedule source.
type ScheduledMovement struct {
	Vessel    string `json:"vessel_name"`
	Berth     string `json:"berth"`
	Arrival   string `json:"arrival,omitempty"`
	Departure string `json:"departure,omitempty"`
	Agent     string `json:"agent,omitempty"`
}

// Records accumulates the typed rows of all listings for one port.
type Records struct {
	InPort    []VesselMovement    `json:"in_port_vessels"`
	Expected  []ExpectedArrival   `json:"expected_arrivals"`
	PortCalls []PortCallEvent     `json:"port_calls"`
	Schedule  []ScheduledMovement `json:"schedule,omitempty"`
}

// Len is the total number of records across all listings.
func (r Records) Len() int {
	return len(r.InPort) + len(r.Expected) + len(r.PortCalls) + len(r.Schedule)
}

// Merge appends another page's records in fetch order.
func (r *Records) Merge(other Records) {
	r.InPort = append(r.InPort, other.InPort...)
	r.Expected = append(r.Expected, other.Expected...)
	r.PortCalls = append(r.PortCalls, other.PortCalls...)
	r.Schedule = append(r.Schedule, other.Schedule...)
}

// normalizeField centralizes what counts as unknown: empty strings and the
// site's sentinel both become UnknownValue.
func normalizeField(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == UnknownValue {
		return UnknownValue
	}
	return s
}

// parseSizeMeters reads a leading integer out of a size string such as
// "199 m". Returns 0 when no digits lead the value.
func parseSizeMeters(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// parseTonnage strips every non-digit from a tonnage string ("81,855 Tons")
// before parsing. Returns 0 when nothing numeric remains.
func parseTonnage(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// placeholderName synthesizes a stable name for rows whose vessel cell is
// empty. n is the 1-based row ordinal within the page.
func placeholderName(n int) string {
	return fmt.Sprintf("Unknown Vessel %d", n)
}
