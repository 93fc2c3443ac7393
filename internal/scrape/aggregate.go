package scrape

import (
	"sort"

	"github.com/lxuuryy/aussie-dashboard-sub004/internal/port"
)

const (
	recentArrivalsLimit  = 10
	recentPortCallsLimit = 15
	largestVesselsLimit  = 10
	upcomingLimit        = 10
	categoryLimit        = 10
)

// BerthActivity is one entry of the busiest-berths ranking.
type BerthActivity struct {
	Berth     string `json:"berth"`
	Movements int    `json:"movements"`
}

// ProcessedReport is the aggregate view rebuilt fresh on every request.
type ProcessedReport struct {
	TotalVessels     int                         `json:"total_vessels"`
	VesselTypes      map[string]int              `json:"vessel_types"`
	FlagStates       map[string]int              `json:"flag_states"`
	BusiestBerths    []BerthActivity             `json:"busiest_berths,omitempty"`
	RecentArrivals   []VesselMovement            `json:"recent_arrivals"`
	RecentPortCalls  []PortCallEvent             `json:"recent_port_calls"`
	LargestVessels   []VesselMovement            `json:"largest_vessels"`
	UpcomingArrivals []ExpectedArrival           `json:"upcoming_arrivals"`
	Categories       map[string][]VesselMovement `json:"vessel_categories"`
	Analysis         any                         `json:"analysis,omitempty"`
}

// DedupePortCalls removes duplicate events keyed on (vessel, timestamp,
// event kind), keeping the first-seen occurrence.
func DedupePortCalls(events []PortCallEvent) []PortCallEvent {
	type key struct {
		name  string
		stamp string
		event EventKind
	}
	seen := make(map[key]struct{}, len(events))
	out := events[:0:0]
	for _, e := range events {
		k := key{name: e.Name, stamp: e.Time, event: e.Event}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Aggregate folds one port's raw listings into a ProcessedReport. It is a
// pure function; callers dedupe port calls beforehand.
func Aggregate(profile port.Profile, recs Records) ProcessedReport {
	report := ProcessedReport{
		TotalVessels:     len(recs.InPort) + len(recs.Expected),
		VesselTypes:      map[string]int{},
		FlagStates:       map[string]int{},
		RecentArrivals:   []VesselMovement{},
		RecentPortCalls:  []PortCallEvent{},
		LargestVessels:   []VesselMovement{},
		UpcomingArrivals: []ExpectedArrival{},
		Categories:       map[string][]VesselMovement{},
	}

	for _, v := range recs.InPort {
		report.VesselTypes[v.Type]++
	}
	for _, e := range recs.PortCalls {
		report.VesselTypes[e.Type]++
		if e.Flag != "" && e.Flag != "Unknown" {
			report.FlagStates[e.Flag]++
		}
	}
	for _, a := range recs.Expected {
		if a.Flag != "" && a.Flag != "Unknown" {
			report.FlagStates[a.Flag]++
		}
	}

	report.BusiestBerths = busiestBerths(recs.Schedule)
	report.RecentArrivals = recentArrivals(recs.InPort)
	report.RecentPortCalls = recentPortCalls(recs.PortCalls)
	report.LargestVessels = largestVessels(recs.InPort)

	upcoming := recs.Expected
	if len(upcoming) > upcomingLimit {
		upcoming = upcoming[:upcomingLimit]
	}
	report.UpcomingArrivals = append(report.UpcomingArrivals, upcoming...)

	for _, subset := range profile.Categories {
		report.Categories[subset.Key] = categoryVessels(recs.InPort, subset.Types)
	}

	return report
}

// busiestBerths ranks berths by scheduled movement count. Ports without a
// schedule source get no ranking at all; absence is deliberate, not an empty
// list fabricated from other signals.
func busiestBerths(schedule []ScheduledMovement) []BerthActivity {
	if len(schedule) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, m := range schedule {
		counts[m.Berth]++
	}
	out := make([]BerthActivity, 0, len(counts))
	for berth, n := range counts {
		out = append(out, BerthActivity{Berth: berth, Movements: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Movements != out[j].Movements {
			return out[i].Movements > out[j].Movements
		}
		return out[i].Berth < out[j].Berth
	})
	return out
}

func recentArrivals(vessels []VesselMovement) []VesselMovement {
	sorted := append([]VesselMovement{}, vessels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return stampAfter(sorted[i].Arrived, sorted[j].Arrived)
	})
	if len(sorted) > recentArrivalsLimit {
		sorted = sorted[:recentArrivalsLimit]
	}
	return sorted
}

func recentPortCalls(events []PortCallEvent) []PortCallEvent {
	sorted := append([]PortCallEvent{}, events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return stampAfter(sorted[i].Time, sorted[j].Time)
	})
	if len(sorted) > recentPortCallsLimit {
		sorted = sorted[:recentPortCallsLimit]
	}
	return sorted
}

// largestVessels ranks by parsed size descending. Sentinel or unparseable
// sizes are excluded rather than merged in as zero.
func largestVessels(vessels []VesselMovement) []VesselMovement {
	sized := make([]VesselMovement, 0, len(vessels))
	for _, v := range vessels {
		if parseSizeMeters(v.Size) > 0 {
			sized = append(sized, v)
		}
	}
	sort.SliceStable(sized, func(i, j int) bool {
		return parseSizeMeters(sized[i].Size) > parseSizeMeters(sized[j].Size)
	})
	if len(sized) > largestVesselsLimit {
		sized = sized[:largestVesselsLimit]
	}
	return sized
}

func categoryVessels(vessels []VesselMovement, types []string) []VesselMovement {
	out := []VesselMovement{}
	for _, v := range vessels {
		for _, t := range types {
			if v.Type == t {
				out = append(out, v)
				break
			}
		}
		if len(out) == categoryLimit {
			break
		}
	}
	return out
}

// stampAfter orders two local stamps descending; records without a parseable
// stamp sort last.
func stampAfter(a, b string) bool {
	ta, okA := parseLocalStamp(a)
	tb, okB := parseLocalStamp(b)
	switch {
	case okA && okB:
		return ta.After(tb)
	case okA:
		return true
	default:
		return false
	}
}
