package scrape

import "strings"

// Filters is the request-supplied filter object applied independently to
// each raw listing before re-aggregation. Empty fields match everything.
type Filters struct {
	VesselSize string `json:"vesselSize,omitempty"`
	Flag       string `json:"flag,omitempty"`
	VesselName string `json:"vesselName,omitempty"`
	VesselType string `json:"vesselType,omitempty"`
	EventType  string `json:"eventType,omitempty"`
	CargoType  string `json:"cargoType,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Apply filters each listing independently. Fields a listing does not carry
// (size on expected arrivals, events outside port calls) are no-ops there.
func (f Filters) Apply(recs Records) Records {
	if f.IsZero() {
		return recs
	}

	out := Records{}
	for _, v := range recs.InPort {
		if f.matchSize(v.Size) && f.matchName(v.Name) && f.matchType(v.Type) && f.matchCargo(v.Type) {
			out.InPort = append(out.InPort, v)
		}
	}
	for _, a := range recs.Expected {
		if f.matchFlag(a.Flag) && f.matchName(a.Name) && f.matchType(a.Type) && f.matchCargo(a.Type) {
			out.Expected = append(out.Expected, a)
		}
	}
	for _, e := range recs.PortCalls {
		if f.matchFlag(e.Flag) && f.matchName(e.Name) && f.matchType(e.Type) &&
			f.matchCargo(e.Type) && f.matchEvent(e.Event) {
			out.PortCalls = append(out.PortCalls, e)
		}
	}
	for _, m := range recs.Schedule {
		if f.matchName(m.Vessel) {
			out.Schedule = append(out.Schedule, m)
		}
	}
	return out
}

// matchSize buckets parsed sizes into small (<100m), medium (100-199m) and
// large (>=200m) bands. Unknown sizes only survive an unset filter.
func (f Filters) matchSize(sizeStr string) bool {
	if f.VesselSize == "" {
		return true
	}
	size := parseSizeMeters(sizeStr)
	switch strings.ToLower(f.VesselSize) {
	case "small":
		return size > 0 && size < 100
	case "medium":
		return size >= 100 && size < 200
	case "large":
		return size >= 200
	default:
		return true
	}
}

func (f Filters) matchFlag(flag string) bool {
	return f.Flag == "" || containsFold(flag, f.Flag)
}

func (f Filters) matchName(name string) bool {
	return f.VesselName == "" || containsFold(name, f.VesselName)
}

func (f Filters) matchType(vesselType string) bool {
	return f.VesselType == "" || containsFold(vesselType, f.VesselType)
}

// matchCargo matches the cargo word against the classified type, so
// "coal" selects Coal Carriers and "lng" LNG Tankers.
func (f Filters) matchCargo(vesselType string) bool {
	return f.CargoType == "" || containsFold(vesselType, f.CargoType)
}

func (f Filters) matchEvent(event EventKind) bool {
	return f.EventType == "" || strings.EqualFold(string(event), f.EventType)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
