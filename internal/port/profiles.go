package port

import "fmt"

const trackingBase = "https://www.myshiptracking.com"

func trackingListings(portID, inPortCap, expectedCap, callsCap int) []Listing {
	return []Listing{
		{Kind: ListingInPort, BaseURL: fmt.Sprintf("%s/inport?pid=%d", trackingBase, portID), PageCap: inPortCap},
		{Kind: ListingExpected, BaseURL: fmt.Sprintf("%s/estimate?pid=%d", trackingBase, portID), PageCap: expectedCap},
		{Kind: ListingPortCalls, BaseURL: fmt.Sprintf("%s/ports-arrivals-departures/?pid=%d", trackingBase, portID), PageCap: callsCap},
	}
}

// Brisbane is a container and cruise port on AEST (no DST).
var Brisbane = Profile{
	Slug:     "brisbane",
	Name:     "Port of Brisbane",
	Timezone: "Australia/Brisbane",
	Listings: trackingListings(794, 10, 5, 5),
	Rules: []ClassRule{
		{Category: "Container Ship", Keywords: []string{"MSC", "MAERSK", "CMA", "EVER", "OOCL", "COSCO", "CONTAINER", "ANL"}},
		{Category: "Cruise Ship", Keywords: []string{"CRUISE", "CARNIVAL", "PACIFIC EXPLORER", "QUEEN", "PRINCESS", "CORAL", "SPIRIT"}},
		{Category: "Bulk Carrier", Keywords: []string{"BULK", "ORE", "GRAIN"}, MinDWT: 60000},
		{Category: "Tanker", Keywords: []string{"TANKER", "ENERGY", "GAS", "PETROLEUM", "CHEMI"}},
		{Category: "Car Carrier", Keywords: []string{"CAR", "GLOVIS", "HOEGH", "MORNING", "ACE", "GRAND"}},
		{Category: "Tug", Keywords: []string{"TUG", "SVITZER", "SMIT"}},
	},
	Categories: []CategorySubset{
		{Key: "container_ships", Types: []string{"Container Ship"}},
		{Key: "cruise_ships", Types: []string{"Cruise Ship"}},
		{Key: "bulk_carriers", Types: []string{"Bulk Carrier"}},
		{Key: "car_carriers", Types: []string{"Car Carrier"}},
	},
}

// Gladstone is an LNG, coal and alumina export port.
var Gladstone = Profile{
	Slug:     "gladstone",
	Name:     "Port of Gladstone",
	Timezone: "Australia/Brisbane",
	Listings: trackingListings(799, 10, 5, 5),
	Rules: []ClassRule{
		{Category: "LNG Tanker", Keywords: []string{"LNG", "METHANE", "GASLOG", "FLEX"}},
		{Category: "Coal Carrier", Keywords: []string{"COAL", "CAPE", "PACIFIC TRIUMPH"}, MinDWT: 90000},
		{Category: "Alumina Carrier", Keywords: []string{"ALUMINA", "BAUXITE", "RTA"}},
		{Category: "Chemical Tanker", Keywords: []string{"TANKER", "CHEMI", "ACID"}},
		{Category: "Tug", Keywords: []string{"TUG", "SVITZER", "SMIT"}},
	},
	Categories: []CategorySubset{
		{Key: "lng_tankers", Types: []string{"LNG Tanker"}},
		{Key: "coal_carriers", Types: []string{"Coal Carrier"}},
		{Key: "alumina_carriers", Types: []string{"Alumina Carrier"}},
		{Key: "bulk_carriers", Types: []string{"Bulk Carrier", "Large Cargo Vessel"}},
	},
}

// Melbourne carries the extra VicPorts schedule source used for berth activity.
var Melbourne = Profile{
	Slug:     "melbourne",
	Name:     "Port of Melbourne",
	Timezone: "Australia/Melbourne",
	Listings: append(trackingListings(808, 10, 5, 5), Listing{
		Kind:    ListingSchedule,
		BaseURL: "https://www.vicports.vic.gov.au/operations/Pages/shipping-schedule.aspx",
		PageCap: 1,
	}),
	Rules: []ClassRule{
		{Category: "Container Ship", Keywords: []string{"MSC", "MAERSK", "CMA", "EVER", "OOCL", "COSCO", "CONTAINER", "ANL", "SEATRADE"}},
		{Category: "Car Carrier", Keywords: []string{"CAR", "GLOVIS", "HOEGH", "MORNING", "ACE", "TRANS FUTURE", "GRAND"}},
		{Category: "Cruise Ship", Keywords: []string{"CRUISE", "QUEEN", "PRINCESS", "GRAND PRINCESS", "CORAL"}},
		{Category: "Tanker", Keywords: []string{"TANKER", "ENERGY", "GAS", "PETROLEUM", "CHEMI"}},
		{Category: "Bulk Carrier", Keywords: []string{"BULK", "ORE", "GRAIN"}, MinDWT: 60000},
		{Category: "Service Vessel", Keywords: []string{"TUG", "PILOT", "SVITZER", "SERVICE", "WORKBOAT"}},
	},
	Categories: []CategorySubset{
		{Key: "container_ships", Types: []string{"Container Ship"}},
		{Key: "car_carriers", Types: []string{"Car Carrier"}},
		{Key: "cruise_ships", Types: []string{"Cruise Ship"}},
		{Key: "bulk_carriers", Types: []string{"Bulk Carrier"}},
	},
}

// HayPoint is a coal terminal with no secondary schedule source, so its
// reports never include berth activity.
var HayPoint = Profile{
	Slug:     "haypoint",
	Name:     "Port of Hay Point",
	Timezone: "Australia/Brisbane",
	Listings: trackingListings(801, 10, 5, 5),
	Rules: []ClassRule{
		{Category: "Coal Carrier", Keywords: []string{"COAL", "CAPE", "PACIFIC"}, MinDWT: 90000},
		{Category: "Bulk Carrier", Keywords: []string{"BULK", "ORE"}, MinDWT: 50000},
		{Category: "Tug", Keywords: []string{"TUG", "SVITZER", "SMIT"}},
	},
	Categories: []CategorySubset{
		{Key: "coal_carriers", Types: []string{"Coal Carrier"}},
		{Key: "bulk_carriers", Types: []string{"Bulk Carrier", "Large Cargo Vessel"}},
	},
}

var registry = []Profile{Brisbane, Gladstone, Melbourne, HayPoint}

// BySlug looks up a configured port by its URL segment.
func BySlug(slug string) (Profile, bool) {
	for _, p := range registry {
		if p.Slug == slug {
			return p, true
		}
	}
	return Profile{}, false
}

// All returns the configured ports in registration order.
func All() []Profile {
	out := make([]Profile, len(registry))
	copy(out, registry)
	return out
}
