package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func filterFixture() Records {
	return Records{
		InPort: []VesselMovement{
			{Name: "CAPE STORM", Size: "292 m", Type: "Bulk Carrier"},
			{Name: "COASTAL TRADER", Size: "85 m", Type: "General Cargo"},
			{Name: "RIVER SPIRIT", Size: "145 m", Type: "Tanker"},
			{Name: "HARBOUR CAT", Size: UnknownValue, Type: "Tug"},
		},
		Expected: []ExpectedArrival{
			{Name: "MSC AURORA", Flag: "PA", Type: "Container Ship"},
			{Name: "GLOVIS SUN", Flag: "KR", Type: "Car Carrier"},
		},
		PortCalls: []PortCallEvent{
			{Name: "CAPE STORM", Flag: "SG", Type: "Bulk Carrier", Event: EventArrival},
			{Name: "CAPE STORM", Flag: "SG", Type: "Bulk Carrier", Event: EventDeparture},
			{Name: "RIVER SPIRIT", Flag: "AU", Type: "Tanker", Event: EventArrival},
		},
		Schedule: []ScheduledMovement{
			{Vessel: "SEATRADE BLUE", Berth: "Swanson Dock West 2"},
		},
	}
}

func TestFilters_ZeroFilterIsIdentity(t *testing.T) {
	t.Parallel()
	recs := filterFixture()

	out := Filters{}.Apply(recs)

	require.Equal(t, recs, out)
}

func TestFilters_SizeBands(t *testing.T) {
	t.Parallel()
	recs := filterFixture()

	tests := []struct {
		size string
		want []string
	}{
		{"small", []string{"COASTAL TRADER"}},
		{"medium", []string{"RIVER SPIRIT"}},
		{"large", []string{"CAPE STORM"}},
	}
	for _, tc := range tests {
		out := Filters{VesselSize: tc.size}.Apply(recs)
		var names []string
		for _, v := range out.InPort {
			names = append(names, v.Name)
		}
		require.Equal(t, tc.want, names, "size band %q", tc.size)
	}
}

func TestFilters_SizeExcludesUnknown(t *testing.T) {
	t.Parallel()
	out := Filters{VesselSize: "small"}.Apply(filterFixture())

	for _, v := range out.InPort {
		require.NotEqual(t, UnknownValue, v.Size,
			"unknown sizes only survive an unset size filter")
	}
}

func TestFilters_EventType(t *testing.T) {
	t.Parallel()
	out := Filters{EventType: "departure"}.Apply(filterFixture())

	require.Len(t, out.PortCalls, 1)
	require.Equal(t, EventDeparture, out.PortCalls[0].Event)
	// Listings without an event field pass through untouched.
	require.Len(t, out.InPort, 4)
	require.Len(t, out.Expected, 2)
}

func TestFilters_FlagDoesNotTouchInPort(t *testing.T) {
	t.Parallel()
	out := Filters{Flag: "SG"}.Apply(filterFixture())

	require.Len(t, out.InPort, 4, "in-port rows carry no flag")
	require.Empty(t, out.Expected)
	require.Len(t, out.PortCalls, 2)
}

func TestFilters_NameIsCaseInsensitiveSubstring(t *testing.T) {
	t.Parallel()
	out := Filters{VesselName: "spirit"}.Apply(filterFixture())

	require.Len(t, out.InPort, 1)
	require.Equal(t, "RIVER SPIRIT", out.InPort[0].Name)
	require.Len(t, out.PortCalls, 1)
}

func TestFilters_CargoMatchesClassifiedType(t *testing.T) {
	t.Parallel()
	recs := Records{InPort: []VesselMovement{
		{Name: "LNG PIONEER", Type: "LNG Tanker"},
		{Name: "CAPE COAL", Type: "Coal Carrier"},
	}}

	out := Filters{CargoType: "coal"}.Apply(recs)

	require.Len(t, out.InPort, 1)
	require.Equal(t, "CAPE COAL", out.InPort[0].Name)
}

func TestFilters_Combined(t *testing.T) {
	t.Parallel()
	out := Filters{VesselType: "bulk", VesselName: "cape"}.Apply(filterFixture())

	require.Len(t, out.InPort, 1)
	require.Len(t, out.PortCalls, 2)
	require.Empty(t, out.Expected)
}