package port

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListing_PageURL(t *testing.T) {
	t.Parallel()
	l := Listing{Kind: ListingInPort, BaseURL: "https://www.myshiptracking.com/inport?pid=794"}

	first, err := l.PageURL(1)
	require.NoError(t, err)
	require.Equal(t, l.BaseURL, first, "page 1 is the base URL untouched")

	third, err := l.PageURL(3)
	require.NoError(t, err)
	require.Equal(t, "https://www.myshiptracking.com/inport?page=3&pid=794", third)
}

func TestBySlug(t *testing.T) {
	t.Parallel()
	p, ok := BySlug("gladstone")
	require.True(t, ok)
	require.Equal(t, "Port of Gladstone", p.Name)

	_, ok = BySlug("atlantis")
	require.False(t, ok)
}

func TestAll_CoversFourPorts(t *testing.T) {
	t.Parallel()
	ports := All()
	require.Len(t, ports, 4)

	slugs := make([]string, 0, len(ports))
	for _, p := range ports {
		slugs = append(slugs, p.Slug)
	}
	require.Equal(t, []string{"brisbane", "gladstone", "melbourne", "haypoint"}, slugs)
}

func TestProfiles_ListingsAndCaps(t *testing.T) {
	t.Parallel()
	for _, p := range All() {
		inPort, ok := p.Listing(ListingInPort)
		require.True(t, ok, p.Slug)
		require.Equal(t, 10, inPort.PageCap)

		expected, ok := p.Listing(ListingExpected)
		require.True(t, ok, p.Slug)
		require.Equal(t, 5, expected.PageCap)

		calls, ok := p.Listing(ListingPortCalls)
		require.True(t, ok, p.Slug)
		require.Equal(t, 5, calls.PageCap)
	}
}

func TestProfiles_OnlyMelbourneHasSchedule(t *testing.T) {
	t.Parallel()
	for _, p := range All() {
		require.Equal(t, p.Slug == "melbourne", p.HasSchedule(), p.Slug)
	}
}

func TestProfiles_TimezonesResolve(t *testing.T) {
	t.Parallel()
	for _, p := range All() {
		loc, err := p.Location()
		require.NoError(t, err, p.Slug)
		require.NotNil(t, loc)
	}

	// Melbourne observes DST, the Queensland ports do not.
	mel, err := Melbourne.Location()
	require.NoError(t, err)
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC).In(mel)
	_, offset := jan.Zone()
	require.Equal(t, 11*3600, offset)
}