package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lxuuryy/aussie-dashboard-sub004/internal/port"
)

const scheduleHTML = `<html><body>
<table>
<tr><th>Ship Name</th><th>Agent</th><th>Berth No.</th><th>Expected Arrival</th><th>Expected Departure</th></tr>
<tr><td>TRANS FUTURE 5</td><td>Toyofuji</td><td>Webb Dock East 4</td><td>2024-06-15 08:00</td><td>2024-06-16 02:00</td></tr>
<tr><td>MSC ELOISE</td><td>MSC Agency</td><td>Swanson Dock West 2</td><td>2024-06-15 22:00</td><td></td></tr>
<tr><td></td><td></td><td></td><td></td><td></td></tr>
</table>
<table>
<tr><th>Unrelated</th><th>Columns</th></tr>
<tr><td>noise</td><td>noise</td></tr>
</table>
</body></html>`

func TestParser_ScheduleHeaderSniffing(t *testing.T) {
	t.Parallel()
	p := newTestParser(t, port.Melbourne)

	recs, _ := p.ParsePage(port.ListingSchedule, []byte(scheduleHTML))
	require.Len(t, recs.Schedule, 2, "blank rows and unmatched tables contribute nothing")

	first := recs.Schedule[0]
	require.Equal(t, "TRANS FUTURE 5", first.Vessel)
	require.Equal(t, "Webb Dock East 4", first.Berth)
	require.Equal(t, "Toyofuji", first.Agent)
	require.Equal(t, "2024-06-15 18:00", first.Arrival) // AEST in June
	require.Equal(t, "2024-06-16 12:00", first.Departure)

	second := recs.Schedule[1]
	require.Equal(t, "Swanson Dock West 2", second.Berth)
	require.Empty(t, second.Departure)
}

const headerlessScheduleHTML = `<html><body>
<table>
<tr><td>Vessel</td><td>Berth</td></tr>
<tr><td>SEATRADE BLUE</td><td>Appleton Dock B</td></tr>
</table>
</body></html>`

func TestParser_ScheduleHeaderInFirstRow(t *testing.T) {
	t.Parallel()
	p := newTestParser(t, port.Melbourne)

	recs, _ := p.ParsePage(port.ListingSchedule, []byte(headerlessScheduleHTML))
	require.Len(t, recs.Schedule, 1, "td header row must not become a record")
	require.Equal(t, "SEATRADE BLUE", recs.Schedule[0].Vessel)
}
