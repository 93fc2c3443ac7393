package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// scheduleColumns maps header-cell substrings to schedule fields. The
// official schedule page uses arbitrary header wording that changes between
// publications, so columns are located by substring rather than position.
var scheduleColumns = []struct {
	field   string
	matches []string
}{
	{field: "vessel", matches: []string{"vessel", "ship name"}},
	{field: "berth", matches: []string{"berth", "wharf"}},
	{field: "arrival", matches: []string{"arriv", "eta"}},
	{field: "departure", matches: []string{"depart", "etd"}},
	{field: "agent", matches: []string{"agent"}},
}

// parseScheduleTables reads a secondary official schedule page with the
// generic header-sniffing strategy. A table contributes rows only when both
// a vessel and a berth column were identified.
func (p *Parser) parseScheduleTables(doc *goquery.Document) []ScheduledMovement {
	var out []ScheduledMovement
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols, headerInFirstRow := sniffScheduleHeader(table)
		if cols["vessel"] < 0 || cols["berth"] < 0 {
			return
		}
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if headerInFirstRow && i == 0 {
				return
			}
			cells := row.Find("td")
			if cells.Length() == 0 {
				return
			}
			movement := ScheduledMovement{
				Vessel: scheduleCell(cells, cols["vessel"]),
				Berth:  scheduleCell(cells, cols["berth"]),
			}
			if movement.Vessel == "" || movement.Berth == "" {
				return
			}
			if idx := cols["arrival"]; idx >= 0 {
				movement.Arrival = p.normalizer.Normalize(scheduleCell(cells, idx))
			}
			if idx := cols["departure"]; idx >= 0 {
				movement.Departure = p.normalizer.Normalize(scheduleCell(cells, idx))
			}
			if idx := cols["agent"]; idx >= 0 {
				movement.Agent = scheduleCell(cells, idx)
			}
			out = append(out, movement)
		})
	})
	return out
}

// sniffScheduleHeader maps field names to column indices, -1 when absent.
// The bool reports whether the header row was a td row that data parsing
// must skip.
func sniffScheduleHeader(table *goquery.Selection) (map[string]int, bool) {
	cols := make(map[string]int, len(scheduleColumns))
	for _, col := range scheduleColumns {
		cols[col.field] = -1
	}

	headerInFirstRow := false
	headers := table.Find("th")
	if headers.Length() == 0 {
		headers = table.Find("tr").First().Find("td")
		headerInFirstRow = true
	}
	headers.Each(func(i int, cell *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(cell.Text()))
		for _, col := range scheduleColumns {
			if cols[col.field] >= 0 {
				continue
			}
			for _, m := range col.matches {
				if strings.Contains(text, m) {
					cols[col.field] = i
					break
				}
			}
		}
	})
	return cols, headerInFirstRow
}

func scheduleCell(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(idx).Text())
}
