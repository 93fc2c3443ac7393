package scrape

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/lxuuryy/aussie-dashboard-sub004/internal/port"
)

var (
	mmsiDigitsPattern = regexp.MustCompile(`^\d{7,}$`)
	vesselHrefPattern = regexp.MustCompile(`-mmsi-(\d+)-imo-(\d+)`)
	flagSrcPattern    = regexp.MustCompile(`/flags\d*/(?:\d+/)?([A-Za-z]{2})\.(?:png|gif|svg)`)
	iconHintPattern   = regexp.MustCompile(`/icons?\d*[_-]([a-z]+)\.(?:png|gif|svg)`)

	// Fallback line-scanning patterns.
	lineStampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[\sT]+\d{2}:\d{2}(?::\d{2})?`)
	lineTonsPattern  = regexp.MustCompile(`([\d,]+)\s*Tons`)
	lineSizePattern  = regexp.MustCompile(`(\d+)\s*m\b`)
	lineBuiltPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// iconCategories maps an icon-filename hint to a category. The hint only
// applies when the classifier fell through to a generic size band.
var iconCategories = map[string]string{
	"tanker":    "Tanker",
	"cargo":     "General Cargo",
	"passenger": "Cruise Ship",
	"tug":       "Tug",
	"fishing":   "Fishing Vessel",
	"yacht":     "Pleasure Craft",
}

// Parser turns one fetched HTML document into typed records for a listing.
// The structured table strategy is tried first; a plain-text line scan backs
// it up when the table markup is missing or mangled.
type Parser struct {
	profile    port.Profile
	classifier *Classifier
	normalizer *TimeNormalizer
	logger     *zap.Logger
}

// NewParser builds a parser bound to one port's rules and timezone.
func NewParser(profile port.Profile, normalizer *TimeNormalizer, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		profile:    profile,
		classifier: NewClassifier(profile.Rules),
		normalizer: normalizer,
		logger:     logger,
	}
}

// ParsePage extracts the records of one page plus whether the page advertises
// a further page. A nil or unparseable body yields zero records.
func (p *Parser) ParsePage(kind port.ListingKind, body []byte) (Records, bool) {
	if len(body) == 0 {
		return Records{}, false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		p.logger.Warn("html parse failed", zap.String("listing", string(kind)), zap.Error(err))
		doc = nil
	}

	var recs Records
	if doc != nil {
		switch kind {
		case port.ListingInPort:
			recs.InPort = p.parseInPortTable(doc)
		case port.ListingExpected:
			recs.Expected = p.parseExpectedTable(doc)
		case port.ListingPortCalls:
			recs.PortCalls = p.parsePortCallsTable(doc)
		case port.ListingSchedule:
			recs.Schedule = p.parseScheduleTables(doc)
		}
	}

	// The line scanner only knows the in-port record shape; other listings
	// legitimately contribute zero rows when their tables are absent.
	if recs.Len() == 0 && kind == port.ListingInPort {
		recs.InPort = p.scanInPortLines(body)
		if len(recs.InPort) > 0 {
			p.logger.Debug("fallback line scan recovered rows",
				zap.String("port", p.profile.Slug),
				zap.Int("rows", len(recs.InPort)),
			)
		}
	}

	return recs, hasNextPage(doc, body)
}

// parseInPortTable reads the in-port roster: rows of at least six cells laid
// out as vessel, arrival (UTC), DWT, GRT, built, size.
func (p *Parser) parseInPortTable(doc *goquery.Document) []VesselMovement {
	var out []VesselMovement
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}
		arrived := strings.TrimSpace(cells.Eq(1).Text())
		if !lineStampPattern.MatchString(arrived) {
			return
		}
		name := cellText(cells.Eq(0))
		if name == "" {
			name = placeholderName(len(out) + 1)
		}
		dwt := normalizeField(cells.Eq(2).Text())
		size := normalizeField(cells.Eq(5).Text())
		out = append(out, VesselMovement{
			Name:    name,
			Arrived: p.normalizer.Normalize(arrived),
			DWT:     dwt,
			GRT:     normalizeField(cells.Eq(3).Text()),
			Built:   normalizeField(cells.Eq(4).Text()),
			Size:    size,
			Type:    p.classifier.Classify(name, size, dwt),
			Status:  "in-port",
		})
	})
	return out
}

// parseExpectedTable reads expected arrivals: rows of at least four cells
// laid out as MMSI, vessel, flag, ETA. Rows without a numeric MMSI are
// discarded outright.
func (p *Parser) parseExpectedTable(doc *goquery.Document) []ExpectedArrival {
	var out []ExpectedArrival
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		mmsi := strings.TrimSpace(cells.Eq(0).Text())
		if !mmsiDigitsPattern.MatchString(mmsi) {
			return
		}
		name := cellText(cells.Eq(1))
		if name == "" {
			name = placeholderName(len(out) + 1)
		}
		out = append(out, ExpectedArrival{
			MMSI:        mmsi,
			Name:        name,
			Flag:        flagFromRow(row, "Unknown"),
			Destination: p.profile.Name,
			ETA:         p.normalizer.Normalize(strings.TrimSpace(cells.Eq(3).Text())),
			Type:        p.classifier.Classify(name, "", ""),
		})
	})
	return out
}

// parsePortCallsTable reads the arrivals/departures history: rows of at least
// four cells laid out as event marker, timestamp, vessel, port. Vessel
// identity comes from the anchor href when present; rows without a vessel
// name are discarded.
func (p *Parser) parsePortCallsTable(doc *goquery.Document) []PortCallEvent {
	var out []PortCallEvent
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		name := cellText(cells.Eq(2))
		if name == "" {
			return
		}

		event := eventKind(cells.Eq(0))
		stamp := p.normalizer.Normalize(strings.TrimSpace(cells.Eq(1).Text()))

		var mmsi, imo string
		if href, ok := cells.Eq(2).Find("a").Attr("href"); ok {
			if m := vesselHrefPattern.FindStringSubmatch(href); m != nil {
				mmsi, imo = m[1], m[2]
			}
		}

		hint := iconHint(row)
		category := p.classifier.Classify(name, "", "")
		if isGenericCategory(category) && hint != "" {
			if mapped, ok := iconCategories[hint]; ok {
				category = mapped
			}
		}

		portLabel := strings.TrimSpace(cells.Eq(3).Text())
		if portLabel == "" {
			portLabel = p.profile.Name
		}

		out = append(out, PortCallEvent{
			Name:     name,
			MMSI:     mmsi,
			IMO:      imo,
			Flag:     flagFromRow(row, "AU"),
			Event:    event,
			Time:     stamp,
			Port:     portLabel,
			Type:     category,
			IconHint: hint,
		})
	})
	return out
}

// scanInPortLines is the unstructured fallback: a timestamp line starts a
// record, and subsequent tonnage/size/built matches fill it until the next
// timestamp. The last in-progress record is emitted at end of input.
func (p *Parser) scanInPortLines(body []byte) []VesselMovement {
	var (
		out     []VesselMovement
		current *VesselMovement
	)
	flush := func() {
		if current != nil {
			out = append(out, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(string(body), "\n") {
		if stamp := lineStampPattern.FindString(line); stamp != "" {
			flush()
			current = &VesselMovement{
				Name:    placeholderName(len(out) + 1),
				Arrived: p.normalizer.Normalize(strings.TrimSpace(stamp)),
				DWT:     UnknownValue,
				GRT:     UnknownValue,
				Built:   UnknownValue,
				Size:    UnknownValue,
				Status:  "in-port",
			}
			continue
		}
		if current == nil {
			continue
		}
		if m := lineTonsPattern.FindStringSubmatch(line); m != nil {
			if current.DWT == UnknownValue {
				current.DWT = m[1] + " Tons"
			} else if current.GRT == UnknownValue {
				current.GRT = m[1] + " Tons"
			}
			continue
		}
		if m := lineSizePattern.FindStringSubmatch(line); m != nil && current.Size == UnknownValue {
			current.Size = m[1] + " m"
			continue
		}
		if m := lineBuiltPattern.FindStringSubmatch(line); m != nil && current.Built == UnknownValue {
			current.Built = m[1]
		}
	}
	flush()

	for i := range out {
		out[i].Type = p.classifier.Classify(out[i].Name, out[i].Size, out[i].DWT)
	}
	return out
}

// cellText extracts a cell's visible text, falling back to an image's
// alt/title when the text is empty (the site sometimes renders the vessel
// name only on the flag image).
func cellText(cell *goquery.Selection) string {
	text := strings.TrimSpace(cell.Text())
	if text != "" {
		return text
	}
	img := cell.Find("img")
	if alt, ok := img.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
		return strings.TrimSpace(alt)
	}
	if title, ok := img.Attr("title"); ok {
		return strings.TrimSpace(title)
	}
	return ""
}

func flagFromRow(row *goquery.Selection, fallback string) string {
	flag := fallback
	row.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok {
			return true
		}
		if m := flagSrcPattern.FindStringSubmatch(src); m != nil {
			flag = strings.ToUpper(m[1])
			return false
		}
		return true
	})
	return flag
}

func iconHint(row *goquery.Selection) string {
	hint := ""
	row.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok {
			return true
		}
		if m := iconHintPattern.FindStringSubmatch(src); m != nil {
			hint = m[1]
			return false
		}
		return true
	})
	return hint
}

func eventKind(cell *goquery.Selection) EventKind {
	if src, ok := cell.Find("img").Attr("src"); ok {
		lower := strings.ToLower(src)
		if strings.Contains(lower, "out") || strings.Contains(lower, "dep") {
			return EventDeparture
		}
	}
	if strings.Contains(strings.ToLower(cell.Text()), "depart") {
		return EventDeparture
	}
	return EventArrival
}

// hasNextPage looks for a further-page affordance in the markup.
func hasNextPage(doc *goquery.Document, body []byte) bool {
	if doc != nil {
		found := false
		doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if rel, ok := a.Attr("rel"); ok && strings.EqualFold(rel, "next") {
				found = true
				return false
			}
			text := strings.ToLower(strings.TrimSpace(a.Text()))
			if text == "next" || text == "next »" || text == "»" {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return bytes.Contains(bytes.ToLower(body), []byte(`rel="next"`))
}
