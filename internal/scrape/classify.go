package scrape

import (
	"strings"

	"github.com/lxuuryy/aussie-dashboard-sub004/internal/port"
)

// Generic size-band categories used when no port rule matches.
const (
	categoryLargeCargo   = "Large Cargo Vessel"
	categoryMediumCargo  = "Medium Cargo Vessel"
	categoryGeneralCargo = "General Cargo"
	categoryCoastalCargo = "Coastal Cargo"
)

var genericCategories = map[string]struct{}{
	categoryLargeCargo:   {},
	categoryMediumCargo:  {},
	categoryGeneralCargo: {},
	categoryCoastalCargo: {},
}

// Classifier maps a vessel's name and size signals to a coarse type using a
// port's ordered ruleset. It is pure and total: every input yields a
// non-empty category.
type Classifier struct {
	rules []port.ClassRule
}

// NewClassifier builds a classifier for the given port ruleset.
func NewClassifier(rules []port.ClassRule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify applies the ordered rules, first match wins, then falls through
// to generic size bands.
func (c *Classifier) Classify(name, sizeStr, dwtStr string) string {
	upper := strings.ToUpper(name)
	dwt := parseTonnage(dwtStr)

	for _, rule := range c.rules {
		if rule.MinDWT > 0 && dwt >= rule.MinDWT {
			return rule.Category
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(upper, strings.ToUpper(kw)) {
				return rule.Category
			}
		}
	}

	return sizeBand(parseSizeMeters(sizeStr))
}

func sizeBand(size int) string {
	switch {
	case size >= 200:
		return categoryLargeCargo
	case size >= 100:
		return categoryMediumCargo
	case size >= 50:
		return categoryGeneralCargo
	case size > 0:
		return categoryCoastalCargo
	default:
		return categoryGeneralCargo
	}
}

// isGenericCategory reports whether a category came from the fallback size
// bands rather than a port rule. Icon hints only override these.
func isGenericCategory(category string) bool {
	_, ok := genericCategories[category]
	return ok
}
