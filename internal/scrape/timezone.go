package scrape

import (
	"regexp"
	"time"

	"go.uber.org/zap"
)

// utcStampPattern matches the tracking site's UTC timestamps, with or
// without seconds.
var utcStampPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[\sT]+(\d{2}:\d{2})(?::\d{2})?$`)

const stampLayout = "2006-01-02 15:04"

// TimeNormalizer converts the site's UTC wall-clock stamps into a port's
// local wall-clock representation. Anything it cannot convert passes through
// unchanged; downstream code only ever sees already-local strings.
type TimeNormalizer struct {
	loc    *time.Location
	logger *zap.Logger
}

// NewTimeNormalizer builds a normalizer targeting the given civil timezone.
func NewTimeNormalizer(loc *time.Location, logger *zap.Logger) *TimeNormalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeNormalizer{loc: loc, logger: logger}
}

// Normalize converts a "YYYY-MM-DD HH:MM" UTC stamp to local wall-clock in
// the same layout. Non-matching input is treated as already local or
// non-parseable and returned as-is; conversion failures degrade the same way
// with a warning.
func (n *TimeNormalizer) Normalize(raw string) string {
	m := utcStampPattern.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	utc, err := time.ParseInLocation(stampLayout, m[1]+" "+m[2], time.UTC)
	if err != nil {
		n.logger.Warn("timestamp conversion failed", zap.String("value", raw), zap.Error(err))
		return raw
	}
	return utc.In(n.loc).Format(stampLayout)
}

// parseLocalStamp reads an already-normalized local stamp back into a
// time.Time for sorting. The bool is false for sentinel or free-form values.
func parseLocalStamp(s string) (time.Time, bool) {
	m := utcStampPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(stampLayout, m[1]+" "+m[2])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
