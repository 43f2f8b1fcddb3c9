package tabref

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// LatestValidity parses every end-of-validity value with a day-first
// convention and returns the latest one, normalized to midnight. Values
// that do not parse are discarded, not fatal; discarded reports how many
// were dropped so callers can surface suspiciously lossy files. Zero
// parseable dates is an error.
func LatestValidity(values []string) (latest time.Time, discarded int, err error) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			discarded++
			continue
		}
		d, perr := dateparse.ParseAny(v, dateparse.PreferMonthFirst(false))
		if perr != nil {
			discarded++
			continue
		}
		d = midnight(d)
		if d.After(latest) {
			latest = d
		}
	}
	if latest.IsZero() {
		return time.Time{}, discarded, ErrNoValidDates
	}
	return latest, discarded, nil
}

// Expired reports whether validity falls strictly before now's calendar
// date. Time of day never participates in the comparison.
func Expired(validity, now time.Time) bool {
	return midnight(validity).Before(midnight(now))
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
