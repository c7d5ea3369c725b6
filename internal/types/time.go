package types

import (
	"time"

	ierr "github.com/flexprice/console/internal/errors"
)

// DateLayout is the date only layout used by the console date pickers
const DateLayout = "2006-01-02"

func ParseTime(t string) (time.Time, error) {
	return time.Parse(time.RFC3339, t)
}

func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseEffectiveDate accepts either a YYYY-MM-DD date, read as the beginning
// of that day in UTC, or a full RFC3339 timestamp
func ParseEffectiveDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("Effective date must be YYYY-MM-DD or an RFC3339 timestamp").
			WithReportableDetails(map[string]any{
				"effective_from": s,
			}).
			Mark(ierr.ErrValidation)
	}
	return t.UTC(), nil
}
