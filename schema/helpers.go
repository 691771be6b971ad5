package schema

import (
	"fmt"
	"time"
)

// FormatConversionRate formats a percentage like "12.35%".
func FormatConversionRate(rate float64, precision int) string {
	return fmt.Sprintf("%.*f%%", precision, rate)
}

// FormatPeriodLabel formats the date shown in a hover label.
// Weekly points span Monday to Sunday, e.g. "Jan 1 - Jan 7, 2024".
func FormatPeriodLabel(t time.Time, g Granularity) string {
	t = t.UTC()
	if g == WeekGranularity {
		end := t.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", t.Format("Jan 2"), end.Format("Jan 2, 2006"))
	}
	return t.Format("Jan 2, 2006")
}

// FormatDate formats an instant as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
