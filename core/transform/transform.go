// Package transform turns raw per-day visit and conversion counts into plotted points.
package transform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/ratechart/schema"
)

// ErrMissingDate is reported for records without a date.
var ErrMissingDate = errors.New("missing date")

// RecordError describes a raw record that was skipped.
type RecordError struct {
	Index int
	Date  string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (date %q): %v", e.Index, e.Date, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ConversionRate returns conversions/visits as a percentage.
// Zero visits yields zero even when conversions are positive.
func ConversionRate(visits, conversions int) float64 {
	if visits == 0 {
		return 0
	}
	return float64(conversions) / float64(visits) * 100
}

// ParseRecordDate parses a record date as an ISO calendar date or an RFC3339 instant, in UTC.
func ParseRecordDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable date: %w", err)
	}
	return t.UTC(), nil
}

// CheckRecords reports the records that Flatten skips, without building any points.
func CheckRecords(records []schema.RawRecord) []error {
	var errs []error
	for i, rec := range records {
		if _, err := ParseRecordDate(rec.Date); err != nil {
			errs = append(errs, &RecordError{Index: i, Date: rec.Date, Err: err})
		}
	}
	return errs
}

// Flatten emits one point per (record, variation) cell that has any activity.
// Cells within a record follow variation id order.
func Flatten(records []schema.RawRecord, catalog schema.Catalog) ([]schema.DataPoint, []error) {
	var (
		points []schema.DataPoint
		errs   []error
	)
	for i, rec := range records {
		ts, err := ParseRecordDate(rec.Date)
		if err != nil {
			errs = append(errs, &RecordError{Index: i, Date: rec.Date, Err: err})
			continue
		}

		ids := make([]string, 0, len(rec.Visits))
		for id := range rec.Visits {
			ids = append(ids, id)
		}
		schema.SortVariationIDs(ids)

		for _, id := range ids {
			visits := rec.Visits[id]
			conversions := rec.Conversions[id]
			if visits == 0 && conversions == 0 {
				continue
			}
			points = append(points, schema.DataPoint{
				Timestamp:      ts,
				VariationID:    id,
				VariationName:  catalog.Name(id),
				ConversionRate: ConversionRate(visits, conversions),
				Visits:         visits,
				Conversions:    conversions,
			})
		}
	}
	return points, errs
}

// WeekStart returns midnight UTC of the Monday starting the ISO week that contains t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

type weekKey struct {
	week time.Time
	id   string
}

// AggregateByWeek sums counts per (week, variation) and recomputes each rate from the sums.
// Groups keep the order in which they first appear.
func AggregateByWeek(points []schema.DataPoint) []schema.DataPoint {
	index := make(map[weekKey]int)
	var out []schema.DataPoint
	for _, p := range points {
		key := weekKey{week: WeekStart(p.Timestamp), id: p.VariationID}
		if i, ok := index[key]; ok {
			out[i].Visits += p.Visits
			out[i].Conversions += p.Conversions
			continue
		}
		index[key] = len(out)
		out = append(out, schema.DataPoint{
			Timestamp:     key.week,
			VariationID:   p.VariationID,
			VariationName: p.VariationName,
			Visits:        p.Visits,
			Conversions:   p.Conversions,
		})
	}
	for i := range out {
		out[i].ConversionRate = ConversionRate(out[i].Visits, out[i].Conversions)
	}
	return out
}

// FilterByVariations keeps points whose variation is selected.
func FilterByVariations(points []schema.DataPoint, selection schema.SelectionSet) []schema.DataPoint {
	out := make([]schema.DataPoint, 0, len(points))
	for _, p := range points {
		if selection.Has(p.VariationID) {
			out = append(out, p)
		}
	}
	return out
}

// SortByTimestamp orders points by ascending timestamp in place, keeping ties in insertion order.
func SortByTimestamp(points []schema.DataPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
}

// Process runs flatten, optional weekly aggregation, selection filter and sort.
// Records that cannot be parsed are skipped and returned as errors.
func Process(records []schema.RawRecord, granularity schema.Granularity, selection schema.SelectionSet, catalog schema.Catalog) ([]schema.DataPoint, []error) {
	points, errs := Flatten(records, catalog)
	if granularity == schema.WeekGranularity {
		points = AggregateByWeek(points)
	}
	points = FilterByVariations(points, selection)
	SortByTimestamp(points)
	return points, errs
}

// VariationIDs returns every id present in the catalog or in any record, in variation order.
func VariationIDs(records []schema.RawRecord, catalog schema.Catalog) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, id := range catalog.IDs() {
		add(id)
	}
	for _, rec := range records {
		for id := range rec.Visits {
			add(id)
		}
	}
	schema.SortVariationIDs(ids)
	return ids
}
