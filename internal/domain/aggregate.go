package domain

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FilterAll is the FilterKey sentinel for an unconstrained dimension.
const FilterAll = "ALL"

// AggregateRow is one grouped violation statistic per location under a time filter.
type AggregateRow struct {
	Location       string  `json:"violation_location" db:"violation_location"`
	Count          int     `json:"violation_count" db:"violation_count"`
	AvgFine        float64 `json:"avg_fine" db:"avg_fine"`
	ViolationTypes int     `json:"violation_types" db:"violation_types"`
}

// UnmarshalJSON accepts numbers, numeric strings, and nulls for the numeric
// fields, coercing anything unusable to zero.
func (r *AggregateRow) UnmarshalJSON(data []byte) error {
	var raw struct {
		Location       any `json:"violation_location"`
		Count          any `json:"violation_count"`
		AvgFine        any `json:"avg_fine"`
		ViolationTypes any `json:"violation_types"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = AggregateRow{
		Location:       coerceString(raw.Location),
		Count:          CoerceInt(raw.Count),
		AvgFine:        CoerceFloat(raw.AvgFine),
		ViolationTypes: CoerceInt(raw.ViolationTypes),
	}
	return nil
}

// Sanitize returns a copy with every numeric field coerced into its valid range.
func (r AggregateRow) Sanitize() AggregateRow {
	r.Count = max(r.Count, 0)
	r.AvgFine = CoerceFloat(r.AvgFine)
	r.ViolationTypes = max(r.ViolationTypes, 0)
	return r
}

// TopByCount returns at most n rows ordered by count descending. Ties keep
// their input order. The input slice is not modified.
func TopByCount(rows []AggregateRow, n int) []AggregateRow {
	sorted := make([]AggregateRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Filter constrains an aggregate query. A nil field means "all".
type Filter struct {
	Day  *string
	Hour *int
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.Day == nil && f.Hour == nil
}

// Key returns the value-comparable cache key for the filter.
func (f Filter) Key() FilterKey {
	k := FilterKey{Day: FilterAll, Hour: FilterAll}
	if f.Day != nil {
		k.Day = *f.Day
	}
	if f.Hour != nil {
		k.Hour = strconv.Itoa(*f.Hour)
	}
	return k
}

// FilterKey identifies a filtered query in the bounded query cache.
type FilterKey struct {
	Day  string
	Hour string
}

// ParseFilter interprets request-level day and hour values. "all" in any
// case leaves a dimension unconstrained, as does an hour that is not a number
// or does not fit in an int32. Weekday names match case-insensitively and are
// stored in their canonical spelling, e.g. "monday" becomes "Monday".
func ParseFilter(day, hour string) Filter {
	var f Filter
	if d := strings.TrimSpace(day); d != "" && !strings.EqualFold(d, "all") {
		d = canonicalWeekday(d)
		f.Day = &d
	}
	if h := strings.TrimSpace(hour); h != "" && !strings.EqualFold(h, "all") {
		if v, err := strconv.ParseFloat(h, 64); err == nil && !math.IsNaN(v) && math.Abs(v) <= math.MaxInt32 {
			n := int(v)
			f.Hour = &n
		}
	}
	return f
}

// canonicalWeekday returns the time.Weekday spelling of d, or d unchanged
// when it names no weekday.
func canonicalWeekday(d string) string {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(d, wd.String()) {
			return wd.String()
		}
	}
	return d
}

// CoerceFloat converts v to a finite, non-negative float64, or 0.
func CoerceFloat(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// CoerceInt converts v to a non-negative int, truncating fractions, or 0.
func CoerceInt(v any) int {
	f := CoerceFloat(v)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
