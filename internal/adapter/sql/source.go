package sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

// Result sizes for the statistics endpoint.
const (
	topViolationsLimit = 5
	peakHoursLimit     = 5
	hotLocationsLimit  = 10
)

// Source answers aggregate queries against the ticket and violation tables.
type Source struct {
	db *sqlx.DB
	d  dialect
}

// NewSource creates a Source for db, choosing SQL fragments by driver name.
func NewSource(db *sqlx.DB) (*Source, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &Source{db: db, d: d}, nil
}

// FetchTop returns at most limit locations matching filter, busiest first.
func (s *Source) FetchTop(ctx context.Context, filter domain.Filter, limit int) ([]domain.AggregateRow, error) {
	query, args := s.aggregateQuery(filter, limit)
	rows := []domain.AggregateRow{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query top locations: %w", err)
	}
	return rows, nil
}

// FetchAll returns every location matching filter, busiest first.
func (s *Source) FetchAll(ctx context.Context, filter domain.Filter) ([]domain.AggregateRow, error) {
	query, args := s.aggregateQuery(filter, 0)
	rows := []domain.AggregateRow{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query all locations: %w", err)
	}
	return rows, nil
}

// aggregateQuery groups tickets by location. Filter predicates are only
// added for constrained dimensions. A non-positive limit means no limit.
func (s *Source) aggregateQuery(filter domain.Filter, limit int) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, `
		SELECT
			t.violation_location,
			COUNT(*) AS violation_count,
			COALESCE(AVG(CAST(v.cost AS %s)), 0) AS avg_fine,
			COUNT(DISTINCT t.violation_code) AS violation_types
		FROM ticket t
		JOIN violation v ON t.violation_code = v.code
		WHERE t.violation_location IS NOT NULL`, s.d.float)

	var args []any
	if filter.Day != nil {
		fmt.Fprintf(&b, "\n\t\t\tAND %s = ?", s.d.weekday)
		args = append(args, *filter.Day)
	}
	if filter.Hour != nil {
		fmt.Fprintf(&b, "\n\t\t\tAND %s = ?", s.d.hour)
		args = append(args, *filter.Hour)
	}
	b.WriteString(`
		GROUP BY t.violation_location
		ORDER BY COUNT(*) DESC, t.violation_location`)
	if limit > 0 {
		b.WriteString("\n\t\tLIMIT ?")
		args = append(args, limit)
	}
	return s.db.Rebind(b.String()), args
}

// Statistics returns ticket totals, the most common violations, the busiest
// hours, and the busiest locations.
func (s *Source) Statistics(ctx context.Context) (domain.Statistics, error) {
	var stats domain.Statistics

	if err := s.db.GetContext(ctx, &stats.TotalViolations, `SELECT COUNT(*) FROM ticket`); err != nil {
		return domain.Statistics{}, fmt.Errorf("query total violations: %w", err)
	}

	stats.TopViolations = []domain.ViolationTypeRow{}
	err := s.db.SelectContext(ctx, &stats.TopViolations, s.db.Rebind(`
		SELECT
			v.description AS violation_type,
			COUNT(*) AS count,
			COALESCE(v.cost, 0) AS fine
		FROM ticket t
		JOIN violation v ON t.violation_code = v.code
		GROUP BY v.description, v.cost
		ORDER BY COUNT(*) DESC, v.description
		LIMIT ?`), topViolationsLimit)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("query top violations: %w", err)
	}

	stats.PeakHours = []domain.HourCount{}
	err = s.db.SelectContext(ctx, &stats.PeakHours, s.db.Rebind(fmt.Sprintf(`
		SELECT
			%s AS hour,
			COUNT(*) AS count
		FROM ticket t
		WHERE t.issue_date IS NOT NULL
		GROUP BY 1
		ORDER BY COUNT(*) DESC, 1
		LIMIT ?`, s.d.hour)), peakHoursLimit)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("query peak hours: %w", err)
	}

	stats.HotLocations = []domain.LocationCount{}
	err = s.db.SelectContext(ctx, &stats.HotLocations, s.db.Rebind(`
		SELECT
			t.violation_location,
			COUNT(*) AS count
		FROM ticket t
		WHERE t.violation_location IS NOT NULL
		GROUP BY t.violation_location
		ORDER BY COUNT(*) DESC, t.violation_location
		LIMIT ?`), hotLocationsLimit)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("query hot locations: %w", err)
	}

	return stats, nil
}

// LocationDetails breaks down one location's tickets by weekday and hour and
// by violation type.
func (s *Source) LocationDetails(ctx context.Context, location string) (domain.LocationDetails, error) {
	details := domain.LocationDetails{
		Location:       location,
		Patterns:       []domain.TimePattern{},
		ViolationTypes: []domain.ViolationTypeRow{},
	}

	err := s.db.SelectContext(ctx, &details.Patterns, s.db.Rebind(fmt.Sprintf(`
		SELECT
			%s AS day_of_week,
			%s AS hour,
			COUNT(*) AS count,
			COALESCE(AVG(CAST(v.cost AS %s)), 0) AS avg_fine
		FROM ticket t
		JOIN violation v ON t.violation_code = v.code
		WHERE t.violation_location = ?
			AND t.issue_date IS NOT NULL
		GROUP BY 1, 2
		ORDER BY COUNT(*) DESC, 1, 2`, s.d.weekday, s.d.hour, s.d.float)), location)
	if err != nil {
		return domain.LocationDetails{}, fmt.Errorf("query location patterns: %w", err)
	}

	err = s.db.SelectContext(ctx, &details.ViolationTypes, s.db.Rebind(`
		SELECT
			v.description AS violation_type,
			COUNT(*) AS count,
			COALESCE(v.cost, 0) AS fine
		FROM ticket t
		JOIN violation v ON t.violation_code = v.code
		WHERE t.violation_location = ?
		GROUP BY v.description, v.cost
		ORDER BY COUNT(*) DESC, v.description`), location)
	if err != nil {
		return domain.LocationDetails{}, fmt.Errorf("query location violation types: %w", err)
	}

	return details, nil
}

// Ping verifies the database is reachable.
func (s *Source) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
