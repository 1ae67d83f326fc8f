package sql

import "fmt"

// dialect holds the SQL fragments that differ between drivers. Every
// fragment reads the ticket table under the alias t.
type dialect struct {
	weekday string // weekday name of t.issue_date, e.g. 'Monday'
	hour    string // hour of t.issue_date as an integer
	float   string // floating point type for AVG casts
}

var dialects = map[string]dialect{
	DriverPostgres: {
		weekday: "TRIM(TO_CHAR(t.issue_date, 'FMDay'))",
		hour:    "CAST(EXTRACT(HOUR FROM t.issue_date) AS INTEGER)",
		float:   "DOUBLE PRECISION",
	},
	DriverSQLite: {
		weekday: `CASE CAST(strftime('%w', t.issue_date) AS INTEGER)
			WHEN 0 THEN 'Sunday' WHEN 1 THEN 'Monday' WHEN 2 THEN 'Tuesday'
			WHEN 3 THEN 'Wednesday' WHEN 4 THEN 'Thursday' WHEN 5 THEN 'Friday'
			ELSE 'Saturday' END`,
		hour:  "CAST(strftime('%H', t.issue_date) AS INTEGER)",
		float: "REAL",
	},
}

func dialectFor(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("no SQL dialect for driver %q", driver)
	}
	return d, nil
}
