package domain

// Statistics summarizes the whole ticket table.
type Statistics struct {
	TotalViolations int                `json:"totalViolations"`
	TopViolations   []ViolationTypeRow `json:"topViolations"`
	PeakHours       []HourCount        `json:"peakHours"`
	HotLocations    []LocationCount    `json:"hotLocations"`
}

// ViolationTypeRow counts tickets for one violation description and fine.
type ViolationTypeRow struct {
	ViolationType string  `json:"violation_type" db:"violation_type"`
	Count         int     `json:"count" db:"count"`
	Fine          float64 `json:"fine" db:"fine"`
}

// HourCount counts tickets issued in one hour of the day.
type HourCount struct {
	Hour  int `json:"hour" db:"hour"`
	Count int `json:"count" db:"count"`
}

// LocationCount counts tickets issued at one location.
type LocationCount struct {
	Location string `json:"violation_location" db:"violation_location"`
	Count    int    `json:"count" db:"count"`
}

// TimePattern counts tickets at one location for a weekday and hour.
type TimePattern struct {
	DayOfWeek string  `json:"day_of_week" db:"day_of_week"`
	Hour      int     `json:"hour" db:"hour"`
	Count     int     `json:"count" db:"count"`
	AvgFine   float64 `json:"avg_fine" db:"avg_fine"`
}

// LocationDetails breaks down the tickets at a single location.
type LocationDetails struct {
	Location       string             `json:"location"`
	Patterns       []TimePattern      `json:"patterns"`
	ViolationTypes []ViolationTypeRow `json:"violationTypes"`
}
