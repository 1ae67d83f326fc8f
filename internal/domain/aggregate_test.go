package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name     string
		day      string
		hour     string
		wantKey  FilterKey
		wantZero bool
	}{
		{name: "both all", day: "all", hour: "ALL", wantKey: FilterKey{FilterAll, FilterAll}, wantZero: true},
		{name: "empty", day: "", hour: "", wantKey: FilterKey{FilterAll, FilterAll}, wantZero: true},
		{name: "day only", day: "Monday", hour: "all", wantKey: FilterKey{"Monday", FilterAll}},
		{name: "hour only", day: "All", hour: "14", wantKey: FilterKey{FilterAll, "14"}},
		{name: "both", day: "Friday", hour: "9", wantKey: FilterKey{"Friday", "9"}},
		{name: "fractional hour truncates", day: "all", hour: "9.7", wantKey: FilterKey{FilterAll, "9"}},
		{name: "garbage hour ignored", day: "all", hour: "noon", wantKey: FilterKey{FilterAll, FilterAll}, wantZero: true},
		{name: "lowercase day canonicalized", day: "monday", hour: "all", wantKey: FilterKey{"Monday", FilterAll}},
		{name: "uppercase day canonicalized", day: " SATURDAY ", hour: "all", wantKey: FilterKey{"Saturday", FilterAll}},
		{name: "unknown day kept", day: "Funday", hour: "all", wantKey: FilterKey{"Funday", FilterAll}},
		{name: "huge hour ignored", day: "all", hour: "1e20", wantKey: FilterKey{FilterAll, FilterAll}, wantZero: true},
		{name: "negative huge hour ignored", day: "all", hour: "-1e20", wantKey: FilterKey{FilterAll, FilterAll}, wantZero: true},
		{name: "infinite hour ignored", day: "all", hour: "Inf", wantKey: FilterKey{FilterAll, FilterAll}, wantZero: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseFilter(tt.day, tt.hour)
			assert.Equal(t, tt.wantKey, f.Key())
			assert.Equal(t, tt.wantZero, f.IsZero())
		})
	}
}

func TestFilterKey_DayCaseMerges(t *testing.T) {
	assert.Equal(t, ParseFilter("Monday", "8").Key(), ParseFilter("MONDAY", "8").Key())
	assert.Equal(t, ParseFilter("tuesday", "all").Key(), ParseFilter("Tuesday", "").Key())
}

func TestFilterKey_ValueEquality(t *testing.T) {
	a := ParseFilter("Monday", "8").Key()
	b := ParseFilter("Monday", "08").Key()

	assert.Equal(t, a, b)
	m := map[FilterKey]int{a: 1}
	assert.Equal(t, 1, m[b])
}

func TestAggregateRow_UnmarshalCoerces(t *testing.T) {
	data := []byte(`[
		{"violation_location": "1 N STATE ST", "violation_count": 12, "avg_fine": 50.5, "violation_types": 2},
		{"violation_location": "2 N STATE ST", "violation_count": "7", "avg_fine": "bad", "violation_types": null},
		{"violation_location": null, "violation_count": -4, "avg_fine": "NaN", "violation_types": 3.9}
	]`)

	var rows []AggregateRow
	require.NoError(t, json.Unmarshal(data, &rows))

	require.Len(t, rows, 3)
	assert.Equal(t, AggregateRow{Location: "1 N STATE ST", Count: 12, AvgFine: 50.5, ViolationTypes: 2}, rows[0])
	assert.Equal(t, AggregateRow{Location: "2 N STATE ST", Count: 7}, rows[1])
	assert.Equal(t, AggregateRow{ViolationTypes: 3}, rows[2])
}

func TestAggregateRow_RoundTripsFieldNames(t *testing.T) {
	b, err := json.Marshal(AggregateRow{Location: "X", Count: 1, AvgFine: 2.5, ViolationTypes: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"violation_location":"X","violation_count":1,"avg_fine":2.5,"violation_types":3}`, string(b))
}

func TestCoerceFloat(t *testing.T) {
	assert.Equal(t, 0.0, CoerceFloat(nil))
	assert.Equal(t, 0.0, CoerceFloat(math.NaN()))
	assert.Equal(t, 0.0, CoerceFloat(math.Inf(-1)))
	assert.Equal(t, 0.0, CoerceFloat(-2.0))
	assert.Equal(t, 3.5, CoerceFloat("3.5"))
	assert.Equal(t, 4.0, CoerceFloat(json.Number("4")))
	assert.Equal(t, 0.0, CoerceFloat(true))
}

func TestTopByCount(t *testing.T) {
	rows := []AggregateRow{
		{Location: "a", Count: 1},
		{Location: "b", Count: 9},
		{Location: "c", Count: 5},
		{Location: "d", Count: 9},
	}

	top := TopByCount(rows, 3)

	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].Location)
	assert.Equal(t, "d", top[1].Location, "ties keep input order")
	assert.Equal(t, "c", top[2].Location)
	assert.Equal(t, "a", rows[0].Location, "input untouched")
}

func TestCurrentDayAndHour(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)))
	defer SetClock(nil)

	assert.Equal(t, "Friday", CurrentDay())
	assert.Equal(t, 15, CurrentHour())
}
