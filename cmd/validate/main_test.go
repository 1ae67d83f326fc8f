package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/couchcryptid/parkwise-risk-service/internal/cache"
	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var summaryRows = []domain.AggregateRow{
	{Location: "100 W MICHIGAN AVE", Count: 10, AvgFine: 60, ViolationTypes: 2},
	{Location: "1 N STATE ST", Count: 5, AvgFine: 50, ViolationTypes: 1},
}

func writeArtifacts(t *testing.T, dir string, summary []domain.AggregateRow, payload []domain.HeatmapEntry) {
	t.Helper()
	store := cache.NewFileStore(dir)
	for name, v := range map[string]any{cache.SummaryArtifact: summary, cache.PayloadArtifact: payload} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, store.Save(context.Background(), name, data))
	}
}

func TestRun_ConsistentArtifactsPass(t *testing.T) {
	dir := t.TempDir()
	payload := domain.BuildHeatmap(summaryRows, domain.NewSyntheticGeocoder())
	writeArtifacts(t, dir, summaryRows, payload)

	assert.Equal(t, 0, run(dir, 1000))
}

func TestRun_MissingArtifactsFail(t *testing.T) {
	assert.Equal(t, 1, run(t.TempDir(), 1000))
}

func TestRun_SummaryOverLimitFails(t *testing.T) {
	dir := t.TempDir()
	writeArtifacts(t, dir, summaryRows, domain.BuildHeatmap(summaryRows, domain.NewSyntheticGeocoder()))

	assert.Equal(t, 1, run(dir, 1))
}

func TestValidateSummary_Ordering(t *testing.T) {
	p := validateSummary([]domain.AggregateRow{{Location: "A", Count: 1}, {Location: "B", Count: 3}}, 10)
	assert.False(t, p.passed())
	assert.Len(t, p.errors, 1)
}

func TestValidatePayload_Bounds(t *testing.T) {
	p := validatePayload([]domain.HeatmapEntry{
		{Location: "A", Count: 4, Intensity: 0.8},
		{Location: "B", Count: 2, Intensity: 1.2},
	})
	assert.False(t, p.passed())
	assert.Len(t, p.errors, 1)
}

func TestValidatePayload_BusiestBelowOne(t *testing.T) {
	p := validatePayload([]domain.HeatmapEntry{{Location: "A", Count: 4, Intensity: 0.8}})
	assert.Len(t, p.errors, 1)
}

func TestValidateCoordinates_Mismatch(t *testing.T) {
	p := validateCoordinates([]domain.HeatmapEntry{{Location: "1 N STATE ST", Lat: 0, Lng: 0}}, domain.NewSyntheticGeocoder())
	assert.False(t, p.passed())
}

func TestValidateDumpParity(t *testing.T) {
	dump := append([]domain.AggregateRow{{Location: "X", Count: 1}}, summaryRows...)
	assert.True(t, validateDumpParity(dump, summaryRows, 2).passed())
	assert.False(t, validateDumpParity(dump, summaryRows, 3).passed())
}

func TestValidatePayloadParity(t *testing.T) {
	payload := []domain.HeatmapEntry{{Location: "100 W MICHIGAN AVE", Count: 9}}
	p := validatePayloadParity(payload, summaryRows)
	assert.Len(t, p.errors, 1)
}
