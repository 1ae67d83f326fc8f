// Command validate checks the persisted heatmap artifacts in a cache
// directory for internal consistency: summary size and ordering, payload
// intensity bounds, and coordinates matching the synthetic geocoder.
//
// Usage:
//
//	go run ./cmd/validate -cache-dir data -summary-limit 1000
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/parkwise-risk-service/internal/cache"
	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
)

const coordTolerance = 1e-9

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cacheDir := flag.String("cache-dir", "data", "directory containing heatmap artifacts")
	limit := flag.Int("summary-limit", cache.DefaultSummaryLimit, "expected summary top-N")
	flag.Parse()

	if code := run(*cacheDir, *limit); code != 0 {
		os.Exit(code)
	}
}

func run(cacheDir string, limit int) int {
	fmt.Println("=== Heatmap Artifact Validation ===")
	fmt.Println()

	store := cache.NewFileStore(cacheDir)
	ctx := context.Background()

	dump, hasDump, err := loadArtifact[domain.AggregateRow](ctx, store, cache.DumpArtifact)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	summary, hasSummary, err := loadArtifact[domain.AggregateRow](ctx, store, cache.SummaryArtifact)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	payload, hasPayload, err := loadArtifact[domain.HeatmapEntry](ctx, store, cache.PayloadArtifact)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	if !hasSummary && !hasPayload {
		fmt.Fprintf(os.Stderr, "FATAL: no summary or payload artifact in %s\n", cacheDir)
		return 1
	}

	var phases []*phase
	if hasSummary {
		phases = append(phases, validateSummary(summary, limit))
		if hasDump {
			phases = append(phases, validateDumpParity(dump, summary, limit))
		}
	}
	if hasPayload {
		phases = append(phases, validatePayload(payload), validateCoordinates(payload, domain.NewSyntheticGeocoder()))
		if hasSummary {
			phases = append(phases, validatePayloadParity(payload, summary))
		}
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d dump, %d summary, %d payload\n", len(dump), len(summary), len(payload))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// loadArtifact decodes a JSON array artifact. A missing artifact is not an error.
func loadArtifact[T any](ctx context.Context, store cache.ArtifactStore, name string) ([]T, bool, error) {
	data, err := store.Load(ctx, name)
	if errors.Is(err, cache.ErrArtifactNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", name, err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, true, nil
}

// ── Phases ──

func validateSummary(rows []domain.AggregateRow, limit int) *phase {
	p := &phase{name: "Summary size and ordering"}
	if len(rows) > limit {
		p.errorf("summary has %d rows, limit is %d", len(rows), limit)
	}
	for i, r := range rows {
		if r.Count < 0 || r.ViolationTypes < 0 || r.AvgFine < 0 {
			p.errorf("row %d (%q): negative field", i, r.Location)
		}
		if i > 0 && rows[i-1].Count < r.Count {
			p.errorf("row %d (%q): count %d exceeds previous %d", i, r.Location, r.Count, rows[i-1].Count)
		}
	}
	return p
}

func validateDumpParity(dump, summary []domain.AggregateRow, limit int) *phase {
	p := &phase{name: "Summary matches top-N of dump"}
	want := domain.TopByCount(dump, limit)
	if len(want) != len(summary) {
		p.errorf("summary has %d rows, dump top-N has %d", len(summary), len(want))
		return p
	}
	for i := range want {
		if want[i].Count != summary[i].Count {
			p.errorf("row %d: summary count %d, dump top-N count %d", i, summary[i].Count, want[i].Count)
		}
	}
	return p
}

func validatePayload(entries []domain.HeatmapEntry) *phase {
	p := &phase{name: "Payload intensity bounds"}
	maxCount, maxIntensity := 0, 0.0
	for i, e := range entries {
		if e.Intensity < 0 || e.Intensity > 1 || math.IsNaN(e.Intensity) {
			p.errorf("entry %d (%q): intensity %v outside [0, 1]", i, e.Location, e.Intensity)
		}
		maxCount = max(maxCount, e.Count)
		maxIntensity = max(maxIntensity, e.Intensity)
	}
	if maxCount > 0 && maxIntensity < 1-coordTolerance {
		p.errorf("busiest entry has intensity %v, want 1", maxIntensity)
	}
	return p
}

func validateCoordinates(entries []domain.HeatmapEntry, geocoder domain.Geocoder) *phase {
	p := &phase{name: "Payload coordinates match geocoder"}
	for i, e := range entries {
		c, ok := geocoder.Resolve(e.Location)
		if !ok {
			p.errorf("entry %d (%q): geocoder cannot resolve", i, e.Location)
			continue
		}
		if math.Abs(c.Lat-e.Lat) > coordTolerance || math.Abs(c.Lng-e.Lng) > coordTolerance {
			p.errorf("entry %d (%q): stored (%v, %v), geocoder gives (%v, %v)", i, e.Location, e.Lat, e.Lng, c.Lat, c.Lng)
		}
	}
	return p
}

func validatePayloadParity(entries []domain.HeatmapEntry, summary []domain.AggregateRow) *phase {
	p := &phase{name: "Payload derived from summary"}
	if len(entries) > len(summary) {
		p.errorf("payload has %d entries, summary only %d rows", len(entries), len(summary))
	}
	counts := make(map[string]int, len(summary))
	for _, r := range summary {
		counts[r.Location] = r.Count
	}
	for i, e := range entries {
		c, ok := counts[e.Location]
		if !ok {
			p.errorf("entry %d (%q): not in summary", i, e.Location)
			continue
		}
		if c != e.Count {
			p.errorf("entry %d (%q): count %d, summary has %d", i, e.Location, e.Count, c)
		}
	}
	return p
}
