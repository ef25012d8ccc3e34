// Package spread maps qualitative credit ratings to default spreads.
// The table follows Aswath Damodaran's synthetic-rating dataset: each row
// carries the interest-coverage-ratio band that motivates the rating, but
// LookupSpread matches on the rating label only.
package spread

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"dcf_suite/pkg/models"
)

// Entry is one row of the ratings table. Spread is a decimal
// (0.0045 = 45 bps). The coverage bounds document the ratio -> rating
// mapping design; label lookup never consults them.
type Entry struct {
	CoverageFloor   float64 `yaml:"coverage_floor" json:"coverage_floor"`
	CoverageCeiling float64 `yaml:"coverage_ceiling" json:"coverage_ceiling"`
	Rating          string  `yaml:"rating" json:"rating"`
	Spread          float64 `yaml:"spread" json:"spread"`
}

// Table is an ordered (worst to best rating) immutable spread table.
type Table struct {
	entries []Entry
}

// Default returns the static reference table from Damodaran's dataset.
// Spreads are stored as decimals; the source publishes percentages.
func Default() Table {
	return Table{entries: []Entry{
		{CoverageFloor: -100000, CoverageCeiling: 0.199999, Rating: "D2/D", Spread: 0.1900},
		{CoverageFloor: 0.2, CoverageCeiling: 0.649999, Rating: "C2/C", Spread: 0.1550},
		{CoverageFloor: 0.65, CoverageCeiling: 0.799999, Rating: "Ca2/CC", Spread: 0.1010},
		{CoverageFloor: 0.8, CoverageCeiling: 1.249999, Rating: "Caa/CCC", Spread: 0.0728},
		{CoverageFloor: 1.25, CoverageCeiling: 1.499999, Rating: "B3/B-", Spread: 0.0442},
		{CoverageFloor: 1.5, CoverageCeiling: 1.749999, Rating: "B2/B", Spread: 0.0300},
		{CoverageFloor: 1.75, CoverageCeiling: 1.999999, Rating: "B1/B+", Spread: 0.0261},
		{CoverageFloor: 2.0, CoverageCeiling: 2.2499999, Rating: "Ba2/BB", Spread: 0.0183},
		{CoverageFloor: 2.25, CoverageCeiling: 2.49999, Rating: "Ba1/BB+", Spread: 0.0155},
		{CoverageFloor: 2.5, CoverageCeiling: 2.999999, Rating: "Baa2/BBB", Spread: 0.0120},
		{CoverageFloor: 3.0, CoverageCeiling: 4.249999, Rating: "A3/A-", Spread: 0.0095},
		{CoverageFloor: 4.25, CoverageCeiling: 5.499999, Rating: "A2/A", Spread: 0.0085},
		{CoverageFloor: 5.5, CoverageCeiling: 6.499999, Rating: "A1/A+", Spread: 0.0077},
		{CoverageFloor: 6.5, CoverageCeiling: 8.499999, Rating: "Aa2/AA", Spread: 0.0060},
		{CoverageFloor: 8.5, CoverageCeiling: 100000, Rating: "Aaa/AAA", Spread: 0.0045},
	}}
}

// New builds a table from explicit entries, ordered by coverage floor.
func New(entries []Entry) Table {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CoverageFloor < sorted[j].CoverageFloor
	})
	return Table{entries: sorted}
}

// LoadYAML parses a table override, e.g. from config/spreads.yaml.
func LoadYAML(data []byte) (Table, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return Table{}, fmt.Errorf("failed to parse spread table: %w", err)
	}
	if len(entries) == 0 {
		return Table{}, &models.InputValidationError{Field: "spread table", Reason: "no entries"}
	}
	return New(entries), nil
}

// Entries returns a copy of the table rows for rendering.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// LookupSpread returns the default spread for a rating label. Matching is
// case-insensitive and ignores surrounding whitespace. A miss is reported
// as models.NotFoundError, never as a placeholder spread.
func (t Table) LookupSpread(rating string) (float64, error) {
	want := strings.ToLower(strings.TrimSpace(rating))
	for _, e := range t.entries {
		if strings.ToLower(strings.TrimSpace(e.Rating)) == want {
			return e.Spread, nil
		}
	}
	return 0, &models.NotFoundError{Kind: "credit rating", Key: rating}
}

// RatingForCoverageRatio returns the row whose coverage band contains the
// given interest-coverage ratio (the synthetic-rating mapping the bounds
// exist for).
func (t Table) RatingForCoverageRatio(icr float64) (Entry, error) {
	for _, e := range t.entries {
		if icr >= e.CoverageFloor && icr <= e.CoverageCeiling {
			return e, nil
		}
	}
	return Entry{}, &models.NotFoundError{Kind: "coverage band", Key: fmt.Sprintf("%.4f", icr)}
}
