// internal/ratetable/table.go
package ratetable

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	apperrors "insurance-portal/internal/common/errors"
)

// Rates is the raw shape of the externally supplied dataset:
// provider -> planName -> ageBand -> gender ("M"/"F") -> annual premium.
type Rates map[string]map[string]map[string]map[string]float64

// Table is the immutable, metadata-enriched view of the rate dataset.
// It is loaded once at startup and never mutated afterwards.
type Table struct {
	rates Rates
	meta  map[string]map[string]PlanMetadata

	providers []string
	plans     map[string][]string
	bands     map[string][]string // keyed provider + "\x00" + plan
}

// New builds a Table from raw rates, deriving per-plan metadata from the
// dataset's naming conventions once, up front.
func New(rates Rates) *Table {
	t := &Table{
		rates: rates,
		meta:  make(map[string]map[string]PlanMetadata, len(rates)),
		plans: make(map[string][]string, len(rates)),
		bands: make(map[string][]string),
	}

	for provider, plans := range rates {
		t.providers = append(t.providers, provider)
		t.meta[provider] = make(map[string]PlanMetadata, len(plans))
		for planName, bands := range plans {
			t.plans[provider] = append(t.plans[provider], planName)
			t.meta[provider][planName] = DeriveMetadata(provider, planName)

			keys := make([]string, 0, len(bands))
			for band := range bands {
				keys = append(keys, band)
			}
			sortBands(keys)
			t.bands[provider+"\x00"+planName] = keys
		}
		sort.Strings(t.plans[provider])
	}
	sort.Strings(t.providers)

	return t
}

// Load reads the rate dataset from a JSON file.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewRateTableInvalidError(fmt.Sprintf("read %s: %v", path, err))
	}

	var rates Rates
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, apperrors.NewRateTableInvalidError(fmt.Sprintf("parse %s: %v", path, err))
	}
	if len(rates) == 0 {
		return nil, apperrors.NewRateTableInvalidError(fmt.Sprintf("dataset is empty: %s", path))
	}

	return New(rates), nil
}

// Providers returns provider keys in stable (sorted) order.
func (t *Table) Providers() []string {
	return t.providers
}

// Plans returns the plan names of a provider in stable order.
func (t *Table) Plans(provider string) []string {
	return t.plans[provider]
}

// Bands returns the age bands of a plan, ordered by ascending lower bound.
func (t *Table) Bands(provider, planName string) []string {
	return t.bands[provider+"\x00"+planName]
}

// Premium looks up the premium cell for a gender key ("M"/"F"). The second
// return is false when the cell is absent, which callers treat as a
// needs-manual-rate condition rather than an error. A cell stored as 0 is
// treated as absent; datasets use 0 for rates pending manual entry.
func (t *Table) Premium(provider, planName, band, genderKey string) (float64, bool) {
	plans, ok := t.rates[provider]
	if !ok {
		return 0, false
	}
	bands, ok := plans[planName]
	if !ok {
		return 0, false
	}
	cells, ok := bands[band]
	if !ok {
		return 0, false
	}
	premium, ok := cells[genderKey]
	if !ok || premium == 0 {
		return 0, false
	}
	return premium, true
}

// Metadata returns the derived metadata of a (provider, plan) pair.
func (t *Table) Metadata(provider, planName string) PlanMetadata {
	return t.meta[provider][planName]
}

// sortBands orders band keys by their lower bound so that lookup order is
// deterministic. Bands are expected non-overlapping; first match wins.
func sortBands(bands []string) {
	sort.SliceStable(bands, func(i, j int) bool {
		return bandLowerBound(bands[i]) < bandLowerBound(bands[j])
	})
}

func bandLowerBound(band string) int {
	s := band
	if idx := strings.Index(band, "-"); idx >= 0 {
		s = band[:idx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return int(^uint(0) >> 1) // non-numeric bands sort last
	}
	return n
}
