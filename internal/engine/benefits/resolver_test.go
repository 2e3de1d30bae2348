package benefits

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insurance-portal/internal/models"
)

func benefitsWith(limit string) models.BenefitSet {
	return models.BenefitSet{AnnualLimit: limit}
}

// ==========================
// Priority Chain Tests
// ==========================

func TestResolver_PriorityChain(t *testing.T) {
	static := map[string]models.BenefitSet{
		"ORIENT_IMED_DXB_LSB": benefitsWith("static template"),
	}

	tests := []struct {
		name          string
		provider      string
		planName      string
		planID        string
		local         map[string]models.BenefitSet
		cloud         map[string]models.BenefitSet
		expectedLimit string
	}{
		{
			name:          "local edit by plan id wins over everything",
			provider:      "ORIENT",
			planName:      "IMED_DXB_LSB",
			planID:        "ORIENT_IMED_DXB_LSB",
			local:         map[string]models.BenefitSet{"ORIENT_IMED_DXB_LSB": benefitsWith("local")},
			cloud:         map[string]models.BenefitSet{"ORIENT_IMED_DXB_LSB": benefitsWith("cloud")},
			expectedLimit: "local",
		},
		{
			name:          "cloud edit by plan id beats static template",
			provider:      "ORIENT",
			planName:      "IMED_DXB_LSB",
			planID:        "ORIENT_IMED_DXB_LSB",
			cloud:         map[string]models.BenefitSet{"ORIENT_IMED_DXB_LSB": benefitsWith("cloud")},
			expectedLimit: "cloud",
		},
		{
			name:          "cloud edit by plan key when id differs",
			provider:      "ORIENT",
			planName:      "IMED_DXB_LSB",
			planID:        "some-other-id",
			cloud:         map[string]models.BenefitSet{"ORIENT_IMED_DXB_LSB": benefitsWith("cloud-by-key")},
			expectedLimit: "cloud-by-key",
		},
		{
			name:          "static template when no edits exist",
			provider:      "ORIENT",
			planName:      "IMED_DXB_LSB",
			planID:        "ORIENT_IMED_DXB_LSB",
			expectedLimit: "static template",
		},
		{
			name:          "family template for mednet plan with no static entry",
			provider:      "MEDNET",
			planName:      "MEDNET_PEARL_DXB_0",
			planID:        "MEDNET_MEDNET_PEARL_DXB_0",
			expectedLimit: Mednet().AnnualLimit,
		},
		{
			name:          "global default when nothing matches",
			provider:      "UFIC",
			planName:      "BASIC",
			planID:        "UFIC_BASIC",
			expectedLimit: Default().AnnualLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(static)
			got := r.Resolve(tt.provider, tt.planName, tt.planID, tt.local, tt.cloud)
			assert.Equal(t, tt.expectedLimit, got.AnnualLimit)
		})
	}
}

func TestResolver_FuzzyTrailingTokenMatch(t *testing.T) {
	static := map[string]models.BenefitSet{
		"TAKAFUL_GOLD": benefitsWith("gold template"),
	}
	r := NewResolver(static)

	// No direct key, no family marker, but the trailing token GOLD appears in
	// the plan name.
	got := r.Resolve("SALAMA", "SALAMA_GOLD_PLUS", "SALAMA_SALAMA_GOLD_PLUS", nil, nil)
	assert.Equal(t, "gold template", got.AnnualLimit)
}

// ==========================
// Copy Semantics Tests
// ==========================

func TestResolver_ResultsAreIndependentCopies(t *testing.T) {
	static := map[string]models.BenefitSet{
		"ORIENT_IMED_DXB_LSB": benefitsWith("static template"),
	}
	r := NewResolver(static)

	first := r.Resolve("ORIENT", "IMED_DXB_LSB", "ORIENT_IMED_DXB_LSB", nil, nil)
	first.AnnualLimit = "mutated"

	second := r.Resolve("ORIENT", "IMED_DXB_LSB", "ORIENT_IMED_DXB_LSB", nil, nil)
	assert.Equal(t, "static template", second.AnnualLimit)
}

func TestResolver_ResultIsFullyPopulated(t *testing.T) {
	r := NewResolver(nil)

	// A sparse cloud edit still resolves to a complete set.
	cloud := map[string]models.BenefitSet{"PLAN_X": benefitsWith("AED 500,000")}
	got := r.Resolve("PROV", "X", "PLAN_X", nil, cloud)

	assert.Equal(t, "AED 500,000", got.AnnualLimit)
	assert.Equal(t, Default().Emergency, got.Emergency)
	assert.Equal(t, Default().Preexisting, got.Preexisting)
}

// ==========================
// Manual Plan Family Mapping
// ==========================

func TestFamilyFromNetwork(t *testing.T) {
	tests := []struct {
		name     string
		network  string
		expected string
		found    bool
	}{
		{name: "mednet prefix", network: "MEDNET Silver", expected: Mednet().Network, found: true},
		{name: "lowercase nextcare", network: "nextcare GN+", expected: Nextcare().Network, found: true},
		{name: "nas prefix", network: "NAS RN", expected: Nas().Network, found: true},
		{name: "unknown network", network: "Premier", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FamilyFromNetwork(tt.network)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, got.Network)
			}
		})
	}
}
