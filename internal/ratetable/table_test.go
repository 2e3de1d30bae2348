package ratetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRates() Rates {
	return Rates{
		"ORIENT": {
			"IMED_DXB_LSB": {
				"18-30": {"M": 698, "F": 1185},
				"0-17":  {"M": 652, "F": 652},
				"61-65": {"M": 1890, "F": 2105},
			},
		},
		"MEDNET": {
			"MEDNET_PEARL_DXB_0": {
				"18-30": {"M": 2560, "F": 4260},
			},
			"MEDNET_SILKROAD_NE_10": {
				"18-30": {"M": 1580, "F": 0},
				"31-45": {"M": 1680},
			},
		},
	}
}

func TestTable_StableOrdering(t *testing.T) {
	table := New(createTestRates())

	assert.Equal(t, []string{"MEDNET", "ORIENT"}, table.Providers())
	assert.Equal(t, []string{"MEDNET_PEARL_DXB_0", "MEDNET_SILKROAD_NE_10"}, table.Plans("MEDNET"))

	// Bands come back ordered by lower bound regardless of map iteration.
	assert.Equal(t, []string{"0-17", "18-30", "61-65"}, table.Bands("ORIENT", "IMED_DXB_LSB"))
}

func TestTable_Premium(t *testing.T) {
	table := New(createTestRates())

	tests := []struct {
		name     string
		provider string
		plan     string
		band     string
		gender   string
		expected float64
		found    bool
	}{
		{name: "existing cell", provider: "ORIENT", plan: "IMED_DXB_LSB", band: "18-30", gender: "F", expected: 1185, found: true},
		{name: "missing gender cell", provider: "MEDNET", plan: "MEDNET_SILKROAD_NE_10", band: "31-45", gender: "F", found: false},
		{name: "zero cell treated as absent", provider: "MEDNET", plan: "MEDNET_SILKROAD_NE_10", band: "18-30", gender: "F", found: false},
		{name: "missing band", provider: "ORIENT", plan: "IMED_DXB_LSB", band: "70-80", gender: "M", found: false},
		{name: "unknown plan", provider: "ORIENT", plan: "NOPE", band: "18-30", gender: "M", found: false},
		{name: "unknown provider", provider: "NOPE", plan: "NOPE", band: "18-30", gender: "M", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Premium(tt.provider, tt.plan, tt.band, tt.gender)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestTable_MetadataDerivedAtLoad(t *testing.T) {
	table := New(createTestRates())

	meta := table.Metadata("MEDNET", "MEDNET_SILKROAD_NE_10")
	assert.True(t, meta.NorthernTagged)
	assert.Equal(t, "SilkRoad", meta.DisplayName)
	assert.Equal(t, "10%", meta.Copay)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "rates.json")
		body := `{"ORIENT":{"IMED_DXB_LSB":{"18-30":{"M":698,"F":1185}}}}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		table, err := Load(path)
		require.NoError(t, err)
		premium, ok := table.Premium("ORIENT", "IMED_DXB_LSB", "18-30", "M")
		assert.True(t, ok)
		assert.Equal(t, 698.0, premium)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("empty dataset", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
