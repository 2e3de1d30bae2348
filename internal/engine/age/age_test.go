package age

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"insurance-portal/internal/models"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(DOBLayout, value)
	assert.NoError(t, err)
	return d
}

// ==========================
// Insurance Age Tests
// ==========================

func TestInsurance_MidpointRounding(t *testing.T) {
	tests := []struct {
		name     string
		dob      string
		asOf     string
		expected int
	}{
		{
			name:     "exactly six months since birthday rounds up",
			dob:      "1990-01-15",
			asOf:     "2024-07-15",
			expected: 35,
		},
		{
			name:     "one day short of six months keeps calendar age",
			dob:      "1990-01-15",
			asOf:     "2024-07-14",
			expected: 34,
		},
		{
			name:     "on the birthday",
			dob:      "1990-01-15",
			asOf:     "2024-01-15",
			expected: 34,
		},
		{
			name:     "just before the birthday rounds up from previous year",
			dob:      "1990-01-15",
			asOf:     "2024-01-14",
			expected: 34,
		},
		{
			name:     "newborn",
			dob:      "2024-05-01",
			asOf:     "2024-07-15",
			expected: 0,
		},
		{
			name:     "infant past six months rounds to one",
			dob:      "2023-12-01",
			asOf:     "2024-07-15",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Insurance(mustDate(t, tt.dob), mustDate(t, tt.asOf))
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInsurance_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		dob  string
		asOf string
	}{
		{name: "dob in the future", dob: "2025-06-01", asOf: "2024-07-15"},
		{name: "older than 100", dob: "1920-01-01", asOf: "2024-07-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Insurance(mustDate(t, tt.dob), mustDate(t, tt.asOf))
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

// ==========================
// Relationship Tests
// ==========================

func TestRelationship(t *testing.T) {
	tests := []struct {
		name        string
		age         int
		sponsorship models.Sponsorship
		expected    string
	}{
		{name: "principal is self", age: 40, sponsorship: models.SponsorshipPrincipal, expected: "Self"},
		{name: "husband is spouse", age: 45, sponsorship: models.SponsorshipHusband, expected: "Spouse"},
		{name: "wife is spouse", age: 38, sponsorship: models.SponsorshipWife, expected: "Spouse"},
		{name: "adult father is parent", age: 70, sponsorship: models.SponsorshipFather, expected: "Parent"},
		{name: "underage mother label falls back", age: 16, sponsorship: models.SponsorshipMother, expected: "Other"},
		{name: "dependent under 18 is child", age: 10, sponsorship: models.SponsorshipDependent, expected: "Child"},
		{name: "dependent at 18 is dependent", age: 18, sponsorship: models.SponsorshipDependent, expected: "Dependent"},
		{name: "dependent at 24 is dependent", age: 24, sponsorship: models.SponsorshipDependent, expected: "Dependent"},
		{name: "dependent at 25 is other", age: 25, sponsorship: models.SponsorshipDependent, expected: "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Relationship(tt.age, tt.sponsorship))
		})
	}
}

// ==========================
// Age Band Tests
// ==========================

func TestFindBand(t *testing.T) {
	bands := []string{"0-17", "18-30", "31-45", "46-60", "61-65"}

	tests := []struct {
		name     string
		age      int
		bands    []string
		expected string
	}{
		{name: "lower bound inclusive", age: 18, bands: bands, expected: "18-30"},
		{name: "upper bound inclusive", age: 30, bands: bands, expected: "18-30"},
		{name: "zero age", age: 0, bands: bands, expected: "0-17"},
		{name: "above every band", age: 66, bands: bands, expected: NoRate},
		{name: "single integer band", age: 65, bands: []string{"0-64", "65"}, expected: "65"},
		{name: "no bands at all", age: 30, bands: nil, expected: NoRate},
		{name: "malformed band is skipped", age: 30, bands: []string{"adult", "18-40"}, expected: "18-40"},
		{name: "whitespace tolerated", age: 20, bands: []string{" 18 - 30 "}, expected: " 18 - 30 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindBand(tt.age, tt.bands))
		})
	}
}
