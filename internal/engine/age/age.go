// internal/engine/age/age.go

// Package age computes insurance ages, derived relationships and age-band
// matches against rate-table bands.
package age

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"insurance-portal/internal/models"
)

// NoRate is returned by FindBand when no band covers the age. The sentinel
// (rather than an empty string) keeps the plan visible with a zero premium
// so the advisor can price it manually (ages 66+ are rarely tabulated).
const NoRate = "NO_RATE"

// ErrOutOfRange marks an insurance age outside [0, 100]. Callers reject the
// member with a user-facing message instead of proceeding.
var ErrOutOfRange = errors.New("age out of range [0, 100]")

// DOBLayout is the wire format for dates of birth.
const DOBLayout = "2006-01-02"

// Insurance computes the insurance age at asOf: the calendar age, plus one
// when six or more months have passed since the last birthday (round to the
// nearest birthday rather than floor).
func Insurance(dob, asOf time.Time) (int, error) {
	years := asOf.Year() - dob.Year()
	monthDiff := int(asOf.Month()) - int(dob.Month())
	if monthDiff < 0 || (monthDiff == 0 && asOf.Day() < dob.Day()) {
		years--
	}

	monthsSinceBirthday := monthDiff
	if monthsSinceBirthday < 0 {
		monthsSinceBirthday += 12
	}
	if asOf.Day() < dob.Day() {
		monthsSinceBirthday--
		if monthsSinceBirthday < 0 {
			monthsSinceBirthday += 12
		}
	}

	if monthsSinceBirthday >= 6 {
		years++
	}

	if years < 0 || years > 100 {
		return years, ErrOutOfRange
	}
	return years, nil
}

// Relationship derives the informational relationship label from insurance
// age and sponsorship. It must be recomputed whenever either input changes.
func Relationship(age int, sponsorship models.Sponsorship) string {
	switch sponsorship {
	case models.SponsorshipPrincipal:
		return "Self"
	case models.SponsorshipHusband, models.SponsorshipWife:
		return "Spouse"
	case models.SponsorshipFather, models.SponsorshipMother:
		if age >= 18 {
			return "Parent"
		}
		return "Other"
	}
	if age < 18 {
		return "Child"
	}
	if age < 25 {
		return "Dependent"
	}
	return "Other"
}

// FindBand returns the first band covering the age. Bands are either a single
// integer ("65") or a range ("18-65"); bands are expected non-overlapping but
// this is not enforced — first match wins in the given order. When nothing
// matches, the NoRate sentinel is returned.
func FindBand(age int, bands []string) string {
	for _, band := range bands {
		if min, max, ok := parseRange(band); ok {
			if age >= min && age <= max {
				return band
			}
			continue
		}
		if single, err := strconv.Atoi(strings.TrimSpace(band)); err == nil && age == single {
			return band
		}
	}
	return NoRate
}

func parseRange(band string) (int, int, bool) {
	idx := strings.Index(band, "-")
	if idx < 0 {
		return 0, 0, false
	}
	min, err := strconv.Atoi(strings.TrimSpace(band[:idx]))
	if err != nil {
		return 0, 0, false
	}
	max, err := strconv.Atoi(strings.TrimSpace(band[idx+1:]))
	if err != nil {
		return 0, 0, false
	}
	return min, max, true
}
