// internal/engine/eligibility/eligibility.go

// Package eligibility decides whether a rate-table plan is a candidate for a
// member under the shared location/salary settings. Manually entered plans
// never pass through here: they are always candidates.
package eligibility

import (
	"insurance-portal/internal/models"
	"insurance-portal/internal/ratetable"
)

// IsCandidate applies the location and salary-band rules to a table-sourced
// plan. All rules must pass. The same plan/member/settings combination always
// yields the same decision.
func IsCandidate(meta ratetable.PlanMetadata, member models.FamilyMember, settings models.SharedSettings) bool {
	isDubai := settings.Location == models.LocationDubai

	// Location rule: a Dubai-tagged plan needs location=Dubai, a
	// Northern-Emirates-tagged plan is excluded there. Untagged plans are
	// location-agnostic.
	if meta.DubaiTagged && !isDubai {
		return false
	}
	if meta.NorthernTagged && isDubai {
		return false
	}

	// Salary-band rule, only for salary-banded basic plan families.
	if meta.SalaryBanded {
		if member.Sponsorship == models.SponsorshipPrincipal {
			below := settings.SalaryCategory == models.SalaryBelow4000
			if below && meta.SalaryBand == ratetable.SalaryBandNonLow {
				return false
			}
			if !below && meta.SalaryBand == ratetable.SalaryBandLow {
				return false
			}
		} else if meta.PrincipalOnly {
			// Dependents use the dependent variants of the banded
			// families; plans sold to principals only are excluded.
			return false
		}
	}

	return true
}
