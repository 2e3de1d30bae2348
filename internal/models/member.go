// internal/models/member.go
package models

// Gender of a family member. The rate table indexes premiums by "M"/"F".
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// RateKey returns the rate-table gender column for this gender.
func (g Gender) RateKey() string {
	if g == GenderMale {
		return "M"
	}
	return "F"
}

// Sponsorship describes who sponsors the member's policy.
type Sponsorship string

const (
	SponsorshipPrincipal Sponsorship = "Principal"
	SponsorshipHusband   Sponsorship = "Husband"
	SponsorshipWife      Sponsorship = "Wife"
	SponsorshipFather    Sponsorship = "Father"
	SponsorshipMother    Sponsorship = "Mother"
	SponsorshipDependent Sponsorship = "Dependent"
)

// FamilyMember is one person in the comparison. Relationship is derived from
// age and sponsorship and must be recomputed whenever either changes.
type FamilyMember struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	DOB              string      `json:"dob"` // YYYY-MM-DD
	Gender           Gender      `json:"gender"`
	Sponsorship      Sponsorship `json:"sponsorship"`
	Relationship     string      `json:"relationship,omitempty"`
	MaternityEnabled bool        `json:"maternityEnabled"`
}

// Locations recognized by the eligibility rules.
const (
	LocationDubai            = "Dubai"
	LocationNorthernEmirates = "Northern Emirates"
)

// Salary categories for basic-plan banding.
const (
	SalaryBelow4000 = "below4000"
	SalaryAbove4000 = "above4000"
)

// SharedSettings apply to every member of a search simultaneously.
type SharedSettings struct {
	Location       string `json:"location"`
	SalaryCategory string `json:"salaryCategory"`
}
