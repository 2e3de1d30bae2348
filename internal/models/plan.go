// internal/models/plan.go
package models

// PlanStatus is the advisor's marking of a plan in a comparison.
type PlanStatus string

const (
	StatusNone        PlanStatus = "none"
	StatusRenewal     PlanStatus = "renewal"
	StatusAlternative PlanStatus = "alternative"
	StatusRecommended PlanStatus = "recommended"
)

// ResolvedPlan is the output unit of a comparison run. The ID is the stable
// join point across the rate table, benefit resolution and both override
// scopes: `{provider}_{planNameInTable}` for table-sourced plans,
// `{providerKey}_{unixMillis}` for manually entered ones.
//
// NeedsManualRate with Premium == 0 marks a plan that exists for this
// provider but has no rate for this member's age. Such plans sort to the end
// of a ranked list and are excluded from min/avg/max aggregation.
type ResolvedPlan struct {
	ID              string     `json:"id"`
	Provider        string     `json:"provider"`
	PlanName        string     `json:"plan"`
	Network         string     `json:"network"`
	Copay           string     `json:"copay"`
	Premium         float64    `json:"premium"`
	Benefits        BenefitSet `json:"benefits"`
	PlanLocation    string     `json:"planLocation,omitempty"`
	SalaryCategory  string     `json:"salaryCategory,omitempty"`
	IsManual        bool       `json:"isManual,omitempty"`
	ProviderKey     string     `json:"providerKey,omitempty"`
	NeedsManualRate bool       `json:"needsManualRate"`
	Selected        bool       `json:"selected"`
	Status          PlanStatus `json:"status"`
}

// ManualPlanRecord is an ad-hoc plan entered by an advisor, shared across
// users. Each record carries its own embedded BenefitSet.
type ManualPlanRecord struct {
	ID       string      `json:"id"`
	Provider string      `json:"provider"`
	PlanName string      `json:"plan"`
	Network  string      `json:"network"`
	Copay    string      `json:"copay"`
	Premium  float64     `json:"premium"`
	Benefits *BenefitSet `json:"benefits,omitempty"`
}

// MemberResult is the per-member outcome of a search: the ranked candidate
// plans plus price statistics over the priced subset.
type MemberResult struct {
	Member     FamilyMember   `json:"member"`
	Age        int            `json:"age"`
	Comparison []ResolvedPlan `json:"comparison"`
	MinPrice   float64        `json:"minPrice"`
	MaxPrice   float64        `json:"maxPrice"`
	AvgPrice   float64        `json:"avgPrice"`
}

// ManualProvider is a catalog entry for manual plan entry.
type ManualProvider struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Networks []string `json:"networks"`
}
