// internal/overrides/merge.go

// Package overrides holds the three-way override layering: shared
// plan-identity edits, shared benefits edits and member-local premium edits.
package overrides

import (
	"strconv"

	"insurance-portal/internal/models"
)

// PlanEdit is a shared (cloud) edit of a plan's identity fields. Nil fields
// leave the base value untouched.
type PlanEdit struct {
	PlanName  *string `json:"plan,omitempty"`
	Network   *string `json:"network,omitempty"`
	Copay     *string `json:"copay,omitempty"`
	UpdatedAt string  `json:"_updatedAt,omitempty"`
}

// PremiumEdit is a member-scoped premium override.
type PremiumEdit struct {
	Premium float64 `json:"premium"`
}

// Snapshot is one consistent read of every override scope, applied uniformly
// to a whole search run. Local scopes are supplied by the caller (they live
// with the client), shared scopes come from the cloud store.
type Snapshot struct {
	PlanEdits     map[string]PlanEdit                  `json:"planEdits"`      // shared, by plan id
	Benefits      map[string]models.BenefitSet         `json:"benefits"`       // shared, by plan id or plan key
	LocalBenefits map[string]models.BenefitSet         `json:"localBenefits"`  // by plan id
	LocalPremiums map[string]PremiumEdit               `json:"localPremiums"`  // by PremiumKey
	ManualPlans   map[string][]models.ManualPlanRecord `json:"manualPlans"`    // shared, by provider key
}

// NewSnapshot returns an empty snapshot with all maps allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		PlanEdits:     map[string]PlanEdit{},
		Benefits:      map[string]models.BenefitSet{},
		LocalBenefits: map[string]models.BenefitSet{},
		LocalPremiums: map[string]PremiumEdit{},
		ManualPlans:   map[string][]models.ManualPlanRecord{},
	}
}

// PremiumKey builds the member-scoped key for premium overrides.
func PremiumKey(memberID int, planID string) string {
	return strconv.Itoa(memberID) + "_" + planID
}

// Merge overlays the snapshot onto a base plan for one member. Field
// ownership is the core invariant of the system: plan name, network, copay
// and benefits are plan-scoped and propagate to every member; the premium is
// member-scoped and must never leak between members.
func Merge(base models.ResolvedPlan, memberID int, snap *Snapshot) models.ResolvedPlan {
	if snap == nil {
		return base
	}

	result := base

	if edit, ok := snap.PlanEdits[base.ID]; ok {
		if edit.PlanName != nil && *edit.PlanName != "" {
			result.PlanName = *edit.PlanName
		}
		if edit.Network != nil && *edit.Network != "" {
			result.Network = *edit.Network
		}
		if edit.Copay != nil && *edit.Copay != "" {
			result.Copay = *edit.Copay
		}
	}

	if p, ok := snap.LocalPremiums[PremiumKey(memberID, base.ID)]; ok {
		result.Premium = p.Premium
	}

	if b, ok := snap.LocalBenefits[base.ID]; ok {
		result.Benefits = b
	} else if b, ok := snap.Benefits[base.ID]; ok {
		result.Benefits = b
	}

	return result
}
