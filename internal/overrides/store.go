// internal/overrides/store.go
package overrides

import (
	"context"

	"insurance-portal/internal/models"
)

// Store is the shared-scope persistence boundary. Every operation may fail
// (network/storage unavailable); callers degrade per the failure semantics:
// read failures fall back to base data, write failures keep the edit in the
// local scope and surface a warning.
type Store interface {
	// LoadShared returns the shared plan edits, shared benefits edits and
	// manual plans in one snapshot read.
	LoadShared(ctx context.Context) (*Snapshot, error)

	// SaveBenefits upserts one benefits record, keyed by plan id or
	// `{provider}_{planName}`.
	SaveBenefits(ctx context.Context, planKey string, b models.BenefitSet) error

	// SavePlanEdit upserts one plan-identity edit (one blob per plan id).
	SavePlanEdit(ctx context.Context, planID string, edit PlanEdit) error

	// DeletePlanEdit removes a plan-identity edit.
	DeletePlanEdit(ctx context.Context, planID string) error

	// SaveManualPlans replaces the whole manual-plan aggregate.
	SaveManualPlans(ctx context.Context, plans map[string][]models.ManualPlanRecord) error

	// DeleteManualPlan removes one record from a provider's slice.
	DeleteManualPlan(ctx context.Context, providerKey, planID string) error
}
