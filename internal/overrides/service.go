// internal/overrides/service.go
package overrides

import (
	"context"
	"sync"

	apperrors "insurance-portal/internal/common/errors"
	"insurance-portal/internal/common/logger"
	"insurance-portal/internal/common/metrics"
	"insurance-portal/internal/models"
)

// Service layers an in-memory mirror over the cloud store. Reads degrade to
// the last known mirror when the store is unreachable; writes land in the
// mirror first so an edit survives a failed cloud sync and the caller can
// tell the user the change was kept locally only.
type Service struct {
	store Store
	log   logger.Logger

	mu     sync.RWMutex
	mirror *Snapshot
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{
		store:  store,
		log:    log.WithFields(map[string]interface{}{"component": "overrides"}),
		mirror: NewSnapshot(),
	}
}

// Shared returns the current shared-scope snapshot. The second return is a
// non-fatal warning when the store was unreachable and the last known local
// copy was used instead.
func (s *Service) Shared(ctx context.Context) (*Snapshot, string) {
	snap, err := s.store.LoadShared(ctx)
	if err != nil {
		metrics.StoreFailures.WithLabelValues("load").Inc()
		s.log.Warn("override store read failed, degrading to local copy", map[string]interface{}{
			"error":     err.Error(),
			"code":      string(apperrors.CodeOf(err)),
			"retryable": apperrors.IsRetryable(err),
		})
		return s.mirrorCopy(), "override store unavailable, showing base plan data"
	}

	s.mu.Lock()
	s.mirror = snap
	s.mu.Unlock()
	return s.copyOf(snap), ""
}

// SaveBenefits stores a benefits edit. Returns false when the cloud write
// failed and the edit was retained locally only.
func (s *Service) SaveBenefits(ctx context.Context, planKey string, b models.BenefitSet) bool {
	s.mu.Lock()
	s.mirror.Benefits[planKey] = b
	s.mu.Unlock()

	if err := s.store.SaveBenefits(ctx, planKey, b); err != nil {
		metrics.StoreFailures.WithLabelValues("save-benefits").Inc()
		s.log.Warn("cloud sync failed, benefits edit kept locally", map[string]interface{}{
			"planKey":   planKey,
			"error":     err.Error(),
			"code":      string(apperrors.CodeOf(err)),
			"retryable": apperrors.IsRetryable(err),
		})
		return false
	}
	return true
}

// SavePlanEdit stores a plan-identity edit (name/network/copay).
func (s *Service) SavePlanEdit(ctx context.Context, planID string, edit PlanEdit) bool {
	s.mu.Lock()
	s.mirror.PlanEdits[planID] = edit
	s.mu.Unlock()

	if err := s.store.SavePlanEdit(ctx, planID, edit); err != nil {
		metrics.StoreFailures.WithLabelValues("save-plan-edit").Inc()
		s.log.Warn("cloud sync failed, plan edit kept locally", map[string]interface{}{
			"planId": planID,
			"error":  err.Error(),
		})
		return false
	}
	return true
}

// DeletePlanEdit removes a plan-identity edit from both scopes.
func (s *Service) DeletePlanEdit(ctx context.Context, planID string) bool {
	s.mu.Lock()
	delete(s.mirror.PlanEdits, planID)
	s.mu.Unlock()

	if err := s.store.DeletePlanEdit(ctx, planID); err != nil {
		metrics.StoreFailures.WithLabelValues("delete-plan-edit").Inc()
		s.log.Warn("cloud sync failed, plan edit removed locally only", map[string]interface{}{
			"planId": planID,
			"error":  err.Error(),
		})
		return false
	}
	return true
}

// SaveManualPlans replaces the manual-plan aggregate.
func (s *Service) SaveManualPlans(ctx context.Context, plans map[string][]models.ManualPlanRecord) bool {
	s.mu.Lock()
	s.mirror.ManualPlans = plans
	s.mu.Unlock()

	if err := s.store.SaveManualPlans(ctx, plans); err != nil {
		metrics.StoreFailures.WithLabelValues("save-manual-plans").Inc()
		s.log.Warn("cloud sync failed, manual plans kept locally", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return true
}

// DeleteManualPlan removes one manual plan record.
func (s *Service) DeleteManualPlan(ctx context.Context, providerKey, planID string) bool {
	s.mu.Lock()
	if records, ok := s.mirror.ManualPlans[providerKey]; ok {
		kept := make([]models.ManualPlanRecord, 0, len(records))
		for _, r := range records {
			if r.ID != planID {
				kept = append(kept, r)
			}
		}
		s.mirror.ManualPlans[providerKey] = kept
	}
	s.mu.Unlock()

	if err := s.store.DeleteManualPlan(ctx, providerKey, planID); err != nil {
		metrics.StoreFailures.WithLabelValues("delete-manual-plan").Inc()
		s.log.Warn("cloud sync failed, manual plan removed locally only", map[string]interface{}{
			"providerKey": providerKey,
			"planId":      planID,
			"error":       err.Error(),
		})
		return false
	}
	return true
}

func (s *Service) mirrorCopy() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyOf(s.mirror)
}

// copyOf clones the shared scopes so callers can't mutate the mirror.
func (s *Service) copyOf(snap *Snapshot) *Snapshot {
	out := NewSnapshot()
	for k, v := range snap.PlanEdits {
		out.PlanEdits[k] = v
	}
	for k, v := range snap.Benefits {
		out.Benefits[k] = v
	}
	for k, v := range snap.ManualPlans {
		records := make([]models.ManualPlanRecord, len(v))
		copy(records, v)
		out.ManualPlans[k] = records
	}
	return out
}
