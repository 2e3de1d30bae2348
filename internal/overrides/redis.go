// internal/overrides/redis.go
package overrides

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "insurance-portal/internal/common/errors"
	"insurance-portal/internal/common/logger"
	"insurance-portal/internal/models"

	"github.com/redis/go-redis/v9"
)

// Collection names, mirroring the blob-store resources.
const (
	benefitsKey       = "benefits"     // hash: planKey -> benefits JSON
	manualPlansKey    = "manual-plans" // string: aggregate JSON blob
	planEditPrefix    = "plan-edits:"  // one key per plan id
	legacyEditPrefix  = "PLAN_EDIT_"   // plan edits stored inside the benefits collection
	updatedAtField    = "_updatedAt"
)

// RedisStore persists the shared override scopes in Redis.
type RedisStore struct {
	client *redis.Client
	log    logger.Logger
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		log:    log.WithFields(map[string]interface{}{"component": "override-store"}),
		now:    time.Now,
	}
}

// LoadShared reads all shared scopes. Malformed entries are discarded with a
// warning rather than failing the whole read.
func (s *RedisStore) LoadShared(ctx context.Context) (*Snapshot, error) {
	snap := NewSnapshot()

	entries, err := s.client.HGetAll(ctx, benefitsKey).Result()
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(fmt.Errorf("load benefits: %w", err))
	}
	for key, raw := range entries {
		// Plan-identity edits share the benefits collection under a
		// reserved prefix.
		if planID, ok := strings.CutPrefix(key, legacyEditPrefix); ok {
			var edit PlanEdit
			if err := json.Unmarshal([]byte(raw), &edit); err != nil {
				s.discard(key, err)
				continue
			}
			snap.PlanEdits[planID] = edit
			continue
		}
		var b models.BenefitSet
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			s.discard(key, err)
			continue
		}
		snap.Benefits[key] = b
	}

	if err := s.loadPlanEdits(ctx, snap); err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, manualPlansKey).Result()
	if err != nil && err != redis.Nil {
		return nil, apperrors.NewStoreUnavailableError(fmt.Errorf("load manual plans: %w", err))
	}
	if err == nil && raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.ManualPlans); err != nil {
			s.discard(manualPlansKey, err)
			snap.ManualPlans = map[string][]models.ManualPlanRecord{}
		}
	}

	return snap, nil
}

func (s *RedisStore) loadPlanEdits(ctx context.Context, snap *Snapshot) error {
	iter := s.client.Scan(ctx, 0, planEditPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return apperrors.NewStoreUnavailableError(fmt.Errorf("load plan edit %s: %w", key, err))
		}
		var edit PlanEdit
		if err := json.Unmarshal([]byte(raw), &edit); err != nil {
			s.discard(key, err)
			continue
		}
		snap.PlanEdits[strings.TrimPrefix(key, planEditPrefix)] = edit
	}
	if err := iter.Err(); err != nil {
		return apperrors.NewStoreUnavailableError(fmt.Errorf("scan plan edits: %w", err))
	}
	return nil
}

func (s *RedisStore) SaveBenefits(ctx context.Context, planKey string, b models.BenefitSet) error {
	raw, err := stamp(b, s.now())
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, benefitsKey, planKey, raw).Err(); err != nil {
		return apperrors.NewStoreWriteFailedError(fmt.Errorf("save benefits %s: %w", planKey, err))
	}
	return nil
}

func (s *RedisStore) SavePlanEdit(ctx context.Context, planID string, edit PlanEdit) error {
	edit.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	raw, err := json.Marshal(edit)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, planEditPrefix+planID, raw, 0).Err(); err != nil {
		return apperrors.NewStoreWriteFailedError(fmt.Errorf("save plan edit %s: %w", planID, err))
	}
	return nil
}

func (s *RedisStore) DeletePlanEdit(ctx context.Context, planID string) error {
	if err := s.client.Del(ctx, planEditPrefix+planID).Err(); err != nil {
		return apperrors.NewStoreWriteFailedError(fmt.Errorf("delete plan edit %s: %w", planID, err))
	}
	return nil
}

func (s *RedisStore) SaveManualPlans(ctx context.Context, plans map[string][]models.ManualPlanRecord) error {
	raw, err := json.Marshal(plans)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, manualPlansKey, raw, 0).Err(); err != nil {
		return apperrors.NewStoreWriteFailedError(fmt.Errorf("save manual plans: %w", err))
	}
	return nil
}

func (s *RedisStore) DeleteManualPlan(ctx context.Context, providerKey, planID string) error {
	raw, err := s.client.Get(ctx, manualPlansKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return apperrors.NewStoreUnavailableError(fmt.Errorf("load manual plans: %w", err))
	}

	var plans map[string][]models.ManualPlanRecord
	if err := json.Unmarshal([]byte(raw), &plans); err != nil {
		s.discard(manualPlansKey, err)
		return nil
	}

	records, ok := plans[providerKey]
	if !ok {
		return nil
	}
	kept := records[:0]
	for _, r := range records {
		if r.ID != planID {
			kept = append(kept, r)
		}
	}
	plans[providerKey] = kept

	return s.SaveManualPlans(ctx, plans)
}

// discard logs a corrupted stored entry; the rest of the collection is kept.
func (s *RedisStore) discard(key string, err error) {
	e := apperrors.NewMalformedRecordError(key, err)
	s.log.Warn(e.Message, map[string]interface{}{
		"code":    string(e.Code),
		"details": e.Details,
	})
}

// stamp serializes v with an `_updatedAt` RFC3339 field attached for
// auditability. The field is not part of the Go types, so it is naturally
// stripped when the record is read back.
func stamp(v interface{}, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m[updatedAtField] = now.UTC().Format(time.RFC3339)
	return json.Marshal(m)
}
