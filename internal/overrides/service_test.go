package overrides

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"insurance-portal/internal/common/logger"
	"insurance-portal/internal/models"
)

func createTestService(t *testing.T, store Store) *Service {
	t.Helper()
	return NewService(store, logger.NewZapAdapter(zaptest.NewLogger(t)))
}

// failingStore is a Store stub whose operations can be switched to fail.
type failingStore struct {
	snapshot *Snapshot
	failing  bool
}

var errStoreDown = errors.New("store down")

func (f *failingStore) LoadShared(ctx context.Context) (*Snapshot, error) {
	if f.failing {
		return nil, errStoreDown
	}
	return f.snapshot, nil
}

func (f *failingStore) SaveBenefits(ctx context.Context, planKey string, b models.BenefitSet) error {
	if f.failing {
		return errStoreDown
	}
	f.snapshot.Benefits[planKey] = b
	return nil
}

func (f *failingStore) SavePlanEdit(ctx context.Context, planID string, edit PlanEdit) error {
	if f.failing {
		return errStoreDown
	}
	f.snapshot.PlanEdits[planID] = edit
	return nil
}

func (f *failingStore) DeletePlanEdit(ctx context.Context, planID string) error {
	if f.failing {
		return errStoreDown
	}
	delete(f.snapshot.PlanEdits, planID)
	return nil
}

func (f *failingStore) SaveManualPlans(ctx context.Context, plans map[string][]models.ManualPlanRecord) error {
	if f.failing {
		return errStoreDown
	}
	f.snapshot.ManualPlans = plans
	return nil
}

func (f *failingStore) DeleteManualPlan(ctx context.Context, providerKey, planID string) error {
	if f.failing {
		return errStoreDown
	}
	return nil
}

// ==========================
// Degradation Tests
// ==========================

func TestService_SharedDegradesToMirrorOnReadFailure(t *testing.T) {
	store := &failingStore{snapshot: NewSnapshot()}
	store.snapshot.Benefits["KEY"] = models.BenefitSet{AnnualLimit: "AED 1M"}
	svc := createTestService(t, store)
	ctx := context.Background()

	// A successful read seeds the mirror.
	snap, warning := svc.Shared(ctx)
	assert.Empty(t, warning)
	assert.Equal(t, "AED 1M", snap.Benefits["KEY"].AnnualLimit)

	// The store goes down; the last known copy is served with a warning.
	store.failing = true
	snap, warning = svc.Shared(ctx)
	assert.NotEmpty(t, warning)
	assert.Equal(t, "AED 1M", snap.Benefits["KEY"].AnnualLimit)
}

func TestService_WriteFailureRetainsEditLocally(t *testing.T) {
	store := &failingStore{snapshot: NewSnapshot(), failing: true}
	svc := createTestService(t, store)
	ctx := context.Background()

	synced := svc.SaveBenefits(ctx, "KEY", models.BenefitSet{AnnualLimit: "edited"})
	assert.False(t, synced)

	// The edit survives in the mirror even though the cloud write failed.
	snap, warning := svc.Shared(ctx)
	assert.NotEmpty(t, warning)
	assert.Equal(t, "edited", snap.Benefits["KEY"].AnnualLimit)
}

func TestService_SuccessfulWriteReportsSynced(t *testing.T) {
	store := &failingStore{snapshot: NewSnapshot()}
	svc := createTestService(t, store)
	ctx := context.Background()

	name := "Renamed"
	assert.True(t, svc.SavePlanEdit(ctx, "PLAN", PlanEdit{PlanName: &name}))
	assert.True(t, svc.DeletePlanEdit(ctx, "PLAN"))
	assert.True(t, svc.SaveManualPlans(ctx, map[string][]models.ManualPlanRecord{}))
	assert.True(t, svc.SaveBenefits(ctx, "KEY", models.BenefitSet{}))
}

func TestService_SnapshotsAreIsolatedCopies(t *testing.T) {
	store := &failingStore{snapshot: NewSnapshot()}
	store.snapshot.Benefits["KEY"] = models.BenefitSet{AnnualLimit: "original"}
	svc := createTestService(t, store)
	ctx := context.Background()

	snap, _ := svc.Shared(ctx)
	snap.Benefits["KEY"] = models.BenefitSet{AnnualLimit: "mutated"}

	store.failing = true // force the next read through the mirror
	again, _ := svc.Shared(ctx)
	assert.Equal(t, "original", again.Benefits["KEY"].AnnualLimit)
}

// ==========================
// Redis Failure Wiring
// ==========================

// End to end through the real Redis store with a mocked connection.
func TestService_RedisConnectionFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, logger.NewZapAdapter(zaptest.NewLogger(t)))
	svc := createTestService(t, store)
	ctx := context.Background()

	mock.ExpectHGetAll("benefits").SetErr(errors.New("connection refused"))

	snap, warning := svc.Shared(ctx)
	require.NotNil(t, snap)
	assert.NotEmpty(t, warning)
	assert.Empty(t, snap.Benefits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
