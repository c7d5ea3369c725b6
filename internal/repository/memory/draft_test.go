package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/console/internal/cache"
	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/domain/override"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/repository/memory"
	"github.com/flexprice/console/internal/testutil"
	"github.com/flexprice/console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(id string) *draft.Draft {
	set := override.NewSet()
	set.Put(&override.PriceOverride{PriceID: "p1", Amount: "12.00"})
	return &draft.Draft{
		ID:         id,
		EntityType: types.DraftEntityTypeSubscription,
		PriceIDs:   []string{"p1"},
		Overrides:  set,
	}
}

func newRepo(ttl time.Duration) draft.Repository {
	return memory.NewDraftRepository(cache.NewInMemoryCache(ttl, time.Minute), ttl, logger.GetLogger())
}

func TestDraftRepository_Lifecycle(t *testing.T) {
	ctx := testutil.SetupContext()
	repo := newRepo(time.Hour)

	d := newDraft("draft_1")
	require.NoError(t, repo.Create(ctx, d))
	assert.False(t, d.ExpiresAt.IsZero())

	err := repo.Create(ctx, newDraft("draft_1"))
	require.Error(t, err)
	assert.True(t, ierr.IsAlreadyExists(err))

	got, err := repo.Get(ctx, "draft_1")
	require.NoError(t, err)
	o, ok := got.Overrides.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "12.00", o.Amount)

	// reads are copies, mutating one does not touch the stored draft
	got.Overrides.Delete("p1")
	again, err := repo.Get(ctx, "draft_1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Overrides.Len())

	again.Overrides.Put(&override.PriceOverride{PriceID: "p1", Amount: "15.00"})
	require.NoError(t, repo.Update(ctx, again))
	updated, err := repo.Get(ctx, "draft_1")
	require.NoError(t, err)
	o, _ = updated.Overrides.Get("p1")
	assert.Equal(t, "15.00", o.Amount)

	require.NoError(t, repo.Delete(ctx, "draft_1"))
	_, err = repo.Get(ctx, "draft_1")
	assert.True(t, ierr.IsNotFound(err))
	assert.True(t, ierr.IsNotFound(repo.Delete(ctx, "draft_1")))
}

func TestDraftRepository_UpdateUnknown(t *testing.T) {
	err := newRepo(time.Hour).Update(testutil.SetupContext(), newDraft("draft_missing"))
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestDraftRepository_ScopedByEnvironment(t *testing.T) {
	ctx := testutil.SetupContext()
	repo := newRepo(time.Hour)
	require.NoError(t, repo.Create(ctx, newDraft("draft_1")))

	other := types.SetEnvironmentID(ctx, "env_production")
	_, err := repo.Get(other, "draft_1")
	assert.True(t, ierr.IsNotFound(err))

	otherTenant := context.WithValue(ctx, types.CtxTenantID, "tenant_2")
	_, err = repo.Get(otherTenant, "draft_1")
	assert.True(t, ierr.IsNotFound(err))
}

func TestDraftRepository_Expiry(t *testing.T) {
	ctx := testutil.SetupContext()
	repo := newRepo(20 * time.Millisecond)
	require.NoError(t, repo.Create(ctx, newDraft("draft_1")))

	time.Sleep(40 * time.Millisecond)
	_, err := repo.Get(ctx, "draft_1")
	assert.True(t, ierr.IsNotFound(err))
}

func TestDraftRepository_CorruptEntry(t *testing.T) {
	ctx := testutil.SetupContext()
	c := cache.NewInMemoryCache(time.Hour, time.Minute)
	repo := memory.NewDraftRepository(c, time.Hour, logger.GetLogger())

	key := cache.GenerateKey(cache.PrefixDraft, types.GetTenantID(ctx), types.GetEnvironmentID(ctx), "draft_1")
	c.Set(ctx, key, newDraft("draft_1"), time.Hour)

	_, err := repo.Get(ctx, "draft_1")
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrSystem))

	c.Set(ctx, key, []byte("{"), time.Hour)
	_, err = repo.Get(ctx, "draft_1")
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrSystem))
}
