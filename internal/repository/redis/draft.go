package redis

import (
	"context"
	"time"

	"github.com/flexprice/console/internal/cache"
	domainDraft "github.com/flexprice/console/internal/domain/draft"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type draftRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger
}

// NewDraftRepository keeps drafts in redis so every console replica sees them.
// Each write pushes the key expiry out by ttl.
func NewDraftRepository(client redis.UniversalClient, ttl time.Duration, log *logger.Logger) domainDraft.Repository {
	return &draftRepository{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (r *draftRepository) Create(ctx context.Context, d *domainDraft.Draft) error {
	data, err := r.encode(d)
	if err != nil {
		return err
	}

	r.log.Debugw("creating draft", "draft_id", d.ID, "tenant_id", types.GetTenantID(ctx))

	created, err := r.client.SetNX(ctx, r.key(ctx, d.ID), data, r.ttl).Result()
	if err != nil {
		return storeError(err)
	}
	if !created {
		return ierr.NewError("draft already exists").
			WithHint("A draft with this id already exists").
			WithReportableDetails(map[string]any{
				"draft_id": d.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (r *draftRepository) Get(ctx context.Context, id string) (*domainDraft.Draft, error) {
	data, err := r.client.Get(ctx, r.key(ctx, id)).Bytes()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeError(err)
	}

	var d domainDraft.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the draft").
			Mark(ierr.ErrSystem)
	}
	return &d, nil
}

func (r *draftRepository) Update(ctx context.Context, d *domainDraft.Draft) error {
	data, err := r.encode(d)
	if err != nil {
		return err
	}

	r.log.Debugw("updating draft", "draft_id", d.ID, "overrides", d.Overrides.Len())

	// XX only writes a key that still exists, an expired draft stays gone
	ok, err := r.client.SetXX(ctx, r.key(ctx, d.ID), data, r.ttl).Result()
	if err != nil {
		return storeError(err)
	}
	if !ok {
		return notFound(d.ID)
	}
	return nil
}

func (r *draftRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.key(ctx, id)).Result()
	if err != nil {
		return storeError(err)
	}
	if n == 0 {
		return notFound(id)
	}

	r.log.Debugw("deleted draft", "draft_id", id)
	return nil
}

func (r *draftRepository) encode(d *domainDraft.Draft) ([]byte, error) {
	d.ExpiresAt = time.Now().UTC().Add(r.ttl)
	data, err := json.Marshal(d)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to store the draft").
			Mark(ierr.ErrSystem)
	}
	return data, nil
}

func (r *draftRepository) key(ctx context.Context, id string) string {
	return cache.GenerateKey(cache.PrefixDraft, types.GetTenantID(ctx), types.GetEnvironmentID(ctx), id)
}

func storeError(err error) error {
	return ierr.WithError(err).
		WithHint("The draft store is unavailable, please retry").
		Mark(ierr.ErrSystem)
}

func notFound(id string) error {
	return ierr.NewError("draft not found").
		WithHint("The draft was not found or has expired").
		WithReportableDetails(map[string]any{
			"draft_id": id,
		}).
		Mark(ierr.ErrNotFound)
}
