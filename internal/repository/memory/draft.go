package memory

import (
	"context"
	"time"

	"github.com/flexprice/console/internal/cache"
	domainDraft "github.com/flexprice/console/internal/domain/draft"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type draftRepository struct {
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewDraftRepository keeps drafts in process. Drafts are stored encoded so
// that no two requests ever share a draft value.
func NewDraftRepository(c cache.Cache, ttl time.Duration, log *logger.Logger) domainDraft.Repository {
	return &draftRepository{
		cache: c,
		ttl:   ttl,
		log:   log,
	}
}

func (r *draftRepository) Create(ctx context.Context, d *domainDraft.Draft) error {
	key := r.key(ctx, d.ID)
	if _, found := r.cache.Get(ctx, key); found {
		return ierr.NewError("draft already exists").
			WithHint("A draft with this id already exists").
			WithReportableDetails(map[string]any{
				"draft_id": d.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	r.log.Debugw("creating draft", "draft_id", d.ID, "tenant_id", types.GetTenantID(ctx))
	return r.put(ctx, key, d)
}

func (r *draftRepository) Get(ctx context.Context, id string) (*domainDraft.Draft, error) {
	value, found := r.cache.Get(ctx, r.key(ctx, id))
	if !found {
		return nil, notFound(id)
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, ierr.NewError("unexpected draft value in cache").
			WithHint("Failed to read the draft").
			WithReportableDetails(map[string]any{
				"draft_id": id,
			}).
			Mark(ierr.ErrSystem)
	}

	var d domainDraft.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the draft").
			Mark(ierr.ErrSystem)
	}
	if d.IsExpired(time.Now().UTC()) {
		return nil, notFound(id)
	}
	return &d, nil
}

func (r *draftRepository) Update(ctx context.Context, d *domainDraft.Draft) error {
	key := r.key(ctx, d.ID)
	if _, found := r.cache.Get(ctx, key); !found {
		return notFound(d.ID)
	}

	r.log.Debugw("updating draft", "draft_id", d.ID, "overrides", d.Overrides.Len())
	return r.put(ctx, key, d)
}

func (r *draftRepository) Delete(ctx context.Context, id string) error {
	key := r.key(ctx, id)
	if _, found := r.cache.Get(ctx, key); !found {
		return notFound(id)
	}

	r.log.Debugw("deleting draft", "draft_id", id)
	r.cache.Delete(ctx, key)
	return nil
}

// put stores the draft and extends its expiry by the ttl
func (r *draftRepository) put(ctx context.Context, key string, d *domainDraft.Draft) error {
	d.ExpiresAt = time.Now().UTC().Add(r.ttl)

	data, err := json.Marshal(d)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to store the draft").
			Mark(ierr.ErrSystem)
	}
	r.cache.Set(ctx, key, data, r.ttl)
	return nil
}

func (r *draftRepository) key(ctx context.Context, id string) string {
	return cache.GenerateKey(cache.PrefixDraft, types.GetTenantID(ctx), types.GetEnvironmentID(ctx), id)
}

func notFound(id string) error {
	return ierr.NewError("draft not found").
		WithHint("The draft was not found or has expired").
		WithReportableDetails(map[string]any{
			"draft_id": id,
		}).
		Mark(ierr.ErrNotFound)
}
