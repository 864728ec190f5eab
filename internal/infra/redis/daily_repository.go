package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/domain"
)

// CatalogLoader fetches the question bank from a backing store (built-in, file, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// DailyRepository caches daily sets in Redis and falls back to selecting from
// the catalog on a cache miss. Sets are stored as JSON: SET daily:{date} {set}.
type DailyRepository struct {
	client   *redis.Client
	loader   CatalogLoader
	selector app.Selector
	ttl      time.Duration
	logger   zerolog.Logger
	sf       singleflight.Group
}

func NewDailyRepository(client *redis.Client, loader CatalogLoader, selector app.Selector, ttl time.Duration, logger zerolog.Logger) *DailyRepository {
	return &DailyRepository{
		client:   client,
		loader:   loader,
		selector: selector,
		ttl:      ttl,
		logger:   logger,
	}
}

func (r *DailyRepository) GetDaily(ctx context.Context, day domain.Day) (domain.DailyQuestionSet, error) {
	key := r.key(day)
	if set, ok := r.cached(ctx, key); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.cached(ctx, key); ok {
			return set, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.DailyQuestionSet{}, err
		}
		set := r.selector.Select(day, catalog)

		data, err := json.Marshal(set)
		if err != nil {
			return domain.DailyQuestionSet{}, err
		}
		// Cache writes are best effort; the set is recomputable from the date.
		if err := r.client.Set(ctx, key, data, r.ttlWithJitter()).Err(); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("cache daily set")
		}
		return set, nil
	})
	if err != nil {
		return domain.DailyQuestionSet{}, err
	}
	return result.(domain.DailyQuestionSet), nil
}

func (r *DailyRepository) cached(ctx context.Context, key string) (domain.DailyQuestionSet, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("read cached daily set")
		}
		return domain.DailyQuestionSet{}, false
	}
	var set domain.DailyQuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("decode cached daily set")
		return domain.DailyQuestionSet{}, false
	}
	return set, true
}

func (r *DailyRepository) key(day domain.Day) string {
	return "wizkid:daily:" + day.String()
}

func (r *DailyRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
