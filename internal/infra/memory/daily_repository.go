package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/domain"
)

// CatalogLoader fetches the question bank from a backing store (built-in, file, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// DailyRepository caches daily question sets by date with TTL so the selection
// runs once per day instead of on every render.
type DailyRepository struct {
	loader   CatalogLoader
	selector app.Selector
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group
	rnd      *rand.Rand

	mu    sync.RWMutex
	cache map[domain.Day]cachedSet
}

type cachedSet struct {
	set       domain.DailyQuestionSet
	expiresAt time.Time
}

func NewDailyRepository(loader CatalogLoader, selector app.Selector, ttl time.Duration) *DailyRepository {
	return &DailyRepository{
		loader:   loader,
		selector: selector,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:    make(map[domain.Day]cachedSet),
	}
}

func (r *DailyRepository) GetDaily(ctx context.Context, day domain.Day) (domain.DailyQuestionSet, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[day]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.set, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(day.String(), func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[day]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.set, nil
		}
		r.mu.RUnlock()

		catalog, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return domain.DailyQuestionSet{}, err
		}
		set := r.selector.Select(day, catalog)

		r.mu.Lock()
		r.evictExpiredLocked(now)
		r.cache[day] = cachedSet{
			set:       set,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.DailyQuestionSet{}, err
	}
	return result.(domain.DailyQuestionSet), nil
}

func (r *DailyRepository) evictExpiredLocked(now time.Time) {
	for day, entry := range r.cache {
		if !entry.expiresAt.After(now) {
			delete(r.cache, day)
		}
	}
}

func (r *DailyRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader is a simple loader backed by an in-memory catalog (built-in bank, tests).
type StaticCatalogLoader struct {
	catalog domain.Catalog
}

func NewStaticCatalogLoader(catalog domain.Catalog) *StaticCatalogLoader {
	return &StaticCatalogLoader{catalog: catalog}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	if l.catalog.Size() == 0 {
		return nil, domain.ErrCatalogNotFound
	}
	return l.catalog, nil
}
