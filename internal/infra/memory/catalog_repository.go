package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"signparty-service/internal/domain"
)

// CatalogLoader fetches sign catalogs from a backing store.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, catalogID string) ([]domain.SignEntry, error)
}

// CatalogRepository caches catalogs with TTL to avoid repeated loads.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedCatalog
}

type cachedCatalog struct {
	signs     []domain.SignEntry
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedCatalog),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) ([]domain.SignEntry, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[catalogID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.signs, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[catalogID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.signs, nil
		}
		r.mu.RUnlock()

		signs, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[catalogID] = cachedCatalog{
			signs:     signs,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return signs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.SignEntry), nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader serves catalogs from an in-memory map; the
// compiled-in sign table goes through this.
type StaticCatalogLoader struct {
	catalogs map[string][]domain.SignEntry
}

func NewStaticCatalogLoader(catalogs map[string][]domain.SignEntry) *StaticCatalogLoader {
	return &StaticCatalogLoader{catalogs: catalogs}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context, catalogID string) ([]domain.SignEntry, error) {
	if signs, ok := l.catalogs[catalogID]; ok {
		return signs, nil
	}
	return nil, domain.ErrCatalogNotFound
}
