package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"signparty-service/internal/domain"
)

// CatalogLoader fetches sign catalogs from a backing store.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, catalogID string) ([]domain.SignEntry, error)
}

// CatalogRepository caches whole catalogs as JSON blobs in Redis and
// falls back to the loader on a miss.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) ([]domain.SignEntry, error) {
	key := r.key(catalogID)

	if signs, ok := r.fromCache(ctx, key); ok {
		return signs, nil
	}

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if signs, ok := r.fromCache(ctx, key); ok {
			return signs, nil
		}

		signs, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(signs)
		if err != nil {
			return nil, fmt.Errorf("marshal catalog: %w", err)
		}
		// best-effort cache fill
		_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		return signs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.SignEntry), nil
}

func (r *CatalogRepository) fromCache(ctx context.Context, key string) ([]domain.SignEntry, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var signs []domain.SignEntry
	if err := json.Unmarshal(data, &signs); err != nil {
		return nil, false
	}
	return signs, true
}

func (r *CatalogRepository) key(catalogID string) string {
	return "signparty:catalog:" + catalogID
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
