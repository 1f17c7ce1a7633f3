package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types/catalog"
)

// Cache key patterns
const (
	CatalogPattern  = "catalog:*"
	MakersKey       = "catalog:makers"
	MakerKey        = "catalog:maker:%d"  // catalog:maker:makerID
	ModelsKey       = "catalog:models:%d" // catalog:models:makerID
	CatalogDuration = 10 * time.Minute
)

// CatalogCache wraps catalog storage with Redis caching. Reads are served
// from Redis when possible; writes go to storage and drop every catalog key.
type CatalogCache struct {
	storage storage.Catalog
	redis   *redis.Client
	ttl     time.Duration
}

var _ storage.Catalog = (*CatalogCache)(nil)

func NewCatalogCache(storage storage.Catalog, redisClient *redis.Client) *CatalogCache {
	return &CatalogCache{
		storage: storage,
		redis:   redisClient,
		ttl:     CatalogDuration,
	}
}

// cached returns the value stored under key, or loads it, stores it and
// returns it. Redis failures fall through to load.
func cached[T any](ctx context.Context, c *CatalogCache, key string, load func() (T, error)) (T, error) {
	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
	} else if err != redis.Nil {
		slog.Warn("Catalog cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Warn("Catalog cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return v, nil
}

// InvalidateCatalog deletes every catalog key.
func (c *CatalogCache) InvalidateCatalog(ctx context.Context) {
	iter := c.redis.Scan(ctx, 0, CatalogPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("Catalog cache scan failed", slog.String("error", err.Error()))
		return
	}
	if len(keys) > 0 {
		c.redis.Del(ctx, keys...)
	}
}

func (c *CatalogCache) ListMakersWithModels(ctx context.Context) ([]catalog.Maker, error) {
	return cached(ctx, c, MakersKey, func() ([]catalog.Maker, error) {
		return c.storage.ListMakersWithModels(ctx)
	})
}

func (c *CatalogCache) GetMakerByID(ctx context.Context, id int64) (catalog.Maker, error) {
	return cached(ctx, c, fmt.Sprintf(MakerKey, id), func() (catalog.Maker, error) {
		return c.storage.GetMakerByID(ctx, id)
	})
}

func (c *CatalogCache) ListModelsWithTrims(ctx context.Context, makerID int64) ([]catalog.Model, error) {
	return cached(ctx, c, fmt.Sprintf(ModelsKey, makerID), func() ([]catalog.Model, error) {
		return c.storage.ListModelsWithTrims(ctx, makerID)
	})
}

func (c *CatalogCache) CreateMaker(ctx context.Context, name string) (catalog.Maker, error) {
	maker, err := c.storage.CreateMaker(ctx, name)
	if err != nil {
		return maker, err
	}
	c.InvalidateCatalog(ctx)
	return maker, nil
}

func (c *CatalogCache) CreateModel(ctx context.Context, makerID int64, name string) (catalog.Model, error) {
	model, err := c.storage.CreateModel(ctx, makerID, name)
	if err != nil {
		return model, err
	}
	c.InvalidateCatalog(ctx)
	return model, nil
}

func (c *CatalogCache) MakerExistsByName(ctx context.Context, name string) (bool, error) {
	return c.storage.MakerExistsByName(ctx, name)
}

func (c *CatalogCache) ModelExistsByNameAndMaker(ctx context.Context, name string, makerID int64) (bool, error) {
	return c.storage.ModelExistsByNameAndMaker(ctx, name, makerID)
}

func (c *CatalogCache) GetModelByNames(ctx context.Context, makerName, modelName string) (catalog.Model, error) {
	return c.storage.GetModelByNames(ctx, makerName, modelName)
}

func (c *CatalogCache) CountMakers(ctx context.Context) (int, error) {
	return c.storage.CountMakers(ctx)
}
