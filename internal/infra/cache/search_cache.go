package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/siteseeker/backend/internal/entity"
)

// SearchCache guarda lotes de resultados de busca por par exato
// (keyword, location). Sem TTL: o envelhecimento é aceito de propósito,
// repetir a mesma busca deve ser barato.
type SearchCache struct {
	rdb *redis.Client
}

func NewSearchCache(rdb *redis.Client) *SearchCache {
	return &SearchCache{rdb: rdb}
}

func searchKey(keyword, location string) string {
	return "search:" + keyword + ":" + location
}

func (c *SearchCache) Get(ctx context.Context, keyword, location string) ([]entity.PlaceDetail, error) {
	if c.rdb == nil {
		return nil, nil
	}

	val, err := c.rdb.Get(ctx, searchKey(keyword, location)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var results []entity.PlaceDetail
	if err := json.Unmarshal([]byte(val), &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *SearchCache) Put(ctx context.Context, keyword, location string, results []entity.PlaceDetail) error {
	if c.rdb == nil {
		return nil
	}

	body, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, searchKey(keyword, location), body, 0).Err()
}
