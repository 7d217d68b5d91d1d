package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/siteseeker/backend/internal/entity"
)

const mirrorKey = "leads:snapshot"

// LeadMirror espelha a coleção completa de leads em ordem de inserção,
// para leitura instantânea quando o banco estiver fora. Refeito inteiro
// a cada mutação no store.
type LeadMirror struct {
	rdb *redis.Client
}

func NewLeadMirror(rdb *redis.Client) *LeadMirror {
	return &LeadMirror{rdb: rdb}
}

func (m *LeadMirror) Refresh(ctx context.Context, leads []*entity.Lead) error {
	if m.rdb == nil {
		return nil
	}

	body, err := json.Marshal(leads)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, mirrorKey, body, 0).Err()
}

func (m *LeadMirror) Load(ctx context.Context) ([]*entity.Lead, error) {
	if m.rdb == nil {
		return nil, errors.New("espelho não configurado")
	}

	val, err := m.rdb.Get(ctx, mirrorKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*entity.Lead{}, nil
		}
		return nil, err
	}

	var leads []*entity.Lead
	if err := json.Unmarshal([]byte(val), &leads); err != nil {
		return nil, err
	}
	return leads, nil
}
