package usecase

import (
	"context"

	"github.com/siteseeker/backend/internal/entity"
	"github.com/siteseeker/backend/internal/infra/queue"
)

// PlacesClientInterface é o contrato do buscador externo de lugares.
// As duas chamadas podem falhar por transporte; a de busca textual pode
// ainda falhar com places.ErrProxyBlocked quando passa pelo relay.
type PlacesClientInterface interface {
	TextSearch(ctx context.Context, query string) ([]entity.PlaceSummary, error)
	PlaceDetails(ctx context.Context, placeID string) (*entity.PlaceDetail, error)
}

// SearchCacheInterface guarda lotes de resultados por par exato
// (keyword, location). Nunca expira: ficar desatualizado é aceito.
type SearchCacheInterface interface {
	Get(ctx context.Context, keyword, location string) ([]entity.PlaceDetail, error)
	Put(ctx context.Context, keyword, location string, results []entity.PlaceDetail) error
}

// LeadMirrorInterface espelha a coleção completa de leads para leitura
// rápida/offline; atualizado a cada mutação no store.
type LeadMirrorInterface interface {
	Refresh(ctx context.Context, leads []*entity.Lead) error
	Load(ctx context.Context) ([]*entity.Lead, error)
}

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}
