package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/siteseeker/backend/internal/config"
	"github.com/siteseeker/backend/internal/entity"
	"github.com/siteseeker/backend/internal/infra/integration/places"
	"github.com/siteseeker/backend/internal/infra/queue"
)

// MaxLeadsPerSearch é o teto de chamadas de detalhe por busca.
const MaxLeadsPerSearch = 5

type ResolveLeadsUseCase struct {
	Repo     entity.LeadRepositoryInterface
	Cache    SearchCacheInterface
	Places   PlacesClientInterface
	Producer QueueProducerInterface
	Mirror   LeadMirrorInterface
}

func NewResolveLeadsUseCase(
	repo entity.LeadRepositoryInterface,
	cache SearchCacheInterface,
	placesClient PlacesClientInterface,
	producer QueueProducerInterface,
	mirror LeadMirrorInterface,
) *ResolveLeadsUseCase {
	return &ResolveLeadsUseCase{
		Repo:     repo,
		Cache:    cache,
		Places:   placesClient,
		Producer: producer,
		Mirror:   mirror,
	}
}

type ResolveLeadsInput struct {
	Keyword    string
	Location   string
	Session    *Session
	ForceFresh bool
}

type ResolveLeadsOutput struct {
	Added int            `json:"added"`
	Leads []*entity.Lead `json:"leads"`

	FromCache bool `json:"from_cache"`
	Widened   bool `json:"widened"`
	// LowConfidence indica que o filtro de localização zerou os
	// resultados e a lista sem filtro foi usada no lugar.
	LowConfidence bool `json:"low_confidence"`
}

// Execute transforma uma busca (keyword, location) em leads novos e não
// duplicados, gastando o mínimo de chamadas externas:
//
//	cache -> busca textual -> filtro de localização -> filtro de novidade
//	-> corte em 5 -> detalhes -> conversão -> checagem de duplicado -> insert
//
// Se nada novo sobrar, amplia uma única vez com location vazia; se a
// ampliada também não trouxer nada, devolve SEARCH_EXHAUSTED.
func (uc *ResolveLeadsUseCase) Execute(ctx context.Context, input ResolveLeadsInput) (*ResolveLeadsOutput, error) {
	log := config.GetLogger()

	if strings.TrimSpace(input.Keyword) == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "informe uma palavra-chave"}
	}
	if input.Session == nil {
		input.Session = newSession()
	}

	out := &ResolveLeadsOutput{Leads: []*entity.Lead{}}

	// 1. Cache primeiro (barato, sem chamada externa). Erro de leitura
	// não derruba a busca.
	if !input.ForceFresh {
		cached, err := uc.Cache.Get(ctx, input.Keyword, input.Location)
		if err != nil {
			log.Warnf("⚠️ cache de busca indisponível na leitura: %v", err)
		}

		novel := uc.dropSurfaced(cached, input.Session)
		if len(novel) > 0 {
			if len(novel) > MaxLeadsPerSearch {
				novel = novel[:MaxLeadsPerSearch]
			}
			out.FromCache = true
			return uc.persistBatch(ctx, input, novel, out)
		}
	}

	// 2. Busca externa
	query := input.Keyword
	if input.Location != "" {
		query = input.Keyword + " em " + input.Location
	}

	summaries, err := uc.Places.TextSearch(ctx, query)
	if err != nil {
		if errors.Is(err, places.ErrProxyBlocked) {
			return nil, &DomainError{Code: CodeProxyBlocked, Message: err.Error()}
		}
		return nil, &TechnicalError{
			Code:    CodeSearchFailed,
			Message: "falha ao buscar lugares: " + err.Error(),
			Cause:   err,
		}
	}

	// Filtro de localização: endereço precisa conter a location. Se o
	// filtro zerar tudo, usa a lista crua e avisa o caller.
	filtered := summaries
	if input.Location != "" {
		filtered = nil
		loc := strings.ToLower(input.Location)
		for _, s := range summaries {
			if strings.Contains(strings.ToLower(s.FormattedAddress), loc) {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) == 0 && len(summaries) > 0 {
			filtered = summaries
			out.LowConfidence = true
			log.Warnf("⚠️ nenhum resultado contém %q no endereço; usando lista sem filtro", input.Location)
		}
	}

	// Filtro de novidade + teto de 5 ANTES de qualquer busca de detalhe.
	var novel []entity.PlaceSummary
	for _, s := range filtered {
		if !input.Session.Seen(s.ID) {
			novel = append(novel, s)
		}
		if len(novel) == MaxLeadsPerSearch {
			break
		}
	}

	if len(novel) == 0 {
		if input.ForceFresh {
			return nil, &DomainError{
				Code:    CodeSearchExhausted,
				Message: "nenhum lead novo encontrado, mesmo ampliando a busca",
			}
		}
		// Amplia uma vez: a busca estreita só trouxe lugares já vistos.
		log.Infof("🔎 nada novo para %q em %q; ampliando a busca", input.Keyword, input.Location)
		wide := input
		wide.Location = ""
		wide.ForceFresh = true
		wideOut, err := uc.Execute(ctx, wide)
		if err != nil {
			return nil, err
		}
		wideOut.Widened = true
		return wideOut, nil
	}

	// 3. Detalhe por lugar. Falha de um item não derruba os irmãos.
	var details []entity.PlaceDetail
	for _, s := range novel {
		detail, err := uc.Places.PlaceDetails(ctx, s.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warnf("⚠️ detalhe do lugar %s falhou, pulando: %v", s.ID, err)
			continue
		}
		details = append(details, *detail)
	}

	// 4. Guarda o lote no cache para a próxima busca igual (best-effort).
	if len(details) > 0 {
		if err := uc.Cache.Put(ctx, input.Keyword, input.Location, details); err != nil {
			log.Warnf("⚠️ cache de busca indisponível na escrita: %v", err)
		}
	}

	return uc.persistBatch(ctx, input, details, out)
}

func (uc *ResolveLeadsUseCase) dropSurfaced(batch []entity.PlaceDetail, sess *Session) []entity.PlaceDetail {
	var novel []entity.PlaceDetail
	for _, d := range batch {
		if !sess.Seen(d.ID) {
			novel = append(novel, d)
		}
	}
	return novel
}

// persistBatch converte e insere o lote, pulando duplicados exatos de
// (businessName, address). Só quem foi inserido entra no conjunto de
// "já oferecidos" da sessão.
func (uc *ResolveLeadsUseCase) persistBatch(ctx context.Context, input ResolveLeadsInput, batch []entity.PlaceDetail, out *ResolveLeadsOutput) (*ResolveLeadsOutput, error) {
	log := config.GetLogger()

	// Busca cancelada (nova busca ou navegação): descarta o lote.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, place := range batch {
		lead, err := NewLeadFromPlace(place, input.Keyword)
		if err != nil {
			log.Warnf("⚠️ lugar %s não virou lead: %v", place.ID, err)
			continue
		}

		exists, err := uc.Repo.ExistsByNameAndAddress(ctx, lead.BusinessName, lead.Address)
		if err != nil {
			// Checagem indisponível: segue para o insert, o índice
			// único da base segura o duplicado.
			log.Warnf("⚠️ checagem de duplicado falhou para %q: %v", lead.BusinessName, err)
		}
		if exists {
			continue
		}

		if err := uc.Repo.Insert(ctx, lead); err != nil {
			if errors.Is(err, entity.ErrLeadAlreadyExists) {
				continue
			}
			return nil, &TechnicalError{
				Code:    CodeDatabase,
				Message: "falha ao gravar lead: " + err.Error(),
				Cause:   err,
			}
		}

		out.Added++
		out.Leads = append(out.Leads, lead)
		input.Session.MarkSurfaced(place.ID)

		if uc.Producer != nil {
			payload := queue.LeadCapturedPayload{
				LeadID:       lead.ID,
				BusinessName: lead.BusinessName,
				Email:        lead.Email,
				Phone:        lead.Phone,
				Address:      lead.Address,
				Industry:     lead.Industry,
				Status:       string(lead.Status),
				Source:       queue.SourceGoogleMaps,
			}
			if err := uc.Producer.PublishLeadCaptured(ctx, payload); err != nil {
				log.Warnf("⚠️ evento de lead capturado não publicado: %v", err)
			}
		}
	}

	if out.Added > 0 && uc.Mirror != nil {
		if leads, err := uc.Repo.ListAll(ctx); err == nil {
			if err := uc.Mirror.Refresh(ctx, leads); err != nil {
				log.Warnf("⚠️ espelho de leads não atualizado: %v", err)
			}
		}
	}

	log.Infof("✅ busca %q/%q: %d leads adicionados (cache=%v, ampliada=%v)",
		input.Keyword, input.Location, out.Added, out.FromCache, out.Widened)
	return out, nil
}
