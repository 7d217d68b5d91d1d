package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/siteseeker/backend/internal/entity"
	"github.com/siteseeker/backend/internal/infra/integration/places"
	"github.com/siteseeker/backend/internal/usecase"
)

func newSession(t *testing.T) *usecase.Session {
	t.Helper()
	return usecase.NewSessionRegistry().Get(t.Name())
}

func detailBatch(n int) []entity.PlaceDetail {
	var batch []entity.PlaceDetail
	for i := 0; i < n; i++ {
		batch = append(batch, entity.PlaceDetail{
			ID:               fmt.Sprintf("place-%d", i),
			Name:             fmt.Sprintf("Padaria %d", i),
			FormattedAddress: fmt.Sprintf("Rua %d, Centro, São Paulo", i),
		})
	}
	return batch
}

func summaryBatch(n int) []entity.PlaceSummary {
	var batch []entity.PlaceSummary
	for i := 0; i < n; i++ {
		batch = append(batch, entity.PlaceSummary{
			ID:               fmt.Sprintf("place-%d", i),
			Name:             fmt.Sprintf("Padaria %d", i),
			FormattedAddress: fmt.Sprintf("Rua %d, Centro, São Paulo", i),
		})
	}
	return batch
}

func TestResolveLeadsFromCacheSkipsAPI(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	searchCache.On("Get", mock.Anything, "padaria", "Centro").Return(detailBatch(2), nil)
	repo.On("ExistsByNameAndAddress", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	out, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Centro",
		Session:  newSession(t),
	})

	assert.NoError(t, err)
	assert.True(t, out.FromCache)
	assert.Equal(t, 2, out.Added)
	placesClient.AssertNotCalled(t, "TextSearch", mock.Anything, mock.Anything)
	placesClient.AssertNotCalled(t, "PlaceDetails", mock.Anything, mock.Anything)
}

func TestResolveLeadsTruncatesToFiveBeforeDetails(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	searchCache.On("Get", mock.Anything, "padaria", "Centro").Return(nil, nil)
	placesClient.On("TextSearch", mock.Anything, "padaria em Centro").Return(summaryBatch(12), nil)

	// Só os 5 primeiros podem gerar chamada de detalhe.
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("place-%d", i)
		placesClient.On("PlaceDetails", mock.Anything, id).Return(&detailBatch(5)[i], nil)
	}

	searchCache.On("Put", mock.Anything, "padaria", "Centro", mock.Anything).Return(nil)
	repo.On("ExistsByNameAndAddress", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	out, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Centro",
		Session:  newSession(t),
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, out.Added)
	placesClient.AssertNumberOfCalls(t, "PlaceDetails", 5)
}

func TestResolveLeadsWidensOnceThenExhausts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	sess := newSession(t)
	batch := summaryBatch(3)
	for _, s := range batch {
		sess.MarkSurfaced(s.ID)
	}

	searchCache.On("Get", mock.Anything, "padaria", "Centro").Return(nil, nil)
	// Busca estreita e busca ampliada devolvem só lugares já vistos.
	placesClient.On("TextSearch", mock.Anything, "padaria em Centro").Return(batch, nil)
	placesClient.On("TextSearch", mock.Anything, "padaria").Return(batch, nil)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	out, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Centro",
		Session:  sess,
	})

	assert.Nil(t, out)
	assert.Error(t, err)
	assert.Equal(t, usecase.CodeSearchExhausted, usecase.ErrorCode(err))
	placesClient.AssertNumberOfCalls(t, "TextSearch", 2)
	placesClient.AssertCalled(t, "TextSearch", mock.Anything, "padaria")
	placesClient.AssertNotCalled(t, "PlaceDetails", mock.Anything, mock.Anything)
}

func TestResolveLeadsProxyBlockedIsNotGenericFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	searchCache.On("Get", mock.Anything, "padaria", "Centro").Return(nil, nil)
	placesClient.On("TextSearch", mock.Anything, "padaria em Centro").Return(nil, places.ErrProxyBlocked)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	_, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Centro",
		Session:  newSession(t),
	})

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeProxyBlocked, usecase.ErrorCode(err))
}

func TestResolveLeadsTransportFailureKeepsCause(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	cause := errors.New("connection reset by peer")
	searchCache.On("Get", mock.Anything, "padaria", "Centro").Return(nil, nil)
	placesClient.On("TextSearch", mock.Anything, "padaria em Centro").Return(nil, cause)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	_, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Centro",
		Session:  newSession(t),
	})

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeSearchFailed, usecase.ErrorCode(err))
	assert.ErrorIs(t, err, cause)
}

func TestResolveLeadsLocationFilterFallback(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	// Nenhum endereço contém "Campinas": a lista crua deve ser usada,
	// com o aviso de baixa confiança.
	searchCache.On("Get", mock.Anything, "padaria", "Campinas").Return(nil, nil)
	placesClient.On("TextSearch", mock.Anything, "padaria em Campinas").Return(summaryBatch(2), nil)
	placesClient.On("PlaceDetails", mock.Anything, "place-0").Return(&detailBatch(2)[0], nil)
	placesClient.On("PlaceDetails", mock.Anything, "place-1").Return(&detailBatch(2)[1], nil)
	searchCache.On("Put", mock.Anything, "padaria", "Campinas", mock.Anything).Return(nil)
	repo.On("ExistsByNameAndAddress", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	out, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Campinas",
		Session:  newSession(t),
	})

	assert.NoError(t, err)
	assert.True(t, out.LowConfidence)
	assert.Equal(t, 2, out.Added)
}

func TestResolveLeadsSkipsDuplicatesInStore(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	sess := newSession(t)
	searchCache.On("Get", mock.Anything, "padaria", "Centro").Return(detailBatch(3), nil)
	// Tudo já está gravado: nada é inserido, nada é contado.
	repo.On("ExistsByNameAndAddress", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	out, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Centro",
		Session:  sess,
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, out.Added)
	assert.Empty(t, out.Leads)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	// Duplicado pulado não entra no conjunto de já oferecidos.
	assert.Equal(t, 0, sess.SurfacedCount())
}

func TestResolveLeadsDetailFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	searchCache.On("Get", mock.Anything, "padaria", "Centro").Return(nil, nil)
	placesClient.On("TextSearch", mock.Anything, "padaria em Centro").Return(summaryBatch(2), nil)
	placesClient.On("PlaceDetails", mock.Anything, "place-0").Return(nil, errors.New("OVER_QUERY_LIMIT"))
	placesClient.On("PlaceDetails", mock.Anything, "place-1").Return(&detailBatch(2)[1], nil)
	searchCache.On("Put", mock.Anything, "padaria", "Centro", mock.Anything).Return(nil)
	repo.On("ExistsByNameAndAddress", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	out, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Centro",
		Session:  newSession(t),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Added)
}

func TestResolveLeadsCancelledSearchDiscardsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // busca substituída antes do lote ser aplicado

	repo := new(MockLeadRepository)
	searchCache := new(MockSearchCache)
	placesClient := new(MockPlacesClient)

	searchCache.On("Get", mock.Anything, "padaria", "Centro").Return(detailBatch(2), nil)

	uc := usecase.NewResolveLeadsUseCase(repo, searchCache, placesClient, nil, nil)

	_, err := uc.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:  "padaria",
		Location: "Centro",
		Session:  newSession(t),
	})

	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestResolveLeadsRequiresKeyword(t *testing.T) {
	uc := usecase.NewResolveLeadsUseCase(new(MockLeadRepository), new(MockSearchCache), new(MockPlacesClient), nil, nil)

	_, err := uc.Execute(context.Background(), usecase.ResolveLeadsInput{Keyword: "  "})

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeValidation, usecase.ErrorCode(err))
}
