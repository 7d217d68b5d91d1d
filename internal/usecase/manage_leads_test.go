package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/siteseeker/backend/internal/entity"
	"github.com/siteseeker/backend/internal/usecase"
)

func validCreateInput() usecase.CreateLeadInput {
	return usecase.CreateLeadInput{
		BusinessName: "Padaria São José",
		Phone:        "11987654321",
		Address:      "Rua das Flores, Centro, São Paulo",
		Industry:     "Alimentação",
		Status:       entity.StatusNew,
	}
}

func TestCreateLeadFillsPlaceholdersAndDerivedEmail(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ExistsByNameAndAddress", mock.Anything, "Padaria São José", mock.Anything).Return(false, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	svc := usecase.NewLeadService(repo, nil, nil)

	lead, err := svc.Create(context.Background(), validCreateInput())

	assert.NoError(t, err)
	assert.Equal(t, usecase.PlaceholderContact, lead.ContactName)
	assert.Equal(t, "contato@padariasaojose.centro.com.br", lead.Email)
	assert.NotEmpty(t, lead.ID)
	repo.AssertExpectations(t)
}

func TestCreateLeadRejectsDuplicate(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ExistsByNameAndAddress", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	svc := usecase.NewLeadService(repo, nil, nil)

	lead, err := svc.Create(context.Background(), validCreateInput())

	assert.Nil(t, lead)
	assert.Equal(t, usecase.CodeDuplicateLead, usecase.ErrorCode(err))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateLeadMapsUniqueViolationToDuplicate(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ExistsByNameAndAddress", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(entity.ErrLeadAlreadyExists)

	svc := usecase.NewLeadService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validCreateInput())

	assert.Equal(t, usecase.CodeDuplicateLead, usecase.ErrorCode(err))
}

func TestCreateLeadValidatesRequiredFields(t *testing.T) {
	svc := usecase.NewLeadService(new(MockLeadRepository), nil, nil)

	_, err := svc.Create(context.Background(), usecase.CreateLeadInput{Phone: "11987654321"})

	assert.Equal(t, usecase.CodeValidation, usecase.ErrorCode(err))
}

func TestUpdateLeadRejectsEmptyPatch(t *testing.T) {
	svc := usecase.NewLeadService(new(MockLeadRepository), nil, nil)

	_, err := svc.Update(context.Background(), "algum-id", entity.LeadUpdate{})

	assert.Equal(t, usecase.CodeValidation, usecase.ErrorCode(err))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := usecase.NewLeadService(new(MockLeadRepository), nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "algum-id", entity.LeadStatus("faturado"))

	assert.Equal(t, usecase.CodeValidation, usecase.ErrorCode(err))
}

func TestUpdateStatusAllowsAnyValidJump(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Update", mock.Anything, "lead-1", mock.Anything).Return(nil)
	repo.On("GetByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1", Status: entity.StatusClosed}, nil)

	svc := usecase.NewLeadService(repo, nil, nil)

	// Pipeline sem trilho fixo: de "novo" direto para "fechado".
	lead, err := svc.UpdateStatus(context.Background(), "lead-1", entity.StatusClosed)

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusClosed, lead.Status)
}

func TestDeleteLeadNotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Delete", mock.Anything, "fantasma").Return(entity.ErrLeadNotFound)

	svc := usecase.NewLeadService(repo, nil, nil)

	err := svc.Delete(context.Background(), "fantasma")

	assert.Equal(t, usecase.CodeLeadNotFound, usecase.ErrorCode(err))
}

func TestListFallsBackToMirrorWhenDatabaseIsDown(t *testing.T) {
	repo := new(MockLeadRepository)
	mirror := new(MockLeadMirror)

	snapshot := []*entity.Lead{
		{ID: "lead-1", BusinessName: "Padaria Central", Status: entity.StatusNew},
		{ID: "lead-2", BusinessName: "Oficina Dois Irmãos", Status: entity.StatusContacted},
	}
	repo.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused"))
	mirror.On("Load", mock.Anything).Return(snapshot, nil)

	svc := usecase.NewLeadService(repo, mirror, nil)

	leads, err := svc.List(context.Background(), "", "")

	assert.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestListFailsWhenDatabaseAndMirrorAreDown(t *testing.T) {
	repo := new(MockLeadRepository)
	mirror := new(MockLeadMirror)

	repo.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused"))
	mirror.On("Load", mock.Anything).Return(nil, errors.New("redis fora"))

	svc := usecase.NewLeadService(repo, mirror, nil)

	_, err := svc.List(context.Background(), "", "")

	assert.Equal(t, usecase.CodeDatabase, usecase.ErrorCode(err))
}

func TestFilterLeads(t *testing.T) {
	leads := []*entity.Lead{
		{BusinessName: "Padaria São José", Email: "contato@padaria.com.br", Status: entity.StatusNew, Industry: "Alimentação"},
		{BusinessName: "Oficina Dois Irmãos", Phone: "11911112222", Status: entity.StatusContacted, Industry: "Automotivo"},
		{BusinessName: "Mercado Central", ContactName: "Ana Souza", Status: entity.StatusNew, Industry: "Varejo"},
	}

	t.Run("texto livre casa em qualquer campo, sem caixa", func(t *testing.T) {
		assert.Len(t, usecase.FilterLeads(leads, "PADARIA", ""), 1)
		assert.Len(t, usecase.FilterLeads(leads, "ana", ""), 1)
		assert.Len(t, usecase.FilterLeads(leads, "1191111", ""), 1)
	})

	t.Run("recorte por status", func(t *testing.T) {
		assert.Len(t, usecase.FilterLeads(leads, "", entity.StatusNew), 2)
		assert.Len(t, usecase.FilterLeads(leads, "", entity.StatusLost), 0)
	})

	t.Run("texto e status combinados", func(t *testing.T) {
		assert.Len(t, usecase.FilterLeads(leads, "mercado", entity.StatusNew), 1)
		assert.Len(t, usecase.FilterLeads(leads, "mercado", entity.StatusContacted), 0)
	})

	t.Run("sem filtros devolve tudo", func(t *testing.T) {
		assert.Len(t, usecase.FilterLeads(leads, "  ", ""), 3)
	})
}

func TestSummaryCountsByStatus(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("ListAll", mock.Anything).Return([]*entity.Lead{
		{Status: entity.StatusNew},
		{Status: entity.StatusNew},
		{Status: entity.StatusClosed},
	}, nil)

	svc := usecase.NewLeadService(repo, nil, nil)

	summary, err := svc.Summary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.ByStatus[entity.StatusNew])
	assert.Equal(t, 1, summary.ByStatus[entity.StatusClosed])
	// Status sem lead aparece zerado, o dashboard espera todas as colunas.
	assert.Equal(t, 0, summary.ByStatus[entity.StatusLost])
}
