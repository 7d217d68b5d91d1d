package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/siteseeker/backend/internal/config"
	"github.com/siteseeker/backend/internal/entity"
	"github.com/siteseeker/backend/internal/infra/queue"
)

// LeadService cobre o CRUD do dashboard: cadastro manual, edição, troca
// de status, remoção e listagem com filtros.
type LeadService struct {
	Repo     entity.LeadRepositoryInterface
	Mirror   LeadMirrorInterface
	Producer QueueProducerInterface
}

func NewLeadService(repo entity.LeadRepositoryInterface, mirror LeadMirrorInterface, producer QueueProducerInterface) *LeadService {
	return &LeadService{Repo: repo, Mirror: mirror, Producer: producer}
}

type CreateLeadInput struct {
	BusinessName string            `json:"business_name"`
	ContactName  string            `json:"contact_name"`
	Phone        string            `json:"phone"`
	Email        string            `json:"email"`
	Address      string            `json:"address"`
	Industry     string            `json:"industry"`
	Notes        string            `json:"notes"`
	Website      string            `json:"website"`
	Status       entity.LeadStatus `json:"status"`
}

func (s *LeadService) Create(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		msg := "validation failed: "
		for _, e := range errs {
			msg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{Code: CodeValidation, Message: strings.TrimSuffix(msg, ", ")}
	}

	exists, err := s.Repo.ExistsByNameAndAddress(ctx, input.BusinessName, input.Address)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "falha ao checar duplicado: " + err.Error(), Cause: err}
	}
	if exists {
		return nil, &DomainError{Code: CodeDuplicateLead, Message: entity.ErrLeadAlreadyExists.Error()}
	}

	contact := input.ContactName
	if contact == "" {
		contact = PlaceholderContact
	}
	email := input.Email
	if email == "" {
		email = DeriveEmail(input.BusinessName, input.Address, input.Website)
	}

	lead, err := entity.NewLead(
		input.BusinessName, contact, input.Phone, email,
		input.Address, input.Industry, input.Notes, input.Status,
	)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}
	lead.Website = input.Website

	if err := s.Repo.Insert(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrLeadAlreadyExists) {
			return nil, &DomainError{Code: CodeDuplicateLead, Message: err.Error()}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "falha ao gravar lead: " + err.Error(), Cause: err}
	}

	if s.Producer != nil {
		payload := queue.LeadCapturedPayload{
			LeadID:       lead.ID,
			BusinessName: lead.BusinessName,
			Email:        lead.Email,
			Phone:        lead.Phone,
			Address:      lead.Address,
			Industry:     lead.Industry,
			Status:       string(lead.Status),
			Source:       queue.SourceManual,
		}
		if err := s.Producer.PublishLeadCaptured(ctx, payload); err != nil {
			config.GetLogger().Warnf("⚠️ evento de lead capturado não publicado: %v", err)
		}
	}

	s.refreshMirror(ctx)
	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, id string, fields entity.LeadUpdate) (*entity.Lead, error) {
	if fields.Empty() {
		return nil, &DomainError{Code: CodeValidation, Message: "nenhum campo para atualizar"}
	}
	if fields.Status != nil && !fields.Status.Valid() {
		return nil, &DomainError{Code: CodeValidation, Message: "status inválido: " + string(*fields.Status)}
	}

	if err := s.Repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: err.Error()}
		}
		if errors.Is(err, entity.ErrLeadAlreadyExists) {
			return nil, &DomainError{Code: CodeDuplicateLead, Message: err.Error()}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "falha ao atualizar lead: " + err.Error(), Cause: err}
	}

	s.refreshMirror(ctx)
	return s.Get(ctx, id)
}

func (s *LeadService) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) (*entity.Lead, error) {
	return s.Update(ctx, id, entity.LeadUpdate{Status: &status})
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return &DomainError{Code: CodeLeadNotFound, Message: err.Error()}
		}
		return &TechnicalError{Code: CodeDatabase, Message: "falha ao remover lead: " + err.Error(), Cause: err}
	}
	s.refreshMirror(ctx)
	return nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: err.Error()}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error(), Cause: err}
	}
	return lead, nil
}

// List devolve os leads filtrados por texto livre e/ou status. Se o banco
// estiver fora, cai no espelho (leitura possivelmente desatualizada).
func (s *LeadService) List(ctx context.Context, query string, status entity.LeadStatus) ([]*entity.Lead, error) {
	leads, err := s.Repo.ListAll(ctx)
	if err != nil {
		if s.Mirror == nil {
			return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error(), Cause: err}
		}
		config.GetLogger().Warnf("⚠️ banco indisponível, lendo do espelho: %v", err)
		leads, err = s.Mirror.Load(ctx)
		if err != nil {
			return nil, &TechnicalError{Code: CodeDatabase, Message: "banco e espelho indisponíveis: " + err.Error(), Cause: err}
		}
	}
	return FilterLeads(leads, query, status), nil
}

// FilterLeads replica o filtro do dashboard: texto livre em nome,
// contato, email, telefone e segmento, mais o recorte por status.
func FilterLeads(leads []*entity.Lead, query string, status entity.LeadStatus) []*entity.Lead {
	filtered := make([]*entity.Lead, 0, len(leads))
	q := strings.ToLower(strings.TrimSpace(query))

	for _, lead := range leads {
		if status != "" && lead.Status != status {
			continue
		}
		if q != "" && !matchesQuery(lead, q) {
			continue
		}
		filtered = append(filtered, lead)
	}
	return filtered
}

func matchesQuery(lead *entity.Lead, q string) bool {
	for _, field := range []string{lead.BusinessName, lead.ContactName, lead.Email, lead.Phone, lead.Industry} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

type DashboardSummary struct {
	Total    int                       `json:"total"`
	ByStatus map[entity.LeadStatus]int `json:"by_status"`
}

func (s *LeadService) Summary(ctx context.Context) (*DashboardSummary, error) {
	leads, err := s.List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{ByStatus: make(map[entity.LeadStatus]int)}
	for status := range entity.LeadStatusLabels {
		summary.ByStatus[status] = 0
	}
	for _, lead := range leads {
		summary.Total++
		summary.ByStatus[lead.Status]++
	}
	return summary, nil
}

func (s *LeadService) refreshMirror(ctx context.Context) {
	if s.Mirror == nil {
		return
	}
	leads, err := s.Repo.ListAll(ctx)
	if err != nil {
		config.GetLogger().Warnf("⚠️ espelho de leads não atualizado (leitura): %v", err)
		return
	}
	if err := s.Mirror.Refresh(ctx, leads); err != nil {
		config.GetLogger().Warnf("⚠️ espelho de leads não atualizado (escrita): %v", err)
	}
}
