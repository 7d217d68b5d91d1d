package entity

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

type LeadStatus string

const (
	StatusNew        LeadStatus = "new"
	StatusHasWebsite LeadStatus = "has_website"
	StatusContacted  LeadStatus = "contacted"
	StatusInterested LeadStatus = "interested"
	StatusProposal   LeadStatus = "proposal"
	StatusClosed     LeadStatus = "closed"
	StatusLost       LeadStatus = "lost"
)

// Labels exibidos no dashboard
var LeadStatusLabels = map[LeadStatus]string{
	StatusNew:        "Novo",
	StatusHasWebsite: "Já tem site",
	StatusContacted:  "Contatado",
	StatusInterested: "Interessado",
	StatusProposal:   "Proposta",
	StatusClosed:     "Fechado",
	StatusLost:       "Perdido",
}

func (s LeadStatus) Valid() bool {
	_, ok := LeadStatusLabels[s]
	return ok
}

// O funil é livre: qualquer status pode virar qualquer outro.
// has_website normalmente só entra na conversão de um lugar que já tem site.
func (s LeadStatus) CanTransitionTo(to LeadStatus) bool {
	return to.Valid()
}

var (
	ErrLeadAlreadyExists = errors.New("já existe um lead com esse nome e endereço")
	ErrLeadNotFound      = errors.New("lead não encontrado")
)

type Lead struct {
	ID           string     `json:"id"`
	BusinessName string     `json:"business_name"`
	ContactName  string     `json:"contact_name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Address      string     `json:"address"`
	Industry     string     `json:"industry"`
	Notes        string     `json:"notes"`
	Website      string     `json:"website,omitempty"`
	PlaceID      string     `json:"place_id,omitempty"`
	Status       LeadStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Factory
func NewLead(businessName, contactName, phone, email, address, industry, notes string, status LeadStatus) (*Lead, error) {
	if status == "" {
		status = StatusNew
	}

	now := time.Now()
	lead := &Lead{
		ID:           uuid.New().String(),
		BusinessName: businessName,
		ContactName:  contactName,
		Phone:        phone,
		Email:        email,
		Address:      address,
		Industry:     industry,
		Notes:        notes,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.BusinessName == "" {
		return errors.New("business name is required")
	}
	if l.Address == "" {
		return errors.New("address is required")
	}
	if !l.Status.Valid() {
		return errors.New("invalid status: " + string(l.Status))
	}
	return nil
}

// LeadUpdate é um patch parcial: só os campos não-nil são alterados.
type LeadUpdate struct {
	BusinessName *string     `json:"business_name,omitempty"`
	ContactName  *string     `json:"contact_name,omitempty"`
	Phone        *string     `json:"phone,omitempty"`
	Email        *string     `json:"email,omitempty"`
	Address      *string     `json:"address,omitempty"`
	Industry     *string     `json:"industry,omitempty"`
	Notes        *string     `json:"notes,omitempty"`
	Website      *string     `json:"website,omitempty"`
	Status       *LeadStatus `json:"status,omitempty"`
}

func (u LeadUpdate) Empty() bool {
	return u.BusinessName == nil && u.ContactName == nil && u.Phone == nil &&
		u.Email == nil && u.Address == nil && u.Industry == nil &&
		u.Notes == nil && u.Website == nil && u.Status == nil
}

type LeadRepositoryInterface interface {
	Insert(ctx context.Context, lead *Lead) error
	Update(ctx context.Context, id string, fields LeadUpdate) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	ListAll(ctx context.Context) ([]*Lead, error)
	ExistsByNameAndAddress(ctx context.Context, businessName, address string) (bool, error)
}

// Leads antigos guardavam o place_id e o site dentro do texto livre das
// notes. Hoje são colunas próprias, mas o padrão continua reconhecível
// para ler dados legados.
var (
	placeIDPattern = regexp.MustCompile(`place_id: ([a-zA-Z0-9_-]+)`)
	websitePattern = regexp.MustCompile(`https?://[^\s|]+`)
)

func ExtractPlaceID(notes string) string {
	m := placeIDPattern.FindStringSubmatch(notes)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func ExtractWebsite(notes string) string {
	return websitePattern.FindString(notes)
}

// ResolvedPlaceID prefere a coluna e cai no padrão legado das notes.
func (l *Lead) ResolvedPlaceID() string {
	if l.PlaceID != "" {
		return l.PlaceID
	}
	return ExtractPlaceID(l.Notes)
}

func (l *Lead) ResolvedWebsite() string {
	if l.Website != "" {
		return l.Website
	}
	return ExtractWebsite(l.Notes)
}
