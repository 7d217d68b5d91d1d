package handlers

import (
	"net/http"

	"github.com/siteseeker/backend/internal/entity"
	"github.com/siteseeker/backend/internal/usecase"
)

type DashboardHandler struct {
	Service *usecase.LeadService
}

func NewDashboardHandler(service *usecase.LeadService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// HandleSummary devolve os totais por status que alimentam os cards do
// topo do dashboard.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":     summary.Total,
		"by_status": summary.ByStatus,
		"labels":    entity.LeadStatusLabels,
	})
}
