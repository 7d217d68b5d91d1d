package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/siteseeker/backend/internal/entity"
	"github.com/siteseeker/backend/internal/infra/http/middleware"
	"github.com/siteseeker/backend/internal/infra/queue"
	"github.com/siteseeker/backend/internal/usecase"
)

type LeadHandler struct {
	Service *usecase.LeadService
}

func NewLeadHandler(service *usecase.LeadService) *LeadHandler {
	return &LeadHandler{Service: service}
}

// HandleList aceita ?q= (texto livre) e ?status= (recorte do funil).
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	status := entity.LeadStatus(r.URL.Query().Get("status"))

	if status != "" && !status.Valid() {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "status desconhecido: " + string(status)})
		return
	}

	leads, err := h.Service.List(r.Context(), query, status)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"leads": leads,
		"total": len(leads),
	})
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	lead, err := h.Service.Create(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.RecordLeadCaptured(queue.SourceManual, 1)
	respondJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var fields entity.LeadUpdate
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	lead, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// HandleUpdateStatus move o lead no funil. O grafo é livre, qualquer
// status alcança qualquer outro.
func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status entity.LeadStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	lead, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
