package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/siteseeker/backend/internal/infra/http/middleware"
	"github.com/siteseeker/backend/internal/infra/queue"
	"github.com/siteseeker/backend/internal/usecase"
)

// SearchHandler dispara o fluxo de prospecção: busca lugares, filtra o
// que já foi visto e insere os leads novos.
type SearchHandler struct {
	UC          *usecase.ResolveLeadsUseCase
	Sessions    *usecase.SessionRegistry
	rateLimiter *RateLimiter
}

func NewSearchHandler(uc *usecase.ResolveLeadsUseCase, sessions *usecase.SessionRegistry) *SearchHandler {
	return &SearchHandler{
		UC:          uc,
		Sessions:    sessions,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 buscas/min por IP: orçamento de API externa
	}
}

type SearchRequest struct {
	Keyword    string `json:"keyword"`
	Location   string `json:"location"`
	SessionID  string `json:"session_id"`
	ForceFresh bool   `json:"force_fresh"`
}

type SearchResponse struct {
	Added     int         `json:"added"`
	Leads     interface{} `json:"leads"`
	FromCache bool        `json:"from_cache"`
	Widened   bool        `json:"widened"`
	Warning   string      `json:"warning,omitempty"`
}

func (h *SearchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Muitas buscas seguidas. Aguarde um minuto."})
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}
	if req.Keyword == "" || (req.Location == "" && !req.ForceFresh) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Informe uma palavra-chave e localização"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = clientIP
	}

	// Uma busca nova da mesma sessão cancela a anterior em voo: o
	// resultado atrasado é descartado, nunca aplicado por cima.
	sess, ctx, cancel := h.Sessions.Begin(sessionID, r.Context())
	defer cancel()

	out, err := h.UC.Execute(ctx, usecase.ResolveLeadsInput{
		Keyword:    req.Keyword,
		Location:   req.Location,
		Session:    sess,
		ForceFresh: req.ForceFresh,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			respondJSON(w, http.StatusConflict, errorResponse{Error: "busca substituída por outra mais recente"})
			return
		}
		switch usecase.ErrorCode(err) {
		case usecase.CodeSearchExhausted:
			middleware.RecordSearch("exhausted")
		case usecase.CodeProxyBlocked, usecase.CodeSearchFailed:
			middleware.RecordSearch("failed")
			middleware.RecordIntegrationError("places")
		}
		respondError(w, err)
		return
	}

	switch {
	case out.FromCache:
		middleware.RecordSearch("from_cache")
	case out.Widened:
		middleware.RecordSearch("widened")
	default:
		middleware.RecordSearch("added")
	}
	middleware.RecordLeadCaptured(queue.SourceGoogleMaps, out.Added)

	resp := SearchResponse{
		Added:     out.Added,
		Leads:     out.Leads,
		FromCache: out.FromCache,
		Widened:   out.Widened,
	}
	if out.LowConfidence {
		resp.Warning = "Nenhum resultado bateu com a localização informada; mostrando resultados sem o filtro."
	}

	respondJSON(w, http.StatusOK, resp)
}
