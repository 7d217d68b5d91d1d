package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/siteseeker/backend/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError traduz a taxonomia de erros do usecase em status HTTP.
func respondError(w http.ResponseWriter, err error) {
	code := usecase.ErrorCode(err)

	status := http.StatusInternalServerError
	switch code {
	case usecase.CodeValidation:
		status = http.StatusBadRequest
	case usecase.CodeLeadNotFound:
		status = http.StatusNotFound
	case usecase.CodeDuplicateLead:
		status = http.StatusConflict
	case usecase.CodeSearchExhausted:
		status = http.StatusNotFound
	case usecase.CodeSearchFailed, usecase.CodeProxyBlocked:
		status = http.StatusBadGateway
	}

	respondJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
