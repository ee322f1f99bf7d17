// Package api exposes the agreement pipeline over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sb-insight/agreement-service/internal/agreement"
)

// SubmitRequest is the inbound form submission. AcceptedAt is accepted for
// compatibility with the form client but ignored: the server stamps its own
// acceptance time during validation.
type SubmitRequest struct {
	To                 string `json:"to"`
	CompanyName        string `json:"companyName"`
	RepresentativeName string `json:"representativeName"`
	BusinessID         string `json:"businessId"`
	AcceptedAt         string `json:"acceptedAt,omitempty"`
	Brands             string `json:"brands,omitempty"`
	InvoicingDetails   string `json:"invoicingDetails,omitempty"`
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	pipeline *agreement.Pipeline
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(pipeline *agreement.Pipeline) *Handlers {
	return &Handlers{pipeline: pipeline}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// SubmitAgreement runs one submission through the pipeline.
//
// 400 carries the full validation error list, 500 means the acceptance was
// not stored. 200 always means the row exists; the status field tells the
// caller whether notification completed or degraded.
func (h *Handlers) SubmitAgreement(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.pipeline.Process(r.Context(), agreement.Input{
		CompanyName:        req.CompanyName,
		BusinessID:         req.BusinessID,
		RepresentativeName: req.RepresentativeName,
		Email:              req.To,
		Brands:             req.Brands,
		InvoicingDetails:   req.InvoicingDetails,
	})
	if err != nil {
		var verrs agreement.ValidationErrors
		if errors.As(err, &verrs) {
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{
		"status": res.Status,
		"id":     res.Record.ID,
	}
	if res.Outcome != nil {
		resp["userEmail"] = res.Outcome.User
		resp["notificationEmail"] = res.Outcome.Licensor
	}
	if len(res.Warnings) > 0 {
		resp["warnings"] = res.Warnings
	}
	respondJSON(w, http.StatusOK, resp)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
