package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linkup-social/linkup-be/internal/auth"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles HTTP requests for reports.
type ReportHandler struct {
	service services.ReportServiceProvider
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service services.ReportServiceProvider) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create handles POST /reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	var payload struct {
		TargetType string `json:"targetType"`
		TargetID   string `json:"targetId"`
		Reason     string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	report, err := h.service.CreateReport(claims.UserID, payload.TargetType, payload.TargetID, payload.Reason)
	if err != nil {
		log.Warn().Err(err).Str("reporter_id", claims.UserID).Msg("Failed to create report")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, report)
}

// List handles GET /admin/reports. Admin only.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list reports")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// Resolve handles PUT /admin/reports/{id}/resolve. Admin only.
func (h *ReportHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.ResolveReport(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "report resolved"})
}
