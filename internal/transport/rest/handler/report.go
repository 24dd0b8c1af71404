package handler

import (
	"mattressfit/internal/service"
	"net/http"
	"strconv"
)

// ReportHandler serves the admin dashboard data
type ReportHandler struct {
	statsSvc *service.StatsService
	leadSvc  *service.LeadService
}

// NewReportHandler creates a new report handler
func NewReportHandler(statsSvc *service.StatsService, leadSvc *service.LeadService) *ReportHandler {
	return &ReportHandler{
		statsSvc: statsSvc,
		leadSvc:  leadSvc,
	}
}

// Stats handles GET /api/admin/stats
// @Summary Store counts for the dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} model.Stats
// @Router /api/admin/stats [get]
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.Get(r.Context())
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Leads handles GET /api/admin/leads?page=&limit=
// @Summary Submitted surveys, newest first
// @Tags admin
// @Produce json
// @Param page query int false "page, from 1"
// @Param limit query int false "page size, up to 100"
// @Router /api/admin/leads [get]
func (h *ReportHandler) Leads(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	leads, err := h.leadSvc.List(r.Context(), page, limit)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}
