package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/services/report"
)

// Default sizes for ranked reports
const (
	DefaultTopOfficials   = 10
	DefaultRecentActivity = 20
)

// ReportHandler handles dashboard and report endpoints
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Dashboard handles GET /api/v1/reports/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Dashboard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

// GamesBySport handles GET /api/v1/reports/games-by-sport
func (h *ReportHandler) GamesBySport(w http.ResponseWriter, r *http.Request) {
	writeCounts(w, r, h.reports.GamesBySport)
}

// AssignmentsByStatus handles GET /api/v1/reports/assignments-by-status
func (h *ReportHandler) AssignmentsByStatus(w http.ResponseWriter, r *http.Request) {
	writeCounts(w, r, h.reports.AssignmentsByStatus)
}

// OfficialsByExperience handles GET /api/v1/reports/officials-by-experience
func (h *ReportHandler) OfficialsByExperience(w http.ResponseWriter, r *http.Request) {
	writeCounts(w, r, h.reports.OfficialsByExperience)
}

// TopOfficials handles GET /api/v1/reports/top-officials?n=
func (h *ReportHandler) TopOfficials(w http.ResponseWriter, r *http.Request) {
	n, err := request.IntParam(r, "n", DefaultTopOfficials)
	if err != nil {
		WriteError(w, err)
		return
	}

	ranks, err := h.reports.TopOfficials(r.Context(), n)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.NewList(ranks))
}

// RecentActivity handles GET /api/v1/reports/activity?n=
func (h *ReportHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	n, err := request.IntParam(r, "n", DefaultRecentActivity)
	if err != nil {
		WriteError(w, err)
		return
	}

	entries, err := h.reports.RecentActivity(r.Context(), n)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.NewList(entries))
}

func writeCounts(w http.ResponseWriter, r *http.Request, fn func(context.Context) ([]report.Count, error)) {
	counts, err := fn(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.NewList(counts))
}
