package rest

import (
	"net/http"

	"rentledger/internal/service"

	"github.com/go-chi/chi/v5"
)

type startReportRequest struct {
	Type       string `json:"type"`
	TenantID   string `json:"tenantId"`
	PropertyID string `json:"propertyId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

func (h *Handler) startReport(w http.ResponseWriter, r *http.Request) {
	var req startReportRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	start, err := parseDatePtr("startDate", req.StartDate)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	end, err := parseDatePtr("endDate", req.EndDate)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	filter := service.ReportFilter{StartDate: start, EndDate: end}
	if req.TenantID != "" {
		filter.TenantID = &req.TenantID
	}
	if req.PropertyID != "" {
		filter.PropertyID = &req.PropertyID
	}

	reportID, err := h.reports.StartReport(r.Context(), req.Type, filter)
	if err != nil {
		ServiceError(w, "startReport", err)
		return
	}
	SuccessAccepted(w, "report queued", map[string]interface{}{"report_id": reportID})
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.GetReports(r.Context())
	if err != nil {
		ServiceError(w, "listReports", err)
		return
	}
	Success(w, "reports", reports)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.GetReport(r.Context(), chi.URLParam(r, "report_id"))
	if err != nil {
		ErrorNotFound(w, "report not found")
		return
	}
	Success(w, "report", report)
}

func (h *Handler) listReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminders.RenderAll(r.Context())
	if err != nil {
		ServiceError(w, "listReminders", err)
		return
	}
	Success(w, "reminders", reminders)
}
