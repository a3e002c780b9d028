package rest

import (
	"net/http"
	"strconv"
	"time"

	"rentledger/internal/domain"
	"rentledger/internal/repository"

	"github.com/go-chi/chi/v5"
)

type paymentResponse struct {
	ID           string            `json:"id"`
	TenantID     string            `json:"tenantId"`
	Amount       int64             `json:"amount"`
	Date         time.Time         `json:"date"`
	VerifiedDate *time.Time        `json:"verifiedDate,omitempty"`
	PaymentMode  string            `json:"paymentMode"`
	Notes        string            `json:"notes,omitempty"`
	Breakdown    *domain.Breakdown `json:"breakdown,omitempty"`
	Status       string            `json:"status"`
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		Amount:       p.Amount,
		Date:         p.Date,
		VerifiedDate: p.VerifiedDate,
		PaymentMode:  p.PaymentMode,
		Notes:        p.Notes,
		Breakdown:    p.Breakdown,
		Status:       p.Status,
	}
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	start, err := queryDatePtr(r, "startDate")
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	end, err := queryDatePtr(r, "endDate")
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	filter := repository.PaymentsFilter{
		TenantID:  queryStringPtr(r, "tenantId"),
		StartDate: start,
		EndDate:   end,
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			ErrorBadRequest(w, "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	payments, err := h.reconciler.Payments(r.Context(), filter)
	if err != nil {
		ServiceError(w, "listPayments", err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	Success(w, "payments", out)
}

type manualPaymentRequest struct {
	TenantID    string `json:"tenantId"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	PaymentMode string `json:"paymentMode"`
	Notes       string `json:"notes"`
}

func (h *Handler) recordManualPayment(w http.ResponseWriter, r *http.Request) {
	var req manualPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	now := time.Now()
	date := now
	if req.Date != "" {
		parsed, err := parseDate("date", req.Date)
		if err != nil {
			ErrorBadRequest(w, err.Error())
			return
		}
		date = parsed
	}

	payment, err := h.reconciler.RecordManual(r.Context(), req.TenantID, req.Amount, date, req.PaymentMode, req.Notes, now)
	if err != nil {
		ServiceError(w, "recordManualPayment", err)
		return
	}
	SuccessCreated(w, "payment recorded", toPaymentResponse(*payment))
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.reconciler.DeletePayment(r.Context(), id); err != nil {
		ServiceError(w, "deletePayment", err)
		return
	}
	Success(w, "payment deleted", map[string]interface{}{"id": id})
}

func (h *Handler) paymentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summary.Summary(r.Context(), time.Now())
	if err != nil {
		ServiceError(w, "paymentSummary", err)
		return
	}
	Success(w, "payment summary", summary)
}

func (h *Handler) recentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	payments, err := h.summary.RecentActivity(r.Context(), limit)
	if err != nil {
		ServiceError(w, "recentActivity", err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	Success(w, "recent activity", out)
}

type pendingPaymentResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	Amount      int64     `json:"amount"`
	Time        time.Time `json:"time"`
	PaidToUpiID string    `json:"paidToUpiId,omitempty"`
}

func (h *Handler) listPendingPayments(w http.ResponseWriter, r *http.Request) {
	pendings, err := h.reconciler.PendingPayments(r.Context())
	if err != nil {
		ServiceError(w, "listPendingPayments", err)
		return
	}

	out := make([]pendingPaymentResponse, 0, len(pendings))
	for _, p := range pendings {
		out = append(out, pendingPaymentResponse{
			ID:          p.ID,
			TenantID:    p.TenantID,
			Amount:      p.Amount,
			Time:        p.Time,
			PaidToUpiID: p.PaidToUpiID,
		})
	}
	Success(w, "pending payments", out)
}

type submitPaymentRequest struct {
	TenantID    string `json:"tenantId"`
	Amount      int64  `json:"amount"`
	PaidToUpiID string `json:"paidToUpiId"`
}

func (h *Handler) submitPendingPayment(w http.ResponseWriter, r *http.Request) {
	var req submitPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	pending, err := h.reconciler.SubmitPending(r.Context(), req.TenantID, req.Amount, req.PaidToUpiID, time.Now())
	if err != nil {
		ServiceError(w, "submitPendingPayment", err)
		return
	}
	SuccessCreated(w, "payment submitted for verification", pendingPaymentResponse{
		ID:          pending.ID,
		TenantID:    pending.TenantID,
		Amount:      pending.Amount,
		Time:        pending.Time,
		PaidToUpiID: pending.PaidToUpiID,
	})
}

func (h *Handler) verifyPendingPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.reconciler.Verify(r.Context(), chi.URLParam(r, "id"), time.Now())
	if err != nil {
		ServiceError(w, "verifyPendingPayment", err)
		return
	}
	Success(w, "payment verified", toPaymentResponse(*payment))
}

type rejectPaymentRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) rejectPendingPayment(w http.ResponseWriter, r *http.Request) {
	var req rejectPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.reconciler.Reject(r.Context(), id, req.Reason); err != nil {
		ServiceError(w, "rejectPendingPayment", err)
		return
	}
	Success(w, "payment rejected", map[string]interface{}{"id": id})
}
