package rest

import (
	"net/http"

	"rentledger/internal/domain"

	"github.com/go-chi/chi/v5"
)

type chargeRequest struct {
	TenantID        string `json:"tenantId"`
	Month           string `json:"month"`
	ElectricityBill int64  `json:"electricityBill"`
	OtherCharges    int64  `json:"otherCharges"`
	Description     string `json:"description"`
}

type chargeResponse struct {
	TenantID        string `json:"tenantId"`
	Month           string `json:"month"`
	ElectricityBill int64  `json:"electricityBill"`
	OtherCharges    int64  `json:"otherCharges"`
	Description     string `json:"description,omitempty"`
	IsBilled        bool   `json:"isBilled"`
}

func toChargeResponse(c domain.MonthlyCharge) chargeResponse {
	return chargeResponse{
		TenantID:        c.TenantID,
		Month:           c.Month,
		ElectricityBill: c.ElectricityBill,
		OtherCharges:    c.OtherCharges,
		Description:     c.Description,
		IsBilled:        c.IsBilled,
	}
}

func (h *Handler) listCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := h.charges.ListAll(r.Context())
	if err != nil {
		ServiceError(w, "listCharges", err)
		return
	}

	out := make([]chargeResponse, 0, len(charges))
	for _, c := range charges {
		out = append(out, toChargeResponse(c))
	}
	Success(w, "charges", out)
}

func (h *Handler) listTenantCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := h.charges.ListByTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		ServiceError(w, "listTenantCharges", err)
		return
	}

	out := make([]chargeResponse, 0, len(charges))
	for _, c := range charges {
		out = append(out, toChargeResponse(c))
	}
	Success(w, "charges", out)
}

func (h *Handler) recordCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	charge := domain.MonthlyCharge{
		TenantID:        req.TenantID,
		Month:           req.Month,
		ElectricityBill: req.ElectricityBill,
		OtherCharges:    req.OtherCharges,
		Description:     req.Description,
	}
	if err := h.charges.Record(r.Context(), charge); err != nil {
		ServiceError(w, "recordCharge", err)
		return
	}
	SuccessCreated(w, "charge recorded", toChargeResponse(charge))
}

func (h *Handler) deleteCharge(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	month := chi.URLParam(r, "month")
	if err := h.charges.Delete(r.Context(), tenantID, month); err != nil {
		ServiceError(w, "deleteCharge", err)
		return
	}
	Success(w, "charge deleted", map[string]interface{}{"tenantId": tenantID, "month": month})
}
