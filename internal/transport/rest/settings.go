package rest

import (
	"net/http"

	"rentledger/internal/domain"
)

func (h *Handler) getPaymentRules(w http.ResponseWriter, r *http.Request) {
	rules := h.settings.PaymentRules(r.Context())
	Success(w, "payment rules", rules)
}

func (h *Handler) savePaymentRules(w http.ResponseWriter, r *http.Request) {
	var rules domain.PaymentRules
	if err := decodeJSON(r, &rules); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	if err := h.settings.SavePaymentRules(r.Context(), rules); err != nil {
		ServiceError(w, "savePaymentRules", err)
		return
	}
	Success(w, "payment rules saved", rules)
}

func (h *Handler) getBusinessInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.settings.BusinessInfo(r.Context())
	if err != nil {
		ServiceError(w, "getBusinessInfo", err)
		return
	}
	Success(w, "business info", info)
}

func (h *Handler) saveBusinessInfo(w http.ResponseWriter, r *http.Request) {
	var info domain.BusinessInfo
	if err := decodeJSON(r, &info); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	if err := h.settings.SaveBusinessInfo(r.Context(), info); err != nil {
		ServiceError(w, "saveBusinessInfo", err)
		return
	}
	Success(w, "business info saved", info)
}

func (h *Handler) getReminderMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.settings.ReminderMessages(r.Context())
	if err != nil {
		ServiceError(w, "getReminderMessages", err)
		return
	}
	Success(w, "reminder messages", msgs)
}

func (h *Handler) saveReminderMessages(w http.ResponseWriter, r *http.Request) {
	var msgs domain.ReminderMessages
	if err := decodeJSON(r, &msgs); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	if err := h.settings.SaveReminderMessages(r.Context(), msgs); err != nil {
		ServiceError(w, "saveReminderMessages", err)
		return
	}
	Success(w, "reminder messages saved", msgs)
}
