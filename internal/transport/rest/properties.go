package rest

import (
	"net/http"

	"rentledger/internal/domain"

	"github.com/go-chi/chi/v5"
)

type propertyRequest struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

func (h *Handler) listProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.properties.List(r.Context())
	if err != nil {
		ServiceError(w, "listProperties", err)
		return
	}
	Success(w, "properties", props)
}

func (h *Handler) getProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.properties.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		ServiceError(w, "getProperty", err)
		return
	}
	Success(w, "property", p)
}

func (h *Handler) createProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	p := &domain.Property{
		Name:    req.Name,
		Type:    req.Type,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := h.properties.Create(r.Context(), p); err != nil {
		ServiceError(w, "createProperty", err)
		return
	}
	SuccessCreated(w, "property created", p)
}

func (h *Handler) updateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	p := &domain.Property{
		ID:      chi.URLParam(r, "id"),
		Name:    req.Name,
		Type:    req.Type,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if err := h.properties.Update(r.Context(), p); err != nil {
		ServiceError(w, "updateProperty", err)
		return
	}
	Success(w, "property updated", map[string]interface{}{"id": p.ID})
}

func (h *Handler) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.properties.Delete(r.Context(), id); err != nil {
		ServiceError(w, "deleteProperty", err)
		return
	}
	Success(w, "property deleted", map[string]interface{}{"id": id})
}
