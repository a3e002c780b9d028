package rest

import (
	"net/http"
	"time"

	"rentledger/internal/domain"
	"rentledger/internal/repository"

	"github.com/go-chi/chi/v5"
)

type tenantRequest struct {
	Name              string                `json:"name"`
	Email             *string               `json:"email"`
	Phone             *string               `json:"phone"`
	AadharNumber      *string               `json:"aadharNumber"`
	Address           *string               `json:"address"`
	ImageURL          *string               `json:"imageUrl"`
	PropertyID        string                `json:"propertyId"`
	Rent              int64                 `json:"rent"`
	Deposit           int64                 `json:"deposit"`
	DepositStatus     string                `json:"depositStatus"`
	RentDueDay        int                   `json:"rentDueDay"`
	Increment         int                   `json:"increment"`
	RentIncrementDate string                `json:"rentIncrementDate"`
	AgreementDate     string                `json:"agreementDate"`
	AgreementEndDate  string                `json:"agreementEndDate"`
	FamilyMembers     []domain.FamilyMember `json:"familyMembers"`
	Notes             string                `json:"notes"`
}

func (req *tenantRequest) toDomain() (*domain.Tenant, error) {
	incrementDate, err := parseDatePtr("rentIncrementDate", req.RentIncrementDate)
	if err != nil {
		return nil, err
	}
	agreementDate, err := parseDatePtr("agreementDate", req.AgreementDate)
	if err != nil {
		return nil, err
	}
	agreementEnd, err := parseDatePtr("agreementEndDate", req.AgreementEndDate)
	if err != nil {
		return nil, err
	}

	return &domain.Tenant{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		AadharNumber:      req.AadharNumber,
		Address:           req.Address,
		ImageURL:          req.ImageURL,
		PropertyID:        req.PropertyID,
		Rent:              req.Rent,
		Deposit:           req.Deposit,
		DepositStatus:     req.DepositStatus,
		RentDueDay:        req.RentDueDay,
		Increment:         req.Increment,
		RentIncrementDate: incrementDate,
		AgreementDate:     agreementDate,
		AgreementEndDate:  agreementEnd,
		FamilyMembers:     req.FamilyMembers,
		Notes:             req.Notes,
	}, nil
}

type tenantResponse struct {
	ID                string                    `json:"id"`
	Name              string                    `json:"name"`
	Email             *string                   `json:"email,omitempty"`
	Phone             *string                   `json:"phone,omitempty"`
	AadharNumber      *string                   `json:"aadharNumber,omitempty"`
	Address           *string                   `json:"address,omitempty"`
	ImageURL          *string                   `json:"imageUrl,omitempty"`
	PropertyID        string                    `json:"propertyId"`
	Rent              int64                     `json:"rent"`
	Deposit           int64                     `json:"deposit"`
	DepositStatus     string                    `json:"depositStatus"`
	RentDueDay        int                       `json:"rentDueDay"`
	Increment         int                       `json:"increment"`
	DueDate           *time.Time                `json:"dueDate,omitempty"`
	RentIncrementDate *time.Time                `json:"rentIncrementDate,omitempty"`
	AgreementDate     *time.Time                `json:"agreementDate,omitempty"`
	AgreementEndDate  *time.Time                `json:"agreementEndDate,omitempty"`
	ArchivedDate      *time.Time                `json:"archivedDate,omitempty"`
	RentHistory       []domain.RentHistoryEntry `json:"rentHistory,omitempty"`
	FamilyMembers     []domain.FamilyMember     `json:"familyMembers,omitempty"`
	Status            string                    `json:"status"`
	RejectionReason   string                    `json:"rejectionReason,omitempty"`
	Notes             string                    `json:"notes,omitempty"`
}

func toTenantResponse(t domain.Tenant) tenantResponse {
	return tenantResponse{
		ID:                t.ID,
		Name:              t.Name,
		Email:             t.Email,
		Phone:             t.Phone,
		AadharNumber:      t.AadharNumber,
		Address:           t.Address,
		ImageURL:          t.ImageURL,
		PropertyID:        t.PropertyID,
		Rent:              t.Rent,
		Deposit:           t.Deposit,
		DepositStatus:     t.DepositStatus,
		RentDueDay:        t.RentDueDay,
		Increment:         t.Increment,
		DueDate:           t.DueDate,
		RentIncrementDate: t.RentIncrementDate,
		AgreementDate:     t.AgreementDate,
		AgreementEndDate:  t.AgreementEndDate,
		ArchivedDate:      t.ArchivedDate,
		RentHistory:       t.RentHistory,
		FamilyMembers:     t.FamilyMembers,
		Status:            t.Status,
		RejectionReason:   t.RejectionReason,
		Notes:             t.Notes,
	}
}

func (h *Handler) listTenants(w http.ResponseWriter, r *http.Request) {
	filter := repository.TenantsFilter{
		Status:          queryStringPtr(r, "status"),
		PropertyID:      queryStringPtr(r, "propertyId"),
		IncludeArchived: r.URL.Query().Get("includeArchived") == "true",
	}

	tenants, err := h.tenants.List(r.Context(), filter)
	if err != nil {
		ServiceError(w, "listTenants", err)
		return
	}

	out := make([]tenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantResponse(t))
	}
	Success(w, "tenants", out)
}

func (h *Handler) getTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		ServiceError(w, "getTenant", err)
		return
	}
	Success(w, "tenant", toTenantResponse(*t))
}

func (h *Handler) createTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	t, err := req.toDomain()
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	if err := h.tenants.Create(r.Context(), t, time.Now()); err != nil {
		ServiceError(w, "createTenant", err)
		return
	}
	SuccessCreated(w, "tenant created", toTenantResponse(*t))
}

func (h *Handler) updateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	t, err := req.toDomain()
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	t.ID = chi.URLParam(r, "id")

	if err := h.tenants.Update(r.Context(), t); err != nil {
		ServiceError(w, "updateTenant", err)
		return
	}
	Success(w, "tenant updated", map[string]interface{}{"id": t.ID})
}

func (h *Handler) archiveTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tenants.Archive(r.Context(), id, time.Now()); err != nil {
		ServiceError(w, "archiveTenant", err)
		return
	}
	Success(w, "tenant archived", map[string]interface{}{"id": id})
}

func (h *Handler) deleteTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tenants.Delete(r.Context(), id); err != nil {
		ServiceError(w, "deleteTenant", err)
		return
	}
	Success(w, "tenant deleted", map[string]interface{}{"id": id})
}

func (h *Handler) evaluateTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.status.EvaluateTenant(r.Context(), chi.URLParam(r, "id"), time.Now())
	if err != nil {
		ServiceError(w, "evaluateTenant", err)
		return
	}
	Success(w, "tenant evaluated", toTenantResponse(*t))
}

func (h *Handler) incrementTenantRent(w http.ResponseWriter, r *http.Request) {
	t, err := h.scheduler.ApplyManualIncrement(r.Context(), chi.URLParam(r, "id"), time.Now())
	if err != nil {
		ServiceError(w, "incrementTenantRent", err)
		return
	}
	Success(w, "rent incremented", toTenantResponse(*t))
}

func (h *Handler) tenantDue(w http.ResponseWriter, r *http.Request) {
	view, err := h.tenants.DueView(r.Context(), chi.URLParam(r, "id"), time.Now())
	if err != nil {
		ServiceError(w, "tenantDue", err)
		return
	}
	Success(w, "amount due", view)
}

func (h *Handler) tenantReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := h.reminders.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		ServiceError(w, "tenantReminder", err)
		return
	}
	Success(w, "reminder", reminder)
}

func (h *Handler) evaluateAll(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	statusChanged, err := h.status.EvaluateAll(r.Context(), now)
	if err != nil {
		ServiceError(w, "evaluateAll", err)
		return
	}
	rentChanged, err := h.scheduler.ApplyDueIncrements(r.Context(), now)
	if err != nil {
		ServiceError(w, "evaluateAll", err)
		return
	}
	Success(w, "evaluation complete", map[string]interface{}{
		"statusChanged": statusChanged,
		"rentChanged":   rentChanged,
	})
}
