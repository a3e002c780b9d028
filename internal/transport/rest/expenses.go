package rest

import (
	"net/http"
	"time"

	"rentledger/internal/domain"
	"rentledger/internal/repository"

	"github.com/go-chi/chi/v5"
)

type expenseRequest struct {
	PropertyID  *string `json:"propertyId"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      int64   `json:"amount"`
	Date        string  `json:"date"`
}

func (req *expenseRequest) toDomain() (*domain.Expense, error) {
	var date time.Time
	if req.Date != "" {
		parsed, err := parseDate("date", req.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}
	return &domain.Expense{
		PropertyID:  req.PropertyID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
	}, nil
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
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

	expenses, err := h.expenses.List(r.Context(), repository.ExpensesFilter{
		PropertyID: queryStringPtr(r, "propertyId"),
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		ServiceError(w, "listExpenses", err)
		return
	}
	Success(w, "expenses", expenses)
}

func (h *Handler) expenseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.expenses.Summary(r.Context(), time.Now())
	if err != nil {
		ServiceError(w, "expenseSummary", err)
		return
	}
	Success(w, "expense summary", summary)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	e, err := req.toDomain()
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	if err := h.expenses.Create(r.Context(), e); err != nil {
		ServiceError(w, "createExpense", err)
		return
	}
	SuccessCreated(w, "expense created", e)
}

func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	e, err := req.toDomain()
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	e.ID = chi.URLParam(r, "id")

	if err := h.expenses.Update(r.Context(), e); err != nil {
		ServiceError(w, "updateExpense", err)
		return
	}
	Success(w, "expense updated", map[string]interface{}{"id": e.ID})
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.expenses.Delete(r.Context(), id); err != nil {
		ServiceError(w, "deleteExpense", err)
		return
	}
	Success(w, "expense deleted", map[string]interface{}{"id": id})
}
