package service

import (
	"context"
	"time"

	"rentledger/internal/clients"
	"rentledger/internal/domain"
	"rentledger/internal/repository"

	"github.com/google/uuid"
)

// ExpenseSummary is the aggregate view the dashboard renders.
type ExpenseSummary struct {
	TotalAllTime     int64            `json:"totalAllTime"`
	TotalThisYear    int64            `json:"totalThisYear"`
	TopCategory      string           `json:"topCategory,omitempty"`
	TopCategoryTotal int64            `json:"topCategoryTotal"`
	ByCategory       map[string]int64 `json:"byCategory"`
}

type ExpenseService struct {
	expenses *repository.ExpenseRepository
	events   *clients.EventsClient
}

func NewExpenseService(expenses *repository.ExpenseRepository, events *clients.EventsClient) *ExpenseService {
	return &ExpenseService{expenses: expenses, events: events}
}

func (s *ExpenseService) Get(ctx context.Context, id string) (*domain.Expense, error) {
	return s.expenses.Get(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context, f repository.ExpensesFilter) ([]domain.Expense, error) {
	return s.expenses.List(ctx, f)
}

func (s *ExpenseService) Create(ctx context.Context, e *domain.Expense) error {
	if err := validateExpense(e); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionExpenses, "created", e.ID)
	}
	return nil
}

func (s *ExpenseService) Update(ctx context.Context, e *domain.Expense) error {
	if err := validateExpense(e); err != nil {
		return err
	}
	if err := s.expenses.Update(ctx, e); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionExpenses, "updated", e.ID)
	}
	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.expenses.Delete(ctx, id); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionExpenses, "deleted", id)
	}
	return nil
}

// Summary totals all recorded expenses, the current calendar year and
// the highest-spending category.
func (s *ExpenseService) Summary(ctx context.Context, now time.Time) (ExpenseSummary, error) {
	expenses, err := s.expenses.List(ctx, repository.ExpensesFilter{})
	if err != nil {
		return ExpenseSummary{}, err
	}

	sum := ExpenseSummary{ByCategory: map[string]int64{}}
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	for _, e := range expenses {
		sum.TotalAllTime += e.Amount
		if !e.Date.Before(yearStart) {
			sum.TotalThisYear += e.Amount
		}
		sum.ByCategory[e.Category] += e.Amount
	}
	for category, total := range sum.ByCategory {
		if total > sum.TopCategoryTotal || (total == sum.TopCategoryTotal && category < sum.TopCategory) {
			sum.TopCategory = category
			sum.TopCategoryTotal = total
		}
	}
	return sum, nil
}

func validateExpense(e *domain.Expense) error {
	if e.Category == "" {
		return &domain.ValidationError{Field: "category", Message: "category is required"}
	}
	if e.Amount <= 0 {
		return &domain.ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	if e.Date.IsZero() {
		return &domain.ValidationError{Field: "date", Message: "date is required"}
	}
	return nil
}
