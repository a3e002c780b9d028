package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rentledger/internal/domain"
)

type ExpensesFilter struct {
	PropertyID *string
	StartDate  *time.Time
	EndDate    *time.Time
}

type ExpenseRepository struct {
	db DBTX
}

func NewExpenseRepository(db DBTX) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Get(ctx context.Context, id string) (*domain.Expense, error) {
	var e domain.Expense
	err := r.db.QueryRowContext(ctx, `
		SELECT id, property_id, category, description, amount, date, created_at, updated_at
		FROM expenses WHERE id = $1`, id,
	).Scan(&e.ID, &e.PropertyID, &e.Category, &e.Description, &e.Amount, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) List(ctx context.Context, f ExpensesFilter) ([]domain.Expense, error) {
	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.PropertyID != nil && *f.PropertyID != "" {
		where = append(where, fmt.Sprintf("property_id = $%d", i))
		args = append(args, *f.PropertyID)
		i++
	}
	if f.StartDate != nil {
		where = append(where, fmt.Sprintf("date >= $%d", i))
		args = append(args, *f.StartDate)
		i++
	}
	if f.EndDate != nil {
		where = append(where, fmt.Sprintf("date <= $%d", i))
		args = append(args, *f.EndDate)
		i++
	}

	query := `
		SELECT id, property_id, category, description, amount, date, created_at, updated_at
		FROM expenses WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.PropertyID, &e.Category, &e.Description, &e.Amount, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, property_id, category, description, amount, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		e.ID, e.PropertyID, e.Category, e.Description, e.Amount, e.Date,
	)
	return err
}

func (r *ExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET property_id = $2, category = $3, description = $4, amount = $5, date = $6, updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.PropertyID, e.Category, e.Description, e.Amount, e.Date,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
