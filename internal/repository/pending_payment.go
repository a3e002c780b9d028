package repository

import (
	"context"
	"database/sql"

	"rentledger/internal/domain"
)

type PendingPaymentRepository struct {
	db DBTX
}

func NewPendingPaymentRepository(db DBTX) *PendingPaymentRepository {
	return &PendingPaymentRepository{db: db}
}

func (r *PendingPaymentRepository) Get(ctx context.Context, id string) (*domain.PendingPayment, error) {
	var p domain.PendingPayment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, amount, submitted_at, paid_to_upi_id
		FROM pending_payments WHERE id = $1`, id,
	).Scan(&p.ID, &p.TenantID, &p.Amount, &p.Time, &p.PaidToUpiID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PendingPaymentRepository) List(ctx context.Context) ([]domain.PendingPayment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tenant_id, amount, submitted_at, paid_to_upi_id
		FROM pending_payments ORDER BY submitted_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PendingPayment
	for rows.Next() {
		var p domain.PendingPayment
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Amount, &p.Time, &p.PaidToUpiID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PendingPaymentRepository) Create(ctx context.Context, p *domain.PendingPayment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_payments (id, tenant_id, amount, submitted_at, paid_to_upi_id)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.TenantID, p.Amount, p.Time, p.PaidToUpiID,
	)
	return err
}

func (r *PendingPaymentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
