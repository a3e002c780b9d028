package repository

import (
	"context"
	"database/sql"

	"rentledger/internal/domain"
)

type ChargeRepository struct {
	db DBTX
}

func NewChargeRepository(db DBTX) *ChargeRepository {
	return &ChargeRepository{db: db}
}

func (r *ChargeRepository) Get(ctx context.Context, tenantID, month string) (*domain.MonthlyCharge, error) {
	var c domain.MonthlyCharge
	err := r.db.QueryRowContext(ctx, `
		SELECT tenant_id, month, electricity_bill, other_charges, description, is_billed
		FROM monthly_charges WHERE tenant_id = $1 AND month = $2`,
		tenantID, month,
	).Scan(&c.TenantID, &c.Month, &c.ElectricityBill, &c.OtherCharges, &c.Description, &c.IsBilled)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert writes a charge for a tenant-month. The billed flag is sticky:
// re-editing a month that was already folded into a verified payment
// does not un-bill it.
func (r *ChargeRepository) Upsert(ctx context.Context, c domain.MonthlyCharge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO monthly_charges (tenant_id, month, electricity_bill, other_charges, description, is_billed)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, month) DO UPDATE SET
			electricity_bill = EXCLUDED.electricity_bill,
			other_charges = EXCLUDED.other_charges,
			description = EXCLUDED.description,
			is_billed = monthly_charges.is_billed OR EXCLUDED.is_billed`,
		c.TenantID, c.Month, c.ElectricityBill, c.OtherCharges, c.Description, c.IsBilled,
	)
	return err
}

func (r *ChargeRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.MonthlyCharge, error) {
	return r.list(ctx, `
		SELECT tenant_id, month, electricity_bill, other_charges, description, is_billed
		FROM monthly_charges WHERE tenant_id = $1 ORDER BY month DESC`, tenantID)
}

func (r *ChargeRepository) ListUnbilled(ctx context.Context, tenantID string) ([]domain.MonthlyCharge, error) {
	return r.list(ctx, `
		SELECT tenant_id, month, electricity_bill, other_charges, description, is_billed
		FROM monthly_charges WHERE tenant_id = $1 AND is_billed = FALSE ORDER BY month`, tenantID)
}

func (r *ChargeRepository) ListAll(ctx context.Context) ([]domain.MonthlyCharge, error) {
	return r.list(ctx, `
		SELECT tenant_id, month, electricity_bill, other_charges, description, is_billed
		FROM monthly_charges ORDER BY tenant_id, month`)
}

func (r *ChargeRepository) list(ctx context.Context, query string, args ...any) ([]domain.MonthlyCharge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MonthlyCharge
	for rows.Next() {
		var c domain.MonthlyCharge
		if err := rows.Scan(&c.TenantID, &c.Month, &c.ElectricityBill, &c.OtherCharges, &c.Description, &c.IsBilled); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkAllBilled flips every unbilled charge for the tenant; invoked by
// the payment reconciler during verification.
func (r *ChargeRepository) MarkAllBilled(ctx context.Context, tenantID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE monthly_charges SET is_billed = TRUE WHERE tenant_id = $1 AND is_billed = FALSE`,
		tenantID)
	return err
}

// MarkUnbilled flips one month back; invoked only by payment-deletion
// reversal.
func (r *ChargeRepository) MarkUnbilled(ctx context.Context, tenantID, month string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE monthly_charges SET is_billed = FALSE WHERE tenant_id = $1 AND month = $2`,
		tenantID, month)
	return err
}

// Delete is an administrative correction; it is permitted regardless of
// billed state and has no effect on historical payments.
func (r *ChargeRepository) Delete(ctx context.Context, tenantID, month string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM monthly_charges WHERE tenant_id = $1 AND month = $2`, tenantID, month)
	if err != nil {
		return err
	}
	return requireRow(res)
}
