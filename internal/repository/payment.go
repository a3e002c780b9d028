package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rentledger/internal/domain"
)

type PaymentsFilter struct {
	TenantID  *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Get(ctx context.Context, id string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, amount, date, verified_date, payment_mode, notes, breakdown, status
		FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) List(ctx context.Context, f PaymentsFilter) ([]domain.Payment, error) {
	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.TenantID != nil && *f.TenantID != "" {
		where = append(where, fmt.Sprintf("tenant_id = $%d", i))
		args = append(args, *f.TenantID)
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
		SELECT id, tenant_id, amount, date, verified_date, payment_mode, notes, breakdown, status
		FROM payments WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	breakdown, err := marshalBreakdown(p.Breakdown)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO payments (id, tenant_id, amount, date, verified_date, payment_mode, notes, breakdown, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.TenantID, p.Amount, p.Date, p.VerifiedDate, p.PaymentMode, p.Notes, breakdown, p.Status,
	)
	return err
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	breakdown, err := marshalBreakdown(p.Breakdown)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments SET tenant_id = $2, amount = $3, date = $4, payment_mode = $5, notes = $6, breakdown = $7
		WHERE id = $1`,
		p.ID, p.TenantID, p.Amount, p.Date, p.PaymentMode, p.Notes, breakdown,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SumVerifiedSince totals the verified payments dated on or after the
// cycle's due date; this is the "total paid for the cycle" input to the
// settlement check.
func (r *PaymentRepository) SumVerifiedSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE tenant_id = $1 AND status = $2 AND date >= $3`,
		tenantID, domain.PaymentStatusVerified, since,
	).Scan(&total)
	return total, err
}

// SumSince totals all payments dated on or after the given instant,
// e.g. the start of the current month for the collection summary.
func (r *PaymentRepository) SumSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE date >= $1`, since,
	).Scan(&total)
	return total, err
}

func marshalBreakdown(b *domain.Breakdown) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	var verified sql.NullTime
	var breakdown []byte
	if err := row.Scan(&p.ID, &p.TenantID, &p.Amount, &p.Date, &verified, &p.PaymentMode, &p.Notes, &breakdown, &p.Status); err != nil {
		return nil, err
	}
	p.VerifiedDate = nullableTime(verified)
	if len(breakdown) > 0 {
		var b domain.Breakdown
		if err := json.Unmarshal(breakdown, &b); err != nil {
			return nil, err
		}
		p.Breakdown = &b
	}
	return &p, nil
}
