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

type TenantsFilter struct {
	Status          *string
	PropertyID      *string
	IncludeArchived bool
}

type TenantRepository struct {
	db DBTX
}

func NewTenantRepository(db DBTX) *TenantRepository {
	return &TenantRepository{db: db}
}

const tenantColumns = `id, name, email, phone, aadhar_number, address, image_url, property_id, rent, deposit, deposit_status, rent_due_day, increment, due_date, rent_increment_date, agreement_date, agreement_end_date, archived_date, rent_history, family_members, status, rejection_reason, notes, created_at, updated_at`

func (r *TenantRepository) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	t, err := scanTenant(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TenantRepository) List(ctx context.Context, f TenantsFilter) ([]domain.Tenant, error) {
	where := []string{"1=1"}
	args := []any{}
	i := 1

	if !f.IncludeArchived {
		where = append(where, fmt.Sprintf("status <> $%d", i))
		args = append(args, domain.StatusArchived)
		i++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, *f.Status)
		i++
	}
	if f.PropertyID != nil && *f.PropertyID != "" {
		where = append(where, fmt.Sprintf("property_id = $%d", i))
		args = append(args, *f.PropertyID)
		i++
	}

	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE ` + strings.Join(where, " AND ") + ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TenantRepository) Create(ctx context.Context, t *domain.Tenant) error {
	history, err := json.Marshal(t.RentHistory)
	if err != nil {
		return err
	}
	members, err := json.Marshal(t.FamilyMembers)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tenants (`+tenantColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,NOW(),NOW())`,
		t.ID, t.Name, t.Email, t.Phone, t.AadharNumber, t.Address, t.ImageURL,
		nullableString(t.PropertyID), t.Rent, t.Deposit, t.DepositStatus, t.RentDueDay, t.Increment,
		t.DueDate, t.RentIncrementDate, t.AgreementDate, t.AgreementEndDate, t.ArchivedDate,
		history, members, t.Status, t.RejectionReason, t.Notes,
	)
	return err
}

// Update rewrites the editable profile fields. Status, due date and
// rent history are owned by the rule engine and have their own
// targeted writes below.
func (r *TenantRepository) Update(ctx context.Context, t *domain.Tenant) error {
	members, err := json.Marshal(t.FamilyMembers)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET
			name = $2, email = $3, phone = $4, aadhar_number = $5, address = $6,
			image_url = $7, property_id = $8, rent = $9, deposit = $10,
			deposit_status = $11, rent_due_day = $12, increment = $13,
			rent_increment_date = $14, agreement_date = $15, agreement_end_date = $16,
			family_members = $17, notes = $18, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Email, t.Phone, t.AadharNumber, t.Address,
		t.ImageURL, nullableString(t.PropertyID), t.Rent, t.Deposit,
		t.DepositStatus, t.RentDueDay, t.Increment,
		t.RentIncrementDate, t.AgreementDate, t.AgreementEndDate,
		members, t.Notes,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateStatus is the idempotent upsert used by the status evaluation
// pass; callers only invoke it when the derived status differs.
func (r *TenantRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateCycle moves a tenant across a billing-cycle boundary: status,
// due date and rejection reason change together (settlement advances,
// reversal rolls back).
func (r *TenantRepository) UpdateCycle(ctx context.Context, id, status string, dueDate time.Time, rejectionReason string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET status = $2, due_date = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $1`, id, status, dueDate, rejectionReason)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TenantRepository) SetRejection(ctx context.Context, id, status, reason string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1`, id, status, reason)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TenantRepository) ClearRejectionReason(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET rejection_reason = '', updated_at = NOW() WHERE id = $1`, id)
	return err
}

// SaveRent persists an increment application: the new current rent and
// the grown history.
func (r *TenantRepository) SaveRent(ctx context.Context, id string, rent int64, history []domain.RentHistoryEntry) error {
	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET rent = $2, rent_history = $3, updated_at = NOW() WHERE id = $1`,
		id, rent, data)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TenantRepository) Archive(ctx context.Context, id string, when time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET status = $2, archived_date = $3, updated_at = NOW() WHERE id = $1`,
		id, domain.StatusArchived, when)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a tenant row. The service layer only permits this for
// Archived tenants.
func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	var t domain.Tenant
	var propertyID sql.NullString
	var dueDate, incrementDate, agreementDate, agreementEnd, archivedDate sql.NullTime
	var history, members []byte

	err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.Phone, &t.AadharNumber, &t.Address, &t.ImageURL,
		&propertyID, &t.Rent, &t.Deposit, &t.DepositStatus, &t.RentDueDay, &t.Increment,
		&dueDate, &incrementDate, &agreementDate, &agreementEnd, &archivedDate,
		&history, &members, &t.Status, &t.RejectionReason, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.PropertyID = propertyID.String
	t.DueDate = nullableTime(dueDate)
	t.RentIncrementDate = nullableTime(incrementDate)
	t.AgreementDate = nullableTime(agreementDate)
	t.AgreementEndDate = nullableTime(agreementEnd)
	t.ArchivedDate = nullableTime(archivedDate)

	if len(history) > 0 {
		if err := json.Unmarshal(history, &t.RentHistory); err != nil {
			return nil, err
		}
	}
	if len(members) > 0 {
		if err := json.Unmarshal(members, &t.FamilyMembers); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// nullableString keeps an unset reference out of the database so the
// foreign key only sees real ids.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
