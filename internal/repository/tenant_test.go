package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"rentledger/internal/domain"
)

var tenantFixture = domain.Tenant{
	ID:            "t1",
	Name:          "Ramesh Kumar",
	Rent:          10000,
	DepositStatus: domain.DepositPending,
	RentDueDay:    20,
	Status:        domain.StatusPaid,
}

func newMockDB(t *testing.T) (*TenantRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewTenantRepository(db), mock
}

func TestTenantCreate_EmptyPropertyStoresNull(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs(
			"t1", "Ramesh Kumar", nil, nil, nil, nil, nil,
			nil, int64(10000), int64(0), "Pending", 20, 0,
			nil, nil, nil, nil, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(), "Paid", "", "",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &tenantFixture)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestTenantGet_NullPropertyScansEmpty(t *testing.T) {
	repo, mock := newMockDB(t)

	due := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	cols := []string{
		"id", "name", "email", "phone", "aadhar_number", "address", "image_url",
		"property_id", "rent", "deposit", "deposit_status", "rent_due_day", "increment",
		"due_date", "rent_increment_date", "agreement_date", "agreement_end_date", "archived_date",
		"rent_history", "family_members", "status", "rejection_reason", "notes",
		"created_at", "updated_at",
	}
	mock.ExpectQuery(`FROM tenants WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"t1", "Ramesh Kumar", nil, nil, nil, nil, nil,
			nil, int64(10000), int64(0), "Pending", 20, 0,
			due, nil, nil, nil, nil,
			nil, nil, "Paid", "", "",
			nil, nil,
		))

	tenant, err := repo.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if tenant.PropertyID != "" {
		t.Fatalf("property id = %q, want empty", tenant.PropertyID)
	}
	if tenant.DueDate == nil || !tenant.DueDate.Equal(due) {
		t.Fatalf("due date = %v", tenant.DueDate)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}
