package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

func newReconcilerMock(t *testing.T) (*ReconcilerService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	settings := NewSettingsService(repository.NewSettingsRepository(db), nil, nil)
	return NewReconcilerService(db, settings, nil), mock
}

// expectDefaultPaymentRules answers the settings read with a missing
// document so the default rules apply.
func expectDefaultPaymentRules(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT value FROM settings WHERE key = \$1`).
		WithArgs(repository.SettingsPaymentRules).
		WillReturnError(sql.ErrNoRows)
}

var tenantCols = []string{
	"id", "name", "email", "phone", "aadhar_number", "address", "image_url",
	"property_id", "rent", "deposit", "deposit_status", "rent_due_day", "increment",
	"due_date", "rent_increment_date", "agreement_date", "agreement_end_date", "archived_date",
	"rent_history", "family_members", "status", "rejection_reason", "notes",
	"created_at", "updated_at",
}

func tenantRow(id string, rent int64, rentDueDay int, dueDate time.Time, status string) *sqlmock.Rows {
	return sqlmock.NewRows(tenantCols).AddRow(
		id, "Ramesh Kumar", nil, nil, nil, nil, nil,
		nil, rent, int64(0), "Pending", rentDueDay, 0,
		dueDate, nil, nil, nil, nil,
		nil, nil, status, "", "",
		nil, nil,
	)
}

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVerify_FullSettlementAdvancesCycle(t *testing.T) {
	svc, mock := newReconcilerMock(t)
	ctx := context.Background()

	// rent 10000, due 2026-03-20, verified on 03-28: 8 days overdue,
	// 3 chargeable past the 5-day grace at 100/day. With 400+100 of
	// unbilled charges the cycle's total due is 10800.
	due := utc(2026, time.March, 20)
	now := utc(2026, time.March, 28)
	paidAt := utc(2026, time.March, 27)

	expectDefaultPaymentRules(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM pending_payments WHERE id = \$1`).
		WithArgs("pending-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "amount", "submitted_at", "paid_to_upi_id"}).
			AddRow("pending-1", "t1", int64(10800), paidAt, "owner@upi"))
	mock.ExpectQuery(`FROM tenants WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(tenantRow("t1", 10000, 20, due, domain.StatusOverdue))
	mock.ExpectQuery(`FROM monthly_charges WHERE tenant_id = \$1 AND is_billed = FALSE`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "month", "electricity_bill", "other_charges", "description", "is_billed"}).
			AddRow("t1", "2026-03", int64(400), int64(100), "", false))
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(sqlmock.AnyArg(), "t1", int64(10800), paidAt, now, "Online", "", sqlmock.AnyArg(), domain.PaymentStatusVerified).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE monthly_charges SET is_billed = TRUE`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
		WithArgs("t1", domain.PaymentStatusVerified, due).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(10800)))
	mock.ExpectExec(`UPDATE tenants SET status = \$2, due_date = \$3, rejection_reason = \$4`).
		WithArgs("t1", domain.StatusPaid, utc(2026, time.April, 20), "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM pending_payments WHERE id = \$1`).
		WithArgs("pending-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := svc.Verify(ctx, "pending-1", now)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if payment.Breakdown == nil {
		t.Fatal("verified payment must carry a breakdown")
	}
	if payment.Breakdown.Rent != 10000 || payment.Breakdown.Electricity != 400 ||
		payment.Breakdown.Other != 100 || payment.Breakdown.LateFee != 300 {
		t.Fatalf("breakdown = %+v", *payment.Breakdown)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestVerify_PartialPaymentLeavesCycleAlone(t *testing.T) {
	svc, mock := newReconcilerMock(t)
	ctx := context.Background()

	due := utc(2026, time.March, 20)
	now := utc(2026, time.March, 28)
	paidAt := utc(2026, time.March, 27)

	// 5000 against a 10800 total: the payment is recorded and the claim
	// consumed, but no cycle advance happens.
	expectDefaultPaymentRules(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM pending_payments WHERE id = \$1`).
		WithArgs("pending-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "amount", "submitted_at", "paid_to_upi_id"}).
			AddRow("pending-1", "t1", int64(5000), paidAt, "owner@upi"))
	mock.ExpectQuery(`FROM tenants WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(tenantRow("t1", 10000, 20, due, domain.StatusOverdue))
	mock.ExpectQuery(`FROM monthly_charges WHERE tenant_id = \$1 AND is_billed = FALSE`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "month", "electricity_bill", "other_charges", "description", "is_billed"}).
			AddRow("t1", "2026-03", int64(400), int64(100), "", false))
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(sqlmock.AnyArg(), "t1", int64(5000), paidAt, now, "Online", "", sqlmock.AnyArg(), domain.PaymentStatusVerified).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE monthly_charges SET is_billed = TRUE`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
		WithArgs("t1", domain.PaymentStatusVerified, due).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(5000)))
	mock.ExpectExec(`DELETE FROM pending_payments WHERE id = \$1`).
		WithArgs("pending-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := svc.Verify(ctx, "pending-1", now)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if payment.Amount != 5000 {
		t.Fatalf("payment amount = %d, want 5000", payment.Amount)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestReject_RequiresReason(t *testing.T) {
	// the reason check runs before any store access
	svc := NewReconcilerService(nil, nil, nil)

	err := svc.Reject(context.Background(), "pending-1", "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "reason" {
		t.Fatalf("validation field = %q, want reason", verr.Field)
	}
}

func TestReject_MarksOverdueAndConsumesClaim(t *testing.T) {
	svc, mock := newReconcilerMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM pending_payments WHERE id = \$1`).
		WithArgs("pending-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "amount", "submitted_at", "paid_to_upi_id"}).
			AddRow("pending-1", "t1", int64(10800), utc(2026, time.March, 27), "owner@upi"))
	mock.ExpectExec(`UPDATE tenants SET status = \$2, rejection_reason = \$3`).
		WithArgs("t1", domain.StatusOverdue, "UTR does not match").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM pending_payments WHERE id = \$1`).
		WithArgs("pending-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Reject(context.Background(), "pending-1", "UTR does not match"); err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestDeletePayment_RollsBackOneCycle(t *testing.T) {
	svc, mock := newReconcilerMock(t)

	// deleting the payment rolls the due date back from 2026-04-15 to
	// 2026-03-15 and un-bills only that month's charges
	due := utc(2026, time.April, 15)
	breakdown := []byte(`{"rent":10000,"electricity":400,"lateFee":300,"other":100}`)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM payments WHERE id = \$1`).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "amount", "date", "verified_date", "payment_mode", "notes", "breakdown", "status"}).
			AddRow("pay-1", "t1", int64(10800), utc(2026, time.March, 27), utc(2026, time.March, 28), "Online", "", breakdown, domain.PaymentStatusVerified))
	mock.ExpectQuery(`FROM tenants WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(tenantRow("t1", 10000, 15, due, domain.StatusPaid))
	mock.ExpectExec(`UPDATE tenants SET status = \$2, due_date = \$3, rejection_reason = \$4`).
		WithArgs("t1", domain.StatusOverdue, utc(2026, time.March, 15), "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE monthly_charges SET is_billed = FALSE WHERE tenant_id = \$1 AND month = \$2`).
		WithArgs("t1", "2026-03").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM payments WHERE id = \$1`).
		WithArgs("pay-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.DeletePayment(context.Background(), "pay-1"); err != nil {
		t.Fatalf("DeletePayment returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestDeletePayment_RentOnlyPaymentKeepsChargesBilled(t *testing.T) {
	svc, mock := newReconcilerMock(t)

	due := utc(2026, time.April, 15)

	// a breakdown without charge portions must not un-bill anything
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM payments WHERE id = \$1`).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "amount", "date", "verified_date", "payment_mode", "notes", "breakdown", "status"}).
			AddRow("pay-1", "t1", int64(10000), utc(2026, time.March, 27), utc(2026, time.March, 28), "Online", "", []byte(`{"rent":10000}`), domain.PaymentStatusVerified))
	mock.ExpectQuery(`FROM tenants WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(tenantRow("t1", 10000, 15, due, domain.StatusPaid))
	mock.ExpectExec(`UPDATE tenants SET status = \$2, due_date = \$3, rejection_reason = \$4`).
		WithArgs("t1", domain.StatusOverdue, utc(2026, time.March, 15), "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM payments WHERE id = \$1`).
		WithArgs("pay-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.DeletePayment(context.Background(), "pay-1"); err != nil {
		t.Fatalf("DeletePayment returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}
