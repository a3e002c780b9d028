package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

func TestInstallmentOptions(t *testing.T) {
	// fresh cycle: the rounded installments come out of the full total
	opts := installmentOptions(10650, 10650)
	want := []InstallmentOption{
		{Count: 1, Amount: 10650, Final: 10650},
		{Count: 2, Amount: 5325, Final: 5325},
		{Count: 3, Amount: 3550, Final: 3550},
	}
	if len(opts) != len(want) {
		t.Fatalf("got %d options, want %d", len(opts), len(want))
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Errorf("option %d = %+v, want %+v", i+1, opts[i], want[i])
		}
	}

	// after a partial payment the installment amount is still derived
	// from the cycle total; only the remainder shrinks
	opts = installmentOptions(10650, 7100)
	if opts[1].Amount != 5325 || opts[1].Final != 1775 {
		t.Fatalf("two-part option = %+v", opts[1])
	}
	if opts[2].Amount != 3550 || opts[2].Final != 0 {
		t.Fatalf("three-part option = %+v", opts[2])
	}

	// nearly settled: an installment never exceeds what is left
	opts = installmentOptions(10650, 650)
	for _, o := range opts {
		if o.Amount > 650 {
			t.Fatalf("option %+v exceeds the remaining due", o)
		}
	}
}

func TestDueView_PartialPaymentShrinksRemainder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	settings := NewSettingsService(repository.NewSettingsRepository(db), nil, nil)
	svc := NewTenantService(
		repository.NewTenantRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewChargeRepository(db),
		repository.NewPaymentRepository(db),
		settings, nil,
	)

	due := utc(2026, time.March, 20)
	now := utc(2026, time.March, 28)

	mock.ExpectQuery(`FROM tenants WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(tenantRow("t1", 10000, 20, due, domain.StatusOverdue))
	mock.ExpectQuery(`FROM monthly_charges WHERE tenant_id = \$1 AND is_billed = FALSE`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "month", "electricity_bill", "other_charges", "description", "is_billed"}).
			AddRow("t1", "2026-03", int64(400), int64(100), "", false))
	expectDefaultPaymentRules(mock)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
		WithArgs("t1", domain.PaymentStatusVerified, due).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(5000)))

	view, err := svc.DueView(context.Background(), "t1", now)
	if err != nil {
		t.Fatalf("DueView returned error: %v", err)
	}

	// 10000 rent + 500 charges + 300 late fee, 5000 already verified
	if view.Statement.TotalDue != 10800 {
		t.Fatalf("total due = %d, want 10800", view.Statement.TotalDue)
	}
	if view.AmountPaidThisCycle != 5000 || view.RemainingDue != 5800 {
		t.Fatalf("paid = %d remaining = %d", view.AmountPaidThisCycle, view.RemainingDue)
	}
	if got := view.Installments[1]; got.Amount != 5400 || got.Final != 400 {
		t.Fatalf("two-part option = %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}
