package service

import (
	"context"
	"database/sql"
	"time"

	"rentledger/internal/clients"
	"rentledger/internal/domain"
	"rentledger/internal/repository"
	"rentledger/internal/rules"

	"github.com/google/uuid"
)

const paymentModeOnline = "Online"

// ReconcilerService handles the verification flow: tenants submit
// payment claims, the admin verifies or rejects them, and verified
// payments settle the billing cycle. Every mutation of one decision
// happens inside a single transaction; a failure leaves the claim
// pending and nothing half-applied.
type ReconcilerService struct {
	db       *sql.DB
	settings *SettingsService
	events   *clients.EventsClient
}

func NewReconcilerService(db *sql.DB, settings *SettingsService, events *clients.EventsClient) *ReconcilerService {
	return &ReconcilerService{db: db, settings: settings, events: events}
}

func (s *ReconcilerService) Payments(ctx context.Context, f repository.PaymentsFilter) ([]domain.Payment, error) {
	return repository.NewPaymentRepository(s.db).List(ctx, f)
}

func (s *ReconcilerService) PendingPayments(ctx context.Context) ([]domain.PendingPayment, error) {
	return repository.NewPendingPaymentRepository(s.db).List(ctx)
}

// SubmitPending records a tenant's claim that they paid. A previous
// rejection reason is cleared so the dashboard shows the claim fresh.
func (s *ReconcilerService) SubmitPending(ctx context.Context, tenantID string, amount int64, upiID string, now time.Time) (*domain.PendingPayment, error) {
	if amount <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Message: "amount must be positive"}
	}

	tenants := repository.NewTenantRepository(s.db)
	t, err := tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t.Archived() {
		return nil, &domain.ValidationError{Field: "tenantId", Message: "archived tenants cannot submit payments"}
	}

	pending := &domain.PendingPayment{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Amount:      amount,
		Time:        now,
		PaidToUpiID: upiID,
	}
	if err := repository.NewPendingPaymentRepository(s.db).Create(ctx, pending); err != nil {
		return nil, err
	}
	if t.RejectionReason != "" {
		if err := tenants.ClearRejectionReason(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionPendingPayments, "created", pending.ID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", tenantID)
	}
	return pending, nil
}

// Verify accepts a pending claim. In one transaction it persists the
// verified payment, folds all unbilled charges into it, and, when the
// cycle's payments cover the total due, advances the tenant to the next
// cycle as Paid. A partial payment leaves the tenant's status alone.
// The claim is consumed either way.
func (s *ReconcilerService) Verify(ctx context.Context, pendingID string, now time.Time) (*domain.Payment, error) {
	cfg := s.settings.PaymentRules(ctx)

	var payment *domain.Payment
	var tenantID string
	err := s.inTx(ctx, "verify", func(tx *sql.Tx) error {
		tenants := repository.NewTenantRepository(tx)
		payments := repository.NewPaymentRepository(tx)
		charges := repository.NewChargeRepository(tx)
		pendings := repository.NewPendingPaymentRepository(tx)

		pending, err := pendings.Get(ctx, pendingID)
		if err != nil {
			return err
		}
		t, err := tenants.Get(ctx, pending.TenantID)
		if err != nil {
			return err
		}
		tenantID = t.ID

		unbilled, err := charges.ListUnbilled(ctx, t.ID)
		if err != nil {
			return err
		}
		var electricity, other int64
		for _, c := range unbilled {
			electricity += c.ElectricityBill
			other += c.OtherCharges
		}

		statement := rules.ComputeStatement(*t, electricity+other, cfg, now)
		breakdown := rules.VerificationBreakdown(pending.Amount, electricity, other, statement.LateFee)
		verifiedAt := now
		payment = &domain.Payment{
			ID:           uuid.NewString(),
			TenantID:     t.ID,
			Amount:       pending.Amount,
			Date:         pending.Time,
			VerifiedDate: &verifiedAt,
			PaymentMode:  paymentModeOnline,
			Breakdown:    &breakdown,
			Status:       domain.PaymentStatusVerified,
		}
		if err := payments.Create(ctx, payment); err != nil {
			return err
		}
		if err := charges.MarkAllBilled(ctx, t.ID); err != nil {
			return err
		}

		if t.DueDate != nil {
			paid, err := payments.SumVerifiedSince(ctx, t.ID, *t.DueDate)
			if err != nil {
				return err
			}
			if rules.Settled(paid, statement.TotalDue) {
				next := rules.NextDueDate(*t.DueDate, t.RentDueDay)
				if err := tenants.UpdateCycle(ctx, t.ID, domain.StatusPaid, next, ""); err != nil {
					return err
				}
			}
		}

		return pendings.Delete(ctx, pendingID)
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionPayments, "created", payment.ID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionPendingPayments, "deleted", pendingID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionCharges, "updated", tenantID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", tenantID)
	}
	return payment, nil
}

// Reject refuses a pending claim. The reason is mandatory; the tenant
// is pushed to Overdue with the reason attached so they see why.
func (s *ReconcilerService) Reject(ctx context.Context, pendingID, reason string) error {
	if reason == "" {
		return &domain.ValidationError{Field: "reason", Message: "rejection reason is required"}
	}

	var tenantID string
	err := s.inTx(ctx, "reject", func(tx *sql.Tx) error {
		pendings := repository.NewPendingPaymentRepository(tx)
		tenants := repository.NewTenantRepository(tx)

		pending, err := pendings.Get(ctx, pendingID)
		if err != nil {
			return err
		}
		tenantID = pending.TenantID

		if err := tenants.SetRejection(ctx, pending.TenantID, domain.StatusOverdue, reason); err != nil {
			return err
		}
		return pendings.Delete(ctx, pendingID)
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionPendingPayments, "deleted", pendingID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", tenantID)
	}
	return nil
}

// RecordManual enters a payment the admin received directly (cash,
// bank transfer). No claim is involved and the cycle always settles:
// the admin asserting receipt is the source of truth.
func (s *ReconcilerService) RecordManual(ctx context.Context, tenantID string, amount int64, date time.Time, mode, notes string, now time.Time) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	if mode == "" {
		return nil, &domain.ValidationError{Field: "paymentMode", Message: "payment mode is required"}
	}
	cfg := s.settings.PaymentRules(ctx)

	var payment *domain.Payment
	err := s.inTx(ctx, "record manual payment", func(tx *sql.Tx) error {
		tenants := repository.NewTenantRepository(tx)
		payments := repository.NewPaymentRepository(tx)
		charges := repository.NewChargeRepository(tx)

		t, err := tenants.Get(ctx, tenantID)
		if err != nil {
			return err
		}

		unbilled, err := charges.ListUnbilled(ctx, t.ID)
		if err != nil {
			return err
		}
		var electricity, other int64
		for _, c := range unbilled {
			electricity += c.ElectricityBill
			other += c.OtherCharges
		}

		statement := rules.ComputeStatement(*t, electricity+other, cfg, now)
		breakdown := rules.VerificationBreakdown(amount, electricity, other, statement.LateFee)
		verifiedAt := now
		payment = &domain.Payment{
			ID:           uuid.NewString(),
			TenantID:     t.ID,
			Amount:       amount,
			Date:         date,
			VerifiedDate: &verifiedAt,
			PaymentMode:  mode,
			Notes:        notes,
			Breakdown:    &breakdown,
			Status:       domain.PaymentStatusVerified,
		}
		if err := payments.Create(ctx, payment); err != nil {
			return err
		}
		if err := charges.MarkAllBilled(ctx, t.ID); err != nil {
			return err
		}

		if t.DueDate != nil {
			next := rules.NextDueDate(*t.DueDate, t.RentDueDay)
			return tenants.UpdateCycle(ctx, t.ID, domain.StatusPaid, next, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionPayments, "created", payment.ID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionCharges, "updated", tenantID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", tenantID)
	}
	return payment, nil
}

// DeletePayment reverses a verified payment: the tenant is rolled back
// one cycle as Overdue, and the charge month preceding the rollback is
// un-billed when the payment had folded charges in. A payment that
// covered several charge months is only reversed for that single month.
func (s *ReconcilerService) DeletePayment(ctx context.Context, paymentID string) error {
	var tenantID string
	err := s.inTx(ctx, "delete payment", func(tx *sql.Tx) error {
		payments := repository.NewPaymentRepository(tx)
		tenants := repository.NewTenantRepository(tx)
		charges := repository.NewChargeRepository(tx)

		p, err := payments.Get(ctx, paymentID)
		if err != nil {
			return err
		}
		t, err := tenants.Get(ctx, p.TenantID)
		if err != nil {
			return err
		}
		tenantID = t.ID

		if t.DueDate != nil {
			prev := rules.PreviousDueDate(*t.DueDate)
			if err := tenants.UpdateCycle(ctx, t.ID, domain.StatusOverdue, prev, t.RejectionReason); err != nil {
				return err
			}
			if p.Breakdown != nil && (p.Breakdown.Electricity > 0 || p.Breakdown.Other > 0) {
				month := rules.ReversalChargeMonth(prev)
				if err := charges.MarkUnbilled(ctx, t.ID, month); err != nil {
					return err
				}
			}
		}

		return payments.Delete(ctx, paymentID)
	})
	if err != nil {
		return err
	}

	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionPayments, "deleted", paymentID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionCharges, "updated", tenantID)
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", tenantID)
	}
	return nil
}

func (s *ReconcilerService) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.TransactionError{Op: op, Err: err}
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.TransactionError{Op: op, Err: err}
	}
	return nil
}
