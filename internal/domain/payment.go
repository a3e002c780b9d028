package domain

import "time"

const PaymentStatusVerified = "Verified"

// Breakdown splits a payment amount into its components. A missing
// breakdown means the entire amount was rent.
type Breakdown struct {
	Rent        int64 `json:"rent"`
	Electricity int64 `json:"electricity"`
	LateFee     int64 `json:"lateFee"`
	Other       int64 `json:"other"`
}

func (b Breakdown) Total() int64 {
	return b.Rent + b.Electricity + b.LateFee + b.Other
}

// Payment is an immutable historical record of a verified payment.
// Deletion is modeled as a reversal, not a plain delete.
type Payment struct {
	ID           string
	TenantID     string
	Amount       int64
	Date         time.Time
	VerifiedDate *time.Time
	PaymentMode  string
	Notes        string
	Breakdown    *Breakdown
	Status       string
}

// PendingPayment is a tenant-submitted claim of payment. It exists only
// between submission and admin verify/reject and is consumed exactly
// once.
type PendingPayment struct {
	ID          string
	TenantID    string
	Amount      int64
	Time        time.Time
	PaidToUpiID string
}
