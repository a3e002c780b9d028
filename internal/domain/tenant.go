package domain

import "time"

// Tenant payment statuses. Archived is terminal and excluded from the
// automatic status evaluation pass.
const (
	StatusPaid     = "Paid"
	StatusDue      = "Due"
	StatusOverdue  = "Overdue"
	StatusArchived = "Archived"
)

// Deposit statuses.
const (
	DepositPending  = "Pending"
	DepositPaid     = "Paid"
	DepositRefunded = "Refunded"
)

type FamilyMember struct {
	Name   string `json:"name"`
	Aadhar string `json:"aadhar,omitempty"`
}

// RentHistoryEntry is one applied rent increment. The history is
// append-only; Year is the 1-based position in the sequence.
type RentHistoryEntry struct {
	Year             int       `json:"year"`
	Rent             int64     `json:"rent"`
	IncrementPercent int       `json:"incrementPercent"`
	DateApplied      time.Time `json:"dateApplied"`
}

type Tenant struct {
	ID           string
	Name         string
	Email        *string
	Phone        *string
	AadharNumber *string
	Address      *string
	ImageURL     *string

	PropertyID    string
	Rent          int64
	Deposit       int64
	DepositStatus string
	RentDueDay    int
	Increment     int

	DueDate           *time.Time
	RentIncrementDate *time.Time
	AgreementDate     *time.Time
	AgreementEndDate  *time.Time
	ArchivedDate      *time.Time

	RentHistory   []RentHistoryEntry
	FamilyMembers []FamilyMember

	Status          string
	RejectionReason string
	Notes           string

	CreatedAt *time.Time
	UpdatedAt *time.Time
}

func (t Tenant) Archived() bool {
	return t.Status == StatusArchived
}
