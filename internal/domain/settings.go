package domain

// PaymentRules is a process-wide configuration document read by the
// status machine and the payment reconciler. Callers get a snapshot
// that is immutable for the duration of one operation.
type PaymentRules struct {
	LateFeePerDay           int64 `json:"lateFeePerDay"`
	GracePeriodDays         int   `json:"gracePeriodDays"`
	PaymentWindowDaysBefore int   `json:"paymentWindowDaysBefore"`
}

// DefaultPaymentRules mirrors the fallbacks used when the settings
// document has never been saved.
func DefaultPaymentRules() PaymentRules {
	return PaymentRules{
		LateFeePerDay:           100,
		GracePeriodDays:         5,
		PaymentWindowDaysBefore: 10,
	}
}

type BusinessInfo struct {
	BusinessName string `json:"businessName"`
	UpiID        string `json:"upiId"`
}

// ReminderMessages are plain-text templates with {firstName}, {rent},
// {propertyName} and {dueDate} placeholders.
type ReminderMessages struct {
	Due     string `json:"due"`
	Overdue string `json:"overdue"`
	LateFee string `json:"lateFee"`
}
