package domain

import "time"

type Expense struct {
	ID          string
	PropertyID  *string
	Category    string
	Description string
	Amount      int64
	Date        time.Time

	CreatedAt *time.Time
	UpdatedAt *time.Time
}
