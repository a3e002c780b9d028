package domain

import "time"

type Property struct {
	ID      string
	Name    string
	Type    string
	Address *string
	Notes   *string

	CreatedAt *time.Time
	UpdatedAt *time.Time
}
