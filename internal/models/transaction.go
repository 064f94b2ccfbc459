package models

import (
	"fmt"
	"time"
)

// Transaction represents a single expense or income record
type Transaction struct {
	Base
	TS     time.Time `gorm:"column:ts;not null;index" json:"ts"`
	Month  string    `gorm:"not null;index" json:"month"`
	Kind   Kind      `gorm:"not null;index" json:"kind"`
	Amount int64     `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Note   *string   `json:"note,omitempty"`

	// Weak references; deleting the referenced record is blocked, not cascaded.
	AccountID  *string `gorm:"type:uuid;index" json:"account_id,omitempty"`
	CategoryID *string `gorm:"type:uuid;index" json:"category_id,omitempty"`

	// RootCategoryID is the denormalized roll-up of CategoryID: the child's
	// parent, or the category itself when it is a root. Every mutation path
	// that can invalidate it rewrites it in the same step.
	RootCategoryID *string `gorm:"type:uuid;index" json:"root_category_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Account  *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MonthKey returns the "YYYY-MM" month bucket of ts in local time.
func MonthKey(ts time.Time) string {
	return fmt.Sprintf("%04d-%02d", ts.Year(), int(ts.Month()))
}

// DayKey returns the "YYYY-MM-DD" calendar-day bucket of ts in local time.
func DayKey(ts time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", ts.Year(), int(ts.Month()), ts.Day())
}
