package models

// AccountType represents the type of payment account
type AccountType string

const (
	AccountTypeCash   AccountType = "cash"
	AccountTypeBank   AccountType = "bank"
	AccountTypeWallet AccountType = "wallet"
)

// Account represents a payment/income account
type Account struct {
	Base
	Name     string      `gorm:"not null" json:"name"`
	Type     AccountType `gorm:"not null" json:"type"`
	Currency string      `gorm:"not null;default:'CNY'" json:"currency"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
