// Package export builds a self-describing JSON document of the whole store
// for backup and transfer between devices.
package export

import (
	"encoding/json"
	"io"
	"time"

	"gorm.io/gorm"

	"moneybook/internal/models"
	"moneybook/internal/services"
)

// FormatVersion identifies the document layout for future importers.
const FormatVersion = 1

// Document is one full snapshot of the store.
type Document struct {
	Version      int                  `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	Accounts     []models.Account     `json:"accounts"`
	Categories   []models.Category    `json:"categories"`
	Transactions []models.Transaction `json:"transactions"`
}

// BuildDocument reads every collection through the service layer and
// assembles the snapshot. Accounts and categories come back in creation
// order, transactions oldest first.
func BuildDocument(db *gorm.DB) (*Document, error) {
	accounts, err := services.NewAccountService(db).ListAccounts()
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := db.Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	transactions, err := services.NewReportService(db).Snapshot()
	if err != nil {
		return nil, err
	}

	return &Document{
		Version:      FormatVersion,
		ExportedAt:   time.Now(),
		Accounts:     accounts,
		Categories:   categories,
		Transactions: transactions,
	}, nil
}

// WriteJSON serializes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
