package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/validator"
)

// transactionService handles transaction-store business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// AddTransaction creates a new transaction. TS defaults to the current time,
// the month bucket is derived from TS, and the category roll-up is resolved
// and stored alongside the record.
func (s *transactionService) AddTransaction(p TransactionParams) (*models.Transaction, error) {
	if err := validator.Struct(p); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidArgument, err.Error())
	}

	ts := p.TS
	if ts.IsZero() {
		ts = time.Now()
	}

	var transaction *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rootID, err := resolveRootCategoryID(tx, p.CategoryID)
		if err != nil {
			return err
		}

		transaction = &models.Transaction{
			TS:             ts,
			Month:          models.MonthKey(ts),
			Kind:           p.Kind,
			Amount:         clampAmount(p.Amount),
			Note:           trimNote(p.Note),
			AccountID:      p.AccountID,
			CategoryID:     p.CategoryID,
			RootCategoryID: rootID,
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// UpdateTransaction replaces every mutable field of an existing transaction
// at once: the month bucket is re-derived from the new TS and the roll-up is
// re-resolved from the new category reference.
func (s *transactionService) UpdateTransaction(id string, p TransactionParams) (*models.Transaction, error) {
	if err := validator.Struct(p); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidArgument, err.Error())
	}

	ts := p.TS
	if ts.IsZero() {
		ts = time.Now()
	}

	var transaction models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		rootID, err := resolveRootCategoryID(tx, p.CategoryID)
		if err != nil {
			return err
		}

		transaction.Kind = p.Kind
		transaction.TS = ts
		transaction.Month = models.MonthKey(ts)
		transaction.Amount = clampAmount(p.Amount)
		transaction.Note = trimNote(p.Note)
		transaction.AccountID = p.AccountID
		transaction.CategoryID = p.CategoryID
		transaction.RootCategoryID = rootID

		if err := tx.Save(&transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

// GetTransactionByID retrieves a transaction by ID
func (s *transactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction unconditionally; nothing
// references transactions downstream.
func (s *transactionService) DeleteTransaction(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return nil
}

// clampAmount keeps amounts non-negative; malformed negative input becomes
// zero rather than being persisted.
func clampAmount(cents int64) int64 {
	if cents < 0 {
		return 0
	}
	return cents
}

// trimNote normalizes a note to trimmed-or-absent.
func trimNote(note string) *string {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
