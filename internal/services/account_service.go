package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/validator"
)

// accountService handles account-store business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new payment account
func (s *accountService) CreateAccount(p CreateAccountParams) (*models.Account, error) {
	if p.Type == "" {
		p.Type = models.AccountTypeCash
	}
	if p.Currency == "" {
		p.Currency = "CNY"
	}

	if err := validator.Struct(p); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidArgument, err.Error())
	}

	account := &models.Account{
		Name:     strings.TrimSpace(p.Name),
		Type:     p.Type,
		Currency: p.Currency,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	return account, nil
}

// ListAccounts retrieves all accounts ordered by creation time.
func (s *accountService) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID
func (s *accountService) GetAccountByID(id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &account, nil
}

// RenameAccount updates an account's name in place. Names are trimmed and
// carry no uniqueness constraint.
func (s *accountService) RenameAccount(id, name string) (*models.Account, error) {
	account, err := s.GetAccountByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(account).Update("name", strings.TrimSpace(name)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return account, nil
}

// DeleteAccount removes an account. The delete is blocked while any
// transaction still references the account.
func (s *accountService) DeleteAccount(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Where("id = ?", id).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAccountNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		var used int64
		if err := tx.Model(&models.Transaction{}).Where("account_id = ?", id).Count(&used).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if used > 0 {
			return apperrors.ErrAccountReferenced
		}

		if err := tx.Delete(&account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return nil
	})
}
