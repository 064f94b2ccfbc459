package services

import (
	"gorm.io/gorm"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/logger"
	"moneybook/internal/models"
)

// seedService populates an empty store with the default accounts and
// category taxonomy on first run.
type seedService struct {
	db *gorm.DB
}

// NewSeedService creates a new Seeder.
func NewSeedService(db *gorm.DB) Seeder {
	return &seedService{db: db}
}

// EnsureSeed inserts the default accounts when the account collection is
// empty and the default categories when the category collection is empty.
// Each guard is independent, so re-running never duplicates records.
func (s *seedService) EnsureSeed() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var accountCount int64
		if err := tx.Model(&models.Account{}).Count(&accountCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if accountCount == 0 {
			accounts := []models.Account{
				{Name: "现金", Type: models.AccountTypeCash, Currency: "CNY"},
				{Name: "银行卡", Type: models.AccountTypeBank, Currency: "CNY"},
				{Name: "电子钱包", Type: models.AccountTypeWallet, Currency: "CNY"},
			}
			if err := tx.Create(&accounts).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternal, err)
			}
			logger.Get().Infof("Seeded %d default accounts", len(accounts))
		}

		var categoryCount int64
		if err := tx.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if categoryCount == 0 {
			eat := models.Category{Name: "饮食", Kind: models.KindExpense, Enabled: true}
			transport := models.Category{Name: "交通", Kind: models.KindExpense, Enabled: true}
			salary := models.Category{Name: "工资", Kind: models.KindIncome, Enabled: true}
			for _, root := range []*models.Category{&eat, &transport, &salary} {
				if err := tx.Create(root).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternal, err)
				}
			}

			children := []models.Category{
				{Name: "早餐", Kind: models.KindExpense, ParentID: &eat.ID, Enabled: true},
				{Name: "午餐", Kind: models.KindExpense, ParentID: &eat.ID, Enabled: true},
			}
			if err := tx.Create(&children).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternal, err)
			}
			logger.Get().Info("Seeded default category taxonomy")
		}

		return nil
	})
}
