package services

import (
	"errors"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"

	"gorm.io/gorm"
)

// resolveRootCategoryID resolves the denormalized roll-up for a category
// reference: the category's parent for a child, the category itself for a
// root, nil for an unset or dangling reference. Every write path that can
// invalidate the roll-up (add, update, reparent) goes through this one
// function.
func resolveRootCategoryID(tx *gorm.DB, categoryID *string) (*string, error) {
	if categoryID == nil || *categoryID == "" {
		return nil, nil
	}

	var category models.Category
	if err := tx.Where("id = ?", *categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Dangling reference: leave the roll-up unset.
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	root := category.RootID()
	return &root, nil
}
