package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/validator"
)

// categoryService handles category-store business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category, enabled by default. A nil ParentID
// creates a root; otherwise the new category becomes a child of that root.
// The parent's kind is not cross-checked against p.Kind: callers keep a
// child's kind aligned with the root they attach it to.
func (s *categoryService) CreateCategory(p CreateCategoryParams) (*models.Category, error) {
	if err := validator.Struct(p); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidArgument, err.Error())
	}

	category := &models.Category{
		Name:     strings.TrimSpace(p.Name),
		Kind:     p.Kind,
		ParentID: p.ParentID,
		Color:    p.Color,
		Enabled:  true,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	return category, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &category, nil
}

// ListRootCategories retrieves root categories of one kind ordered by
// creation time. Disabled roots are filtered out unless includeDisabled is
// set (management views want to see everything).
func (s *categoryService) ListRootCategories(kind models.Kind, includeDisabled bool) ([]models.Category, error) {
	q := s.db.Where("kind = ? AND parent_id IS NULL", kind)
	if !includeDisabled {
		q = q.Where("enabled IS NULL OR enabled != ?", false)
	}

	var categories []models.Category
	if err := q.Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return categories, nil
}

// ListChildren retrieves the children of one root ordered by creation time,
// filtered like ListRootCategories.
func (s *categoryService) ListChildren(rootID string, includeDisabled bool) ([]models.Category, error) {
	q := s.db.Where("parent_id = ?", rootID)
	if !includeDisabled {
		q = q.Where("enabled IS NULL OR enabled != ?", false)
	}

	var categories []models.Category
	if err := q.Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return categories, nil
}

// RenameCategory updates a category's name in place.
func (s *categoryService) RenameCategory(id, name string) (*models.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("name", strings.TrimSpace(name)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return category, nil
}

// SetCategoryEnabled toggles a category's visibility in selection lists.
// Disabling a root cascades enabled=false to all its direct children in the
// same step; enabling a root flips only the root itself, and previously
// disabled children stay disabled until re-enabled individually.
func (s *categoryService) SetCategoryEnabled(id string, enabled bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ?", id).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		if err := tx.Model(&models.Category{}).Where("id = ?", id).Update("enabled", enabled).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		if category.IsRoot() && !enabled {
			if err := tx.Model(&models.Category{}).Where("parent_id = ?", category.ID).Update("enabled", false).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternal, err)
			}
		}
		return nil
	})
}

// ReparentChild moves a child category under a different root and rewrites
// the roll-up on every transaction that references the child, atomically.
func (s *categoryService) ReparentChild(childID, newRootID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var child models.Category
		if err := tx.Where("id = ?", childID).First(&child).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.WithMessage(apperrors.ErrInvalidArgument, "child category does not exist")
			}
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		var newRoot models.Category
		if err := tx.Where("id = ?", newRootID).First(&newRoot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.WithMessage(apperrors.ErrInvalidArgument, "target root category does not exist")
			}
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		if child.IsRoot() {
			return apperrors.WithMessage(apperrors.ErrInvalidArgument, "only a child category can be moved")
		}
		if !newRoot.IsRoot() {
			return apperrors.WithMessage(apperrors.ErrInvalidArgument, "target must be a root category")
		}

		if err := tx.Model(&models.Category{}).Where("id = ?", childID).Update("parent_id", newRootID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		rootID, err := resolveRootCategoryID(tx, &childID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", childID).
			Update("root_category_id", rootID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return nil
	})
}

// DeleteCategory deletes a category. A root must have no children and no
// transactions rolling up to it; a child must have no transactions
// referencing it.
func (s *categoryService) DeleteCategory(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ?", id).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		if category.IsRoot() {
			var childCount int64
			if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternal, err)
			}
			if childCount > 0 {
				return apperrors.ErrCategoryHasChildren
			}

			var used int64
			if err := tx.Model(&models.Transaction{}).Where("root_category_id = ?", id).Count(&used).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternal, err)
			}
			if used > 0 {
				return apperrors.ErrCategoryReferenced
			}
		} else {
			var used int64
			if err := tx.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternal, err)
			}
			if used > 0 {
				return apperrors.ErrCategoryReferenced
			}
		}

		if err := tx.Delete(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		return nil
	})
}
