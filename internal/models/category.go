package models

// Kind is the expense/income discriminator shared by transactions and categories
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Category represents one node of the two-level category taxonomy. A nil
// ParentID marks a root ("major") category; a non-nil ParentID points at a
// root of the same kind, making this a child ("minor") category. Nesting
// never goes deeper than two levels.
type Category struct {
	Base
	Name     string  `gorm:"not null" json:"name"`
	Kind     Kind    `gorm:"not null" json:"kind"`
	ParentID *string `gorm:"type:uuid" json:"parent_id,omitempty"`
	Color    string  `json:"color,omitempty"`
	Enabled  bool    `gorm:"default:true" json:"enabled"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// IsRoot reports whether the category is a top-level ("major") category.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// RootID resolves the root the category rolls up to: its parent for a child,
// itself for a root. Transactions denormalize this value as RootCategoryID.
func (c *Category) RootID() string {
	if c.ParentID != nil {
		return *c.ParentID
	}
	return c.ID
}
