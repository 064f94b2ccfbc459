package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneybook/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates an account of the given type with a unique name.
func CreateTestAccount(t *testing.T, db *gorm.DB, accountType models.AccountType) *models.Account {
	t.Helper()
	return CreateTestAccountWithName(t, db, fmt.Sprintf("Test Account %d", nextID()), accountType)
}

// CreateTestAccountWithName creates an account with the given name.
func CreateTestAccountWithName(t *testing.T, db *gorm.DB, name string, accountType models.AccountType) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:     name,
		Type:     accountType,
		Currency: "CNY",
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestRootCategory creates an enabled root category of the given kind.
func CreateTestRootCategory(t *testing.T, db *gorm.DB, kind models.Kind) *models.Category {
	t.Helper()
	return CreateTestRootCategoryWithName(t, db, fmt.Sprintf("Test Root %d", nextID()), kind)
}

// CreateTestRootCategoryWithName creates an enabled root category with the given name.
func CreateTestRootCategoryWithName(t *testing.T, db *gorm.DB, name string, kind models.Kind) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:    name,
		Kind:    kind,
		Enabled: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test root category: %v", err)
	}
	return category
}

// CreateTestChildCategory creates an enabled child under the given root,
// inheriting its kind.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, root *models.Category) *models.Category {
	t.Helper()
	return CreateTestChildCategoryWithName(t, db, fmt.Sprintf("Test Child %d", nextID()), root)
}

// CreateTestChildCategoryWithName creates an enabled child with the given name.
func CreateTestChildCategoryWithName(t *testing.T, db *gorm.DB, name string, root *models.Category) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     name,
		Kind:     root.Kind,
		ParentID: &root.ID,
		Enabled:  true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test child category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given kind and amount
// (in cents) at the given timestamp, with no account or category references.
func CreateTestTransaction(t *testing.T, db *gorm.DB, kind models.Kind, amount int64, ts time.Time) *models.Transaction {
	t.Helper()
	return CreateTestTransactionFor(t, db, nil, nil, kind, amount, ts)
}

// CreateTestTransactionFor creates a transaction referencing the given
// account and category, either of which may be nil. The month bucket and
// root category roll-up are derived the way the write path derives them.
func CreateTestTransactionFor(t *testing.T, db *gorm.DB, account *models.Account, category *models.Category, kind models.Kind, amount int64, ts time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		TS:     ts,
		Month:  models.MonthKey(ts),
		Kind:   kind,
		Amount: amount,
	}
	if account != nil {
		tx.AccountID = &account.ID
	}
	if category != nil {
		tx.CategoryID = &category.ID
		rootID := category.RootID()
		tx.RootCategoryID = &rootID
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
