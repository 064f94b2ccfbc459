package services

import (
	"time"

	"moneybook/internal/models"
	"moneybook/internal/pagination"
)

// CreateAccountParams holds input for AccountServicer.CreateAccount.
// Type defaults to cash and Currency to CNY when left empty.
type CreateAccountParams struct {
	Name     string
	Type     models.AccountType `validate:"omitempty,account_type"`
	Currency string             `validate:"omitempty,iso4217"`
}

// AccountServicer defines the contract for the account store.
type AccountServicer interface {
	CreateAccount(p CreateAccountParams) (*models.Account, error)
	ListAccounts() ([]models.Account, error)
	GetAccountByID(id string) (*models.Account, error)
	RenameAccount(id, name string) (*models.Account, error)
	DeleteAccount(id string) error
}

// CreateCategoryParams holds input for CategoryServicer.CreateCategory.
// A nil ParentID creates a root category; otherwise a child of that root.
type CreateCategoryParams struct {
	Kind     models.Kind `validate:"required,kind"`
	Name     string
	ParentID *string
	Color    string `validate:"omitempty,hex_color"`
}

// CategoryServicer defines the contract for the two-level category store.
type CategoryServicer interface {
	CreateCategory(p CreateCategoryParams) (*models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	ListRootCategories(kind models.Kind, includeDisabled bool) ([]models.Category, error)
	ListChildren(rootID string, includeDisabled bool) ([]models.Category, error)
	RenameCategory(id, name string) (*models.Category, error)
	SetCategoryEnabled(id string, enabled bool) error
	ReparentChild(childID, newRootID string) error
	DeleteCategory(id string) error
}

// TransactionParams holds the mutable fields of a transaction. Add and
// Update both take the full set: an update replaces every field at once.
type TransactionParams struct {
	Kind       models.Kind `validate:"required,kind"`
	Amount     int64
	Note       string
	AccountID  *string
	CategoryID *string
	TS         time.Time
}

// TransactionServicer defines the contract for the transaction store.
type TransactionServicer interface {
	AddTransaction(p TransactionParams) (*models.Transaction, error)
	UpdateTransaction(id string, p TransactionParams) (*models.Transaction, error)
	GetTransactionByID(id string) (*models.Transaction, error)
	DeleteTransaction(id string) error
}

// Seeder populates default accounts and categories into an empty store.
type Seeder interface {
	EnsureSeed() error
}

// TransactionFilter holds optional filter parameters for reading transactions.
// From/To bound ts inclusively; either may be nil for an open-ended range.
// Keyword is matched case-insensitively against account name, root category
// name, child category name, and note.
type TransactionFilter struct {
	From           *time.Time
	To             *time.Time
	Kind           *models.Kind
	AccountID      *string
	RootCategoryID *string
	Keyword        string
}

// BillRow is a transaction enriched with the display names its references
// resolve to.
type BillRow struct {
	models.Transaction
	AccountName string `json:"account_name,omitempty"`
	RootName    string `json:"root_name,omitempty"`
	ChildName   string `json:"child_name,omitempty"`
	Currency    string `json:"currency"`
}

// GroupView selects how grouped sums are bucketed.
type GroupView string

const (
	// GroupByRoot buckets by root category.
	GroupByRoot GroupView = "root"
	// GroupByChild buckets by child category across all roots.
	GroupByChild GroupView = "child"
	// GroupByRootChildren buckets by child within one selected root.
	GroupByRootChildren GroupView = "rootChildren"
)

// CategorySum is one grouped-sum bucket.
type CategorySum struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	TotalCents int64  `json:"total_cents"`
	Count      int64  `json:"count"`
}

// AccountSum is one per-account total.
type AccountSum struct {
	Name       string `json:"name"`
	TotalCents int64  `json:"total_cents"`
}

// DayTotal is one calendar-day bucket of the daily trend.
type DayTotal struct {
	Day          string `json:"day"`
	ExpenseCents int64  `json:"expense_cents"`
	IncomeCents  int64  `json:"income_cents"`
	NetCents     int64  `json:"net_cents"`
}

// KindTotals holds expense and income sums over one scope.
type KindTotals struct {
	ExpenseCents int64 `json:"expense_cents"`
	IncomeCents  int64 `json:"income_cents"`
}

// Summary is the KPI row over a filtered set of transactions.
type Summary struct {
	ExpenseCents     int64 `json:"expense_cents"`
	IncomeCents      int64 `json:"income_cents"`
	NetCents         int64 `json:"net_cents"`
	AvgExpensePerDay int64 `json:"avg_expense_per_day_cents"`
	ActiveDays       int   `json:"active_days"`
}

// ReportServicer answers read-only questions over the transaction store.
type ReportServicer interface {
	ListTransactions(filter TransactionFilter) ([]BillRow, error)
	ListTransactionsPage(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[BillRow], error)
	GroupedSums(kind models.Kind, view GroupView, selectedRootID string, filter TransactionFilter) ([]CategorySum, error)
	AccountSums(kind models.Kind, filter TransactionFilter) ([]AccountSum, error)
	DailyTrend(filter TransactionFilter) ([]DayTotal, error)
	MonthTotals(month string) (*KindTotals, error)
	Summarize(filter TransactionFilter) (*Summary, error)
	Snapshot() ([]models.Transaction, error)
}
