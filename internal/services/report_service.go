package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/pagination"
)

// Names shown when a reference resolves to nothing, matching the labels the
// bill and insights views use.
const (
	uncategorizedName = "未分类"
	noAccountName     = "未指定"
	othersBucketName  = "其他"
	othersBucketID    = "__others__"
)

// topGroupLimit is how many grouped-sum buckets survive before the rest
// collapse into the synthetic "others" bucket.
const topGroupLimit = 10

// reportService answers read-only queries over the transaction store.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// ListTransactions returns transactions matching the filter, newest first.
// Range/kind/account/roll-up filters apply in SQL; the keyword is matched in
// memory against the resolved account and category names plus the note.
func (s *reportService) ListTransactions(filter TransactionFilter) ([]BillRow, error) {
	q := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter)

	var transactions []models.Transaction
	if err := q.Order("ts DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	accountsByID, categoriesByID, err := s.loadReferenceMaps()
	if err != nil {
		return nil, err
	}

	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	rows := make([]BillRow, 0, len(transactions))
	for _, t := range transactions {
		row := buildBillRow(t, accountsByID, categoriesByID)
		if keyword != "" && !matchesKeyword(row, keyword) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListTransactionsPage pages through the filtered bill history. Pagination
// happens after keyword filtering, so totals reflect what the user sees.
func (s *reportService) ListTransactionsPage(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[BillRow], error) {
	rows, err := s.ListTransactions(filter)
	if err != nil {
		return nil, err
	}

	page.Defaults()
	window := pagination.Slice(rows, page)
	result := pagination.NewPageResponse(window, page.Page, page.PageSize, int64(len(rows)))
	return &result, nil
}

// GroupedSums sums amounts per category bucket for one kind: per root, per
// child, or per child within one selected root. Buckets are sorted by sum
// descending; everything beyond the top ten collapses into a single bucket
// that keeps the aggregate sum and record count. Uncategorized records are
// skipped.
func (s *reportService) GroupedSums(kind models.Kind, view GroupView, selectedRootID string, filter TransactionFilter) ([]CategorySum, error) {
	filter.Kind = &kind
	if view == GroupByRootChildren && selectedRootID != "" {
		filter.RootCategoryID = &selectedRootID
	}

	rows, err := s.ListTransactions(filter)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]*CategorySum)
	for _, r := range rows {
		var id, name string
		if view == GroupByRoot {
			id = deref(r.RootCategoryID)
			name = r.RootName
		} else {
			id = deref(r.CategoryID)
			name = r.ChildName
		}
		if id == "" {
			continue
		}
		if name == "" {
			name = uncategorizedName
		}

		bucket, ok := sums[id]
		if !ok {
			bucket = &CategorySum{CategoryID: id, Name: name}
			sums[id] = bucket
		}
		bucket.TotalCents += r.Amount
		bucket.Count++
	}

	groups := make([]CategorySum, 0, len(sums))
	for _, bucket := range sums {
		groups = append(groups, *bucket)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalCents != groups[j].TotalCents {
			return groups[i].TotalCents > groups[j].TotalCents
		}
		return groups[i].Name < groups[j].Name
	})

	if len(groups) > topGroupLimit {
		top := groups[:topGroupLimit]
		others := CategorySum{CategoryID: othersBucketID, Name: othersBucketName}
		for _, g := range groups[topGroupLimit:] {
			others.TotalCents += g.TotalCents
			others.Count += g.Count
		}
		if others.TotalCents > 0 {
			top = append(top, others)
		}
		groups = top
	}
	return groups, nil
}

// AccountSums sums amounts per account name for one kind, descending.
func (s *reportService) AccountSums(kind models.Kind, filter TransactionFilter) ([]AccountSum, error) {
	filter.Kind = &kind

	rows, err := s.ListTransactions(filter)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]int64)
	for _, r := range rows {
		name := r.AccountName
		if name == "" {
			name = noAccountName
		}
		sums[name] += r.Amount
	}

	result := make([]AccountSum, 0, len(sums))
	for name, total := range sums {
		result = append(result, AccountSum{Name: name, TotalCents: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalCents != result[j].TotalCents {
			return result[i].TotalCents > result[j].TotalCents
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// DailyTrend buckets the filtered transactions by local calendar day,
// summing expense and income separately and deriving net income per day.
// Days come back sorted ascending by date key.
func (s *reportService) DailyTrend(filter TransactionFilter) ([]DayTotal, error) {
	rows, err := s.ListTransactions(filter)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DayTotal)
	for _, r := range rows {
		key := models.DayKey(r.TS)
		day, ok := byDay[key]
		if !ok {
			day = &DayTotal{Day: key}
			byDay[key] = day
		}
		if r.Kind == models.KindExpense {
			day.ExpenseCents += r.Amount
		} else {
			day.IncomeCents += r.Amount
		}
		day.NetCents = day.IncomeCents - day.ExpenseCents
	}

	days := make([]DayTotal, 0, len(byDay))
	for _, day := range byDay {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days, nil
}

// MonthTotals sums expense and income separately across one month bucket.
func (s *reportService) MonthTotals(month string) (*KindTotals, error) {
	totals := &KindTotals{}

	type kindSum struct {
		Kind  models.Kind
		Total int64
	}
	var sums []kindSum
	if err := s.db.Model(&models.Transaction{}).
		Select("kind, IFNULL(SUM(amount_cents), 0) AS total").
		Where("month = ?", month).
		Group("kind").
		Scan(&sums).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	for _, row := range sums {
		switch row.Kind {
		case models.KindExpense:
			totals.ExpenseCents = row.Total
		case models.KindIncome:
			totals.IncomeCents = row.Total
		}
	}
	return totals, nil
}

// Summarize computes the KPI row over the filtered transactions: expense,
// income, net, and average expense per day with at least one record.
func (s *reportService) Summarize(filter TransactionFilter) (*Summary, error) {
	rows, err := s.ListTransactions(filter)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	activeDays := make(map[string]bool)
	for _, r := range rows {
		if r.Kind == models.KindExpense {
			summary.ExpenseCents += r.Amount
		} else {
			summary.IncomeCents += r.Amount
		}
		activeDays[models.DayKey(r.TS)] = true
	}
	summary.NetCents = summary.IncomeCents - summary.ExpenseCents

	summary.ActiveDays = len(activeDays)
	days := summary.ActiveDays
	if days < 1 {
		days = 1
	}
	summary.AvgExpensePerDay = int64(math.Round(float64(summary.ExpenseCents) / float64(days)))
	return summary, nil
}

// Snapshot returns every transaction record, oldest first, for export as a
// self-describing structured document.
func (s *reportService) Snapshot() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Order("ts ASC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return transactions, nil
}

// applyTransactionFilters applies the SQL-expressible filter fields.
func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.From != nil {
		q = q.Where("ts >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("ts <= ?", *f.To)
	}
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.RootCategoryID != nil {
		q = q.Where("root_category_id = ?", *f.RootCategoryID)
	}
	return q
}

// DayRange converts inclusive "YYYY-MM-DD" bounds into a timestamp filter
// covering start's first instant through end's last instant in local time.
// Either bound may be empty for an open-ended range.
func DayRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, time.Local)
		if err != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidArgument, "invalid start date: "+start)
		}
		from = &t
	}
	if end != "" {
		t, err := time.ParseInLocation("2006-01-02", end, time.Local)
		if err != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidArgument, "invalid end date: "+end)
		}
		endOfDay := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &endOfDay
	}
	return from, to, nil
}

func (s *reportService) loadReferenceMaps() (map[string]models.Account, map[string]models.Category, error) {
	var accounts []models.Account
	if err := s.db.Find(&accounts).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	accountsByID := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.ID] = a
	}
	categoriesByID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		categoriesByID[c.ID] = c
	}
	return accountsByID, categoriesByID, nil
}

func buildBillRow(t models.Transaction, accountsByID map[string]models.Account, categoriesByID map[string]models.Category) BillRow {
	row := BillRow{Transaction: t, Currency: "CNY"}
	if t.AccountID != nil {
		if account, ok := accountsByID[*t.AccountID]; ok {
			row.AccountName = account.Name
			row.Currency = account.Currency
		}
	}
	if t.RootCategoryID != nil {
		if root, ok := categoriesByID[*t.RootCategoryID]; ok {
			row.RootName = root.Name
		}
	}
	if t.CategoryID != nil {
		if child, ok := categoriesByID[*t.CategoryID]; ok {
			row.ChildName = child.Name
		}
	}
	return row
}

// matchesKeyword reports whether any of the row's searchable fields contain
// the lower-cased keyword.
func matchesKeyword(row BillRow, keyword string) bool {
	for _, field := range []string{row.AccountName, row.RootName, row.ChildName, deref(row.Note)} {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
