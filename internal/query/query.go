package query

import (
	"context"
	"fmt"
	"strings"

	"expense-ledger-go/internal/identity"
	"expense-ledger-go/internal/models"
	"expense-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultRecentLimit = 5
	MinRecentLimit     = 1
	MaxRecentLimit     = 50
)

// Engine answers summary and listing queries for a single user.
//
// A range with startDate > endDate matches nothing; all three operations
// return an empty result for it rather than an error.
type Engine struct {
	users    identity.UserResolver
	expenses store.ExpenseStore
}

func NewEngine(users identity.UserResolver, expenses store.ExpenseStore) *Engine {
	return &Engine{users: users, expenses: expenses}
}

// GetSummary counts and totals the user's expenses dated within
// [startDate, endDate]. A non-blank category restricts the set to a
// case-insensitive match and is echoed back trimmed.
func (e *Engine) GetSummary(ctx context.Context, externalUserId string, startDate, endDate int64, category *string) (*models.Summary, error) {
	user, err := e.users.Resolve(ctx, externalUserId)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		TotalAmount: decimal.Zero,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if category != nil {
		if trimmed := strings.TrimSpace(*category); trimmed != "" {
			summary.Category = &trimmed
		}
	}
	if startDate > endDate {
		return summary, nil
	}

	params := store.ExpenseRangeParams{
		UserId:    user.Id,
		StartDate: startDate,
		EndDate:   endDate,
		Order:     store.Descending,
	}
	if summary.Category != nil {
		params.CategoryKey = strings.ToLower(*summary.Category)
	}

	expenses, err := e.expenses.ListExpensesInRange(ctx, params)
	if err != nil {
		return nil, store.Unavailable("summarize expenses", err)
	}

	for _, expense := range expenses {
		summary.Count++
		summary.TotalAmount = summary.TotalAmount.Add(expense.Amount)
	}

	zap.L().Debug("Summary computed",
		zap.String("user_id", user.Id),
		zap.Int("count", summary.Count),
		zap.String("total", summary.TotalAmount.String()))
	return summary, nil
}

// GetRecent lists the user's latest expenses, newest first. A nil limit means
// DefaultRecentLimit. Expenses sharing a date are returned in reverse
// insertion order.
func (e *Engine) GetRecent(ctx context.Context, externalUserId string, limit *int) ([]models.RecentExpense, error) {
	user, err := e.users.Resolve(ctx, externalUserId)
	if err != nil {
		return nil, err
	}

	n := DefaultRecentLimit
	if limit != nil {
		n = *limit
	}
	if n < MinRecentLimit || n > MaxRecentLimit {
		return nil, store.NewValidationError(store.ErrInvalidLimit, "limit",
			fmt.Sprintf("must be between %d and %d", MinRecentLimit, MaxRecentLimit))
	}

	expenses, err := e.expenses.ListRecentExpenses(ctx, user.Id, n)
	if err != nil {
		return nil, store.Unavailable("list recent expenses", err)
	}

	recent := make([]models.RecentExpense, 0, len(expenses))
	for _, expense := range expenses {
		recent = append(recent, models.RecentExpense{
			Id:          expense.Id,
			Amount:      expense.Amount,
			Category:    expense.Category,
			Description: expense.Description.Ptr(),
			Date:        expense.Date,
		})
	}
	return recent, nil
}

// GetForReport lists every expense in [startDate, endDate] in chronological
// order. Absent descriptions are rendered as "".
func (e *Engine) GetForReport(ctx context.Context, externalUserId string, startDate, endDate int64) ([]models.ReportRow, error) {
	user, err := e.users.Resolve(ctx, externalUserId)
	if err != nil {
		return nil, err
	}
	if startDate > endDate {
		return []models.ReportRow{}, nil
	}

	expenses, err := e.expenses.ListExpensesInRange(ctx, store.ExpenseRangeParams{
		UserId:    user.Id,
		StartDate: startDate,
		EndDate:   endDate,
		Order:     store.Ascending,
	})
	if err != nil {
		return nil, store.Unavailable("list report expenses", err)
	}

	rows := make([]models.ReportRow, 0, len(expenses))
	for _, expense := range expenses {
		rows = append(rows, models.ReportRow{
			Date:        expense.Date,
			Category:    expense.Category,
			Amount:      expense.Amount,
			Description: expense.Description.OrEmpty(),
		})
	}

	zap.L().Debug("Report rows listed", zap.String("user_id", user.Id), zap.Int("count", len(rows)))
	return rows, nil
}
