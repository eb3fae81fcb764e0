package store

import (
	"context"

	"expense-ledger-go/internal/models"
)

// SortOrder selects chronological or reverse-chronological listings.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// ExpenseRangeParams selects a user's expenses with date in [StartDate, EndDate].
// CategoryKey, when non-empty, must already be lowercased and trimmed.
type ExpenseRangeParams struct {
	UserId      string
	StartDate   int64
	EndDate     int64
	CategoryKey string
	Order       SortOrder
}

// UserStore is the identity lookup the resolver depends on.
type UserStore interface {
	GetUserByExternalId(ctx context.Context, externalId string) (*models.User, error)
}

// ExpenseStore persists and reads expense records.
type ExpenseStore interface {
	InsertExpense(ctx context.Context, expense models.Expense) error
	ListExpensesInRange(ctx context.Context, params ExpenseRangeParams) ([]models.Expense, error)
	ListRecentExpenses(ctx context.Context, userId string, limit int) ([]models.Expense, error)
}

// FeedbackStore persists categorization feedback events and serves the
// exporter's cursor-based reads.
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, feedback models.CategoryFeedback) error
	ListFeedbackAfter(ctx context.Context, afterSeq int64, limit int) ([]models.CategoryFeedback, error)
	GetExportCursor(ctx context.Context, name string) (int64, error)
	SetExportCursor(ctx context.Context, name string, seq int64) error
}

// LedgerStore defines the contract that every backend must satisfy.
type LedgerStore interface {
	UserStore
	ExpenseStore
	FeedbackStore

	// --- Users ---
	CreateUser(ctx context.Context, username, externalId string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)

	// --- Lifecycle ---
	Ping(ctx context.Context) error
	Close()
}
