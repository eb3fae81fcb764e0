package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"expense-ledger-go/internal/identity"
	"expense-ledger-go/internal/models"
	"expense-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// FutureTolerance is how far past the current time an expense date may be.
	FutureTolerance = 24 * time.Hour

	// MaxIntegerDigits and MaxScale bound an amount to
	// 999,999,999,999.9999.
	MaxIntegerDigits = 12
	MaxScale         = 4
)

// LogExpenseParams describes a single expense to record. Date is epoch
// milliseconds of when the expense occurred.
type LogExpenseParams struct {
	ExternalUserId string
	Amount         decimal.Decimal
	Category       string
	Description    *string
	Date           int64
}

// Ledger validates and persists expenses.
type Ledger struct {
	users    identity.UserResolver
	expenses store.ExpenseStore
	now      func() time.Time
}

func NewLedger(users identity.UserResolver, expenses store.ExpenseStore) *Ledger {
	return &Ledger{users: users, expenses: expenses, now: time.Now}
}

// WithClock replaces the time source used for date validation and
// record-creation timestamps.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// LogExpense records an expense and returns its id. Nothing is written
// unless every field is valid.
func (l *Ledger) LogExpense(ctx context.Context, params LogExpenseParams) (string, error) {
	user, err := l.users.Resolve(ctx, params.ExternalUserId)
	if err != nil {
		return "", err
	}

	category := strings.TrimSpace(params.Category)
	now := l.now()
	if err := validate(params.Amount, category, params.Date, now); err != nil {
		zap.L().Debug("Rejected expense",
			zap.String("user_id", user.Id),
			zap.Error(err))
		return "", err
	}

	expense := models.Expense{
		Id:          uuid.New().String(),
		UserId:      user.Id,
		Amount:      params.Amount,
		Category:    category,
		Description: models.NormalizeDescription(params.Description),
		Date:        params.Date,
		CreatedAt:   now.UnixMilli(),
	}

	if err := l.expenses.InsertExpense(ctx, expense); err != nil {
		return "", store.Unavailable("log expense", err)
	}

	zap.L().Info("Expense logged",
		zap.String("id", expense.Id),
		zap.String("user_id", user.Id),
		zap.String("amount", expense.Amount.String()),
		zap.String("category", expense.Category),
		zap.Int64("date", expense.Date))

	return expense.Id, nil
}

func validate(amount decimal.Decimal, category string, date int64, now time.Time) error {
	if !amount.IsPositive() {
		return store.NewValidationError(store.ErrInvalidAmount, "amount", "must be greater than 0")
	}
	// checked on the exponent so that huge values are never expanded
	if amount.Exponent() < -MaxScale {
		return store.NewValidationError(store.ErrInvalidAmount, "amount",
			fmt.Sprintf("must have at most %d decimal places", MaxScale))
	}
	if amount.NumDigits()+int(amount.Exponent()) > MaxIntegerDigits {
		return store.NewValidationError(store.ErrInvalidAmount, "amount",
			fmt.Sprintf("must have at most %d integer digits", MaxIntegerDigits))
	}
	if category == "" {
		return store.NewValidationError(store.ErrInvalidCategory, "category", "must not be empty")
	}
	if date < 0 {
		return store.NewValidationError(store.ErrInvalidDate, "date", "must not be negative")
	}
	if date > now.Add(FutureTolerance).UnixMilli() {
		return store.NewValidationError(store.ErrInvalidDate, "date", "must not be more than 24h in the future")
	}
	return nil
}
