package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered user. ExternalId is the chat/session key the
// transport uses to address the user.
type User struct {
	Id         string    `db:"id"`
	Username   string    `db:"username"`
	ExternalId string    `db:"external_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// Expense is an immutable ledger record. Date is epoch milliseconds of when
// the expense occurred, not when it was recorded.
type Expense struct {
	Id          string          `db:"id"`
	Seq         int64           `db:"seq"`
	UserId      string          `db:"user_id"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	Description Description     `db:"description"`
	Date        int64           `db:"date_ms"`
	CreatedAt   int64           `db:"created_at_ms"`
}

// CategoryFeedback is an append-only record of an AI category suggestion and
// the category the user finally chose.
type CategoryFeedback struct {
	Id                  string   `db:"id"`
	Seq                 int64    `db:"seq"`
	UserId              string   `db:"user_id"`
	OriginalText        string   `db:"original_text"`
	AiPredictedCategory *string  `db:"ai_predicted_category"`
	AiConfidence        *float64 `db:"ai_confidence"`
	UserChosenCategory  string   `db:"user_chosen_category"`
	IsCorrection        bool     `db:"is_correction"`
	Timestamp           int64    `db:"timestamp_ms"`
}
