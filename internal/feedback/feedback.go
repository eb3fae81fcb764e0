package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"expense-ledger-go/internal/identity"
	"expense-ledger-go/internal/models"
	"expense-ledger-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordParams describes one AI suggestion shown to a user and the category
// the user settled on. A nil or blank PredictedCategory means the classifier
// had no suggestion.
type RecordParams struct {
	ExternalUserId    string
	OriginalText      string
	PredictedCategory *string
	Confidence        *float64
	ChosenCategory    string
}

// Ledger is the append-only categorization feedback ledger.
type Ledger struct {
	users    identity.UserResolver
	feedback store.FeedbackStore
	now      func() time.Time
}

func NewLedger(users identity.UserResolver, feedback store.FeedbackStore) *Ledger {
	return &Ledger{users: users, feedback: feedback, now: time.Now}
}

// WithClock replaces the time source used for event timestamps.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// RecordFeedback stores the event. When the user cannot be resolved the event
// is dropped and a Dropped result is returned with a nil error.
func (l *Ledger) RecordFeedback(ctx context.Context, params RecordParams) (models.FeedbackResult, error) {
	user, err := l.users.Resolve(ctx, params.ExternalUserId)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			zap.L().Info("Dropping feedback for unregistered user", zap.String("external_id", params.ExternalUserId))
			return models.FeedbackResult{Outcome: models.FeedbackDropped}, nil
		}
		return models.FeedbackResult{}, err
	}

	chosen := strings.TrimSpace(params.ChosenCategory)
	if chosen == "" {
		return models.FeedbackResult{}, store.NewValidationError(store.ErrInvalidCategory, "chosen_category", "must not be empty")
	}

	predicted := normalizePrediction(params.PredictedCategory)
	event := models.CategoryFeedback{
		Id:                  uuid.New().String(),
		UserId:              user.Id,
		OriginalText:        params.OriginalText,
		AiPredictedCategory: predicted,
		AiConfidence:        params.Confidence,
		UserChosenCategory:  chosen,
		IsCorrection:        IsCorrection(predicted, chosen),
		Timestamp:           l.now().UnixMilli(),
	}

	if err := l.feedback.InsertFeedback(ctx, event); err != nil {
		return models.FeedbackResult{}, store.Unavailable("record feedback", err)
	}

	zap.L().Info("Category feedback recorded",
		zap.String("id", event.Id),
		zap.String("user_id", user.Id),
		zap.String("chosen", chosen),
		zap.Bool("is_correction", event.IsCorrection))

	return models.FeedbackResult{Outcome: models.FeedbackRecorded, Id: event.Id}, nil
}

// IsCorrection reports whether the user overrode a suggestion. No suggestion
// is never a correction.
func IsCorrection(predicted *string, chosen string) bool {
	if predicted == nil {
		return false
	}
	p := strings.ToLower(strings.TrimSpace(*predicted))
	if p == "" {
		return false
	}
	return p != strings.ToLower(strings.TrimSpace(chosen))
}

func normalizePrediction(predicted *string) *string {
	if predicted == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*predicted)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
