/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"

	"expense-ledger-go/internal/categorizer"
	"expense-ledger-go/internal/feedback"
	"expense-ledger-go/internal/models"

	"go.uber.org/zap"
)

// Suggestion is a category proposal for free text.
type Suggestion struct {
	categorizer.Prediction
	NeedsConfirmation bool
}

// SuggestCategory asks the configured predictor for a category. Without a
// predictor every suggestion is empty and needs confirmation.
func (s *LedgerService) SuggestCategory(ctx context.Context, text string) Suggestion {
	if s.predictor == nil {
		return Suggestion{NeedsConfirmation: true}
	}

	p := s.predictor.Predict(ctx, text)
	suggestion := Suggestion{
		Prediction:        p,
		NeedsConfirmation: categorizer.NeedsConfirmation(p, s.threshold),
	}
	zap.L().Debug("Category suggested",
		zap.Bool("has_category", p.Category != nil),
		zap.Bool("needs_confirmation", suggestion.NeedsConfirmation))
	return suggestion
}

func (s *LedgerService) RecordFeedback(ctx context.Context, params feedback.RecordParams) (models.FeedbackResult, error) {
	return s.feedback.RecordFeedback(ctx, params)
}
