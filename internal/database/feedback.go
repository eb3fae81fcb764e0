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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expense-ledger-go/internal/models"

	"go.uber.org/zap"
)

func (s *Service) InsertFeedback(ctx context.Context, feedback models.CategoryFeedback) error {
	var (
		predicted  sql.NullString
		confidence sql.NullFloat64
	)
	if feedback.AiPredictedCategory != nil {
		predicted = sql.NullString{String: *feedback.AiPredictedCategory, Valid: true}
	}
	if feedback.AiConfidence != nil {
		confidence = sql.NullFloat64{Float64: *feedback.AiConfidence, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, queryInsertFeedback,
		feedback.Id,
		feedback.UserId,
		feedback.OriginalText,
		predicted,
		confidence,
		feedback.UserChosenCategory,
		feedback.IsCorrection,
		feedback.Timestamp,
	)
	if err != nil {
		zap.L().Error("Failed to insert category feedback",
			zap.String("id", feedback.Id),
			zap.String("user_id", feedback.UserId),
			zap.Error(err))
		return fmt.Errorf("unable to insert category feedback: %w", err)
	}

	zap.L().Debug("Category feedback stored",
		zap.String("id", feedback.Id),
		zap.String("chosen", feedback.UserChosenCategory),
		zap.Bool("is_correction", feedback.IsCorrection))
	return nil
}

// ListFeedbackAfter returns up to limit feedback events with seq > afterSeq in
// insertion order.
func (s *Service) ListFeedbackAfter(ctx context.Context, afterSeq int64, limit int) ([]models.CategoryFeedback, error) {
	rows, err := s.db.QueryContext(ctx, queryFeedbackAfter, afterSeq, limit)
	if err != nil {
		zap.L().Error("Failed to query category feedback", zap.Int64("after_seq", afterSeq), zap.Error(err))
		return nil, fmt.Errorf("unable to query category feedback: %w", err)
	}
	defer closeRows(rows)

	events := make([]models.CategoryFeedback, 0)
	for rows.Next() {
		var (
			f          models.CategoryFeedback
			predicted  sql.NullString
			confidence sql.NullFloat64
		)
		err := rows.Scan(&f.Seq, &f.Id, &f.UserId, &f.OriginalText, &predicted, &confidence,
			&f.UserChosenCategory, &f.IsCorrection, &f.Timestamp)
		if err != nil {
			zap.L().Error("Failed to scan category feedback row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan category feedback row: %w", err)
		}
		if predicted.Valid {
			v := predicted.String
			f.AiPredictedCategory = &v
		}
		if confidence.Valid {
			v := confidence.Float64
			f.AiConfidence = &v
		}
		events = append(events, f)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during category feedback row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating category feedback rows: %w", err)
	}

	return events, nil
}

// GetExportCursor returns the last exported seq for name, or 0 if the
// exporter has never run.
func (s *Service) GetExportCursor(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, queryGetExportCursor, name).Scan(&seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		zap.L().Error("Failed to read export cursor", zap.String("name", name), zap.Error(err))
		return 0, fmt.Errorf("unable to read export cursor: %w", err)
	}
	return seq, nil
}

func (s *Service) SetExportCursor(ctx context.Context, name string, seq int64) error {
	if _, err := s.db.ExecContext(ctx, queryUpsertExportCursor, name, seq); err != nil {
		zap.L().Error("Failed to update export cursor", zap.String("name", name), zap.Int64("seq", seq), zap.Error(err))
		return fmt.Errorf("unable to update export cursor: %w", err)
	}
	zap.L().Debug("Export cursor updated", zap.String("name", name), zap.Int64("seq", seq))
	return nil
}
