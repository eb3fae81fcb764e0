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
	"fmt"
	"strings"

	"expense-ledger-go/internal/models"
	"expense-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) InsertExpense(ctx context.Context, expense models.Expense) error {
	desc := sql.NullString{}
	if v, ok := expense.Description.Get(); ok {
		desc = sql.NullString{String: v, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, queryInsertExpense,
		expense.Id,
		expense.UserId,
		expense.Amount.String(),
		expense.Category,
		categoryKey(expense.Category),
		desc,
		expense.Date,
		expense.CreatedAt,
	)
	if err != nil {
		zap.L().Error("Failed to insert expense",
			zap.String("id", expense.Id),
			zap.String("user_id", expense.UserId),
			zap.Error(err))
		return fmt.Errorf("unable to insert expense: %w", err)
	}

	zap.L().Debug("Expense stored",
		zap.String("id", expense.Id),
		zap.String("user_id", expense.UserId),
		zap.String("amount", expense.Amount.String()),
		zap.String("category", expense.Category))
	return nil
}

func (s *Service) ListExpensesInRange(ctx context.Context, params store.ExpenseRangeParams) ([]models.Expense, error) {
	var (
		query string
		args  []any
	)
	key := categoryKey(params.CategoryKey)
	switch {
	case key == "" && params.Order == store.Descending:
		query = queryExpensesInRangeDesc
		args = []any{params.UserId, params.StartDate, params.EndDate}
	case key == "":
		query = queryExpensesInRangeAsc
		args = []any{params.UserId, params.StartDate, params.EndDate}
	case params.Order == store.Descending:
		query = queryExpensesInRangeByCategoryDesc
		args = []any{params.UserId, key, params.StartDate, params.EndDate}
	default:
		query = queryExpensesInRangeByCategoryAsc
		args = []any{params.UserId, key, params.StartDate, params.EndDate}
	}

	zap.L().Debug("Querying expenses in range",
		zap.String("user_id", params.UserId),
		zap.Int64("start", params.StartDate),
		zap.Int64("end", params.EndDate),
		zap.String("category_key", key))

	return s.queryExpenses(ctx, query, args...)
}

func (s *Service) ListRecentExpenses(ctx context.Context, userId string, limit int) ([]models.Expense, error) {
	zap.L().Debug("Querying recent expenses", zap.String("user_id", userId), zap.Int("limit", limit))
	return s.queryExpenses(ctx, queryRecentExpenses, userId, limit)
}

func (s *Service) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query expenses", zap.Error(err))
		return nil, fmt.Errorf("unable to query expenses: %w", err)
	}
	defer closeRows(rows)

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var (
			e      models.Expense
			amount string
			desc   sql.NullString
		)
		if err := rows.Scan(&e.Seq, &e.Id, &e.UserId, &amount, &e.Category, &desc, &e.Date, &e.CreatedAt); err != nil {
			zap.L().Error("Failed to scan expense row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan expense row: %w", err)
		}

		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			zap.L().Error("Stored expense amount is not a decimal", zap.String("id", e.Id), zap.String("amount", amount))
			return nil, fmt.Errorf("unable to parse amount for expense %s: %w", e.Id, err)
		}
		if desc.Valid {
			e.Description = models.SomeDescription(desc.String)
		}

		expenses = append(expenses, e)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during expense row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	return expenses, nil
}

// categoryKey is the case-insensitive form used for category matching.
func categoryKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
