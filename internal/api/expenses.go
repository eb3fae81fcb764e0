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

	"expense-ledger-go/internal/ledger"
	"expense-ledger-go/internal/models"
)

func (s *LedgerService) LogExpense(ctx context.Context, params ledger.LogExpenseParams) (string, error) {
	return s.expenses.LogExpense(ctx, params)
}

func (s *LedgerService) GetSummary(ctx context.Context, externalUserId string, startDate, endDate int64, category *string) (*models.Summary, error) {
	return s.queries.GetSummary(ctx, externalUserId, startDate, endDate, category)
}

func (s *LedgerService) GetRecent(ctx context.Context, externalUserId string, limit *int) ([]models.RecentExpense, error) {
	return s.queries.GetRecent(ctx, externalUserId, limit)
}

func (s *LedgerService) GetForReport(ctx context.Context, externalUserId string, startDate, endDate int64) ([]models.ReportRow, error) {
	return s.queries.GetForReport(ctx, externalUserId, startDate, endDate)
}
