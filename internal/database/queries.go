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

const (
	// User queries
	queryGetUsers = `
		SELECT id, username, external_id, created_at
		FROM users
		ORDER BY created_at, username`

	queryInsertUser = `
		INSERT INTO users (id, username, external_id) VALUES (?, ?, ?)`

	queryGetUserById = `
		SELECT id, username, external_id, created_at
		FROM users
		WHERE id = ?`

	queryGetUserByExternalId = `
		SELECT id, username, external_id, created_at
		FROM users
		WHERE external_id = ?`

	// Expense queries
	queryInsertExpense = `
		INSERT INTO expenses (id, user_id, amount, category, category_key, description, date_ms, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryExpensesInRangeAsc = `
		SELECT seq, id, user_id, amount, category, description, date_ms, created_at_ms
		FROM expenses
		WHERE user_id = ? AND date_ms >= ? AND date_ms <= ?
		ORDER BY date_ms ASC, seq ASC`

	queryExpensesInRangeDesc = `
		SELECT seq, id, user_id, amount, category, description, date_ms, created_at_ms
		FROM expenses
		WHERE user_id = ? AND date_ms >= ? AND date_ms <= ?
		ORDER BY date_ms DESC, seq DESC`

	queryExpensesInRangeByCategoryAsc = `
		SELECT seq, id, user_id, amount, category, description, date_ms, created_at_ms
		FROM expenses
		WHERE user_id = ? AND category_key = ? AND date_ms >= ? AND date_ms <= ?
		ORDER BY date_ms ASC, seq ASC`

	queryExpensesInRangeByCategoryDesc = `
		SELECT seq, id, user_id, amount, category, description, date_ms, created_at_ms
		FROM expenses
		WHERE user_id = ? AND category_key = ? AND date_ms >= ? AND date_ms <= ?
		ORDER BY date_ms DESC, seq DESC`

	queryRecentExpenses = `
		SELECT seq, id, user_id, amount, category, description, date_ms, created_at_ms
		FROM expenses
		WHERE user_id = ?
		ORDER BY date_ms DESC, seq DESC
		LIMIT ?`

	// Feedback queries
	queryInsertFeedback = `
		INSERT INTO category_feedback (id, user_id, original_text, ai_predicted_category, ai_confidence,
			user_chosen_category, is_correction, timestamp_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryFeedbackAfter = `
		SELECT seq, id, user_id, original_text, ai_predicted_category, ai_confidence,
			user_chosen_category, is_correction, timestamp_ms
		FROM category_feedback
		WHERE seq > ?
		ORDER BY seq ASC
		LIMIT ?`

	// Export cursor queries
	queryGetExportCursor = `
		SELECT last_seq FROM export_cursors WHERE name = ?`

	queryUpsertExportCursor = `
		INSERT INTO export_cursors (name, last_seq, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			last_seq = excluded.last_seq,
			updated_at = CURRENT_TIMESTAMP`
)
