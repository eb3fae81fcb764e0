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

package models

import (
	"github.com/shopspring/decimal"
)

// Summary is the result of a range-bounded, optionally category-filtered
// aggregation. Category echoes the trimmed filter, or nil when none applied.
type Summary struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Category    *string         `json:"category,omitempty"`
	StartDate   int64           `json:"start_date"`
	EndDate     int64           `json:"end_date"`
}

// RecentExpense is one entry of a most-recent-first listing.
type RecentExpense struct {
	Id          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description *string         `json:"description,omitempty"`
	Date        int64           `json:"date"`
}

// ReportRow is one entry of a chronological report listing. Description is
// always a string here; an absent description is rendered as "".
type ReportRow struct {
	Date        int64           `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// FeedbackOutcome tells whether a feedback event was stored.
type FeedbackOutcome string

const (
	FeedbackRecorded FeedbackOutcome = "recorded"
	FeedbackDropped  FeedbackOutcome = "dropped"
)

// FeedbackResult is returned by the feedback ledger. Id is empty when the
// event was dropped.
type FeedbackResult struct {
	Outcome FeedbackOutcome `json:"outcome"`
	Id      string          `json:"id,omitempty"`
}

// Dropped reports whether the event was discarded because the user could not
// be resolved.
func (r FeedbackResult) Dropped() bool {
	return r.Outcome == FeedbackDropped
}
