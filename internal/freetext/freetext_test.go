package freetext

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func day(year int, month time.Month, d int) int64 {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func TestParseExpense(t *testing.T) {
	today := day(2024, time.March, 15)

	tests := []struct {
		text      string
		amount    string
		desc      string
		date      int64
		dateFound bool
	}{
		{"spent $20 on lunch yesterday", "20", "lunch", day(2024, time.March, 14), true},
		{"paid 15 for coffee", "15", "coffee", today, false},
		{"got groceries for 50 dollars", "50", "groceries", today, false},
		{"10 dollars for taxi", "10", "taxi", today, false},
		{"movie tickets 25", "25", "movie tickets", today, false},
		{"bought shoes for 1,250.50 on 2024-03-10", "1250.50", "shoes", day(2024, time.March, 10), true},
		{"€12.50 pizza March 3", "12.50", "pizza", day(2024, time.March, 3), true},
		{"£ 7 online course on 03/01/2024", "7", "online course", day(2024, time.March, 1), true},
		{"Spent 4.5 on cat food today", "4.5", "cat food", today, true},
		{"spent 20", "20", "", today, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseExpense(tt.text, now)
			require.NoError(t, err)

			assert.True(t, decimal.RequireFromString(tt.amount).Equal(got.Amount), "amount %s", got.Amount)
			assert.Equal(t, tt.desc, got.Description)
			assert.Equal(t, tt.date, got.Date)
			assert.Equal(t, tt.dateFound, got.DateFound)
		})
	}
}

func TestParseExpense_NoAmount(t *testing.T) {
	for _, text := range []string{"", "lunch with friends", "spent 0 on nothing", "-5 refund", "coffee on 2024-03-10"} {
		_, err := ParseExpense(text, now)
		assert.ErrorIs(t, err, ErrNoAmount, text)
	}
}

func TestCategorizerText(t *testing.T) {
	assert.Equal(t, NoDescription, Expense{}.CategorizerText())
	assert.Equal(t, "lunch", Expense{Description: "lunch"}.CategorizerText())
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"spent $20 on lunch yesterday", IntentLogExpense},
		{"paid 15 for coffee", IntentLogExpense},
		{"got groceries for 50 dollars", IntentLogExpense},
		{"how much did I spend on food?", IntentQuery},
		{"show me my report for last month", IntentQuery},
		{"10 dollars for taxi", IntentUnknown},
		{"movie tickets 25", IntentUnknown},
		{"I paid for lunch", IntentUnknown},
		{"  ", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIntent(tt.text))
		})
	}
}
