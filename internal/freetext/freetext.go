// Package freetext turns chat-style messages such as "spent $20 on lunch
// yesterday" into the fields of an expense.
package freetext

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"expense-ledger-go/internal/period"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NoDescription is what the categorizer receives when nothing but the amount
// and date was written.
const NoDescription = "N/A"

var ErrNoAmount = errors.New("no positive amount found in text")

// Intent is the kind of request a message most likely is.
type Intent string

const (
	IntentLogExpense Intent = "LOG_EXPENSE"
	IntentQuery      Intent = "QUERY"
	IntentUnknown    Intent = "UNKNOWN"
)

var (
	datePattern = regexp.MustCompile(`(?i)\b(today|yesterday|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4}|` +
		`(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:tember)?|` +
		`oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+\d{1,2})\b`)

	amountPattern = regexp.MustCompile(`(?i)(-\s*)?([$€£]\s*)?\b(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\b` +
		`(?:\s*(?:dollars?|bucks|euros?|pounds?|usd|eur|gbp)\b)?`)

	leadingFiller  = regexp.MustCompile(`(?i)^(?:on|for|at|spent|spend|buy|bought|get|got|paid|pay)(?:\s+|$)`)
	trailingFiller = regexp.MustCompile(`(?i)(?:^|\s+)(?:on|for|at)$`)
	spaces         = regexp.MustCompile(`\s+`)
)

var logKeywords = map[string]bool{
	"spent": true, "spend": true, "paid": true, "pay": true, "bought": true, "buy": true,
	"got": true, "cost": true, "expense": true, "charge": true, "used": true, "purchased": true,
}

var queryPhrases = []string{
	"how much", "show me", "what did i spend", "summary", "details", "report", "category spending",
}

// Expense is what a message says about one expense. Date is midnight of the
// mentioned day in epoch milliseconds, or of today when DateFound is false.
type Expense struct {
	Amount      decimal.Decimal
	Date        int64
	DateFound   bool
	Description string
}

// CategorizerText is the cleaned description, or NoDescription when empty.
func (e Expense) CategorizerText() string {
	if e.Description == "" {
		return NoDescription
	}
	return e.Description
}

// ParseExpense extracts the first positive amount and the first recognizable
// date from text. What remains, minus filler words like "spent" or a dangling
// "on", becomes the description.
func ParseExpense(text string, now time.Time) (Expense, error) {
	rest, date, found := extractDate(text, now)

	amount, rest, ok := extractAmount(rest)
	if !ok {
		return Expense{}, ErrNoAmount
	}

	e := Expense{
		Amount:      amount,
		Date:        date,
		DateFound:   found,
		Description: cleanDescription(rest),
	}
	zap.L().Debug("Parsed free-text expense",
		zap.String("amount", e.Amount.String()),
		zap.Int64("date", e.Date),
		zap.Bool("date_found", e.DateFound),
		zap.String("description", e.Description))
	return e, nil
}

// DetectIntent classifies a message. Query phrases win over everything else;
// a log needs both an amount and a logging verb.
func DetectIntent(text string) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return IntentUnknown
	}

	for _, phrase := range queryPhrases {
		if strings.Contains(lower, phrase) {
			return IntentQuery
		}
	}

	rest, _, _ := extractDate(lower, time.Now())
	if _, _, ok := extractAmount(rest); !ok {
		return IntentUnknown
	}
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if logKeywords[w] {
			return IntentLogExpense
		}
	}
	return IntentUnknown
}

func extractDate(text string, now time.Time) (string, int64, bool) {
	for _, loc := range datePattern.FindAllStringIndex(text, -1) {
		ms, err := period.ParseDate(text[loc[0]:loc[1]], now)
		if err != nil {
			continue
		}
		return text[:loc[0]] + " " + text[loc[1]:], ms, true
	}
	today, _ := period.ParseDate("", now)
	return text, today, false
}

func extractAmount(text string) (decimal.Decimal, string, bool) {
	for _, m := range amountPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[2] >= 0 {
			// negative amounts are never expenses
			continue
		}
		number := strings.ReplaceAll(text[m[6]:m[7]], ",", "")
		amount, err := decimal.NewFromString(number)
		if err != nil || !amount.IsPositive() {
			continue
		}
		return amount, text[:m[0]] + " " + text[m[1]:], true
	}
	return decimal.Zero, text, false
}

func cleanDescription(text string) string {
	s := strings.TrimSpace(spaces.ReplaceAllString(text, " "))
	for {
		next := strings.TrimSpace(trailingFiller.ReplaceAllString(leadingFiller.ReplaceAllString(s, ""), ""))
		if next == s {
			return s
		}
		s = next
	}
}
