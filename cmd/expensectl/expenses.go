package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"expense-ledger-go/internal/api"
	"expense-ledger-go/internal/common"
	"expense-ledger-go/internal/feedback"
	"expense-ledger-go/internal/freetext"
	"expense-ledger-go/internal/ledger"
	"expense-ledger-go/internal/period"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func logCmd() *cobra.Command {
	var (
		user        string
		category    string
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "log <amount | text...>",
		Short: "Log an expense",
		Long: `Log an expense, either as a bare amount with flags or as free text such as
"spent $20 on lunch yesterday". Without --category the description is sent to
the AI categorizer; low-confidence suggestions are confirmed interactively and
the outcome is recorded as categorization feedback.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			in, err := parseLogInput(args, description, date, cmd.Flags().Changed("date"), time.Now())
			if err != nil {
				return err
			}
			amount, dateMs := in.amount, in.date

			var suggestion *api.Suggestion
			chosen := category
			if strings.TrimSpace(chosen) == "" {
				s := services.ApiService.SuggestCategory(ctx, in.categorizerText)
				suggestion = &s
				chosen = chooseCategory(s, os.Stdin, os.Stdout)
			}

			var desc *string
			if in.description != "" {
				desc = &in.description
			}
			id, err := services.ApiService.LogExpense(ctx, ledger.LogExpenseParams{
				ExternalUserId: user,
				Amount:         amount,
				Category:       chosen,
				Description:    desc,
				Date:           dateMs,
			})
			if err != nil {
				return describe(err)
			}
			fmt.Printf("✓ Logged %s in %s on %s (%s)\n",
				common.FormatAmount(amount), strings.TrimSpace(chosen), common.FormatDate(dateMs), id)

			if suggestion != nil {
				result, err := services.ApiService.RecordFeedback(ctx, feedback.RecordParams{
					ExternalUserId:    user,
					OriginalText:      in.categorizerText,
					PredictedCategory: suggestion.Category,
					Confidence:        suggestion.Confidence,
					ChosenCategory:    chosen,
				})
				if err != nil {
					// the expense is already stored; feedback is best effort
					zap.L().Warn("Failed to record categorization feedback", zap.Error(err))
				} else {
					zap.L().Debug("Categorization feedback", zap.String("outcome", string(result.Outcome)))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "external id of the user (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category; omit to ask the AI categorizer")
	cmd.Flags().StringVarP(&description, "desc", "d", "", "description; overrides the one taken from free text")
	cmd.Flags().StringVar(&date, "date", "today", "today, yesterday, YYYY-MM-DD or MM/DD/YYYY; overrides a date in free text")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

type logInput struct {
	amount          decimal.Decimal
	date            int64
	description     string
	categorizerText string
}

// parseLogInput reads the amount, date and description from the log
// arguments. Explicit --desc and --date flags win over what the text says.
func parseLogInput(args []string, descFlag, dateFlag string, dateSet bool, now time.Time) (logInput, error) {
	text := strings.Join(args, " ")
	parsed, err := freetext.ParseExpense(text, now)
	if err != nil {
		if freetext.DetectIntent(text) == freetext.IntentQuery {
			return logInput{}, fmt.Errorf("%q looks like a question, try 'expensectl summary' or 'expensectl recent'", text)
		}
		return logInput{}, fmt.Errorf("could not find an amount in %q", text)
	}

	in := logInput{
		amount:          parsed.Amount,
		date:            parsed.Date,
		description:     parsed.Description,
		categorizerText: parsed.CategorizerText(),
	}
	if dateSet {
		if in.date, err = period.ParseDate(dateFlag, now); err != nil {
			return logInput{}, err
		}
	}
	if d := strings.TrimSpace(descFlag); d != "" {
		in.description = d
		in.categorizerText = d
	}
	return in, nil
}

// chooseCategory accepts a confident suggestion as-is and otherwise asks the
// user, offering the suggestion (or the default category) as the answer for
// an empty line.
func chooseCategory(s api.Suggestion, in io.Reader, out io.Writer) string {
	fallback := "Other"
	if services != nil && services.Categories != nil {
		fallback = services.Categories.Default
	}
	if s.Category != nil {
		fallback = *s.Category
		if !s.NeedsConfirmation {
			return fallback
		}
		fmt.Fprintf(out, "AI suggests '%s' (confidence %.0f%%). ", fallback, confidencePercent(s))
	} else {
		fmt.Fprint(out, "AI could not determine a category. ")
	}
	if services != nil && services.Categories != nil {
		fmt.Fprintf(out, "\nKnown categories: %s\n", strings.Join(services.Categories.Names(), ", "))
	}
	fmt.Fprintf(out, "Category [%s]: ", fallback)

	line, _ := bufio.NewReader(in).ReadString('\n')
	if answer := strings.TrimSpace(line); answer != "" {
		return answer
	}
	return fallback
}

func confidencePercent(s api.Suggestion) float64 {
	if s.Confidence == nil {
		return 0
	}
	return *s.Confidence * 100
}

func summaryCmd() *cobra.Command {
	var (
		user     string
		category string
		periodS  string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total spending for a month, optionally for one category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := period.ParseRange(periodS, time.Now())
			if err != nil {
				return err
			}

			var filter *string
			if category != "" {
				filter = &category
			}
			summary, err := services.ApiService.GetSummary(cmd.Context(), user, r.Start, r.End, filter)
			if err != nil {
				return describe(err)
			}

			title := "Spending for " + r.Label
			if summary.Category != nil {
				title = fmt.Sprintf("Spending on %s for %s", *summary.Category, r.Label)
			}
			common.PrintHeader(title, common.DefaultWidth)
			fmt.Printf("Expenses: %d\n", summary.Count)
			fmt.Printf("Total:    %s\n", common.FormatAmount(summary.TotalAmount))
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "external id of the user (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only count this category")
	cmd.Flags().StringVarP(&periodS, "period", "p", "this month", "this month, last month, 'October 2023', 2023-10 or 10/2023")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func recentCmd() *cobra.Command {
	var (
		user  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var n *int
			if cmd.Flags().Changed("limit") {
				n = &limit
			}
			expenses, err := services.ApiService.GetRecent(cmd.Context(), user, n)
			if err != nil {
				return describe(err)
			}

			common.PrintHeader(fmt.Sprintf("Recent expenses (%d)", len(expenses)), common.DefaultWidth)
			if len(expenses) == 0 {
				fmt.Println("No expenses logged yet.")
				return nil
			}
			for i, e := range expenses {
				line := fmt.Sprintf("%s  %10s  %s", common.FormatDate(e.Date), common.FormatAmount(e.Amount), e.Category)
				if e.Description != nil {
					line += " - " + common.Truncate(*e.Description, 40)
				}
				fmt.Println(common.BoxPrefix(i == len(expenses)-1) + line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "external id of the user (required)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of expenses, 1 to 50")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func reportCmd() *cobra.Command {
	var (
		user    string
		periodS string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a CSV report of a month's expenses to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := period.ParseRange(periodS, time.Now())
			if err != nil {
				return err
			}

			rows, err := services.ApiService.GetForReport(cmd.Context(), user, r.Start, r.End)
			if err != nil {
				return describe(err)
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write([]string{"Date", "Category", "Amount", "Description"}); err != nil {
				return err
			}
			for _, row := range rows {
				record := []string{common.FormatDate(row.Date), row.Category, row.Amount.StringFixed(2), row.Description}
				if err := w.Write(record); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "external id of the user (required)")
	cmd.Flags().StringVarP(&periodS, "period", "p", "this month", "this month, last month, 'October 2023', 2023-10 or 10/2023")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
