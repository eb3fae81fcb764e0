package main

import (
	"fmt"

	"expense-ledger-go/internal/feedback"

	"github.com/spf13/cobra"
)

func feedbackCmd() *cobra.Command {
	var (
		user       string
		text       string
		predicted  string
		confidence float64
		chosen     string
	)

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record the outcome of a category suggestion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := feedback.RecordParams{
				ExternalUserId: user,
				OriginalText:   text,
				ChosenCategory: chosen,
			}
			if cmd.Flags().Changed("predicted") {
				params.PredictedCategory = &predicted
			}
			if cmd.Flags().Changed("confidence") {
				params.Confidence = &confidence
			}

			result, err := services.ApiService.RecordFeedback(cmd.Context(), params)
			if err != nil {
				return describe(err)
			}
			if result.Dropped() {
				fmt.Println("~ Feedback dropped: user is not registered")
				return nil
			}
			fmt.Printf("✓ Feedback recorded (%s)\n", result.Id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "external id of the user (required)")
	cmd.Flags().StringVar(&text, "text", "", "text shown to the classifier")
	cmd.Flags().StringVar(&predicted, "predicted", "", "category the classifier suggested")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "classifier confidence")
	cmd.Flags().StringVar(&chosen, "chosen", "", "category the user chose (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("chosen")
	return cmd
}
