package main

import (
	"fmt"

	"expense-ledger-go/internal/common"

	"github.com/spf13/cobra"
)

func addUserCmd() *cobra.Command {
	var externalId string

	cmd := &cobra.Command{
		Use:   "adduser <username>",
		Short: "Register a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := services.ApiService.RegisterUser(cmd.Context(), args[0], externalId)
			if err != nil {
				return describe(err)
			}

			fmt.Printf("✓ Registered %s\n", user.Username)
			fmt.Printf("  Id:          %s\n", user.Id)
			if user.ExternalId != "" {
				fmt.Printf("  External id: %s\n", user.ExternalId)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&externalId, "external-id", "", "chat/session identifier to bind to the user")
	return cmd
}

func usersCmd() *cobra.Command {
	var externalId string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := common.LookupUsers(cmd.Context(), services.DbService, externalId)
			if err != nil {
				return describe(err)
			}

			common.PrintHeader(fmt.Sprintf("Users (%d)", len(users)), common.DefaultWidth)
			for i, u := range users {
				ext := u.ExternalId
				if ext == "" {
					ext = "-"
				}
				fmt.Printf("%s%-20s %-24s %s\n", common.BoxPrefix(i == len(users)-1), u.Username, ext, u.Id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&externalId, "external-id", "", "show only the user bound to this identifier")
	return cmd
}
