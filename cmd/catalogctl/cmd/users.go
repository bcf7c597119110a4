package cmd

import (
	"fmt"

	"github.com/imgcatalog/backend/internal/output"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Browse users",
}

var usersListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List users",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := apiClient.ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		if flagJSON {
			return output.JSON(cmd.OutOrStdout(), users)
		}
		output.UserTable(cmd.OutOrStdout(), users)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	rootCmd.AddCommand(usersCmd)
}
