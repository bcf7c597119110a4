package cmd

import (
	"fmt"
	"strings"

	"github.com/imgcatalog/backend/internal/output"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category", "cat"},
	Short:   "Manage categories",
}

var categoriesListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List categories",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := apiClient.ListCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}

		if flagJSON {
			return output.JSON(cmd.OutOrStdout(), categories)
		}
		output.CategoryTable(cmd.OutOrStdout(), categories)
		return nil
	},
}

var categoriesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a category and its products",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		category, err := apiClient.GetCategory(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("loading category %d: %w", id, err)
		}

		if flagJSON {
			return output.JSON(cmd.OutOrStdout(), category)
		}
		output.CategoryDetail(cmd.OutOrStdout(), *category)
		return nil
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := apiClient.CreateCategory(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("creating category: %w", err)
		}

		if flagJSON {
			return output.JSON(cmd.OutOrStdout(), category)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created category %d: %s\n", category.ID, category.Title)
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a category and all of its products",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		if err := apiClient.DeleteCategory(cmd.Context(), id); err != nil {
			return fmt.Errorf("deleting category %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %d\n", id)
		return nil
	},
}

func init() {
	categoriesCmd.AddCommand(categoriesListCmd, categoriesGetCmd, categoriesCreateCmd, categoriesDeleteCmd)
	rootCmd.AddCommand(categoriesCmd)
}
