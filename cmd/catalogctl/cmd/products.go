package cmd

import (
	"fmt"

	"github.com/imgcatalog/backend/internal/models"
	"github.com/imgcatalog/backend/internal/output"
	"github.com/spf13/cobra"
)

var flagCategory uint

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Browse products",
}

var productsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List products, optionally within one category",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			products []models.Product
			err      error
		)
		if flagCategory != 0 {
			products, err = apiClient.ListProductsByCategory(cmd.Context(), flagCategory)
		} else {
			products, err = apiClient.ListProducts(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("listing products: %w", err)
		}

		if flagJSON {
			return output.JSON(cmd.OutOrStdout(), products)
		}
		output.ProductTable(cmd.OutOrStdout(), products)
		return nil
	},
}

func init() {
	productsListCmd.Flags().UintVar(&flagCategory, "category", 0, "Only list products in this category ID")
	productsCmd.AddCommand(productsListCmd)
	rootCmd.AddCommand(productsCmd)
}
