package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/imgcatalog/backend/internal/output"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an image to the remote store",
	Long: `Upload a local image and print its public URL.

Accepted types are .jpg, .jpeg, .png, .gif and .webp up to 5 MiB.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := apiClient.UploadFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("uploading %s: %w", filepath.Base(args[0]), err)
		}

		if flagJSON {
			return output.JSON(cmd.OutOrStdout(), result)
		}
		output.UploadDetail(cmd.OutOrStdout(), *result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
