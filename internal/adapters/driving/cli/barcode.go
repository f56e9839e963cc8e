package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var barcodeCmd = &cobra.Command{
	Use:   "barcode [code]",
	Short: "Look up a food by UPC/EAN barcode",
	Long: `Looks the barcode up in the local database first, then asks Open Food
Facts, Nutritionix and FatSecret in that order until one recognises it.`,
	Args: cobra.ExactArgs(1),
	RunE: runBarcode,
}

func init() {
	barcodeCmd.Flags().Bool("json", false, "output result as JSON (default when not a terminal)")
	rootCmd.AddCommand(barcodeCmd)
}

func runBarcode(cmd *cobra.Command, args []string) error {
	foods, err := foodService(cmd)
	if err != nil {
		return err
	}

	result, err := foods.SearchByBarcode(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("barcode lookup failed: %w", err)
	}

	if wantJSON(cmd) {
		return writeResultJSON(cmd.OutOrStdout(), result)
	}
	writeResultText(cmd.OutOrStdout(), result, 0)
	return nil
}
