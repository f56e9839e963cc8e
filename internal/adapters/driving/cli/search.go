package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search foods by name",
	Long: `Searches the local database and every configured provider concurrently.
Results are ranked by source (USDA, FatSecret, Nutritionix, Open Food Facts,
local database), duplicates are collapsed, and new foods are saved locally.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of foods to print (0 = all)")
	searchCmd.Flags().Bool("json", false, "output results as JSON (default when not a terminal)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	foods, err := foodService(cmd)
	if err != nil {
		return err
	}

	result, err := foods.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if wantJSON(cmd) {
		if searchLimit > 0 && len(result.Foods) > searchLimit {
			result.Foods = result.Foods[:searchLimit]
		}
		return writeResultJSON(cmd.OutOrStdout(), result)
	}
	writeResultText(cmd.OutOrStdout(), result, searchLimit)
	return nil
}
