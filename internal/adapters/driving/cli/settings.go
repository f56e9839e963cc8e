package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show application settings",
	Long: `Show the effective search, cache and storage settings.

Settings live in config.toml inside the configuration directory. Provider
credentials are never stored there; they are read from the environment.`,
	RunE: runSettingsShow,
}

var settingsDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Show default settings",
	RunE:  runSettingsDefaults,
}

func init() {
	settingsCmd.AddCommand(settingsDefaultsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService(cmd)
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	printSettings(cmd, settings)

	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsDefaults(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService(cmd)
	if err != nil {
		return err
	}

	defaults := svc.GetDefaults()
	cmd.Println("Default Settings")
	cmd.Println("================")
	cmd.Println()
	printSettings(cmd, &defaults)
	return nil
}

func printSettings(cmd *cobra.Command, settings *domain.AppSettings) {
	cmd.Println("[Search]")
	cmd.Printf("  Source timeout: %s\n", settings.Search.SourceTimeout)
	cmd.Printf("  Retry delay: %s\n", settings.Search.RetryDelay)
	cmd.Printf("  Max results: %d\n", settings.Search.MaxResults)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Backend: %s\n", settings.Cache.Backend)
	cmd.Printf("  Capacity: %d\n", settings.Cache.Capacity)
	cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	if settings.Cache.Backend == domain.CacheBackendRedis {
		cmd.Printf("  Redis address: %s\n", settings.Cache.RedisAddr)
		cmd.Printf("  Redis DB: %d\n", settings.Cache.RedisDB)
		if settings.Cache.RedisPassword != "" {
			cmd.Printf("  Redis password: %s\n", maskSecret(settings.Cache.RedisPassword))
		}
	}
	cmd.Println()

	cmd.Println("[Sources]")
	mode := "live providers"
	if settings.Sources.Mock {
		mode = "mock fixtures"
	}
	cmd.Printf("  Mode: %s\n", mode)
	cmd.Println()

	cmd.Println("[Storage]")
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	cmd.Printf("  Data directory: %s\n", dataDir)
	cmd.Println()
}

// maskSecret masks a secret for display, showing only the last 4 characters.
func maskSecret(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
