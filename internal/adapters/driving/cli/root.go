// Package cli implements the nutrisearch command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nutrisearch/internal/core/ports/driving"
	"github.com/custodia-labs/nutrisearch/internal/logger"
)

// version is set by SetVersion from the build.
var version = "dev"

// Options carries the global flags to the composition root.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// Mock serves deterministic fixtures instead of calling providers.
	Mock bool
}

// Services are the driving ports the commands use.
type Services struct {
	Foods    driving.FoodSearchService
	Settings driving.SettingsService

	// Close releases storage and cache connections. Optional.
	Close func() error
}

// Bootstrap builds Services from the global flags.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	services  *Services

	verbose   bool
	configDir string
	mockMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "nutrisearch",
	Short: "Search foods across nutrition databases",
	Long: `nutrisearch looks foods up by name or barcode across USDA FoodData
Central, FatSecret, Nutritionix, Open Food Facts and a local database,
merging the answers into one ranked list.

Provider credentials are read from the environment:
  USDA_API_KEY
  FATSECRET_CLIENT_ID, FATSECRET_CLIENT_SECRET
  NUTRITIONIX_APP_ID, NUTRITIONIX_APP_KEY

Sources without credentials are skipped.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.nutrisearch)")
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "use built-in mock sources instead of live providers")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the composition root used to build services on
// first use.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects ready-made services, bypassing the bootstrap.
func SetServices(s *Services) {
	services = s
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadServices returns the injected services, bootstrapping them if needed.
func loadServices(cmd *cobra.Command) (*Services, error) {
	if services != nil {
		return services, nil
	}
	if bootstrap == nil {
		return nil, errors.New("services not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := bootstrap(ctx, Options{ConfigDir: configDir, Mock: mockMode})
	if err != nil {
		return nil, fmt.Errorf("initialising: %w", err)
	}
	services = s
	return services, nil
}

func foodService(cmd *cobra.Command) (driving.FoodSearchService, error) {
	s, err := loadServices(cmd)
	if err != nil {
		return nil, err
	}
	if s.Foods == nil {
		return nil, errors.New("food search service not configured")
	}
	return s.Foods, nil
}

func settingsService(cmd *cobra.Command) (driving.SettingsService, error) {
	s, err := loadServices(cmd)
	if err != nil {
		return nil, err
	}
	if s.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return s.Settings, nil
}

func closeServices() error {
	if services == nil || services.Close == nil {
		return nil
	}
	err := services.Close()
	services.Close = nil
	return err
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && termIsTerminal(int(f.Fd()))
}
