package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/nutrisearch/internal/connectors/mock"
	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	coresvc "github.com/custodia-labs/nutrisearch/internal/core/services"
)

// setupTestServices wires the commands to mock sources and in-memory storage.
func setupTestServices(t *testing.T) *Services {
	t.Helper()
	foods := coresvc.NewFoodSearchService(memory.NewFoodStore(), lru.NewResultCache(100, time.Hour),
		mock.Fixtures(), domain.SearchSettings{SourceTimeout: time.Second, RetryDelay: time.Millisecond})
	configStore, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	settings := coresvc.NewSettingsService(configStore).WithEnv(func(string) (string, bool) { return "", false })

	s := &Services{Foods: foods, Settings: settings}
	SetServices(s)
	t.Cleanup(func() {
		SetServices(nil)
		SetBootstrap(nil)
	})
	return s
}

// execute runs the root command with args and returns its output. Flags
// are reset first so values do not leak between tests.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
