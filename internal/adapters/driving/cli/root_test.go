package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nutrisearch/internal/logger"
)

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config", "mock"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_BootstrapReceivesFlags(t *testing.T) {
	ready := setupTestServices(t)
	SetServices(nil)

	var got Options
	closed := false
	SetBootstrap(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{
			Foods:    ready.Foods,
			Settings: ready.Settings,
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	})

	_, err := execute(t, "--mock", "--config", "/tmp/ns", "search", "--json", "apple")

	require.NoError(t, err)
	assert.True(t, got.Mock)
	assert.Equal(t, "/tmp/ns", got.ConfigDir)
	assert.True(t, closed)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	SetServices(nil)
	SetBootstrap(func(context.Context, Options) (*Services, error) {
		return nil, errors.New("no database")
	})
	t.Cleanup(func() { SetBootstrap(nil) })

	_, err := execute(t, "barcode", "123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	setupTestServices(t)
	defer logger.SetVerbose(false)

	_, err := execute(t, "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}
