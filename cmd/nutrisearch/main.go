// Command nutrisearch searches foods across nutrition databases.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/custodia-labs/nutrisearch/internal/adapters/driving/cli"
)

// Version information, set via ldflags during build.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(func(ctx context.Context, opts cli.Options) (*cli.Services, error) {
		return buildServices(ctx, opts, environ{getenv: os.Getenv, lookup: os.LookupEnv})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
