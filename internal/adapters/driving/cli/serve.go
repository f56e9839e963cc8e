package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nutrisearch/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/nutrisearch/internal/adapters/driving/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start a JSON HTTP API:

  GET  /api/foods/search?q=<query>
  GET  /api/foods/barcode/{code}
  POST /api/foods
  GET  /healthz

With --mcp the MCP streamable HTTP endpoint is also served at /mcp.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Bool("mcp", false, "also serve MCP at /mcp")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	withMCP, err := cmd.Flags().GetBool("mcp")
	if err != nil {
		return fmt.Errorf("getting mcp flag: %w", err)
	}

	s, err := loadServices(cmd)
	if err != nil {
		return err
	}
	if s.Foods == nil {
		return fmt.Errorf("food search service not configured")
	}

	var opts []httpapi.Option
	if withMCP {
		server, err := mcp.NewServer(&mcp.Ports{Foods: s.Foods, Settings: s.Settings})
		if err != nil {
			return err
		}
		opts = append(opts, httpapi.WithMCPHandler(server.Handler()))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "HTTP API listening on %s\n", addr)
	return httpapi.NewServer(s.Foods, opts...).Run(ctx, addr)
}
