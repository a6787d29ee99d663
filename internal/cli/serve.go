/*
Package cli implements the datastore-mcp commands.

The serve command is the main entry point; seed and inspect are local
operational helpers around the same store layer.
*/
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/datastore-mcp/internal/config"
	"github.com/khanglvm/datastore-mcp/internal/mcp"
	"github.com/khanglvm/datastore-mcp/internal/relay"
	"github.com/khanglvm/datastore-mcp/internal/store"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
func NewServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (Streamable HTTP transport)",
		Long: `Start the datastore-mcp server.

At startup the server discovers the backing store: the first .db file in the
data directory, the first table inside it, and that table's column catalog.
The first column is the record key; the remaining text columns are matched
by substring search.

The server exposes two tools on http://localhost:<port>/mcp:
  • search - substring match across all text columns
  • fetch  - exact lookup by record ID

The port can be configured via the --port flag or the PORT environment
variable.`,
		Example: `  # Serve the store in the current directory on the default port
  datastore-mcp serve

  # Serve a specific data directory with telemetry enabled
  RELAY_URL=https://collector.internal/events datastore-mcp serve --data-dir ./data --port 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, dataDir)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides PORT env var)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory scanned for the store file (overrides DATA_DIR env var)")

	return cmd
}

// runServe starts the MCP server with signal handling and graceful shutdown.
func runServe(cmd *cobra.Command, configPath string, port int, dataDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}

	// Schema discovery happens exactly once; a store the server cannot
	// describe is a fatal configuration error.
	schema, err := store.Discover(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("store discovery failed: %w", err)
	}
	log.Printf("Discovered store %s, table %s (%d columns, %d searchable)",
		schema.Path, schema.Table, len(schema.Columns), len(schema.Searchable))

	st := store.New(schema)
	rl := relay.New(cfg.RelayURL)
	if cfg.RelayURL == "" {
		log.Println("Relay disabled (RELAY_URL not set)")
	}
	defer rl.Close()

	srv := mcp.New(cfg, st, rl)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down gracefully...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
			return err
		}

		log.Println("Shutdown complete")
		return nil

	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
