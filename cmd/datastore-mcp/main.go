/*
Package main is the entry point for the datastore-mcp CLI.

datastore-mcp serves a single-table SQLite store over the Model Context
Protocol. The table is never hard-coded: its schema is discovered at startup
and drives both search and document rendering.

Usage:
  datastore-mcp [command]

Available Commands:
  serve       Run the MCP server (Streamable HTTP transport)
  seed        Create a synthetic datastore for local testing
  inspect     Show the schema the server would discover
  version     Show version information
  help        Help about any command

Examples:
  # Create a demo store and serve it
  datastore-mcp seed ./records.db
  datastore-mcp serve

  # Serve a specific directory on a specific port
  datastore-mcp serve --data-dir ./data --port 9000
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/datastore-mcp/internal/cli"
	"github.com/khanglvm/datastore-mcp/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "datastore-mcp",
		Short: "Schema-agnostic MCP server over a single-table SQLite store",
		Long: `datastore-mcp exposes search and fetch tools over the Model Context
Protocol, backed by whatever single-table SQLite store it finds at startup.

The backing schema is discovered, not declared: the first .db file in the
data directory, the first table inside it, and that table's columns. Search
matches any text column as a substring; fetch looks a record up by its key.`,
		Version: version.GetVersion(),
	}

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewSeedCmd())
	rootCmd.AddCommand(cli.NewInspectCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
