package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/datastore-mcp/internal/config"
	"github.com/khanglvm/datastore-mcp/internal/store"
)

// NewInspectCmd creates the 'inspect' command, which runs schema discovery
// and prints the result without serving.
func NewInspectCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the schema the server would discover",
		Long: `Run store discovery against the data directory and print the outcome:
the store file, the table, the full column list, and the searchable subset.

Exits non-zero with the same error the server would fail with at startup.`,
		Example: `  datastore-mcp inspect --data-dir ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := dataDir
			if dir == "" {
				cfg, err := config.Load("")
				if err != nil {
					return err
				}
				dir = cfg.DataDir
			}
			return runInspect(dir)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory scanned for the store file (overrides DATA_DIR env var)")

	return cmd
}

func runInspect(dir string) error {
	schema, err := store.Discover(dir)
	if err != nil {
		return fmt.Errorf("store discovery failed: %w", err)
	}

	fmt.Printf("Store:      %s\n", schema.Path)
	fmt.Printf("Table:      %s\n", schema.Table)
	fmt.Printf("Key column: %s\n", schema.KeyColumn())
	fmt.Printf("Columns:    %s\n", strings.Join(schema.Columns, ", "))
	fmt.Printf("Searchable: %s\n", strings.Join(schema.Searchable, ", "))
	return nil
}
