package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/datastore-mcp/internal/store"
)

// NewSeedCmd creates the 'seed' command for generating a synthetic store.
func NewSeedCmd() *cobra.Command {
	var (
		count  int
		narrow bool
	)

	cmd := &cobra.Command{
		Use:   "seed <path>",
		Short: "Create a synthetic datastore for local testing",
		Long: `Create a SQLite datastore at the given path, populated with synthetic
records. All generated data is made up; no real information is involved.

With --narrow, the store gets a minimal two-column table (key plus one text
column) instead of the standard demo table.`,
		Example: `  # Create a demo store with 10 records
  datastore-mcp seed ./records.db

  # Create a minimal two-column store
  datastore-mcp seed ./notes.db --narrow --count 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(args[0], count, narrow)
		},
	}

	cmd.Flags().IntVar(&count, "count", 10, "Number of records to generate")
	cmd.Flags().BoolVar(&narrow, "narrow", false, "Create a minimal two-column table")

	return cmd
}

func runSeed(path string, count int, narrow bool) error {
	if count < 1 {
		return fmt.Errorf("count must be positive: %d", count)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing file: %s", path)
	}

	var err error
	if narrow {
		err = store.SeedNarrow(path, count)
	} else {
		err = store.Seed(path, count)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Created %s with %d records\n", path, count)
	return nil
}
