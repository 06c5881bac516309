// Command proposalctl runs the proposal pipeline steps against local files.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/logging"
	"github.com/david/proposal-vault/internal/models"
)

type cli struct {
	verbose     bool
	jsonOutput  bool
	catalogPath string

	logger  *zap.Logger
	catalog *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "proposalctl",
		Short:         "Extract RFP requirements, scan templates and fill KIF proposals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if c.logger, err = logging.New(c.logLevel()); err != nil {
				return err
			}
			if c.catalog, err = catalog.Load(c.catalogPath); err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "print JSON instead of tables")
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "section catalog YAML (embedded catalog when empty)")

	root.AddCommand(
		c.extractCmd(),
		c.scanCmd(),
		c.validateCmd(),
		c.fillCmd(),
		c.compareCmd(),
	)
	return root
}

func (c *cli) logLevel() string {
	if c.verbose {
		return "debug"
	}
	return "warn"
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (c *cli) newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readStored loads section -> version -> fields from a JSON file.
func readStored(path string) (models.StoredData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	stored := models.StoredData{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return stored, nil
}
