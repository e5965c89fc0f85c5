package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mcptools/internal/config"
	"github.com/matzehuels/mcptools/pkg/errors"
	noco "github.com/matzehuels/mcptools/pkg/integrations/nocodb"
)

// nocodbCommand groups read-only helpers for checking a NocoDB connection
// before pointing an MCP client at it.
func (c *CLI) nocodbCommand() *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "nocodb",
		Short: "Inspect a NocoDB base",
		Long: `Inspect a NocoDB base with the same client the nocodb endpoint uses.

The instance is taken from the config file or NOCODB_URL and NOCODB_API_TOKEN.
The base defaults to NOCODB_BASE_ID.`,
	}
	cmd.PersistentFlags().StringVarP(&base, "base", "b", os.Getenv("NOCODB_BASE_ID"), "base id")

	cmd.AddCommand(c.nocodbTablesCommand(&base))
	cmd.AddCommand(c.nocodbDescribeCommand(&base))
	cmd.AddCommand(c.nocodbClearCacheCommand(&base))
	return cmd
}

// nocodbClient opens a client against the configured instance, sharing the
// configured cache so clear-cache reaches the server's entries.
func (c *CLI) nocodbClient(cmd *cobra.Command) (*noco.Client, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.NocoDBEnabled() {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "NocoDB is not configured: set NOCODB_URL and NOCODB_API_TOKEN")
	}
	store, err := c.openCache(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := c.newNocoDBClient(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return client, func() { _ = store.Close() }, nil
}

func requireBase(base string) error {
	if base == "" {
		return errors.New(errors.ErrCodeInvalidInput, "base id is required: pass --base or set NOCODB_BASE_ID")
	}
	return nil
}

func (c *CLI) nocodbTablesCommand(base *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of a base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireBase(*base); err != nil {
				return err
			}
			client, done, err := c.nocodbClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			spinner := newSpinner(cmd.Context(), "Listing tables...")
			spinner.Start()
			tables, err := client.ListTables(cmd.Context(), *base)
			if err != nil {
				spinner.StopWithError("Could not list tables")
				return err
			}
			spinner.Stop()

			rows := make([][]string, len(tables))
			for i, t := range tables {
				rows[i] = []string{t.Title, t.ID, t.Type}
			}
			fmt.Fprintln(stdout, simpleTable([]string{"Title", "ID", "Type"}, rows))
			printDetail("%d tables in %s", len(tables), *base)
			return nil
		},
	}
}

func (c *CLI) nocodbDescribeCommand(base *string) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBase(*base); err != nil {
				return err
			}
			client, done, err := c.nocodbClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			desc, err := client.DescribeTable(cmd.Context(), *base, args[0])
			if err != nil {
				return err
			}
			printKeyValue("Table", desc.TableTitle)
			printKeyValue("Name", desc.TableName)
			if desc.Description != "" {
				printKeyValue("Description", desc.Description)
			}
			fmt.Fprintln(stdout, describeTable(desc))
			return nil
		},
	}
}

func (c *CLI) nocodbClearCacheCommand(base *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Forget the cached table ids of a base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireBase(*base); err != nil {
				return err
			}
			client, done, err := c.nocodbClient(cmd)
			if err != nil {
				return err
			}
			defer done()

			n, err := client.ClearCache(cmd.Context(), *base)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached table ids for %s", n, *base)
			return nil
		},
	}
}

func describeTable(d *noco.TableDescription) string {
	rows := make([][]string, len(d.Columns))
	for i, col := range d.Columns {
		def := ""
		if col.DefaultValue != nil {
			def = fmt.Sprint(col.DefaultValue)
		}
		rows[i] = []string{col.ColumnName, col.DataType, yesNo(col.Nullable), yesNo(col.PrimaryKey), def, col.Comment}
	}
	return simpleTable([]string{"Column", "Type", "Null", "Key", "Default", "Comment"}, rows)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// simpleTable renders rows under headers with the CLI's border style.
func simpleTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// presetsCommand lists the color presets, including those from the config
// file.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the color presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, presetsTable(cfg))
			return nil
		},
	}
}

func presetsTable(cfg config.Config) string {
	cat, err := cfg.Drawings.Catalog()
	if err != nil {
		return err.Error()
	}
	def := cfg.Drawings.DefaultPreset
	if def == "" {
		def = "professional"
	}
	var rows [][]string
	for _, name := range cat.Names() {
		th, _ := cat.Lookup(name)
		mark := ""
		if name == def {
			mark = "default"
		}
		rows = append(rows, []string{name, th.Extends, strconv.FormatBool(th.Gradients()), mark})
	}
	return simpleTable([]string{"Preset", "Extends", "Gradients", ""}, rows)
}
