package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/term"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mcptools/internal/config"
	"github.com/matzehuels/mcptools/internal/endpoints"
	"github.com/matzehuels/mcptools/pkg/buildinfo"
	"github.com/matzehuels/mcptools/pkg/cache"
)

// listingNocoDB lets the tools command show the nocodb tools without
// credentials. No request is ever sent while listing.
var listingNocoDB = config.NocoDB{URL: "http://localhost:8080", Token: "listing"}

// ToolInfo describes one tool as a client sees it.
type ToolInfo struct {
	Endpoint    string
	Name        string
	Description string
	Params      []ToolParam
}

// ToolParam is one input property of a tool.
type ToolParam struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

func (c *CLI) toolsCommand() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "tools [endpoint]",
		Short: "Browse the tools each endpoint exposes",
		Long: `Browse the tools each endpoint exposes.

Tools are listed the way an MCP client sees them. The browser is interactive
on a terminal; use --plain (or pipe the output) for a table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Server.Endpoints = []string{args[0]}
			}
			if !cfg.NocoDBEnabled() {
				cfg.NocoDB.URL, cfg.NocoDB.Token = listingNocoDB.URL, listingNocoDB.Token
			}

			eps, err := c.buildEndpoints(cfg, cache.NewNullCache())
			if err != nil {
				return err
			}
			if len(eps) == 0 {
				return fmt.Errorf("unknown endpoint %q", args[0])
			}
			tools, err := listTools(cmd.Context(), eps)
			if err != nil {
				return err
			}

			if plain || !term.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(stdout, toolsTable(tools))
				return nil
			}
			_, err = tea.NewProgram(newToolListModel(tools), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive browser")
	return cmd
}

// listTools connects an in-memory client to each endpoint and lists its
// tools, sorted by endpoint then name.
func listTools(ctx context.Context, eps []endpoints.Endpoint) ([]ToolInfo, error) {
	var out []ToolInfo
	for _, ep := range eps {
		tools, err := endpointTools(ctx, ep)
		if err != nil {
			return nil, fmt.Errorf("list %s tools: %w", ep.Name(), err)
		}
		out = append(out, tools...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Endpoint != out[j].Endpoint {
			return out[i].Endpoint < out[j].Endpoint
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func endpointTools(ctx context.Context, ep endpoints.Endpoint) ([]ToolInfo, error) {
	srv := mcp.NewServer(&mcp.Implementation{Name: appName, Version: buildinfo.Version}, &mcp.ServerOptions{
		Instructions: ep.Instructions(),
	})
	ep.Register(srv)
	client := mcp.NewClient(&mcp.Implementation{Name: appName + "-tools", Version: buildinfo.Version}, nil)

	t1, t2 := mcp.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, t1, nil)
	if err != nil {
		return nil, err
	}
	defer ss.Close()
	cs, err := client.Connect(ctx, t2, nil)
	if err != nil {
		return nil, err
	}
	defer cs.Close()

	list, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, err
	}
	infos := make([]ToolInfo, 0, len(list.Tools))
	for _, t := range list.Tools {
		infos = append(infos, ToolInfo{
			Endpoint:    ep.Name(),
			Name:        t.Name,
			Description: t.Description,
			Params:      schemaParams(t.InputSchema),
		})
	}
	return infos, nil
}

// schemaParams flattens the top-level properties of a JSON schema, required
// ones first.
func schemaParams(schema any) []ToolParam {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var s struct {
		Properties map[string]struct {
			Type        any    `json:"type"`
			Types       []any  `json:"types"`
			Description string `json:"description"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	if json.Unmarshal(data, &s) != nil {
		return nil
	}
	required := map[string]bool{}
	for _, r := range s.Required {
		required[r] = true
	}

	params := make([]ToolParam, 0, len(s.Properties))
	for name, p := range s.Properties {
		typ := typeName(p.Type)
		if typ == "" && len(p.Types) > 0 {
			typ = typeName(p.Types)
		}
		params = append(params, ToolParam{Name: name, Type: typ, Description: p.Description, Required: required[name]})
	}
	sort.Slice(params, func(i, j int) bool {
		if params[i].Required != params[j].Required {
			return params[i].Required
		}
		return params[i].Name < params[j].Name
	})
	return params
}

func typeName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		names := make([]string, 0, len(t))
		for _, x := range t {
			if s, ok := x.(string); ok && s != "null" {
				names = append(names, s)
			}
		}
		return strings.Join(names, "|")
	default:
		return ""
	}
}

// toolsTable renders tools as a static table.
func toolsTable(tools []ToolInfo) string {
	rows := make([][]string, len(tools))
	for i, t := range tools {
		rows[i] = []string{t.Endpoint, t.Name, fmt.Sprint(len(t.Params)), firstLine(t.Description, 60)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Endpoint", "Tool", "Params", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// firstLine returns the first line of s cut to max runes.
func firstLine(s string, max int) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
