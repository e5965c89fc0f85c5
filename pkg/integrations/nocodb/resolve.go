package nocodb

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/integrations"
)

// Suggestion tuning for unknown table and column names.
const (
	maxSuggestions = 3
	minSimilarity  = 0.6
)

// ListTables returns every table of a base.
func (c *Client) ListTables(ctx context.Context, baseID string) ([]Table, error) {
	if err := errors.ValidateIdentifier("base ID", baseID); err != nil {
		return nil, err
	}
	var resp struct {
		List []Table `json:"list"`
	}
	req := integrations.Request{Method: http.MethodGet, URL: c.metaURL("bases", baseID, "tables")}
	if _, err := c.call(ctx, "LIST_TABLES", req, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

// TableID resolves a table title to its id. The exact title wins over a
// case-insensitive match. Resolved ids are cached.
func (c *Client) TableID(ctx context.Context, baseID, name string) (string, error) {
	if err := errors.ValidateIdentifier("base ID", baseID); err != nil {
		return "", err
	}
	if err := errors.ValidateTableName(name); err != nil {
		return "", err
	}

	var id string
	err := c.Cached(ctx, c.keyer.TableKey(baseID, name), false, &id, func() error {
		tables, err := c.ListTables(ctx, baseID)
		if err != nil {
			return err
		}
		t, ok := findTable(tables, name)
		if !ok {
			return notFound(errors.ErrCodeTableNotFound,
				"Table '"+name+"' not found in base '"+baseID+"'", name, tableTitles(tables))
		}
		id = t.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	c.logger.Debug("resolved table", "base", baseID, "table", name, "id", id)
	return id, nil
}

// ClearCache drops every cached table id of a base and returns how many
// entries were removed.
func (c *Client) ClearCache(ctx context.Context, baseID string) (int, error) {
	return c.Invalidate(ctx, c.keyer.TablePrefix(baseID))
}

// clearCache is ClearCache for callers that already succeeded and only
// want the failure logged.
func (c *Client) clearCache(ctx context.Context, baseID string) {
	if _, err := c.ClearCache(ctx, baseID); err != nil {
		c.logger.Warn("failed to clear table cache", "base", baseID, "error", err)
	}
}

func findTable(tables []Table, name string) (Table, bool) {
	for _, t := range tables {
		if t.Title == name {
			return t, true
		}
	}
	for _, t := range tables {
		if strings.EqualFold(t.Title, name) {
			return t, true
		}
	}
	return Table{}, false
}

// findColumn matches a column id, then the exact title, then the title
// ignoring case.
func findColumn(cols []Column, name string) (Column, bool) {
	for _, col := range cols {
		if col.ID == name {
			return col, true
		}
	}
	for _, col := range cols {
		if col.Title == name {
			return col, true
		}
	}
	for _, col := range cols {
		if strings.EqualFold(col.Title, name) {
			return col, true
		}
	}
	return Column{}, false
}

func tableTitles(tables []Table) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.Title
	}
	return out
}

func notFound(code errors.Code, msg, name string, candidates []string) error {
	if s := closeMatches(name, candidates, maxSuggestions, minSimilarity); len(s) > 0 {
		msg += ". Did you mean: " + strings.Join(s, ", ") + "?"
	}
	return errors.New(code, "%s", msg)
}

// closeMatches returns up to n candidates whose similarity to word is at
// least cutoff, best first.
func closeMatches(word string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		s     string
		ratio float64
	}
	var hits []scored
	for _, c := range candidates {
		if r := similarity(word, c); r >= cutoff {
			hits = append(hits, scored{c, r})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ratio > hits[j].ratio })
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.s
	}
	return out
}

// similarity is the Ratcliff/Obershelp ratio of the two strings, compared
// character by character.
func similarity(word, candidate string) float64 {
	m := difflib.NewMatcher(strings.Split(candidate, ""), strings.Split(word, ""))
	return m.Ratio()
}
