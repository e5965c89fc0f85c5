package nocodb

import (
	"context"
	"net/http"
	"strings"

	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/integrations"
)

// TableSpec describes a table to create. Columns are passed to NocoDB as
// given; each needs at least "title" and "uidt".
type TableSpec struct {
	Title       string
	Columns     []map[string]any
	Description string
}

// CreateTable creates a table in a base.
func (c *Client) CreateTable(ctx context.Context, baseID string, spec TableSpec) (*Table, error) {
	if baseID == "" || spec.Title == "" || len(spec.Columns) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "Base ID, table name, and columns are required")
	}
	if err := errors.ValidateTableName(spec.Title); err != nil {
		return nil, err
	}
	for _, col := range spec.Columns {
		if err := validateColumn(col); err != nil {
			return nil, err
		}
	}

	body := map[string]any{
		"title":      spec.Title,
		"table_name": physicalName(spec.Title),
		"columns":    spec.Columns,
	}
	if spec.Description != "" {
		body["description"] = spec.Description
	}

	var t Table
	req := integrations.Request{Method: http.MethodPost, URL: c.metaURL("bases", baseID, "tables"), Body: body}
	if _, err := c.call(ctx, "CREATE_TABLE", req, &t); err != nil {
		return nil, err
	}
	c.clearCache(ctx, baseID)
	c.logger.Info("created table", "base", baseID, "table", spec.Title, "id", t.ID)
	return &t, nil
}

// CreateColumn adds a column to a table.
func (c *Client) CreateColumn(ctx context.Context, baseID, table string, column map[string]any) (map[string]any, error) {
	if err := validateColumn(column); err != nil {
		return nil, err
	}
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	req := integrations.Request{Method: http.MethodPost, URL: c.metaURL("tables", id, "columns"), Body: column}
	if _, err := c.call(ctx, "CREATE_COLUMN", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AlterTable patches table properties such as title or description.
func (c *Client) AlterTable(ctx context.Context, baseID, table string, updates map[string]any) (map[string]any, error) {
	if len(updates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no table updates given")
	}
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	req := integrations.Request{Method: http.MethodPatch, URL: c.metaURL("tables", id), Body: updates}
	if _, err := c.call(ctx, "ALTER_TABLE", req, &out); err != nil {
		return nil, err
	}
	c.clearCache(ctx, baseID)
	return out, nil
}

// AlterColumn patches a column by id.
func (c *Client) AlterColumn(ctx context.Context, columnID string, updates map[string]any) (map[string]any, error) {
	if err := errors.ValidateIdentifier("column ID", columnID); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no column updates given")
	}
	if uidt, ok := updates["uidt"].(string); ok {
		if err := errors.ValidateColumnType(uidt); err != nil {
			return nil, err
		}
	}
	var out map[string]any
	req := integrations.Request{Method: http.MethodPatch, URL: c.metaURL("columns", columnID), Body: updates}
	if _, err := c.call(ctx, "ALTER_COLUMN", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DropTable deletes a table and everything in it.
func (c *Client) DropTable(ctx context.Context, baseID, table string) error {
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return err
	}
	req := integrations.Request{Method: http.MethodDelete, URL: c.metaURL("tables", id)}
	if _, err := c.call(ctx, "DROP_TABLE", req, nil); err != nil {
		return err
	}
	c.clearCache(ctx, baseID)
	c.logger.Info("dropped table", "base", baseID, "table", table)
	return nil
}

// DropColumn deletes a column given by id or title.
func (c *Client) DropColumn(ctx context.Context, baseID, table, column string) error {
	col, err := c.Column(ctx, baseID, table, column)
	if err != nil {
		return err
	}
	req := integrations.Request{Method: http.MethodDelete, URL: c.metaURL("columns", col.ID)}
	_, err = c.call(ctx, "DROP_COLUMN", req, nil)
	return err
}

// RenameTable changes a table's title.
func (c *Client) RenameTable(ctx context.Context, baseID, table, newName string) error {
	if err := errors.ValidateTableName(newName); err != nil {
		return err
	}
	_, err := c.AlterTable(ctx, baseID, table, map[string]any{"title": newName})
	return err
}

// RenameColumn changes a column's title.
func (c *Client) RenameColumn(ctx context.Context, baseID, table, column, newName string) error {
	if err := requireName("column name", newName); err != nil {
		return err
	}
	col, err := c.Column(ctx, baseID, table, column)
	if err != nil {
		return err
	}
	_, err = c.AlterColumn(ctx, col.ID, map[string]any{"title": newName})
	return err
}

// SetTableComment sets a table's description.
func (c *Client) SetTableComment(ctx context.Context, baseID, table, comment string) error {
	_, err := c.AlterTable(ctx, baseID, table, map[string]any{"description": comment})
	return err
}

// SetColumnComment stores comment as meta.description of a column, keeping
// the rest of its metadata.
func (c *Client) SetColumnComment(ctx context.Context, baseID, table, column, comment string) error {
	col, err := c.Column(ctx, baseID, table, column)
	if err != nil {
		return err
	}
	meta := col.Meta.Clone()
	meta["description"] = comment
	_, err = c.AlterColumn(ctx, col.ID, map[string]any{"meta": meta})
	return err
}

// Table fetches a table with its columns.
func (c *Client) Table(ctx context.Context, baseID, table string) (*Table, error) {
	id, err := c.TableID(ctx, baseID, table)
	if err != nil {
		return nil, err
	}
	var t Table
	req := integrations.Request{Method: http.MethodGet, URL: c.metaURL("tables", id)}
	if _, err := c.call(ctx, "GET_SCHEMA", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Column looks up a column by id or title.
func (c *Client) Column(ctx context.Context, baseID, table, column string) (Column, error) {
	if err := requireName("column name", column); err != nil {
		return Column{}, err
	}
	t, err := c.Table(ctx, baseID, table)
	if err != nil {
		return Column{}, err
	}
	col, ok := findColumn(t.Columns, column)
	if !ok {
		titles := make([]string, len(t.Columns))
		for i, tc := range t.Columns {
			titles[i] = tc.Title
		}
		return Column{}, notFound(errors.ErrCodeColumnNotFound,
			"Column '"+column+"' not found in table '"+table+"'", column, titles)
	}
	return col, nil
}

// DescribeTable returns a column listing in the shape of SQL DESCRIBE.
func (c *Client) DescribeTable(ctx context.Context, baseID, table string) (*TableDescription, error) {
	t, err := c.Table(ctx, baseID, table)
	if err != nil {
		return nil, err
	}
	d := &TableDescription{
		TableName:   table,
		TableTitle:  t.Title,
		Description: t.Description,
		ColumnCount: len(t.Columns),
		Columns:     make([]ColumnDescription, 0, len(t.Columns)),
	}
	for _, col := range t.Columns {
		d.Columns = append(d.Columns, ColumnDescription{
			ColumnName:    col.Title,
			DataType:      col.UIDT,
			Nullable:      !bool(col.RQD),
			PrimaryKey:    bool(col.PK),
			AutoIncrement: bool(col.AI),
			DefaultValue:  col.CDF,
			Comment:       col.Meta.String("description"),
		})
	}
	return d, nil
}

// DatabaseInfo summarizes the tables of a base.
func (c *Client) DatabaseInfo(ctx context.Context, baseID string) (*DatabaseInfo, error) {
	tables, err := c.ListTables(ctx, baseID)
	if err != nil {
		return nil, err
	}
	info := &DatabaseInfo{
		BaseID:     baseID,
		TableCount: len(tables),
		TableTypes: map[string]int{},
		Tables:     make([]TableSummary, 0, len(tables)),
	}
	for _, t := range tables {
		typ := t.Type
		if typ == "" {
			typ = "table"
		}
		info.TableTypes[typ]++
		info.Tables = append(info.Tables, TableSummary{Name: t.Title, ID: t.ID, Type: typ})
	}
	return info, nil
}

func requireName(what, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s cannot be empty", what)
	}
	return nil
}

func validateColumn(col map[string]any) error {
	title, _ := col["title"].(string)
	if strings.TrimSpace(title) == "" {
		return errors.New(errors.ErrCodeInvalidSchema, "every column needs a title")
	}
	if uidt, ok := col["uidt"].(string); ok {
		return errors.ValidateColumnType(uidt)
	}
	return errors.New(errors.ErrCodeInvalidSchema, "column %q needs a uidt", title)
}

// physicalName derives the database table name NocoDB stores next to the
// display title.
func physicalName(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}
