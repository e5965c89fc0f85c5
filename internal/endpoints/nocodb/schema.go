package nocodb

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	api "github.com/matzehuels/mcptools/pkg/integrations/nocodb"
)

type baseInput struct {
	BaseID string `json:"base_id" jsonschema:"NocoDB base id"`
}

type tableInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
}

type createTableInput struct {
	BaseID      string           `json:"base_id" jsonschema:"NocoDB base id"`
	TableName   string           `json:"table_name" jsonschema:"Title of the new table"`
	Columns     []map[string]any `json:"columns" jsonschema:"Column definitions, each with title and uidt (e.g. SingleLineText, Number, Date)"`
	Description string           `json:"description,omitempty" jsonschema:"Table description"`
}

func (e *Endpoint) createTable(ctx context.Context, _ *mcp.CallToolRequest, in createTableInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("create table", "base", in.BaseID, "table", in.TableName)
	t, err := e.client.CreateTable(ctx, in.BaseID, api.TableSpec{Title: in.TableName, Columns: in.Columns, Description: in.Description})
	return e.reply("create table", success("CREATE_TABLE", t, "Table '%s' created successfully", in.TableName), err)
}

type createColumnInput struct {
	BaseID           string         `json:"base_id" jsonschema:"NocoDB base id"`
	TableName        string         `json:"table_name" jsonschema:"Table title"`
	ColumnDefinition map[string]any `json:"column_definition" jsonschema:"Column definition with title and uidt"`
}

func (e *Endpoint) createColumn(ctx context.Context, _ *mcp.CallToolRequest, in createColumnInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("create column", "base", in.BaseID, "table", in.TableName)
	col, err := e.client.CreateColumn(ctx, in.BaseID, in.TableName, in.ColumnDefinition)
	return e.reply("add column", success("CREATE_COLUMN", col, "Column added to '%s' successfully", in.TableName), err)
}

type alterTableInput struct {
	BaseID      string         `json:"base_id" jsonschema:"NocoDB base id"`
	TableName   string         `json:"table_name" jsonschema:"Table title"`
	Alterations map[string]any `json:"alterations" jsonschema:"Table properties to change, e.g. title or description"`
}

func (e *Endpoint) alterTable(ctx context.Context, _ *mcp.CallToolRequest, in alterTableInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("alter table", "base", in.BaseID, "table", in.TableName)
	t, err := e.client.AlterTable(ctx, in.BaseID, in.TableName, in.Alterations)
	return e.reply("alter table", success("ALTER_TABLE", t, "Table '%s' altered successfully", in.TableName), err)
}

type alterColumnInput struct {
	BaseID        string         `json:"base_id" jsonschema:"NocoDB base id"`
	TableName     string         `json:"table_name" jsonschema:"Table title"`
	ColumnID      string         `json:"column_id" jsonschema:"Column id or title"`
	ColumnChanges map[string]any `json:"column_changes" jsonschema:"Column properties to change"`
}

func (e *Endpoint) alterColumn(ctx context.Context, _ *mcp.CallToolRequest, in alterColumnInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("alter column", "base", in.BaseID, "table", in.TableName, "column", in.ColumnID)
	col, err := e.client.Column(ctx, in.BaseID, in.TableName, in.ColumnID)
	if err != nil {
		return e.reply("alter column", result{}, err)
	}
	updated, err := e.client.AlterColumn(ctx, col.ID, in.ColumnChanges)
	return e.reply("alter column", success("ALTER_COLUMN", updated, "Column altered successfully"), err)
}

func (e *Endpoint) dropTable(ctx context.Context, _ *mcp.CallToolRequest, in tableInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("drop table", "base", in.BaseID, "table", in.TableName)
	err := e.client.DropTable(ctx, in.BaseID, in.TableName)
	return e.reply("drop table", done("DROP_TABLE", fmt.Sprintf("Table '%s' dropped successfully", in.TableName)), err)
}

type columnInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	ColumnID  string `json:"column_id" jsonschema:"Column id or title"`
}

func (e *Endpoint) dropColumn(ctx context.Context, _ *mcp.CallToolRequest, in columnInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("drop column", "base", in.BaseID, "table", in.TableName, "column", in.ColumnID)
	err := e.client.DropColumn(ctx, in.BaseID, in.TableName, in.ColumnID)
	return e.reply("drop column", done("DROP_COLUMN", "Column dropped successfully"), err)
}

func (e *Endpoint) truncateTable(ctx context.Context, _ *mcp.CallToolRequest, in tableInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("truncate table", "base", in.BaseID, "table", in.TableName)
	n, err := e.client.TruncateTable(ctx, in.BaseID, in.TableName)
	if n == 0 {
		return e.reply("truncate table", done("TRUNCATE_TABLE", fmt.Sprintf("Table '%s' was already empty", in.TableName)), err)
	}
	r := success("TRUNCATE_TABLE", map[string]any{"deleted_count": n}, "Table '%s' truncated - %d records removed", in.TableName, n)
	return e.reply("truncate table", r, err)
}

type tableCommentInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	Comment   string `json:"comment" jsonschema:"Table description"`
}

func (e *Endpoint) addTableComment(ctx context.Context, _ *mcp.CallToolRequest, in tableCommentInput) (*mcp.CallToolResult, result, error) {
	err := e.client.SetTableComment(ctx, in.BaseID, in.TableName, in.Comment)
	return e.reply("alter table", done("ALTER_TABLE", fmt.Sprintf("Table '%s' altered successfully", in.TableName)), err)
}

type columnCommentInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	ColumnID  string `json:"column_id" jsonschema:"Column id or title"`
	Comment   string `json:"comment" jsonschema:"Column description"`
}

func (e *Endpoint) addColumnComment(ctx context.Context, _ *mcp.CallToolRequest, in columnCommentInput) (*mcp.CallToolResult, result, error) {
	err := e.client.SetColumnComment(ctx, in.BaseID, in.TableName, in.ColumnID, in.Comment)
	return e.reply("alter column", done("ALTER_COLUMN", "Column altered successfully"), err)
}

type renameTableInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Current table title"`
	NewName   string `json:"new_name" jsonschema:"New table title"`
}

func (e *Endpoint) renameTable(ctx context.Context, _ *mcp.CallToolRequest, in renameTableInput) (*mcp.CallToolResult, result, error) {
	err := e.client.RenameTable(ctx, in.BaseID, in.TableName, in.NewName)
	return e.reply("alter table", done("ALTER_TABLE", fmt.Sprintf("Table '%s' renamed to '%s'", in.TableName, in.NewName)), err)
}

type renameColumnInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	ColumnID  string `json:"column_id" jsonschema:"Column id or current title"`
	NewName   string `json:"new_name" jsonschema:"New column title"`
}

func (e *Endpoint) renameColumn(ctx context.Context, _ *mcp.CallToolRequest, in renameColumnInput) (*mcp.CallToolResult, result, error) {
	err := e.client.RenameColumn(ctx, in.BaseID, in.TableName, in.ColumnID, in.NewName)
	return e.reply("alter column", done("ALTER_COLUMN", fmt.Sprintf("Column renamed to '%s'", in.NewName)), err)
}

type createIndexInput struct {
	BaseID    string   `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string   `json:"table_name" jsonschema:"Table title"`
	IndexName string   `json:"index_name" jsonschema:"Index name"`
	Columns   []string `json:"columns" jsonschema:"Column titles to index"`
	IndexType string   `json:"index_type,omitempty" jsonschema:"Index type, BTREE by default"`
	Unique    bool     `json:"unique,omitempty" jsonschema:"Create a unique constraint instead of an index"`
}

func (e *Endpoint) createIndex(ctx context.Context, _ *mcp.CallToolRequest, in createIndexInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("create index", "table", in.TableName, "index", in.IndexName, "columns", in.Columns)
	res, err := e.client.CreateIndex(ctx, in.BaseID, in.TableName, api.IndexSpec{
		Name:    in.IndexName,
		Columns: in.Columns,
		Type:    in.IndexType,
		Unique:  in.Unique,
	})
	if err != nil {
		return e.reply("create index", result{}, err)
	}
	return e.reply("create index", success("CREATE_INDEX", res, "Index '%s' created with %d successful operations", in.IndexName, res.Succeeded()), nil)
}

type indexInput struct {
	BaseID    string `json:"base_id" jsonschema:"NocoDB base id"`
	TableName string `json:"table_name" jsonschema:"Table title"`
	IndexName string `json:"index_name" jsonschema:"Index name"`
}

func (e *Endpoint) dropIndex(ctx context.Context, _ *mcp.CallToolRequest, in indexInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("drop index", "table", in.TableName, "index", in.IndexName)
	res, err := e.client.DropIndex(ctx, in.BaseID, in.TableName, in.IndexName)
	if err != nil {
		return e.reply("drop index", result{}, err)
	}
	return e.reply("drop index", success("DROP_INDEX", res, "Index '%s' dropped with %d successful operations", in.IndexName, res.Succeeded()), nil)
}

func (e *Endpoint) listIndexes(ctx context.Context, _ *mcp.CallToolRequest, in tableInput) (*mcp.CallToolResult, result, error) {
	idx, err := e.client.ListIndexes(ctx, in.BaseID, in.TableName)
	return e.reply("list indexes", success("LIST_INDEXES", list(idx), "Found %d indexes on '%s'", len(idx), in.TableName), err)
}

func (e *Endpoint) listTables(ctx context.Context, _ *mcp.CallToolRequest, in baseInput) (*mcp.CallToolResult, result, error) {
	e.logger.Info("list tables", "base", in.BaseID)
	tables, err := e.client.ListTables(ctx, in.BaseID)
	return e.reply("list tables", success("LIST_TABLES", list(tables), "Found %d tables in base", len(tables)), err)
}

func (e *Endpoint) getSchema(ctx context.Context, _ *mcp.CallToolRequest, in tableInput) (*mcp.CallToolResult, result, error) {
	t, err := e.client.Table(ctx, in.BaseID, in.TableName)
	return e.reply("get schema", success("GET_SCHEMA", t, "Schema retrieved for '%s'", in.TableName), err)
}

func (e *Endpoint) describeTable(ctx context.Context, _ *mcp.CallToolRequest, in tableInput) (*mcp.CallToolResult, result, error) {
	d, err := e.client.DescribeTable(ctx, in.BaseID, in.TableName)
	if err != nil {
		return e.reply("describe table", result{}, err)
	}
	return e.reply("describe table", success("DESCRIBE_TABLE", d, "Table '%s' described with %d columns", in.TableName, d.ColumnCount), nil)
}

func (e *Endpoint) getDatabaseInfo(ctx context.Context, _ *mcp.CallToolRequest, in baseInput) (*mcp.CallToolResult, result, error) {
	info, err := e.client.DatabaseInfo(ctx, in.BaseID)
	if err != nil {
		return e.reply("get database info", result{}, err)
	}
	return e.reply("get database info", success("DATABASE_INFO", info, "Database info retrieved: %d tables", info.TableCount), nil)
}

func (e *Endpoint) clearTableCache(ctx context.Context, _ *mcp.CallToolRequest, in baseInput) (*mcp.CallToolResult, result, error) {
	n, err := e.client.ClearCache(ctx, in.BaseID)
	return e.reply("clear cache", success("CLEAR_CACHE", map[string]any{"cleared": n}, "Cleared %d cached table ids", n), err)
}
