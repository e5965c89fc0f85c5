// Package nocodb exposes a NocoDB base as SQL-flavored MCP tools: DDL,
// DML, index metadata and introspection. Every tool answers with an
// [endpoints.Response]; upstream failures become error envelopes, never
// protocol errors.
package nocodb

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/mcptools/internal/endpoints"
	api "github.com/matzehuels/mcptools/pkg/integrations/nocodb"
)

const name = "nocodb"

// Endpoint serves the NocoDB tools.
type Endpoint struct {
	client *api.Client
	logger *log.Logger
}

// New creates the endpoint on top of a configured client.
func New(client *api.Client, logger *log.Logger) *Endpoint {
	return &Endpoint{client: client, logger: logger}
}

func (e *Endpoint) Name() string { return name }

func (e *Endpoint) Instructions() string {
	return "Manage a NocoDB base with SQL-style operations. Tables are addressed by title; " +
		"columns by id or title. Every tool returns {success, operation, structuredContent: {result}, message} " +
		"or {error: true, message}."
}

func (e *Endpoint) Register(srv *mcp.Server) {
	// DDL
	endpoints.AddTool(srv, name, e.logger, newTool("create_table", "CREATE TABLE: create a table with the given columns (each needs title and uidt)."), e.createTable)
	endpoints.AddTool(srv, name, e.logger, newTool("create_column", "ALTER TABLE ADD COLUMN: add a column to an existing table."), e.createColumn)
	endpoints.AddTool(srv, name, e.logger, newTool("alter_table", "ALTER TABLE: change table properties such as title or description."), e.alterTable)
	endpoints.AddTool(srv, name, e.logger, newTool("alter_column", "ALTER COLUMN: change column properties."), e.alterColumn)
	endpoints.AddTool(srv, name, e.logger, newTool("drop_table", "DROP TABLE: delete a table."), e.dropTable)
	endpoints.AddTool(srv, name, e.logger, newTool("drop_column", "DROP COLUMN: delete a column."), e.dropColumn)
	endpoints.AddTool(srv, name, e.logger, newTool("truncate_table", "TRUNCATE TABLE: remove all records, keeping the structure."), e.truncateTable)
	endpoints.AddTool(srv, name, e.logger, newTool("add_table_comment", "COMMENT ON TABLE: set a table description."), e.addTableComment)
	endpoints.AddTool(srv, name, e.logger, newTool("add_column_comment", "COMMENT ON COLUMN: set a column description."), e.addColumnComment)
	endpoints.AddTool(srv, name, e.logger, newTool("rename_table", "RENAME TABLE: change a table title."), e.renameTable)
	endpoints.AddTool(srv, name, e.logger, newTool("rename_column", "RENAME COLUMN: change a column title."), e.renameColumn)

	// DML
	endpoints.AddTool(srv, name, e.logger, newTool("retrieve_records", "SELECT: query records with optional fields, where, sort (prefix - for descending), limit and offset."), e.retrieveRecords)
	endpoints.AddTool(srv, name, e.logger, newTool("count_records", "SELECT COUNT(*): count records, optionally filtered."), e.countRecords)
	endpoints.AddTool(srv, name, e.logger, newTool("create_records", "INSERT: add one record (object) or many (array)."), e.createRecords)
	endpoints.AddTool(srv, name, e.logger, newTool("update_records", "UPDATE: modify records given as {id, data} or an array of them."), e.updateRecords)
	endpoints.AddTool(srv, name, e.logger, newTool("delete_records", "DELETE: remove records by id (string or array)."), e.deleteRecords)

	// Index metadata
	endpoints.AddTool(srv, name, e.logger, newTool("create_index", "CREATE INDEX: record an index (or unique constraint) in column metadata."), e.createIndex)
	endpoints.AddTool(srv, name, e.logger, newTool("drop_index", "DROP INDEX: remove an index from column metadata."), e.dropIndex)
	endpoints.AddTool(srv, name, e.logger, newTool("list_indexes", "List primary keys, unique constraints and indexes of a table."), e.listIndexes)

	// Introspection
	endpoints.AddTool(srv, name, e.logger, newTool("list_tables", "List the tables of a base."), e.listTables)
	endpoints.AddTool(srv, name, e.logger, newTool("get_schema", "Get the full schema of a table."), e.getSchema)
	endpoints.AddTool(srv, name, e.logger, newTool("describe_table", "DESCRIBE: summarize columns in a readable form."), e.describeTable)
	endpoints.AddTool(srv, name, e.logger, newTool("get_database_info", "Summarize a base: table count, types and names."), e.getDatabaseInfo)
	endpoints.AddTool(srv, name, e.logger, newTool("clear_table_cache", "Forget cached table ids of a base."), e.clearTableCache)
}

func newTool(name, description string) *mcp.Tool {
	return &mcp.Tool{Name: name, Description: description}
}

type result = endpoints.Response

// reply turns the outcome of an operation into the tool result. action
// completes "Failed to ..." on error.
func (e *Endpoint) reply(action string, r result, err error) (*mcp.CallToolResult, result, error) {
	if err != nil {
		r = endpoints.Failure(action, err)
		e.logger.Error(r.Message, "code", r.Code)
	}
	return nil, r, nil
}

// success is a success envelope carrying v as result.
func success(op string, v any, format string, args ...any) result {
	return endpoints.Success(op, v, fmt.Sprintf(format, args...))
}

// list wraps items the way list results are shaped: {"list": [...]}.
func list[T any](items []T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{"list": items}
}

// done is a success envelope without a result payload.
func done(op, message string) result {
	return result{Success: true, Operation: op, Message: message}
}

var _ endpoints.Endpoint = (*Endpoint)(nil)
