// Package nocodb is a client for the NocoDB REST APIs: v2 meta endpoints for
// schema (tables, columns) and v3 data endpoints for records.
//
// Tables are addressed by base id and display title. [Client.TableID]
// resolves a title to the table id, trying an exact match, then a
// case-insensitive one, and caches the result under
// "nocodb:table:{base}:{title}". Operations that change the schema drop
// every cached id of the base.
//
//	c, err := nocodb.NewClient(nocodb.Config{URL: url, Token: token}, store, logger)
//	recs, _, err := c.RetrieveRecords(ctx, "p_base", "Customers", nocodb.Query{Limit: 10})
//
// Failures are returned as [errors.Error] values with NocoDB-specific codes
// (TABLE_NOT_FOUND, BASE_NOT_FOUND, UNAUTHORIZED, ...).
//
// Indexes are not a NocoDB concept; [Client.CreateIndex] records them in
// column metadata (meta.indexed, meta.unique, meta.index_name).
//
// [errors.Error]: github.com/matzehuels/mcptools/pkg/errors.Error
package nocodb
